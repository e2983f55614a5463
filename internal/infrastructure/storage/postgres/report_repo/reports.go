// Package report_repo provides PostgreSQL read-side queries for reports.
// All queries aggregate doc_deliveries; none of them write.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sklad/internal/core/id"
	"sklad/internal/domain/reports"
	"sklad/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txManager *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// applyFilter adds the window and dimension predicates shared by all
// reports. Columns are qualified with the deliveries alias "dlv".
func applyFilter(q squirrel.SelectBuilder, filter reports.Filter) squirrel.SelectBuilder {
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"dlv.created_at": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.Lt{"dlv.created_at": *filter.ToDate})
	}
	if filter.DistrictID != nil {
		q = q.Where(squirrel.Eq{"dlv.district_id": *filter.DistrictID})
	}
	if filter.ShopID != nil {
		q = q.Where(squirrel.Eq{"dlv.shop_id": *filter.ShopID})
	}
	return q
}

// Summary returns overall totals for the window.
func (r *ReportRepo) Summary(ctx context.Context, filter reports.Filter) (reports.Summary, error) {
	q := r.builder.
		Select(
			"COUNT(*) AS count",
			"COALESCE(SUM(dlv.qty_kg), 0)::bigint AS sum_qty",
			"COALESCE(SUM(dlv.total), 0) AS sum_total",
		).
		From("doc_deliveries dlv")
	q = applyFilter(q, filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return reports.Summary{}, fmt.Errorf("build query: %w", err)
	}

	var summary reports.Summary
	if err := pgxscan.Get(ctx, r.txManager.GetQuerier(ctx), &summary, sql, args...); err != nil {
		return reports.Summary{}, fmt.Errorf("report summary: %w", err)
	}

	return summary, nil
}

// DeliveriesByShop groups deliveries per shop, largest turnover first.
func (r *ReportRepo) DeliveriesByShop(ctx context.Context, filter reports.Filter) ([]reports.ShopGroupRow, error) {
	q := r.builder.
		Select(
			"s.id AS shop_id",
			"s.name AS shop_name",
			"d.name AS district_name",
			"COUNT(*) AS count",
			"SUM(dlv.qty_kg)::bigint AS sum_qty",
			"SUM(dlv.total) AS sum_total",
		).
		From("doc_deliveries dlv").
		Join("cat_shops s ON s.id = dlv.shop_id").
		Join("cat_districts d ON d.id = dlv.district_id").
		GroupBy("s.id", "s.name", "d.name").
		OrderBy("sum_total DESC")
	q = applyFilter(q, filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.ShopGroupRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("report by shop: %w", err)
	}

	return rows, nil
}

// DeliveriesByPayKind groups deliveries per payment kind.
func (r *ReportRepo) DeliveriesByPayKind(ctx context.Context, filter reports.Filter) ([]reports.PayKindRow, error) {
	q := r.builder.
		Select(
			"dlv.pay_kind AS pay_kind",
			"COUNT(*) AS count",
			"SUM(dlv.qty_kg)::bigint AS sum_qty",
			"SUM(dlv.total) AS sum_total",
		).
		From("doc_deliveries dlv").
		GroupBy("dlv.pay_kind").
		OrderBy("sum_total DESC")
	q = applyFilter(q, filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.PayKindRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("report by pay kind: %w", err)
	}

	return rows, nil
}

// DeliveryDetail returns flat delivery rows with resolved names,
// newest first.
func (r *ReportRepo) DeliveryDetail(ctx context.Context, filter reports.Filter, limit int) ([]reports.DetailRow, error) {
	q := r.builder.
		Select(
			"dlv.id AS delivery_id",
			"dlv.created_at AS created_at",
			"d.name AS district_name",
			"s.name AS shop_name",
			"p.name AS product_name",
			"dlv.qty_kg AS qty_kg",
			"dlv.unit_price AS unit_price",
			"dlv.total AS total",
			"dlv.pay_kind AS pay_kind",
		).
		From("doc_deliveries dlv").
		Join("cat_districts d ON d.id = dlv.district_id").
		Join("cat_shops s ON s.id = dlv.shop_id").
		Join("cat_products p ON p.id = dlv.product_id").
		OrderBy("dlv.created_at DESC")
	q = applyFilter(q, filter)

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.DetailRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("report detail: %w", err)
	}

	return rows, nil
}

// ProductBreakdownForShop groups one shop's deliveries per product.
func (r *ReportRepo) ProductBreakdownForShop(ctx context.Context, shopID id.ID, filter reports.Filter) ([]reports.ProductRow, error) {
	q := r.builder.
		Select(
			"p.id AS product_id",
			"p.name AS product_name",
			"COUNT(*) AS count",
			"SUM(dlv.qty_kg)::bigint AS sum_qty",
			"SUM(dlv.total) AS sum_total",
		).
		From("doc_deliveries dlv").
		Join("cat_products p ON p.id = dlv.product_id").
		Where(squirrel.Eq{"dlv.shop_id": shopID}).
		GroupBy("p.id", "p.name").
		OrderBy("sum_total DESC")
	q = applyFilter(q, filter)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []reports.ProductRow
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("report product breakdown: %w", err)
	}

	return rows, nil
}
