package report_repo

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad/internal/core/id"
	"sklad/internal/domain/reports"
)

func baseSelect() squirrel.SelectBuilder {
	return squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select("COUNT(*)").
		From("doc_deliveries dlv")
}

func TestApplyFilter(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	districtID := id.New()
	shopID := id.New()

	tests := []struct {
		name     string
		filter   reports.Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "empty filter adds no predicates",
			filter:  reports.Filter{},
			wantSQL: "SELECT COUNT(*) FROM doc_deliveries dlv",
		},
		{
			name:     "window is half-open",
			filter:   reports.Filter{FromDate: &from, ToDate: &to},
			wantSQL:  "SELECT COUNT(*) FROM doc_deliveries dlv WHERE dlv.created_at >= $1 AND dlv.created_at < $2",
			wantArgs: []any{from, to},
		},
		{
			name:     "district only",
			filter:   reports.Filter{DistrictID: &districtID},
			wantSQL:  "SELECT COUNT(*) FROM doc_deliveries dlv WHERE dlv.district_id = $1",
			wantArgs: []any{districtID},
		},
		{
			name:   "all predicates in order",
			filter: reports.Filter{FromDate: &from, ToDate: &to, DistrictID: &districtID, ShopID: &shopID},
			wantSQL: "SELECT COUNT(*) FROM doc_deliveries dlv" +
				" WHERE dlv.created_at >= $1 AND dlv.created_at < $2" +
				" AND dlv.district_id = $3 AND dlv.shop_id = $4",
			wantArgs: []any{from, to, districtID, shopID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := applyFilter(baseSelect(), tt.filter).ToSql()
			require.NoError(t, err)

			assert.Equal(t, tt.wantSQL, sql)
			require.Len(t, args, len(tt.wantArgs))
			for i := range tt.wantArgs {
				assert.Equal(t, tt.wantArgs[i], args[i])
			}
		})
	}
}
