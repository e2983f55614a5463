package district

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sklad/internal/core/apperror"
	"sklad/internal/core/id"
)

type memRepo struct {
	districts map[id.ID]*District
}

func newMemRepo() *memRepo {
	return &memRepo{districts: make(map[id.ID]*District)}
}

func (r *memRepo) Create(ctx context.Context, d *District) error {
	r.districts[d.ID] = d
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, districtID id.ID) (*District, error) {
	if d, ok := r.districts[districtID]; ok {
		return d, nil
	}
	return nil, apperror.NewNotFound("district", districtID)
}

func (r *memRepo) GetByName(ctx context.Context, name string) (*District, error) {
	for _, d := range r.districts {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, apperror.NewNotFound("district", name)
}

func (r *memRepo) List(ctx context.Context) ([]*District, error) {
	out := make([]*District, 0, len(r.districts))
	for _, d := range r.districts {
		out = append(out, d)
	}
	return out, nil
}

func (r *memRepo) Delete(ctx context.Context, districtID id.ID) error {
	if _, ok := r.districts[districtID]; !ok {
		return apperror.NewNotFound("district", districtID)
	}
	delete(r.districts, districtID)
	return nil
}

func TestCreate(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)

	d, err := svc.Create(context.Background(), "  Chilonzor  ")
	require.NoError(t, err)
	assert.Equal(t, "Chilonzor", d.Name)
	assert.Contains(t, repo.districts, d.ID)
}

func TestCreate_RejectsBlankName(t *testing.T) {
	svc := NewService(newMemRepo())

	for _, name := range []string{"", "   "} {
		_, err := svc.Create(context.Background(), name)
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
}

func TestCreate_RejectsDuplicateName(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Create(ctx, "Chilonzor")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "Chilonzor")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeDuplicate, appErr.Code)
}

func TestDelete(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	d, err := svc.Create(ctx, "Chilonzor")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, d.ID))
	assert.Empty(t, repo.districts)

	err = svc.Delete(ctx, d.ID)
	assert.True(t, apperror.IsNotFound(err))
}
