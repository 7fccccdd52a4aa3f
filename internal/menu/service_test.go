package menu

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tastebite/tastebite-backend/pkg/db/models"
	pkgerrors "github.com/tastebite/tastebite-backend/pkg/errors"
)

type stubMenuRepo struct {
	items []models.FoodItem
	err   error
}

func (s *stubMenuRepo) ListActive(ctx context.Context) ([]models.FoodItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.items, nil
}

func (s *stubMenuRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func TestListReturnsActiveItems(t *testing.T) {
	repo := &stubMenuRepo{items: []models.FoodItem{
		{ID: uuid.New(), Name: "Masala Dosa", Price: decimal.NewFromInt(120)},
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	items, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Masala Dosa", items[0].Name)
}

func TestGetUnknownItemReturnsNotFound(t *testing.T) {
	svc, err := NewService(&stubMenuRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.New())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestGetRejectsNilID(t *testing.T) {
	svc, err := NewService(&stubMenuRepo{})
	require.NoError(t, err)

	_, err = svc.Get(context.Background(), uuid.Nil)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
