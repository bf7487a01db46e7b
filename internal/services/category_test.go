package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventful/internal/domain"
)

func TestCategoryService_Create(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	category, err := svc.Create(ctx, "  Music  ", "Concerts and festivals")
	require.NoError(t, err)
	assert.NotEmpty(t, category.ID)
	assert.Equal(t, "Music", category.Name)
	assert.False(t, category.CreatedAt.IsZero())

	_, err = svc.Create(ctx, "   ", "")
	require.Error(t, err)
}

func TestCategoryService_GetByID(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCategoryRepo()
	repo.byID["cat-1"] = &domain.Category{ID: "cat-1", Name: "Music"}
	svc := NewCategoryService(repo)

	category, err := svc.GetByID(ctx, "cat-1")
	require.NoError(t, err)
	assert.Equal(t, "Music", category.Name)

	_, err = svc.GetByID(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCategoryService_List(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo)

	categories, err := svc.List(ctx)
	require.NoError(t, err)
	require.NotNil(t, categories)
	assert.Len(t, categories, 0)

	repo.byID["cat-1"] = &domain.Category{ID: "cat-1", Name: "Music"}
	categories, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
