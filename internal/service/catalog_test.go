package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/adamnowak/shop-api/internal/transport"
)

func productRequest(name string) transport.ProductRequest {
	return transport.ProductRequest{
		Name:        name,
		Description: "A product",
		PriceUnit:   9.99,
		WeightUnit:  1.5,
		Category:    transport.CategoryRef{Name: "Electronics"},
	}
}

func TestCatalogCreateAndGet(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	created, err := svc.Create(ctx, productRequest("Mouse"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Mouse", got.Name)

	_, err = svc.Get(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogValidation(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*transport.ProductRequest)
	}{
		{"blank name", func(req *transport.ProductRequest) { req.Name = " " }},
		{"blank description", func(req *transport.ProductRequest) { req.Description = "" }},
		{"zero price", func(req *transport.ProductRequest) { req.PriceUnit = 0 }},
		{"negative weight", func(req *transport.ProductRequest) { req.WeightUnit = -1 }},
		{"unknown category", func(req *transport.ProductRequest) { req.Category.Name = "Garden" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := productRequest("Mouse")
			tc.mutate(&req)

			_, err := svc.Create(ctx, req)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCatalogPatch(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	created, err := svc.Create(ctx, productRequest("Mouse"))
	require.NoError(t, err)

	price := 19.99
	patched, err := svc.Patch(ctx, created.ID, transport.PatchProductRequest{PriceUnit: &price})
	require.NoError(t, err)
	require.Equal(t, 19.99, patched.PriceUnit)
	require.Equal(t, "Mouse", patched.Name)

	bad := -1.0
	_, err = svc.Patch(ctx, created.ID, transport.PatchProductRequest{PriceUnit: &bad})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.Patch(ctx, 9999, transport.PatchProductRequest{PriceUnit: &price})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogDelete(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	created, err := svc.Create(ctx, productRequest("Mouse"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	require.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)

	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBulkImport(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	count, err := svc.BulkImport(ctx, []transport.ProductRequest{
		productRequest("Mouse"),
		productRequest("Keyboard"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, count)

	total, _, err := svc.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)

	// Re-running the import is refused once products exist.
	_, err = svc.BulkImport(ctx, []transport.ProductRequest{productRequest("Monitor")})
	require.ErrorIs(t, err, ErrConflict)
}

func TestBulkImportAllOrNothing(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	bad := productRequest("Broken")
	bad.PriceUnit = 0

	_, err := svc.BulkImport(ctx, []transport.ProductRequest{productRequest("Mouse"), bad})
	require.ErrorIs(t, err, ErrValidation)

	total, _, err := svc.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestUpdateDescription(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	created, err := svc.Create(ctx, productRequest("Mouse"))
	require.NoError(t, err)

	updated, err := svc.UpdateDescription(ctx, created.ID, "An ergonomic wireless mouse")
	require.NoError(t, err)
	require.Equal(t, "An ergonomic wireless mouse", updated.Description)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "An ergonomic wireless mouse", got.Description)
}

func TestCategoriesAreSeeded(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}

	categories, err := svc.Categories(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, categories)

	names := make(map[string]bool, len(categories))
	for _, c := range categories {
		names[c.Name] = true
	}
	require.True(t, names["Electronics"])
}
