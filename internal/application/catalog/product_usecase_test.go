package catalog_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/application/catalog"
	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/access"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
	"github.com/protrack/protrack-api/internal/infrastructure/memory"
	"github.com/protrack/protrack-api/pkg/logger"
)

var (
	director = access.Actor{UserID: "dir", CompanyID: "c1", Role: entity.RoleDirectorGeneral}
	editor   = access.Actor{UserID: "adm", CompanyID: "c1", Role: entity.RoleAdministrator,
		Permissions: access.NewPermissionSet(entity.PermEditProducts)}
	approver = access.Actor{UserID: "adm2", CompanyID: "c1", Role: entity.RoleAdministrator,
		Permissions: access.NewPermissionSet(entity.PermApproveRequests)}
	employee = access.Actor{UserID: "emp", CompanyID: "c1", Role: entity.RoleEmployee}
)

// failingCategories falla al persistir categorías para simular un error de reclasificación.
type failingCategories struct {
	repository.ProductRepository
}

func (failingCategories) UpdateCategories(context.Context, string, map[string]entity.Category) error {
	return errors.New("conexión perdida")
}

func newUseCase(repo repository.ProductRepository, store *memory.Store) *catalog.ProductUseCase {
	log := logger.NewNop()
	return catalog.NewProductUseCase(repo, catalog.NewReclassifier(repo, store.Companies(), log), nil, log)
}

func productIn(name string, lots, size int, cost int64) dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name: name, Type: "Insumo", Supplier: "Proveedor", Location: "Bodega 1",
		LotCount: lots, LotSize: size, AvailableQuantity: lots * size,
		UnitCost: decimal.NewFromInt(cost),
	}
}

func TestCreate_ReclasificaElCatalogo(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store.Products(), store)
	ctx := context.Background()

	first, err := uc.Create(ctx, director, productIn("Guantes", 2, 100, 10))
	require.NoError(t, err)
	assert.Equal(t, "C", first.Category, "producto único queda en C")
	assert.Equal(t, 200, first.UnitsAcquired)
	assert.True(t, first.TotalPurchaseValue.Equal(decimal.NewFromInt(2000)))

	// Valores 7000, 2000, 1000: acumulados 70%, 90%, 100%.
	big, err := uc.Create(ctx, editor, productIn("Reactivo", 7, 100, 10))
	require.NoError(t, err)
	_, err = uc.Create(ctx, editor, productIn("Gasas", 1, 100, 10))
	require.NoError(t, err)

	got, err := uc.Get(ctx, director, big.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.Category)
	got, err = uc.Get(ctx, director, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Category)
}

func TestCreate_FalloDeReclasificacionNoFallaLaCreacion(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(failingCategories{store.Products()}, store)

	out, err := uc.Create(context.Background(), director, productIn("Mascarillas", 1, 10, 3))
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)

	stored, err := store.Products().GetByID(context.Background(), "c1", out.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestCreate_Permisos(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store.Products(), store)

	_, err := uc.Create(context.Background(), approver, productIn("X", 1, 1, 1))
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Create(context.Background(), employee, productIn("X", 1, 1, 1))
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreate_Validaciones(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store.Products(), store)
	ctx := context.Background()

	_, err := uc.Create(ctx, director, productIn("  ", 1, 1, 1))
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)

	in := productIn("Umbrales", 1, 1, 1)
	in.MinThreshold, in.MaxThreshold = 10, 5
	_, err = uc.Create(ctx, director, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = productIn("Costo", 1, 1, 1)
	in.UnitCost = decimal.NewFromInt(-1)
	_, err = uc.Create(ctx, director, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, director, productIn("Duplicado", 1, 1, 1))
	require.NoError(t, err)
	_, err = uc.Create(ctx, director, productIn("duplicado", 1, 1, 1))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestUpdate_AdminConEditarProductos(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store.Products(), store)
	ctx := context.Background()

	p, err := uc.Create(ctx, director, productIn("Alcohol", 1, 10, 2))
	require.NoError(t, err)

	cost := decimal.RequireFromString("2.50")
	name := "Alcohol 70%"
	out, err := uc.Update(ctx, editor, p.ID, dto.UpdateProductRequest{Name: &name, UnitCost: &cost})
	require.NoError(t, err)
	assert.Equal(t, "Alcohol 70%", out.Name)
	assert.True(t, out.UnitCost.Equal(cost))

	_, err = uc.Update(ctx, approver, p.ID, dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Update(ctx, editor, "no-existe", dto.UpdateProductRequest{Name: &name})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	neg := -1
	_, err = uc.Update(ctx, editor, p.ID, dto.UpdateProductRequest{AvailableQuantity: &neg})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_ReclasificaRestantes(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store.Products(), store)
	ctx := context.Background()

	a, err := uc.Create(ctx, director, productIn("Grande", 10, 100, 90))
	require.NoError(t, err)
	b, err := uc.Create(ctx, director, productIn("Chico", 1, 10, 1))
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, director, a.ID))
	left, err := uc.Get(ctx, director, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", left.Category)

	assert.ErrorIs(t, uc.Delete(ctx, director, a.ID), domain.ErrProductNotFound)
}

func TestList_FiltrosYOtraEmpresa(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store.Products(), store)
	ctx := context.Background()

	_, err := uc.Create(ctx, director, productIn("Guantes nitrilo", 1, 10, 1))
	require.NoError(t, err)
	in := productIn("Bata", 1, 10, 1)
	in.Supplier = "Otro"
	_, err = uc.Create(ctx, director, in)
	require.NoError(t, err)
	other := access.Actor{UserID: "x", CompanyID: "c2", Role: entity.RoleDirectorGeneral}
	_, err = uc.Create(ctx, other, productIn("Guantes", 1, 10, 1))
	require.NoError(t, err)

	res, err := uc.List(ctx, employee, dto.ProductFilterRequest{Search: "guantes"})
	require.NoError(t, err)
	require.Equal(t, 1, res.Total)
	assert.Equal(t, "Guantes nitrilo", res.Items[0].Name)

	res, err = uc.List(ctx, employee, dto.ProductFilterRequest{Supplier: "Otro"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)

	_, err = uc.List(ctx, employee, dto.ProductFilterRequest{Category: "Z"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	opts, err := uc.FilterOptions(ctx, employee)
	require.NoError(t, err)
	assert.Equal(t, []string{"Otro", "Proveedor"}, opts.Suppliers)
}

func TestReclassify_SoloDirector(t *testing.T) {
	store := memory.NewStore()
	uc := newUseCase(store.Products(), store)
	_, err := uc.Reclassify(context.Background(), editor)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Reclassify(context.Background(), director)
	assert.NoError(t, err)
}

type stubParser struct {
	rows []catalog.ImportRow
}

func (s stubParser) ParseProducts(io.Reader) ([]catalog.ImportRow, error) { return s.rows, nil }

func TestImport_InformaFilasInvalidas(t *testing.T) {
	store := memory.NewStore()
	log := logger.NewNop()
	repo := store.Products()
	parser := stubParser{rows: []catalog.ImportRow{
		{Row: 2, Product: productIn("Jeringas", 5, 10, 14)},
		{Row: 3, Product: productIn("", 1, 1, 1)},
		{Row: 4, Product: productIn("jeringas", 1, 1, 1)},
		{Row: 5, Err: errors.New("costo_unitario no es numérico")},
		{Row: 6, Product: productIn("Gasas", 1, 10, 20)},
		{Row: 7, Product: productIn("Vendas", 1, 10, 10)},
	}}
	uc := catalog.NewProductUseCase(repo, catalog.NewReclassifier(repo, store.Companies(), log), parser, log)

	out, err := uc.Import(context.Background(), director, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Imported)
	require.Len(t, out.Errors, 3)
	assert.Equal(t, 3, out.Errors[0].Row)
	assert.Equal(t, 4, out.Errors[1].Row)
	assert.Equal(t, 5, out.Errors[2].Row)

	list, err := repo.List(context.Background(), "c1", repository.ProductFilter{})
	require.NoError(t, err)
	cats := map[string]entity.Category{}
	for _, p := range list {
		cats[p.Name] = p.Category
	}
	assert.Equal(t, entity.CategoryA, cats["Jeringas"])
	assert.Equal(t, entity.CategoryB, cats["Gasas"])
	assert.Equal(t, entity.CategoryC, cats["Vendas"])
}

func TestReclassifyAll_RecorreEmpresas(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: "c1", Name: "Uno"}))
	require.NoError(t, store.Companies().Create(ctx, &entity.Company{ID: "c2", Name: "Dos"}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: "p1", CompanyID: "c1", Name: "A", LotCount: 1, LotSize: 1, UnitCost: decimal.NewFromInt(1), Category: entity.CategoryA}))

	r := catalog.NewReclassifier(store.Products(), store.Companies(), logger.NewNop())
	res, err := r.ReclassifyAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res["c1"])
	assert.Equal(t, 0, res["c2"])
}
