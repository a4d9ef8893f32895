package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/access"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
	"github.com/protrack/protrack-api/pkg/logger"
)

// ProductUseCase casos de uso del catálogo. Toda escritura dispara la reclasificación ABC.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	reclassifier *Reclassifier
	sheetParser  ProductSheetParser
	log          *logger.Logger
}

// NewProductUseCase construye el caso de uso. sheetParser puede ser nil si no se habilita la importación.
func NewProductUseCase(productRepo repository.ProductRepository, reclassifier *Reclassifier, sheetParser ProductSheetParser, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, reclassifier: reclassifier, sheetParser: sheetParser, log: log}
}

// Create valida y persiste un producto nuevo. Devuelve ErrDuplicate si el nombre ya existe en la empresa.
func (uc *ProductUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !actor.Can(entity.PermEditProducts) {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	p := &entity.Product{
		ID:                uuid.New().String(),
		CompanyID:         actor.CompanyID,
		Name:              strings.TrimSpace(in.Name),
		Type:              strings.TrimSpace(in.Type),
		Category:          entity.CategoryC, // provisional hasta reclasificar
		Location:          strings.TrimSpace(in.Location),
		Supplier:          strings.TrimSpace(in.Supplier),
		LotCount:          in.LotCount,
		LotSize:           in.LotSize,
		AvailableQuantity: in.AvailableQuantity,
		MinThreshold:      in.MinThreshold,
		MaxThreshold:      in.MaxThreshold,
		UnitCost:          in.UnitCost,
		EntryDate:         now,
		ExpirationDate:    in.ExpirationDate,
		EntryKind:         in.EntryKind,
		Image:             in.Image,
		Notes:             in.Notes,
		CreatedBy:         actor.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if in.EntryDate != nil {
		p.EntryDate = *in.EntryDate
	}
	if p.EntryKind == "" {
		p.EntryKind = entity.EntryInitialInventory
	}
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	existing, err := uc.productRepo.GetByName(ctx, actor.CompanyID, p.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.reclassifier.afterWrite(ctx, actor.CompanyID, p.ID)
	return uc.reload(ctx, p), nil
}

// Update aplica los campos presentes de in. La cantidad disponible no puede quedar negativa.
func (uc *ProductUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !actor.Can(entity.PermEditProducts) {
		return nil, domain.ErrForbidden
	}
	p, err := uc.productRepo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if !strings.EqualFold(name, p.Name) {
			dup, err := uc.productRepo.GetByName(ctx, actor.CompanyID, name)
			if err != nil {
				return nil, err
			}
			if dup != nil && dup.ID != p.ID {
				return nil, domain.ErrDuplicate
			}
		}
		p.Name = name
	}
	applyString(&p.Type, in.Type)
	applyString(&p.Location, in.Location)
	applyString(&p.Supplier, in.Supplier)
	applyString(&p.EntryKind, in.EntryKind)
	applyString(&p.Image, in.Image)
	applyString(&p.Notes, in.Notes)
	applyInt(&p.LotCount, in.LotCount)
	applyInt(&p.LotSize, in.LotSize)
	applyInt(&p.AvailableQuantity, in.AvailableQuantity)
	applyInt(&p.MinThreshold, in.MinThreshold)
	applyInt(&p.MaxThreshold, in.MaxThreshold)
	if in.UnitCost != nil {
		p.UnitCost = *in.UnitCost
	}
	if in.ExpirationDate != nil {
		p.ExpirationDate = in.ExpirationDate
	} else if in.ClearExpiration {
		p.ExpirationDate = nil
	}
	p.UpdatedAt = time.Now()
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := uc.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	uc.reclassifier.afterWrite(ctx, actor.CompanyID, p.ID)
	return uc.reload(ctx, p), nil
}

// Delete elimina el producto y reclasifica el resto del catálogo.
func (uc *ProductUseCase) Delete(ctx context.Context, actor access.Actor, id string) error {
	if !actor.Can(entity.PermEditProducts) {
		return domain.ErrForbidden
	}
	p, err := uc.productRepo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrProductNotFound
	}
	if err := uc.productRepo.Delete(ctx, actor.CompanyID, id); err != nil {
		return err
	}
	uc.reclassifier.afterWrite(ctx, actor.CompanyID, id)
	return nil
}

// Get obtiene un producto de la empresa del actor.
func (uc *ProductUseCase) Get(ctx context.Context, actor access.Actor, id string) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return ToProductResponse(p), nil
}

// List lista el catálogo aplicando filtros.
func (uc *ProductUseCase) List(ctx context.Context, actor access.Actor, in dto.ProductFilterRequest) (*dto.ProductListResponse, error) {
	cat := entity.Category(in.Category)
	if cat != "" && !cat.Valid() {
		return nil, domain.ErrInvalidInput
	}
	products, err := uc.productRepo.List(ctx, actor.CompanyID, repository.ProductFilter{
		Category: cat,
		Type:     in.Type,
		Supplier: in.Supplier,
		Location: in.Location,
		Search:   in.Search,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// FilterOptions valores distintos para poblar los filtros del catálogo.
func (uc *ProductUseCase) FilterOptions(ctx context.Context, actor access.Actor) (*dto.ProductFilterOptionsResponse, error) {
	opts, err := uc.productRepo.FilterOptions(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	return &dto.ProductFilterOptionsResponse{
		Types:      nonNil(opts.Types),
		Suppliers:  nonNil(opts.Suppliers),
		Locations:  nonNil(opts.Locations),
		Categories: []string{string(entity.CategoryA), string(entity.CategoryB), string(entity.CategoryC)},
	}, nil
}

// Reclassify recalcula el catálogo completo a pedido (solo Director General).
func (uc *ProductUseCase) Reclassify(ctx context.Context, actor access.Actor) (int, error) {
	if !actor.IsDirector() {
		return 0, domain.ErrForbidden
	}
	return uc.reclassifier.Reclassify(ctx, actor.CompanyID)
}

// ImportRow fila de una planilla de importación.
type ImportRow struct {
	Row     int
	Product dto.CreateProductRequest
	Err     error // error de lectura de la fila (formato de celda)
}

// Import crea los productos de la planilla. Las filas inválidas o duplicadas se informan y no detienen el resto.
func (uc *ProductUseCase) Import(ctx context.Context, actor access.Actor, r io.Reader) (*dto.ImportProductsResponse, error) {
	if !actor.Can(entity.PermEditProducts) {
		return nil, domain.ErrForbidden
	}
	if uc.sheetParser == nil {
		return nil, fmt.Errorf("importación no configurada")
	}
	rows, err := uc.sheetParser.ParseProducts(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	out := &dto.ImportProductsResponse{Errors: []dto.ImportRowError{}}
	seen := map[string]bool{}
	now := time.Now()
	for _, row := range rows {
		if row.Err != nil {
			out.Errors = append(out.Errors, dto.ImportRowError{Row: row.Row, Message: row.Err.Error()})
			continue
		}
		in := row.Product
		p := &entity.Product{
			ID:                uuid.New().String(),
			CompanyID:         actor.CompanyID,
			Name:              strings.TrimSpace(in.Name),
			Type:              strings.TrimSpace(in.Type),
			Category:          entity.CategoryC,
			Location:          strings.TrimSpace(in.Location),
			Supplier:          strings.TrimSpace(in.Supplier),
			LotCount:          in.LotCount,
			LotSize:           in.LotSize,
			AvailableQuantity: in.AvailableQuantity,
			MinThreshold:      in.MinThreshold,
			MaxThreshold:      in.MaxThreshold,
			UnitCost:          in.UnitCost,
			EntryDate:         now,
			ExpirationDate:    in.ExpirationDate,
			EntryKind:         in.EntryKind,
			CreatedBy:         actor.UserID,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if p.EntryKind == "" {
			p.EntryKind = entity.EntryInitialInventory
		}
		if err := validateProduct(p); err != nil {
			out.Errors = append(out.Errors, dto.ImportRowError{Row: row.Row, Message: err.Error()})
			continue
		}
		key := strings.ToLower(p.Name)
		if seen[key] {
			out.Errors = append(out.Errors, dto.ImportRowError{Row: row.Row, Message: "nombre repetido en la planilla"})
			continue
		}
		seen[key] = true
		if err := uc.productRepo.Create(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				out.Errors = append(out.Errors, dto.ImportRowError{Row: row.Row, Message: "ya existe un producto con ese nombre"})
				continue
			}
			return nil, err
		}
		out.Imported++
	}
	if out.Imported > 0 {
		uc.reclassifier.afterWrite(ctx, actor.CompanyID, "")
	}
	return out, nil
}

// reload relee el producto para devolver la categoría recién asignada; si falla, devuelve lo escrito.
func (uc *ProductUseCase) reload(ctx context.Context, p *entity.Product) *dto.ProductResponse {
	fresh, err := uc.productRepo.GetByID(ctx, p.CompanyID, p.ID)
	if err != nil || fresh == nil {
		return ToProductResponse(p)
	}
	return ToProductResponse(fresh)
}

func validateProduct(p *entity.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: el nombre es obligatorio", domain.ErrMissingRequiredField)
	}
	if p.LotCount < 0 || p.LotSize < 0 || p.AvailableQuantity < 0 || p.MinThreshold < 0 || p.MaxThreshold < 0 {
		return fmt.Errorf("%w: las cantidades no pueden ser negativas", domain.ErrInvalidInput)
	}
	if p.UnitCost.LessThan(decimal.Zero) {
		return fmt.Errorf("%w: el costo unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	if p.MaxThreshold > 0 && p.MinThreshold > p.MaxThreshold {
		return fmt.Errorf("%w: el umbral mínimo supera al máximo", domain.ErrInvalidInput)
	}
	if !entity.ValidEntryKind(p.EntryKind) {
		return fmt.Errorf("%w: tipo de entrada desconocido", domain.ErrInvalidInput)
	}
	return nil
}

// ToProductResponse mapea la entidad a la salida HTTP con sus derivados.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                 p.ID,
		Name:               p.Name,
		Type:               p.Type,
		Category:           string(p.Category),
		Location:           p.Location,
		Supplier:           p.Supplier,
		LotCount:           p.LotCount,
		LotSize:            p.LotSize,
		UnitsAcquired:      p.UnitsAcquired(),
		AvailableQuantity:  p.AvailableQuantity,
		MinThreshold:       p.MinThreshold,
		MaxThreshold:       p.MaxThreshold,
		UnitCost:           p.UnitCost,
		TotalPurchaseValue: p.TotalPurchaseValue(),
		StockStatus:        p.StockStatus(),
		EntryDate:          p.EntryDate,
		ExpirationDate:     p.ExpirationDate,
		EntryKind:          p.EntryKind,
		Image:              p.Image,
		Notes:              p.Notes,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func applyString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func applyInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
