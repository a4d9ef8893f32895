package catalog

import (
	"context"
	"fmt"

	"github.com/protrack/protrack-api/internal/domain/inventory"
	"github.com/protrack/protrack-api/internal/domain/repository"
	"github.com/protrack/protrack-api/pkg/logger"
)

// Reclassifier recalcula las categorías ABC de todo el catálogo de una empresa.
type Reclassifier struct {
	productRepo repository.ProductRepository
	companyRepo repository.CompanyRepository
	log         *logger.Logger
}

// NewReclassifier construye el reclasificador.
func NewReclassifier(productRepo repository.ProductRepository, companyRepo repository.CompanyRepository, log *logger.Logger) *Reclassifier {
	return &Reclassifier{productRepo: productRepo, companyRepo: companyRepo, log: log}
}

// Reclassify carga los productos de la empresa, los clasifica y persiste todas las categorías.
// Devuelve cuántos productos cambiaron de categoría.
func (r *Reclassifier) Reclassify(ctx context.Context, companyID string) (int, error) {
	products, err := r.productRepo.List(ctx, companyID, repository.ProductFilter{})
	if err != nil {
		return 0, fmt.Errorf("listar productos: %w", err)
	}
	categories := inventory.Classify(inventory.ItemsFromProducts(products))
	changed := 0
	for _, p := range products {
		if categories[p.ID] != p.Category {
			changed++
		}
	}
	if len(categories) == 0 {
		return 0, nil
	}
	if err := r.productRepo.UpdateCategories(ctx, companyID, categories); err != nil {
		return 0, fmt.Errorf("guardar categorías: %w", err)
	}
	r.log.Debug().Str("company_id", companyID).Int("productos", len(products)).Int("cambios", changed).Msg("clasificación ABC actualizada")
	return changed, nil
}

// ReclassifyAll recorre todas las empresas. Un fallo en una empresa no detiene las demás.
func (r *Reclassifier) ReclassifyAll(ctx context.Context) (map[string]int, error) {
	companies, err := r.companyRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar empresas: %w", err)
	}
	result := make(map[string]int, len(companies))
	var firstErr error
	for _, c := range companies {
		n, err := r.Reclassify(ctx, c.ID)
		if err != nil {
			r.log.Error().Err(err).Str("company_id", c.ID).Msg("reclasificación fallida")
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		result[c.ID] = n
	}
	return result, firstErr
}

// afterWrite dispara la reclasificación tras una escritura del catálogo. Los errores solo se registran.
func (r *Reclassifier) afterWrite(ctx context.Context, companyID, productID string) {
	if _, err := r.Reclassify(ctx, companyID); err != nil {
		r.log.Error().Err(err).Str("company_id", companyID).Str("product_id", productID).Msg("no se pudo reclasificar el catálogo")
	}
}
