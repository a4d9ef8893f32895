package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, empresa_id, nombre, tipo, categoria, ubicacion, proveedor, nro_lotes, tamanio_lote,
	cantidad_disponible, umbral_minimo, umbral_maximo, costo_unitario, fecha_entrada, fecha_expiracion,
	entrada, imagen, observaciones, COALESCE(creado_por::text, ''), created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var category string
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Name, &p.Type, &category, &p.Location, &p.Supplier, &p.LotCount, &p.LotSize,
		&p.AvailableQuantity, &p.MinThreshold, &p.MaxThreshold, &p.UnitCost, &p.EntryDate, &p.ExpirationDate,
		&p.EntryKind, &p.Image, &p.Notes, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	p.Category = entity.Category(category)
	return &p, nil
}

// Create persiste un nuevo producto. Nombre repetido en la empresa => ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO productos (id, empresa_id, nombre, tipo, categoria, ubicacion, proveedor, nro_lotes, tamanio_lote,
			cantidad_disponible, umbral_minimo, umbral_maximo, costo_unitario, fecha_entrada, fecha_expiracion,
			entrada, imagen, observaciones, creado_por, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.Name, p.Type, string(p.Category), p.Location, p.Supplier, p.LotCount, p.LotSize,
		p.AvailableQuantity, p.MinThreshold, p.MaxThreshold, p.UnitCost, p.EntryDate, p.ExpirationDate,
		p.EntryKind, p.Image, p.Notes, nullable(p.CreatedBy), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert producto: %w", err)
	}
	return nil
}

// GetByID obtiene un producto de la empresa.
func (r *ProductRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM productos WHERE empresa_id = $1 AND id = $2`, companyID, id)
}

// GetByIDForUpdate igual que GetByID pero bloquea la fila hasta el fin de la transacción.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+productColumns+` FROM productos WHERE empresa_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

// GetByName búsqueda exacta sin distinguir mayúsculas.
func (r *ProductRepo) GetByName(ctx context.Context, companyID, name string) (*entity.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM productos WHERE empresa_id = $1 AND lower(nombre) = lower($2)`, companyID, name)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get producto: %w", err)
	}
	return p, nil
}

// Update actualiza los datos editables. La categoría solo cambia vía UpdateCategories.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	if !validID(p.ID) {
		return domain.ErrProductNotFound
	}
	query := `
		UPDATE productos SET nombre = $3, tipo = $4, ubicacion = $5, proveedor = $6, nro_lotes = $7, tamanio_lote = $8,
			cantidad_disponible = $9, umbral_minimo = $10, umbral_maximo = $11, costo_unitario = $12,
			fecha_entrada = $13, fecha_expiracion = $14, entrada = $15, imagen = $16, observaciones = $17, updated_at = $18
		WHERE empresa_id = $1 AND id = $2`
	cmd, err := r.q.Exec(ctx, query,
		p.CompanyID, p.ID, p.Name, p.Type, p.Location, p.Supplier, p.LotCount, p.LotSize,
		p.AvailableQuantity, p.MinThreshold, p.MaxThreshold, p.UnitCost,
		p.EntryDate, p.ExpirationDate, p.EntryKind, p.Image, p.Notes, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Delete elimina el producto; sus movimientos se borran en cascada.
func (r *ProductRepo) Delete(ctx context.Context, companyID, id string) error {
	if !validID(id) {
		return domain.ErrProductNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM productos WHERE empresa_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		return fmt.Errorf("delete producto: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List productos de la empresa ordenados por nombre.
func (r *ProductRepo) List(ctx context.Context, companyID string, f repository.ProductFilter) ([]*entity.Product, error) {
	where := []string{"empresa_id = $1"}
	args := []any{companyID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Category != "" {
		add("categoria = $%d", string(f.Category))
	}
	if f.Type != "" {
		add("tipo = $%d", f.Type)
	}
	if f.Supplier != "" {
		add("proveedor = $%d", f.Supplier)
	}
	if f.Location != "" {
		add("ubicacion = $%d", f.Location)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		add("nombre ILIKE '%%' || $%d || '%%'", s)
	}
	query := `SELECT ` + productColumns + ` FROM productos WHERE ` + strings.Join(where, " AND ") + ` ORDER BY nombre, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list productos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan producto: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// FilterOptions valores distintos no vacíos de tipo, proveedor y ubicación.
func (r *ProductRepo) FilterOptions(ctx context.Context, companyID string) (*repository.ProductFilterOptions, error) {
	query := `
		SELECT
			COALESCE(array_agg(DISTINCT tipo ORDER BY tipo) FILTER (WHERE tipo <> ''), '{}'),
			COALESCE(array_agg(DISTINCT proveedor ORDER BY proveedor) FILTER (WHERE proveedor <> ''), '{}'),
			COALESCE(array_agg(DISTINCT ubicacion ORDER BY ubicacion) FILTER (WHERE ubicacion <> ''), '{}')
		FROM productos WHERE empresa_id = $1`
	var out repository.ProductFilterOptions
	if err := r.q.QueryRow(ctx, query, companyID).Scan(&out.Types, &out.Suppliers, &out.Locations); err != nil {
		return nil, fmt.Errorf("opciones de filtro: %w", err)
	}
	return &out, nil
}

// DecrementAvailable resta qty en una sola sentencia condicionada; nunca deja stock negativo.
func (r *ProductRepo) DecrementAvailable(ctx context.Context, companyID, id string, qty int) error {
	if !validID(id) {
		return domain.ErrProductNotFound
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE productos SET cantidad_disponible = cantidad_disponible - $3, updated_at = now()
		WHERE empresa_id = $1 AND id = $2 AND cantidad_disponible >= $3`,
		companyID, id, qty,
	)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("descontar stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		p, err := r.GetByID(ctx, companyID, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		return domain.ErrInsufficientStock
	}
	return nil
}

// UpdateCategories aplica todas las categorías en una sola sentencia (atómica) y solo toca filas que cambian.
func (r *ProductRepo) UpdateCategories(ctx context.Context, companyID string, categories map[string]entity.Category) error {
	if len(categories) == 0 {
		return nil
	}
	ids := make([]string, 0, len(categories))
	cats := make([]string, 0, len(categories))
	for id, c := range categories {
		ids = append(ids, id)
		cats = append(cats, string(c))
	}
	_, err := r.q.Exec(ctx, `
		UPDATE productos p SET categoria = v.categoria, updated_at = now()
		FROM unnest($2::uuid[], $3::text[]) AS v(id, categoria)
		WHERE p.empresa_id = $1 AND p.id = v.id AND p.categoria <> v.categoria`,
		companyID, ids, cats,
	)
	if err != nil {
		return fmt.Errorf("actualizar categorias: %w", err)
	}
	return nil
}
