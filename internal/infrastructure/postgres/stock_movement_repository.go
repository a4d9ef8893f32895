package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo ledger de movimientos (append-only). Acepta pool o tx.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento. No hay Update ni Delete.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO movimientos (id, empresa_id, tipo_movimiento, producto_id, cantidad, sede_origen, sede_destino,
			motivo, precio_venta, registrado_por, fecha_movimiento, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.CompanyID, string(m.Kind), m.ProductID, m.Quantity, m.OriginSite, m.DestinationSite,
		m.Reason, m.SalePrice, m.RecordedBy, m.MovedAt, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movimiento: %w", err)
	}
	return nil
}

// List movimientos de la empresa, del más reciente al más antiguo. To es exclusivo.
func (r *StockMovementRepo) List(ctx context.Context, companyID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	where := []string{"empresa_id = $1"}
	args := []any{companyID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if len(f.Kinds) > 0 {
		kinds := make([]string, len(f.Kinds))
		for i, k := range f.Kinds {
			kinds[i] = string(k)
		}
		add("tipo_movimiento = ANY($%d)", kinds)
	}
	if f.ProductID != "" {
		if !validID(f.ProductID) {
			return nil, nil
		}
		add("producto_id = $%d", f.ProductID)
	}
	if f.From != nil {
		add("fecha_movimiento >= $%d", *f.From)
	}
	if f.To != nil {
		add("fecha_movimiento < $%d", *f.To)
	}
	query := `
		SELECT id, empresa_id, tipo_movimiento, producto_id, cantidad, sede_origen, sede_destino, motivo,
			precio_venta, registrado_por, fecha_movimiento, created_at
		FROM movimientos WHERE ` + strings.Join(where, " AND ") + ` ORDER BY fecha_movimiento DESC, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		var kind string
		if err := rows.Scan(
			&m.ID, &m.CompanyID, &kind, &m.ProductID, &m.Quantity, &m.OriginSite, &m.DestinationSite, &m.Reason,
			&m.SalePrice, &m.RecordedBy, &m.MovedAt, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		m.Kind = entity.MovementKind(kind)
		list = append(list, &m)
	}
	return list, rows.Err()
}
