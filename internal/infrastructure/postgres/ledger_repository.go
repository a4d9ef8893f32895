package postgres

import (
	"context"
	"fmt"

	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var (
	_ repository.AccountingRepository = (*AccountingRepo)(nil)
	_ repository.TransferRepository   = (*TransferRepo)(nil)
)

// AccountingRepo asientos de contabilidad (append-only). Acepta pool o tx.
type AccountingRepo struct {
	q Querier
}

// NewAccountingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountingRepository(q Querier) *AccountingRepo {
	return &AccountingRepo{q: q}
}

// Create inserta un asiento.
func (r *AccountingRepo) Create(ctx context.Context, e *entity.AccountingEntry) error {
	query := `
		INSERT INTO contabilidad (id, empresa_id, producto_id, nombre_producto, tipo_movimiento, fecha, precio_venta,
			unidades_vendidas, solicitud_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, nullable(e.ProductID), e.ProductName, e.MovementKind, e.Date, e.SalePrice,
		e.UnitsSold, nullable(e.SourceRequestID), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contabilidad: %w", err)
	}
	return nil
}

// List asientos de la empresa, del más reciente al más antiguo.
func (r *AccountingRepo) List(ctx context.Context, companyID string) ([]*entity.AccountingEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, empresa_id, COALESCE(producto_id::text, ''), nombre_producto, tipo_movimiento, fecha, precio_venta,
			unidades_vendidas, COALESCE(solicitud_id::text, ''), created_at
		FROM contabilidad WHERE empresa_id = $1 ORDER BY fecha DESC, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list contabilidad: %w", err)
	}
	defer rows.Close()

	var list []*entity.AccountingEntry
	for rows.Next() {
		var e entity.AccountingEntry
		if err := rows.Scan(
			&e.ID, &e.CompanyID, &e.ProductID, &e.ProductName, &e.MovementKind, &e.Date, &e.SalePrice,
			&e.UnitsSold, &e.SourceRequestID, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contabilidad: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}

// TransferRepo traslados coordinados. Acepta pool o tx.
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

const transferColumns = `id, empresa_id, solicitud_id, nombre_producto, sede_origen, sede_destino, fecha, motivo,
	encargado, creado_por, created_at`

// Create inserta el traslado. Un segundo traslado para la misma solicitud => ErrConflict.
func (r *TransferRepo) Create(ctx context.Context, t *entity.TransferRecord) error {
	query := `INSERT INTO traslados (` + transferColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.CompanyID, t.RequestID, t.ProductName, t.OriginSite, t.DestinationSite, t.Date, t.Reason,
		t.ResponsibleParty, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert traslado: %w", err)
	}
	return nil
}

// GetByRequestID traslado de una solicitud; (nil, nil) si aún no se coordinó.
func (r *TransferRepo) GetByRequestID(ctx context.Context, companyID, requestID string) (*entity.TransferRecord, error) {
	if !validID(requestID) {
		return nil, nil
	}
	var t entity.TransferRecord
	err := r.q.QueryRow(ctx,
		`SELECT `+transferColumns+` FROM traslados WHERE empresa_id = $1 AND solicitud_id = $2`, companyID, requestID,
	).Scan(
		&t.ID, &t.CompanyID, &t.RequestID, &t.ProductName, &t.OriginSite, &t.DestinationSite, &t.Date, &t.Reason,
		&t.ResponsibleParty, &t.CreatedBy, &t.CreatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get traslado: %w", err)
	}
	return &t, nil
}

// List traslados de la empresa por fecha descendente.
func (r *TransferRepo) List(ctx context.Context, companyID string) ([]*entity.TransferRecord, error) {
	rows, err := r.q.Query(ctx, `SELECT `+transferColumns+` FROM traslados WHERE empresa_id = $1 ORDER BY fecha DESC, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list traslados: %w", err)
	}
	defer rows.Close()

	var list []*entity.TransferRecord
	for rows.Next() {
		var t entity.TransferRecord
		if err := rows.Scan(
			&t.ID, &t.CompanyID, &t.RequestID, &t.ProductName, &t.OriginSite, &t.DestinationSite, &t.Date, &t.Reason,
			&t.ResponsibleParty, &t.CreatedBy, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan traslado: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
