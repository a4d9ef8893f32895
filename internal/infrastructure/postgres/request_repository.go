package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var _ repository.RequestRepository = (*RequestRepo)(nil)

// RequestRepo solicitudes sobre PostgreSQL. Acepta pool o tx.
type RequestRepo struct {
	q Querier
}

// NewRequestRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRequestRepository(q Querier) *RequestRepo {
	return &RequestRepo{q: q}
}

const requestColumns = `id, empresa_id, tipo_solicitud, COALESCE(producto_id::text, ''), nombre_producto, cantidad_solicitada,
	motivo, sede_origen, sede_destino, organizacion_receptora, estado, solicitado_por, COALESCE(revisado_por::text, ''),
	fecha_solicitud, fecha_revision, notas_revision, COALESCE(donacion_id::text, ''), created_at, updated_at`

func scanRequest(row pgx.Row) (*entity.Request, error) {
	var req entity.Request
	var kind, state string
	err := row.Scan(
		&req.ID, &req.CompanyID, &kind, &req.ProductID, &req.ProductName, &req.Quantity,
		&req.Reason, &req.OriginSite, &req.DestinationSite, &req.ReceivingOrganization, &state, &req.RequestedBy, &req.ReviewedBy,
		&req.RequestedAt, &req.ReviewedAt, &req.ReviewNotes, &req.DonationID, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.Kind = entity.RequestKind(kind)
	req.State = entity.RequestState(state)
	return &req, nil
}

// Create inserta la solicitud.
func (r *RequestRepo) Create(ctx context.Context, req *entity.Request) error {
	query := `
		INSERT INTO solicitudes (id, empresa_id, tipo_solicitud, producto_id, nombre_producto, cantidad_solicitada, motivo,
			sede_origen, sede_destino, organizacion_receptora, estado, solicitado_por, revisado_por, fecha_solicitud,
			fecha_revision, notas_revision, donacion_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		req.ID, req.CompanyID, string(req.Kind), nullable(req.ProductID), req.ProductName, req.Quantity, req.Reason,
		req.OriginSite, req.DestinationSite, req.ReceivingOrganization, string(req.State), req.RequestedBy,
		nullable(req.ReviewedBy), req.RequestedAt, req.ReviewedAt, req.ReviewNotes, nullable(req.DonationID),
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert solicitud: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud de la empresa; (nil, nil) si no existe.
func (r *RequestRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Request, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+requestColumns+` FROM solicitudes WHERE empresa_id = $1 AND id = $2`, companyID, id)
}

// GetByIDForUpdate bloquea la fila para serializar revisiones concurrentes.
func (r *RequestRepo) GetByIDForUpdate(ctx context.Context, companyID, id string) (*entity.Request, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.getOne(ctx, `SELECT `+requestColumns+` FROM solicitudes WHERE empresa_id = $1 AND id = $2 FOR UPDATE`, companyID, id)
}

func (r *RequestRepo) getOne(ctx context.Context, query string, args ...any) (*entity.Request, error) {
	req, err := scanRequest(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get solicitud: %w", err)
	}
	return req, nil
}

// Update persiste estado, revisión y vínculo de donación.
func (r *RequestRepo) Update(ctx context.Context, req *entity.Request) error {
	query := `
		UPDATE solicitudes SET estado = $3, revisado_por = $4, fecha_revision = $5, notas_revision = $6,
			donacion_id = $7, updated_at = $8
		WHERE empresa_id = $1 AND id = $2`
	_, err := r.q.Exec(ctx, query,
		req.CompanyID, req.ID, string(req.State), nullable(req.ReviewedBy), req.ReviewedAt, req.ReviewNotes,
		nullable(req.DonationID), req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update solicitud: %w", err)
	}
	return nil
}

// List solicitudes filtradas, de la más reciente a la más antigua.
func (r *RequestRepo) List(ctx context.Context, companyID string, f repository.RequestFilter) ([]*entity.Request, error) {
	where := []string{"empresa_id = $1"}
	args := []any{companyID}
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if len(f.States) > 0 {
		states := make([]string, len(f.States))
		for i, s := range f.States {
			states[i] = string(s)
		}
		add("estado = ANY($%d)", states)
	}
	if f.Kind != "" {
		add("tipo_solicitud = $%d", string(f.Kind))
	}
	if f.RequestedBy != "" {
		add("solicitado_por = $%d", f.RequestedBy)
	}
	if f.ExcludeRequestedBy != "" {
		add("solicitado_por <> $%d", f.ExcludeRequestedBy)
	}
	query := `SELECT ` + requestColumns + ` FROM solicitudes WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY fecha_solicitud DESC, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list solicitudes: %w", err)
	}
	defer rows.Close()

	var list []*entity.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("scan solicitud: %w", err)
		}
		list = append(list, req)
	}
	return list, rows.Err()
}

// CountByState conteo de solicitudes por estado.
func (r *RequestRepo) CountByState(ctx context.Context, companyID string) (map[entity.RequestState]int, error) {
	rows, err := r.q.Query(ctx, `SELECT estado, count(*) FROM solicitudes WHERE empresa_id = $1 GROUP BY estado`, companyID)
	if err != nil {
		return nil, fmt.Errorf("contar solicitudes: %w", err)
	}
	defer rows.Close()

	out := map[entity.RequestState]int{}
	for rows.Next() {
		var state string
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("scan conteo: %w", err)
		}
		out[entity.RequestState(state)] = n
	}
	return out, rows.Err()
}
