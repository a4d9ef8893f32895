package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var _ repository.DonationRepository = (*DonationRepo)(nil)

// DonationRepo registro paralelo de donaciones. Acepta pool o tx.
type DonationRepo struct {
	q Querier
}

// NewDonationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDonationRepository(q Querier) *DonationRepo {
	return &DonationRepo{q: q}
}

const donationColumns = `id, empresa_id, COALESCE(solicitud_id::text, ''), COALESCE(producto_id::text, ''), nombre_producto,
	cantidad_donada, sede_salida, organizacion_receptora, fecha_donacion, solicitado_por, estado, created_at, updated_at`

func scanDonation(row pgx.Row) (*entity.Donation, error) {
	var d entity.Donation
	var state string
	err := row.Scan(
		&d.ID, &d.CompanyID, &d.RequestID, &d.ProductID, &d.ProductName,
		&d.Quantity, &d.OriginSite, &d.ReceivingOrganization, &d.Date, &d.RequestedBy, &state, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.State = entity.DonationState(state)
	return &d, nil
}

// Create inserta la donación.
func (r *DonationRepo) Create(ctx context.Context, d *entity.Donation) error {
	query := `
		INSERT INTO donaciones (id, empresa_id, solicitud_id, producto_id, nombre_producto, cantidad_donada, sede_salida,
			organizacion_receptora, fecha_donacion, solicitado_por, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, nullable(d.RequestID), nullable(d.ProductID), d.ProductName, d.Quantity, d.OriginSite,
		d.ReceivingOrganization, d.Date, d.RequestedBy, string(d.State), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert donacion: %w", err)
	}
	return nil
}

// GetByID obtiene una donación; (nil, nil) si no existe.
func (r *DonationRepo) GetByID(ctx context.Context, companyID, id string) (*entity.Donation, error) {
	if !validID(id) {
		return nil, nil
	}
	d, err := scanDonation(r.q.QueryRow(ctx,
		`SELECT `+donationColumns+` FROM donaciones WHERE empresa_id = $1 AND id = $2`, companyID, id))
	if err != nil {
		if isNoRows(err) || isInvalidText(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get donacion: %w", err)
	}
	return d, nil
}

// UpdateState cambia el estado de la donación.
func (r *DonationRepo) UpdateState(ctx context.Context, companyID, id string, state entity.DonationState) error {
	_, err := r.q.Exec(ctx,
		`UPDATE donaciones SET estado = $3, updated_at = now() WHERE empresa_id = $1 AND id = $2`,
		companyID, id, string(state),
	)
	if err != nil {
		return fmt.Errorf("update donacion: %w", err)
	}
	return nil
}

// List donaciones de la empresa; state vacío no filtra.
func (r *DonationRepo) List(ctx context.Context, companyID string, state entity.DonationState) ([]*entity.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donaciones
		WHERE empresa_id = $1 AND ($2 = '' OR estado = $2)
		ORDER BY fecha_donacion DESC, id`
	rows, err := r.q.Query(ctx, query, companyID, string(state))
	if err != nil {
		return nil, fmt.Errorf("list donaciones: %w", err)
	}
	defer rows.Close()

	var list []*entity.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan donacion: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}
