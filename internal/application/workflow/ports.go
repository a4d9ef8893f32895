package workflow

import (
	"context"

	"github.com/protrack/protrack-api/internal/domain/repository"
)

// TxRunner transacción del flujo de revisión: solicitud, donación, stock, contabilidad y traslados.
type TxRunner interface {
	RunWorkflow(ctx context.Context, fn func(
		reqRepo repository.RequestRepository,
		donationRepo repository.DonationRepository,
		productRepo repository.ProductRepository,
		accountingRepo repository.AccountingRepository,
		transferRepo repository.TransferRepository,
	) error) error
}

// Tablas notificadas a los clientes suscritos.
const (
	TableRequests  = "solicitudes"
	TableDonations = "donaciones"
)

// Change aviso de que una fila cambió; los clientes vuelven a consultar.
type Change struct {
	Table     string `json:"tabla"`
	Action    string `json:"accion"` // creada, aprobada, rechazada, delegada, coordinada
	CompanyID string `json:"empresa_id"`
	ID        string `json:"id"`
}

// ChangeNotifier publica cambios en tiempo real (Redis pub/sub o no-op).
type ChangeNotifier interface {
	Publish(ctx context.Context, change Change) error
}
