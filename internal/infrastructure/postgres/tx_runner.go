package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/protrack/protrack-api/internal/application/auth"
	"github.com/protrack/protrack-api/internal/application/inventory"
	"github.com/protrack/protrack-api/internal/application/workflow"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner        = (*TxRunner)(nil)
	_ workflow.TxRunner         = (*TxRunner)(nil)
	_ auth.RegistrationTxRunner = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// inTx abre la transacción, ejecuta fn y hace Commit; cualquier error deja la tx en Rollback.
func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run registro de movimiento + descuento de stock.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewStockMovementRepository(tx), NewProductRepository(tx))
	})
}

// RunWorkflow revisión de solicitudes: aprobación de donaciones y coordinación de traslados.
func (r *TxRunner) RunWorkflow(ctx context.Context, fn func(
	reqRepo repository.RequestRepository,
	donationRepo repository.DonationRepository,
	productRepo repository.ProductRepository,
	accountingRepo repository.AccountingRepository,
	transferRepo repository.TransferRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(
			NewRequestRepository(tx),
			NewDonationRepository(tx),
			NewProductRepository(tx),
			NewAccountingRepository(tx),
			NewTransferRepository(tx),
		)
	})
}

// RunRegistration alta de empresa y Director General.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewCompanyRepository(tx), NewUserRepository(tx))
	})
}
