package postgres_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/repository"
	"github.com/protrack/protrack-api/internal/infrastructure/postgres"
)

const (
	empresaID = "6f1c2a54-3f0e-4c41-9a57-0d7c1e0b9a10"
	validoID  = "0b8f7d3e-2c1a-4e5b-8f9a-7d6c5b4a3e21"
)

// uuidInvalido lo que responde PostgreSQL al comparar una columna UUID con texto mal formado.
var uuidInvalido = &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

// rechazoQuerier responde 22P02 a todo y cuenta cuántas sentencias llegaron a la base.
type rechazoQuerier struct{ calls int }

func (q *rechazoQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	q.calls++
	return pgconn.CommandTag{}, uuidInvalido
}

func (q *rechazoQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	q.calls++
	return nil, uuidInvalido
}

func (q *rechazoQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	q.calls++
	return errRow{uuidInvalido}
}

func TestGetByID_IDMalFormadoEsNoEncontrado(t *testing.T) {
	ctx := context.Background()
	q := &rechazoQuerier{}

	p, err := postgres.NewProductRepository(q).GetByID(ctx, empresaID, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = postgres.NewProductRepository(q).GetByIDForUpdate(ctx, empresaID, "abc")
	require.NoError(t, err)
	assert.Nil(t, p)

	req, err := postgres.NewRequestRepository(q).GetByIDForUpdate(ctx, empresaID, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, req)

	d, err := postgres.NewDonationRepository(q).GetByID(ctx, empresaID, "123")
	require.NoError(t, err)
	assert.Nil(t, d)

	u, err := postgres.NewUserRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, u)

	c, err := postgres.NewCompanyRepository(q).GetByID(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, c)

	tr, err := postgres.NewTransferRepository(q).GetByRequestID(ctx, empresaID, "abc")
	require.NoError(t, err)
	assert.Nil(t, tr)

	assert.Zero(t, q.calls, "un id que no es UUID no debe llegar a la base")
}

func TestGetByID_ErrorDeConversionEsNoEncontrado(t *testing.T) {
	ctx := context.Background()
	q := &rechazoQuerier{}

	p, err := postgres.NewProductRepository(q).GetByID(ctx, empresaID, validoID)
	require.NoError(t, err)
	assert.Nil(t, p)

	req, err := postgres.NewRequestRepository(q).GetByID(ctx, empresaID, validoID)
	require.NoError(t, err)
	assert.Nil(t, req)

	u, err := postgres.NewUserRepository(q).GetByID(ctx, validoID)
	require.NoError(t, err)
	assert.Nil(t, u)

	assert.Equal(t, 3, q.calls)
}

func TestEscrituras_IDMalFormado(t *testing.T) {
	ctx := context.Background()
	q := &rechazoQuerier{}
	products := postgres.NewProductRepository(q)
	users := postgres.NewUserRepository(q)

	assert.ErrorIs(t, products.Delete(ctx, empresaID, "abc"), domain.ErrProductNotFound)
	assert.ErrorIs(t, products.DecrementAvailable(ctx, empresaID, "abc", 1), domain.ErrProductNotFound)
	assert.ErrorIs(t, users.Delete(ctx, empresaID, "abc"), domain.ErrUserNotFound)
	assert.ErrorIs(t, users.UpdatePermissions(ctx, empresaID, "abc", nil), domain.ErrUserNotFound)

	movs, err := postgres.NewStockMovementRepository(q).List(ctx, empresaID, repository.MovementFilter{ProductID: "abc"})
	require.NoError(t, err)
	assert.Empty(t, movs)

	assert.Zero(t, q.calls)
}

func TestErrores_OtrosCodigosSiguenSiendoInternos(t *testing.T) {
	q := &rechazoQuerier{}
	_, err := postgres.NewProductRepository(q).List(context.Background(), empresaID, repository.ProductFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, uuidInvalido)
	assert.False(t, domain.IsNotFound(err))
}
