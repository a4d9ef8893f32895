package workflow_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protrack/protrack-api/internal/application/dto"
	"github.com/protrack/protrack-api/internal/application/workflow"
	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/access"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/infrastructure/memory"
	"github.com/protrack/protrack-api/pkg/logger"
)

var (
	director = access.Actor{UserID: "dir", CompanyID: "c1", Role: entity.RoleDirectorGeneral}
	admin    = access.Actor{UserID: "adm", CompanyID: "c1", Role: entity.RoleAdministrator,
		Permissions: access.NewPermissionSet(entity.PermApproveRequests)}
	admin2 = access.Actor{UserID: "adm2", CompanyID: "c1", Role: entity.RoleAdministrator,
		Permissions: access.NewPermissionSet(entity.PermApproveRequests)}
	editorOnly = access.Actor{UserID: "ed", CompanyID: "c1", Role: entity.RoleAdministrator,
		Permissions: access.NewPermissionSet(entity.PermEditProducts)}
	employee = access.Actor{UserID: "emp", CompanyID: "c1", Role: entity.RoleEmployee}
)

type recordingNotifier struct {
	mu      sync.Mutex
	changes []workflow.Change
	err     error
}

func (n *recordingNotifier) Publish(_ context.Context, c workflow.Change) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
	return n.err
}

type fixture struct {
	store     *memory.Store
	requests  *workflow.RequestUseCase
	donations *workflow.DonationUseCase
	notifier  *recordingNotifier
}

func newFixture(t *testing.T, available int) *fixture {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{
		ID: "p1", CompanyID: "c1", Name: "Guantes", AvailableQuantity: available,
		UnitCost: decimal.NewFromInt(2), EntryKind: entity.EntryInitialInventory,
	}))
	n := &recordingNotifier{}
	reqs := workflow.NewRequestUseCase(store.TxRunner(), store.Products(), store.Requests(), n, logger.NewNop())
	return &fixture{
		store:     store,
		requests:  reqs,
		donations: workflow.NewDonationUseCase(store.Donations(), reqs),
		notifier:  n,
	}
}

func (f *fixture) create(t *testing.T, actor access.Actor, in dto.CreateRequestRequest) *dto.RequestResponse {
	t.Helper()
	out, err := f.requests.Create(context.Background(), actor, in)
	require.NoError(t, err)
	return out
}

func replenishment() dto.CreateRequestRequest {
	return dto.CreateRequestRequest{Kind: "Reabastecimiento", ProductID: "p1", Quantity: 5, Reason: "stock bajo"}
}

func donation(qty int) dto.CreateRequestRequest {
	return dto.CreateRequestRequest{Kind: "Donación", ProductID: "p1", Quantity: qty,
		ReceivingOrganization: "Fundación Luz", OriginSite: "Sede Central"}
}

func TestCreate_EstadoInicialPendiente(t *testing.T) {
	f := newFixture(t, 10)
	out := f.create(t, employee, replenishment())
	assert.Equal(t, "Pendiente", out.State)
	assert.Equal(t, "Guantes", out.ProductName)
	assert.Equal(t, "emp", out.RequestedBy)
	require.Len(t, f.notifier.changes, 1)
	assert.Equal(t, workflow.TableRequests, f.notifier.changes[0].Table)
}

func TestCreate_TrasladoRequiereSedes(t *testing.T) {
	f := newFixture(t, 10)
	_, err := f.requests.Create(context.Background(), employee, dto.CreateRequestRequest{Kind: "Traslado", ProductID: "p1", Quantity: 1, OriginSite: "A"})
	assert.ErrorIs(t, err, domain.ErrTransferMissingLocations)

	out := f.create(t, employee, dto.CreateRequestRequest{Kind: "Traslado", ProductID: "p1", Quantity: 1, OriginSite: "A", DestinationSite: "B"})
	assert.Equal(t, "B", out.DestinationSite)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	_, err := f.requests.Create(ctx, employee, dto.CreateRequestRequest{Kind: "Reabastecimiento", ProductID: "p1", Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.requests.Create(ctx, employee, dto.CreateRequestRequest{Kind: "Compra", ProductID: "p1", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.requests.Create(ctx, employee, dto.CreateRequestRequest{Kind: "Reabastecimiento", ProductID: "zz", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	_, err = f.requests.Create(ctx, employee, dto.CreateRequestRequest{Kind: "Donación", ProductID: "p1", Quantity: 1, OriginSite: "A"})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

func TestCreate_DonacionCreaRegistroParalelo(t *testing.T) {
	f := newFixture(t, 10)
	out := f.create(t, employee, donation(3))
	require.NotEmpty(t, out.DonationID)

	d, err := f.store.Donations().GetByID(context.Background(), "c1", out.DonationID)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, out.ID, d.RequestID)
	assert.Equal(t, entity.DonationPending, d.State)
	assert.Equal(t, 3, d.Quantity)
}

func TestApprove_DonacionEfectosAtomicos(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	req := f.create(t, employee, donation(4))

	out, err := f.requests.Approve(ctx, director, req.ID, "ok")
	require.NoError(t, err)
	assert.Equal(t, "Aprobada", out.State)
	assert.Equal(t, "dir", out.ReviewedBy)
	assert.NotNil(t, out.ReviewedAt)

	p, err := f.store.Products().GetByID(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 6, p.AvailableQuantity)

	entries, err := f.store.Accounting().List(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].SalePrice.IsZero())
	assert.Equal(t, 4, entries[0].UnitsSold)
	assert.Equal(t, "Donación", entries[0].MovementKind)
	assert.Equal(t, req.ID, entries[0].SourceRequestID)

	d, err := f.store.Donations().GetByID(ctx, "c1", req.DonationID)
	require.NoError(t, err)
	assert.Equal(t, entity.DonationApproved, d.State)
}

func TestApprove_DonacionSinStockNoCambiaNada(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	req := f.create(t, employee, donation(5))

	_, err := f.requests.Approve(ctx, director, req.ID, "")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	r, err := f.store.Requests().GetByID(ctx, "c1", req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestPending, r.State)
	d, err := f.store.Donations().GetByID(ctx, "c1", req.DonationID)
	require.NoError(t, err)
	assert.Equal(t, entity.DonationPending, d.State)
	entries, err := f.store.Accounting().List(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApprove_TrasladoPideCoordinacion(t *testing.T) {
	f := newFixture(t, 10)
	req := f.create(t, employee, dto.CreateRequestRequest{Kind: "Traslado", ProductID: "p1", Quantity: 2, OriginSite: "A", DestinationSite: "B"})
	out, err := f.requests.Approve(context.Background(), admin, req.ID, "")
	require.NoError(t, err)
	assert.True(t, out.RequiresTransferCoordination)

	p, err := f.store.Products().GetByID(context.Background(), "c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.AvailableQuantity)
}

func TestApprove_AdminSinPermisoDenegado(t *testing.T) {
	f := newFixture(t, 10)
	req := f.create(t, employee, replenishment())
	_, err := f.requests.Approve(context.Background(), editorOnly, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.requests.Approve(context.Background(), employee, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestApprove_EstadosTerminales(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	req := f.create(t, employee, replenishment())
	_, err := f.requests.Approve(ctx, director, req.ID, "")
	require.NoError(t, err)

	_, err = f.requests.Approve(ctx, director, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.requests.Reject(ctx, director, req.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.requests.Delegate(ctx, admin, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestApprove_NoExiste(t *testing.T) {
	f := newFixture(t, 10)
	_, err := f.requests.Approve(context.Background(), director, "nope", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReject_RequiereNotas(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	req := f.create(t, employee, donation(1))

	_, err := f.requests.Reject(ctx, director, req.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrReviewNotesRequired)

	out, err := f.requests.Reject(ctx, director, req.ID, "sin presupuesto")
	require.NoError(t, err)
	assert.Equal(t, "Rechazada", out.State)
	assert.Equal(t, "sin presupuesto", out.ReviewNotes)

	d, err := f.store.Donations().GetByID(ctx, "c1", req.DonationID)
	require.NoError(t, err)
	assert.Equal(t, entity.DonationRejected, d.State)
}

func TestReject_SinNotasRespetaPermisosYExistencia(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	req := f.create(t, employee, replenishment())

	_, err := f.requests.Reject(ctx, employee, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.requests.Reject(ctx, director, "no-existe", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.requests.Approve(ctx, director, req.ID, "")
	require.NoError(t, err)
	_, err = f.requests.Reject(ctx, director, req.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	r, err := f.store.Requests().GetByID(ctx, "c1", req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, r.State)
}

func TestDelegate_Reglas(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	own := f.create(t, admin, replenishment())
	other := f.create(t, employee, replenishment())

	_, err := f.requests.Delegate(ctx, admin, own.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "no delega su propia solicitud")
	_, err = f.requests.Delegate(ctx, director, other.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden, "el director no delega")

	out, err := f.requests.Delegate(ctx, admin, other.ID, "lo decide dirección")
	require.NoError(t, err)
	assert.Equal(t, "Delegada", out.State)

	_, err = f.requests.Approve(ctx, admin2, other.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "admin no actúa sobre delegadas")

	out, err = f.requests.Approve(ctx, director, other.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Aprobada", out.State)
}

func TestApprove_AdminNoRevisaPropia(t *testing.T) {
	f := newFixture(t, 10)
	own := f.create(t, admin, replenishment())
	_, err := f.requests.Approve(context.Background(), admin, own.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = f.requests.Approve(context.Background(), admin2, own.ID, "")
	assert.NoError(t, err)
}

func TestReviewQueue(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	own := f.create(t, admin, replenishment())
	pending := f.create(t, employee, replenishment())
	delegated := f.create(t, employee, replenishment())
	_, err := f.requests.Delegate(ctx, admin2, delegated.ID, "")
	require.NoError(t, err)
	done := f.create(t, employee, replenishment())
	_, err = f.requests.Approve(ctx, director, done.ID, "")
	require.NoError(t, err)

	q, err := f.requests.ReviewQueue(ctx, admin)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{pending.ID}, ids(q))

	q, err = f.requests.ReviewQueue(ctx, director)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{own.ID, pending.ID, delegated.ID}, ids(q))

	_, err = f.requests.ReviewQueue(ctx, employee)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	mine, err := f.requests.ListMine(ctx, admin)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{own.ID}, ids(mine))

	stats, err := f.requests.Stats(ctx, director)
	require.NoError(t, err)
	assert.Equal(t, dto.RequestStatsResponse{Pending: 2, Delegated: 1, Approved: 1, Total: 4}, *stats)

	all, err := f.requests.List(ctx, director, "Delegada")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{delegated.ID}, ids(all))
	_, err = f.requests.List(ctx, employee, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func ids(l *dto.RequestListResponse) []string {
	out := make([]string, 0, len(l.Items))
	for _, r := range l.Items {
		out = append(out, r.ID)
	}
	return out
}

func TestCoordinateTransfer(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	in := dto.CoordinateTransferRequest{OriginSite: "A", DestinationSite: "B", Date: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), ResponsibleParty: "Ana"}

	repl := f.create(t, employee, replenishment())
	_, err := f.requests.Approve(ctx, director, repl.ID, "")
	require.NoError(t, err)
	_, err = f.requests.CoordinateTransfer(ctx, admin, repl.ID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "solo traslados")

	tr := f.create(t, employee, dto.CreateRequestRequest{Kind: "Traslado", ProductID: "p1", Quantity: 2, OriginSite: "A", DestinationSite: "B", Reason: "apertura"})
	_, err = f.requests.CoordinateTransfer(ctx, admin, tr.ID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "solo aprobados")

	_, err = f.requests.Approve(ctx, director, tr.ID, "")
	require.NoError(t, err)

	_, err = f.requests.CoordinateTransfer(ctx, admin, tr.ID, dto.CoordinateTransferRequest{OriginSite: "A", DestinationSite: "B", Date: in.Date})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
	_, err = f.requests.CoordinateTransfer(ctx, employee, tr.ID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	rec, err := f.requests.CoordinateTransfer(ctx, admin, tr.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Guantes", rec.ProductName)
	assert.Equal(t, "apertura", rec.Reason)
	assert.Equal(t, "Ana", rec.ResponsibleParty)

	_, err = f.requests.CoordinateTransfer(ctx, admin, tr.ID, in)
	assert.ErrorIs(t, err, domain.ErrConflict)

	p, err := f.store.Products().GetByID(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 10, p.AvailableQuantity)
}

func TestPublish_FalloNoRevierte(t *testing.T) {
	f := newFixture(t, 10)
	f.notifier.err = errors.New("redis caído")
	out := f.create(t, employee, replenishment())
	assert.Equal(t, "Pendiente", out.State)
}

func TestDonationUseCase_AprobarYDenegar(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()
	a := f.create(t, employee, donation(2))
	b := f.create(t, employee, donation(1))

	out, err := f.donations.Approve(ctx, director, a.DonationID, "")
	require.NoError(t, err)
	assert.Equal(t, "Aprobado", out.State)
	r, err := f.store.Requests().GetByID(ctx, "c1", a.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequestApproved, r.State)

	_, err = f.donations.Reject(ctx, director, b.DonationID, "")
	assert.ErrorIs(t, err, domain.ErrReviewNotesRequired)
	out, err = f.donations.Reject(ctx, director, b.DonationID, "organización no verificada")
	require.NoError(t, err)
	assert.Equal(t, "Denegado", out.State)

	list, err := f.donations.List(ctx, admin, "Aprobado")
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, a.DonationID, list.Items[0].ID)

	_, err = f.donations.List(ctx, employee, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.donations.Approve(ctx, director, "nope", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
