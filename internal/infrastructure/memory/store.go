// Package memory implementa los puertos de persistencia en memoria.
// Las transacciones trabajan sobre una copia del estado y solo la publican si fn no devuelve error.
package memory

import (
	"context"
	"sync"

	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

type state struct {
	companies  map[string]entity.Company
	users      map[string]entity.User
	products   map[string]entity.Product
	movements  []entity.StockMovement
	requests   map[string]entity.Request
	donations  map[string]entity.Donation
	accounting []entity.AccountingEntry
	transfers  []entity.TransferRecord
}

func newState() *state {
	return &state{
		companies: map[string]entity.Company{},
		users:     map[string]entity.User{},
		products:  map[string]entity.Product{},
		requests:  map[string]entity.Request{},
		donations: map[string]entity.Donation{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.companies {
		c.companies[k] = v
	}
	for k, v := range s.users {
		v.Permissions = append([]entity.Permission(nil), v.Permissions...)
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.donations {
		c.donations[k] = v
	}
	c.movements = append([]entity.StockMovement(nil), s.movements...)
	c.accounting = append([]entity.AccountingEntry(nil), s.accounting...)
	c.transfers = append([]entity.TransferRecord(nil), s.transfers...)
	return c
}

// Store almacén en memoria seguro para uso concurrente.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// view acota un repositorio al estado global (tx == nil) o a la copia de una transacción.
type view struct {
	s  *Store
	tx *state
}

func (v view) with(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.st)
}

func (s *Store) root() view { return view{s: s} }

func (s *Store) Products() *ProductRepo { return &ProductRepo{s.root()} }
func (s *Store) Movements() *MovementRepo { return &MovementRepo{s.root()} }
func (s *Store) Requests() *RequestRepo { return &RequestRepo{s.root()} }
func (s *Store) Donations() *DonationRepo { return &DonationRepo{s.root()} }
func (s *Store) Accounting() *AccountingRepo { return &AccountingRepo{s.root()} }
func (s *Store) Transfers() *TransferRepo { return &TransferRepo{s.root()} }
func (s *Store) Users() *UserRepo { return &UserRepo{s.root()} }
func (s *Store) Companies() *CompanyRepo { return &CompanyRepo{s.root()} }
func (s *Store) TxRunner() *TxRunner { return &TxRunner{s: s} }

// TxRunner ejecuta callbacks sobre una copia del estado bajo el lock del almacén.
type TxRunner struct {
	s *Store
}

func (r *TxRunner) begin(ctx context.Context, fn func(tx view) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	work := r.s.st.clone()
	if err := fn(view{s: r.s, tx: work}); err != nil {
		return err
	}
	r.s.st = work
	return nil
}

// Run transacción del ledger de stock.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.begin(ctx, func(tx view) error {
		return fn(&MovementRepo{tx}, &ProductRepo{tx})
	})
}

// RunWorkflow transacción del flujo de solicitudes y donaciones.
func (r *TxRunner) RunWorkflow(ctx context.Context, fn func(
	reqRepo repository.RequestRepository,
	donationRepo repository.DonationRepository,
	productRepo repository.ProductRepository,
	accountingRepo repository.AccountingRepository,
	transferRepo repository.TransferRepository,
) error) error {
	return r.begin(ctx, func(tx view) error {
		return fn(&RequestRepo{tx}, &DonationRepo{tx}, &ProductRepo{tx}, &AccountingRepo{tx}, &TransferRepo{tx})
	})
}

// RunRegistration transacción de alta de empresa + director.
func (r *TxRunner) RunRegistration(ctx context.Context, fn func(
	companyRepo repository.CompanyRepository,
	userRepo repository.UserRepository,
) error) error {
	return r.begin(ctx, func(tx view) error {
		return fn(&CompanyRepo{tx}, &UserRepo{tx})
	})
}
