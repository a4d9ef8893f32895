package memory

import (
	"context"
	"sort"

	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var (
	_ repository.StockMovementRepository = (*MovementRepo)(nil)
	_ repository.AccountingRepository    = (*AccountingRepo)(nil)
	_ repository.TransferRepository      = (*TransferRepo)(nil)
)

// MovementRepo ledger de movimientos en memoria.
type MovementRepo struct {
	v view
}

func (r *MovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	return r.v.with(func(st *state) error {
		st.movements = append(st.movements, *m)
		return nil
	})
}

func (r *MovementRepo) List(_ context.Context, companyID string, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	err := r.v.with(func(st *state) error {
		for _, m := range st.movements {
			if m.CompanyID != companyID {
				continue
			}
			if len(f.Kinds) > 0 && !containsKind(f.Kinds, m.Kind) {
				continue
			}
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.From != nil && m.MovedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && !m.MovedAt.Before(*f.To) {
				continue
			}
			m := m
			out = append(out, &m)
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].MovedAt.After(out[j].MovedAt) })
	return out, err
}

func containsKind(kinds []entity.MovementKind, k entity.MovementKind) bool {
	for _, x := range kinds {
		if x == k {
			return true
		}
	}
	return false
}

// AccountingRepo asientos contables en memoria.
type AccountingRepo struct {
	v view
}

func (r *AccountingRepo) Create(_ context.Context, e *entity.AccountingEntry) error {
	return r.v.with(func(st *state) error {
		st.accounting = append(st.accounting, *e)
		return nil
	})
}

func (r *AccountingRepo) List(_ context.Context, companyID string) ([]*entity.AccountingEntry, error) {
	var out []*entity.AccountingEntry
	err := r.v.with(func(st *state) error {
		for _, e := range st.accounting {
			if e.CompanyID == companyID {
				e := e
				out = append(out, &e)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, err
}

// TransferRepo traslados coordinados en memoria.
type TransferRepo struct {
	v view
}

func (r *TransferRepo) Create(_ context.Context, t *entity.TransferRecord) error {
	return r.v.with(func(st *state) error {
		st.transfers = append(st.transfers, *t)
		return nil
	})
}

func (r *TransferRepo) GetByRequestID(_ context.Context, companyID, requestID string) (*entity.TransferRecord, error) {
	var out *entity.TransferRecord
	err := r.v.with(func(st *state) error {
		for _, t := range st.transfers {
			if t.CompanyID == companyID && t.RequestID == requestID {
				t := t
				out = &t
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *TransferRepo) List(_ context.Context, companyID string) ([]*entity.TransferRecord, error) {
	var out []*entity.TransferRecord
	err := r.v.with(func(st *state) error {
		for _, t := range st.transfers {
			if t.CompanyID == companyID {
				t := t
				out = append(out, &t)
			}
		}
		return nil
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, err
}
