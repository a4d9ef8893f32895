package memory

import (
	"context"
	"sort"

	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var (
	_ repository.RequestRepository  = (*RequestRepo)(nil)
	_ repository.DonationRepository = (*DonationRepo)(nil)
)

// RequestRepo solicitudes en memoria.
type RequestRepo struct {
	v view
}

func (r *RequestRepo) Create(_ context.Context, req *entity.Request) error {
	return r.v.with(func(st *state) error {
		st.requests[req.ID] = *req
		return nil
	})
}

func (r *RequestRepo) GetByID(_ context.Context, companyID, id string) (*entity.Request, error) {
	var out *entity.Request
	err := r.v.with(func(st *state) error {
		if req, ok := st.requests[id]; ok && req.CompanyID == companyID {
			out = &req
		}
		return nil
	})
	return out, err
}

func (r *RequestRepo) GetByIDForUpdate(ctx context.Context, companyID, id string) (*entity.Request, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *RequestRepo) Update(_ context.Context, req *entity.Request) error {
	return r.v.with(func(st *state) error {
		st.requests[req.ID] = *req
		return nil
	})
}

func (r *RequestRepo) List(_ context.Context, companyID string, f repository.RequestFilter) ([]*entity.Request, error) {
	var out []*entity.Request
	err := r.v.with(func(st *state) error {
		for _, req := range st.requests {
			if req.CompanyID != companyID {
				continue
			}
			if len(f.States) > 0 && !containsState(f.States, req.State) {
				continue
			}
			if f.Kind != "" && req.Kind != f.Kind {
				continue
			}
			if f.RequestedBy != "" && req.RequestedBy != f.RequestedBy {
				continue
			}
			if f.ExcludeRequestedBy != "" && req.RequestedBy == f.ExcludeRequestedBy {
				continue
			}
			req := req
			out = append(out, &req)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].RequestedAt.After(out[j].RequestedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *RequestRepo) CountByState(_ context.Context, companyID string) (map[entity.RequestState]int, error) {
	counts := map[entity.RequestState]int{}
	err := r.v.with(func(st *state) error {
		for _, req := range st.requests {
			if req.CompanyID == companyID {
				counts[req.State]++
			}
		}
		return nil
	})
	return counts, err
}

func containsState(states []entity.RequestState, s entity.RequestState) bool {
	for _, x := range states {
		if x == s {
			return true
		}
	}
	return false
}

// DonationRepo donaciones en memoria.
type DonationRepo struct {
	v view
}

func (r *DonationRepo) Create(_ context.Context, d *entity.Donation) error {
	return r.v.with(func(st *state) error {
		st.donations[d.ID] = *d
		return nil
	})
}

func (r *DonationRepo) GetByID(_ context.Context, companyID, id string) (*entity.Donation, error) {
	var out *entity.Donation
	err := r.v.with(func(st *state) error {
		if d, ok := st.donations[id]; ok && d.CompanyID == companyID {
			out = &d
		}
		return nil
	})
	return out, err
}

func (r *DonationRepo) UpdateState(_ context.Context, companyID, id string, s entity.DonationState) error {
	return r.v.with(func(st *state) error {
		d, ok := st.donations[id]
		if !ok || d.CompanyID != companyID {
			return nil
		}
		d.State = s
		st.donations[id] = d
		return nil
	})
}

func (r *DonationRepo) List(_ context.Context, companyID string, s entity.DonationState) ([]*entity.Donation, error) {
	var out []*entity.Donation
	err := r.v.with(func(st *state) error {
		for _, d := range st.donations {
			if d.CompanyID == companyID && (s == "" || d.State == s) {
				d := d
				out = append(out, &d)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}
