package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo productos en memoria.
type ProductRepo struct {
	v view
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	return r.v.with(func(st *state) error {
		for _, existing := range st.products {
			if existing.CompanyID == p.CompanyID && strings.EqualFold(existing.Name, p.Name) {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) GetByID(_ context.Context, companyID, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(func(st *state) error {
		if p, ok := st.products[id]; ok && p.CompanyID == companyID {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, companyID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, companyID, id)
}

func (r *ProductRepo) GetByName(_ context.Context, companyID, name string) (*entity.Product, error) {
	var out *entity.Product
	err := r.v.with(func(st *state) error {
		for _, p := range st.products {
			if p.CompanyID == companyID && strings.EqualFold(p.Name, name) {
				p := p
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	return r.v.with(func(st *state) error {
		cur, ok := st.products[p.ID]
		if !ok || cur.CompanyID != p.CompanyID {
			return domain.ErrProductNotFound
		}
		for _, other := range st.products {
			if other.ID != p.ID && other.CompanyID == p.CompanyID && strings.EqualFold(other.Name, p.Name) {
				return domain.ErrDuplicate
			}
		}
		st.products[p.ID] = *p
		return nil
	})
}

func (r *ProductRepo) Delete(_ context.Context, companyID, id string) error {
	return r.v.with(func(st *state) error {
		if p, ok := st.products[id]; !ok || p.CompanyID != companyID {
			return domain.ErrProductNotFound
		}
		delete(st.products, id)
		return nil
	})
}

func (r *ProductRepo) List(_ context.Context, companyID string, f repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.v.with(func(st *state) error {
		search := strings.ToLower(strings.TrimSpace(f.Search))
		for _, p := range st.products {
			if p.CompanyID != companyID {
				continue
			}
			if f.Category != "" && p.Category != f.Category {
				continue
			}
			if f.Type != "" && p.Type != f.Type {
				continue
			}
			if f.Supplier != "" && p.Supplier != f.Supplier {
				continue
			}
			if f.Location != "" && p.Location != f.Location {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
				continue
			}
			p := p
			out = append(out, &p)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}

func (r *ProductRepo) FilterOptions(ctx context.Context, companyID string) (*repository.ProductFilterOptions, error) {
	list, err := r.List(ctx, companyID, repository.ProductFilter{})
	if err != nil {
		return nil, err
	}
	types, suppliers, locations := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for _, p := range list {
		types[p.Type] = true
		suppliers[p.Supplier] = true
		locations[p.Location] = true
	}
	return &repository.ProductFilterOptions{
		Types:     sortedKeys(types),
		Suppliers: sortedKeys(suppliers),
		Locations: sortedKeys(locations),
	}, nil
}

func (r *ProductRepo) DecrementAvailable(_ context.Context, companyID, id string, qty int) error {
	return r.v.with(func(st *state) error {
		p, ok := st.products[id]
		if !ok || p.CompanyID != companyID {
			return domain.ErrProductNotFound
		}
		if qty > p.AvailableQuantity {
			return domain.ErrInsufficientStock
		}
		p.AvailableQuantity -= qty
		p.UpdatedAt = time.Now()
		st.products[id] = p
		return nil
	})
}

func (r *ProductRepo) UpdateCategories(_ context.Context, companyID string, categories map[string]entity.Category) error {
	return r.v.with(func(st *state) error {
		for id, cat := range categories {
			p, ok := st.products[id]
			if !ok || p.CompanyID != companyID {
				continue
			}
			p.Category = cat
			st.products[id] = p
		}
		return nil
	})
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
