package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/protrack/protrack-api/internal/domain"
	"github.com/protrack/protrack-api/internal/domain/entity"
	"github.com/protrack/protrack-api/internal/domain/repository"
)

var (
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.CompanyRepository = (*CompanyRepo)(nil)
)

// UserRepo usuarios en memoria.
type UserRepo struct {
	v view
}

func copyUser(u entity.User) *entity.User {
	u.Permissions = append([]entity.Permission(nil), u.Permissions...)
	return &u
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	return r.v.with(func(st *state) error {
		for _, existing := range st.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = *copyUser(*u)
		return nil
	})
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.v.with(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = copyUser(u)
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.v.with(func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = copyUser(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	return r.v.with(func(st *state) error {
		if _, ok := st.users[u.ID]; !ok {
			return domain.ErrUserNotFound
		}
		for _, other := range st.users {
			if other.ID != u.ID && strings.EqualFold(other.Email, u.Email) {
				return domain.ErrEmailAlreadyExists
			}
		}
		st.users[u.ID] = *copyUser(*u)
		return nil
	})
}

func (r *UserRepo) UpdatePermissions(_ context.Context, companyID, id string, perms []entity.Permission) error {
	return r.v.with(func(st *state) error {
		u, ok := st.users[id]
		if !ok || u.CompanyID != companyID {
			return domain.ErrUserNotFound
		}
		u.Permissions = append([]entity.Permission(nil), perms...)
		st.users[id] = u
		return nil
	})
}

func (r *UserRepo) ListByCompany(_ context.Context, companyID string) ([]*entity.User, error) {
	var out []*entity.User
	err := r.v.with(func(st *state) error {
		for _, u := range st.users {
			if u.CompanyID == companyID {
				out = append(out, copyUser(u))
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, err
}

func (r *UserRepo) Delete(_ context.Context, companyID, id string) error {
	return r.v.with(func(st *state) error {
		if u, ok := st.users[id]; !ok || u.CompanyID != companyID {
			return domain.ErrUserNotFound
		}
		delete(st.users, id)
		return nil
	})
}

// CompanyRepo empresas en memoria.
type CompanyRepo struct {
	v view
}

func (r *CompanyRepo) Create(_ context.Context, c *entity.Company) error {
	return r.v.with(func(st *state) error {
		st.companies[c.ID] = *c
		return nil
	})
}

func (r *CompanyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	var out *entity.Company
	err := r.v.with(func(st *state) error {
		if c, ok := st.companies[id]; ok {
			out = &c
		}
		return nil
	})
	return out, err
}

func (r *CompanyRepo) List(_ context.Context) ([]*entity.Company, error) {
	var out []*entity.Company
	err := r.v.with(func(st *state) error {
		for _, c := range st.companies {
			c := c
			out = append(out, &c)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, err
}

func (r *CompanyRepo) SetDirector(_ context.Context, companyID, userID string) error {
	return r.v.with(func(st *state) error {
		c, ok := st.companies[companyID]
		if !ok {
			return domain.ErrNotFound
		}
		c.DirectorGeneralID = userID
		st.companies[companyID] = c
		return nil
	})
}
