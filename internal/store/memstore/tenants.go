package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type tenantRepo struct{ v view }

func (r tenantRepo) Create(_ context.Context, ownerUserID, displayName string) (*repository.Tenant, error) {
	var out *repository.Tenant
	err := r.v.do(func(st *state) error {
		if _, ok := st.users[ownerUserID]; !ok {
			return repository.ErrInvalidInput
		}
		t := repository.Tenant{
			ID:          uuid.NewString(),
			OwnerUserID: ownerUserID,
			DisplayName: displayName,
			CreatedAt:   r.v.s.now(),
		}
		st.tenants[t.ID] = t
		out = &t
		return nil
	})
	return out, err
}

func (r tenantRepo) GetByID(_ context.Context, id string) (*repository.Tenant, error) {
	var out *repository.Tenant
	err := r.v.do(func(st *state) error {
		t, ok := st.tenants[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &t
		return nil
	})
	return out, err
}

func (r tenantRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		st.dropTenant(id)
		return nil
	})
}

// dropTenant removes a tenant and everything scoped to it.
func (st *state) dropTenant(id string) {
	delete(st.tenants, id)
	for k := range st.memberships {
		if k.tenantID == id {
			delete(st.memberships, k)
		}
	}
	for k, c := range st.clients {
		if c.TenantID == id {
			delete(st.clients, k)
		}
	}
	for k, a := range st.accounts {
		if a.TenantID == id {
			delete(st.accounts, k)
		}
	}
	for k, g := range st.grants {
		if g.TenantID == id {
			delete(st.grants, k)
		}
	}
	for k, p := range st.persons {
		if p.TenantID == id {
			p.TenantID = ""
			st.persons[k] = p
		}
	}
}

type membershipRepo struct{ v view }

func (r membershipRepo) Create(_ context.Context, m repository.Membership) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.tenants[m.TenantID]; !ok {
			return repository.ErrInvalidInput
		}
		if _, ok := st.users[m.UserID]; !ok {
			return repository.ErrInvalidInput
		}
		k := membershipKey{m.TenantID, m.UserID, m.Role}
		if _, ok := st.memberships[k]; ok {
			return repository.ErrConflict
		}
		st.memberships[k] = membershipRow{Membership: m, seq: nextSeq()}
		return nil
	})
}

func (r membershipRepo) Activate(_ context.Context, tenantID, userID, role string) error {
	return r.v.do(func(st *state) error {
		k := membershipKey{tenantID, userID, role}
		row, ok := st.memberships[k]
		if !ok {
			return repository.ErrNotFound
		}
		row.IsActive = true
		st.memberships[k] = row
		return nil
	})
}

func (r membershipRepo) ListActiveByUser(_ context.Context, userID string) ([]repository.Membership, error) {
	var rows []membershipRow
	err := r.v.do(func(st *state) error {
		for k, m := range st.memberships {
			if k.userID == userID && m.IsActive {
				rows = append(rows, m)
			}
		}
		return nil
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	var out []repository.Membership
	for _, row := range rows {
		out = append(out, row.Membership)
	}
	return out, err
}
