package memstore

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type clientRepo struct{ v view }

func (r clientRepo) Create(_ context.Context, in repository.CreateClientInput) (*repository.Client, error) {
	var out *repository.Client
	err := r.v.do(func(st *state) error {
		if _, ok := st.tenants[in.TenantID]; !ok {
			return repository.ErrInvalidInput
		}
		if _, ok := st.users[in.PrimaryAttorneyUserID]; !ok {
			return repository.ErrInvalidInput
		}
		c := repository.Client{
			ID:                    uuid.NewString(),
			TenantID:              in.TenantID,
			PrimaryAttorneyUserID: in.PrimaryAttorneyUserID,
			Label:                 in.Label,
			Status:                repository.ClientStatusActive,
			RelationshipStatus:    in.RelationshipStatus,
			Residence:             in.Residence,
			CreatedAt:             r.v.s.now(),
		}
		st.clients[c.ID] = c
		out = &c
		return nil
	})
	return out, err
}

func (r clientRepo) GetByID(_ context.Context, id string) (*repository.Client, error) {
	var out *repository.Client
	err := r.v.do(func(st *state) error {
		c, ok := st.clients[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r clientRepo) update(id string, fn func(c *repository.Client)) (*repository.Client, error) {
	var out *repository.Client
	err := r.v.do(func(st *state) error {
		c, ok := st.clients[id]
		if !ok {
			return repository.ErrNotFound
		}
		fn(&c)
		st.clients[id] = c
		out = &c
		return nil
	})
	return out, err
}

func (r clientRepo) SetEditingFrozen(_ context.Context, id string, frozen bool) (*repository.Client, error) {
	return r.update(id, func(c *repository.Client) { c.EditingFrozen = frozen })
}

func (r clientRepo) UpdateResidence(_ context.Context, id string, res repository.Residence) (*repository.Client, error) {
	return r.update(id, func(c *repository.Client) { c.Residence = res })
}

func (r clientRepo) FindPrimaryForUser(_ context.Context, userID string) (*repository.Client, error) {
	var out *repository.Client
	err := r.v.do(func(st *state) error {
		var best *accountRow
		for _, a := range st.accounts {
			if a.UserID != userID || !a.IsEnabled {
				continue
			}
			if best == nil || a.seq < best.seq {
				a := a
				best = &a
			}
		}
		if best == nil {
			return repository.ErrNotFound
		}
		c, ok := st.clients[best.ClientID]
		if !ok {
			return repository.ErrNotFound
		}
		out = &c
		return nil
	})
	return out, err
}

func (r clientRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		delete(st.clients, id)
		for k, a := range st.accounts {
			if a.ClientID == id {
				delete(st.accounts, k)
			}
		}
		for k, g := range st.grants {
			if g.ClientID == id {
				delete(st.grants, k)
			}
		}
		return nil
	})
}

type clientAccountRepo struct{ v view }

func (r clientAccountRepo) Create(_ context.Context, a repository.ClientAccount) (*repository.ClientAccount, error) {
	var out *repository.ClientAccount
	err := r.v.do(func(st *state) error {
		if _, ok := st.clients[a.ClientID]; !ok {
			return repository.ErrInvalidInput
		}
		if _, ok := st.users[a.UserID]; !ok {
			return repository.ErrInvalidInput
		}
		switch a.Role {
		case repository.ClientRoleOwner, repository.ClientRoleSpouse, repository.ClientRoleDelegate:
		default:
			return repository.ErrInvalidInput
		}
		for _, ex := range st.accounts {
			if ex.ClientID == a.ClientID && ex.UserID == a.UserID {
				return repository.ErrConflict
			}
		}
		a.ID = uuid.NewString()
		st.accounts[a.ID] = accountRow{ClientAccount: a, seq: nextSeq()}
		out = &a
		return nil
	})
	return out, err
}

func (r clientAccountRepo) Get(_ context.Context, userID, clientID string) (*repository.ClientAccount, error) {
	var out *repository.ClientAccount
	err := r.v.do(func(st *state) error {
		for _, a := range st.accounts {
			if a.UserID == userID && a.ClientID == clientID {
				acct := a.ClientAccount
				out = &acct
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r clientAccountRepo) Enable(_ context.Context, userID, clientID string) error {
	return r.v.do(func(st *state) error {
		for k, a := range st.accounts {
			if a.UserID == userID && a.ClientID == clientID {
				a.IsEnabled = true
				st.accounts[k] = a
				return nil
			}
		}
		return repository.ErrNotFound
	})
}

func (r clientAccountRepo) ListEnabledByUser(_ context.Context, userID string) ([]repository.ClientAccount, error) {
	var rows []accountRow
	err := r.v.do(func(st *state) error {
		for _, a := range st.accounts {
			if a.UserID == userID && a.IsEnabled {
				rows = append(rows, a)
			}
		}
		return nil
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	var out []repository.ClientAccount
	for _, row := range rows {
		out = append(out, row.ClientAccount)
	}
	return out, err
}

type clientGrantRepo struct{ v view }

func (r clientGrantRepo) Create(_ context.Context, g repository.ClientGrant) (*repository.ClientGrant, error) {
	var out *repository.ClientGrant
	err := r.v.do(func(st *state) error {
		if _, ok := st.clients[g.ClientID]; !ok {
			return repository.ErrInvalidInput
		}
		if _, ok := st.users[g.UserID]; !ok {
			return repository.ErrInvalidInput
		}
		g.ID = uuid.NewString()
		g.Permissions = append([]string{}, g.Permissions...)
		st.grants[g.ID] = grantRow{ClientGrant: g, seq: nextSeq()}
		out = &g
		return nil
	})
	return out, err
}

func (r clientGrantRepo) ListEnabledByUser(_ context.Context, userID string) ([]repository.ClientGrant, error) {
	var rows []grantRow
	err := r.v.do(func(st *state) error {
		for _, g := range st.grants {
			if g.UserID == userID && g.IsEnabled {
				rows = append(rows, g)
			}
		}
		return nil
	})
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	var out []repository.ClientGrant
	for _, row := range rows {
		g := row.ClientGrant
		g.Permissions = append([]string{}, g.Permissions...)
		out = append(out, g)
	}
	return out, err
}
