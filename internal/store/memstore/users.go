package memstore

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type userRepo struct{ v view }

func normEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

func (r userRepo) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	var out *repository.User
	err := r.v.do(func(st *state) error {
		email = normEmail(email)
		for _, u := range st.users {
			if u.Email == email {
				u := u
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r userRepo) FindByID(_ context.Context, id string) (*repository.User, error) {
	var out *repository.User
	err := r.v.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) Create(_ context.Context, in repository.CreateUserInput) (*repository.User, error) {
	var out *repository.User
	err := r.v.do(func(st *state) error {
		email := normEmail(in.Email)
		for _, u := range st.users {
			if u.Email == email {
				return repository.ErrConflict
			}
		}
		status := in.Status
		if status == "" {
			status = repository.UserStatusDisabled
		}
		now := r.v.s.now()
		u := repository.User{
			ID:           uuid.NewString(),
			Email:        email,
			PasswordHash: in.PasswordHash,
			Status:       status,
			IsSuperuser:  in.IsSuperuser,
			PersonID:     in.PersonID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		st.users[u.ID] = u
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) update(id string, fn func(u *repository.User)) (*repository.User, error) {
	var out *repository.User
	err := r.v.do(func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		fn(&u)
		u.UpdatedAt = r.v.s.now()
		st.users[id] = u
		out = &u
		return nil
	})
	return out, err
}

func (r userRepo) Activate(_ context.Context, id, passwordHash string) (*repository.User, error) {
	return r.update(id, func(u *repository.User) {
		u.PasswordHash = passwordHash
		u.Status = repository.UserStatusActive
	})
}

func (r userRepo) UpdatePassword(_ context.Context, id, passwordHash string) (*repository.User, error) {
	return r.update(id, func(u *repository.User) { u.PasswordHash = passwordHash })
}

func (r userRepo) SetSuperuser(_ context.Context, id string, superuser bool) (*repository.User, error) {
	return r.update(id, func(u *repository.User) { u.IsSuperuser = superuser })
}

func (r userRepo) AttachPerson(_ context.Context, id, personID string) error {
	_, err := r.update(id, func(u *repository.User) { u.PersonID = &personID })
	return err
}

// Delete cascades the way the SQL foreign keys do.
func (r userRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		delete(st.users, id)
		for k, t := range st.tenants {
			if t.OwnerUserID == id {
				st.dropTenant(k)
			}
		}
		for k := range st.memberships {
			if k.userID == id {
				delete(st.memberships, k)
			}
		}
		for k, a := range st.accounts {
			if a.UserID == id {
				delete(st.accounts, k)
			}
		}
		for k, g := range st.grants {
			if g.UserID == id {
				delete(st.grants, k)
			}
		}
		return nil
	})
}
