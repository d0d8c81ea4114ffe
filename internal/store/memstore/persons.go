package memstore

import (
	"context"

	"github.com/google/uuid"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type personRepo struct{ v view }

func (r personRepo) GetByID(_ context.Context, id string) (*repository.Person, error) {
	var out *repository.Person
	err := r.v.do(func(st *state) error {
		p, ok := st.persons[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

func (r personRepo) Create(_ context.Context, p repository.Person) (*repository.Person, error) {
	err := r.v.do(func(st *state) error {
		p.ID = uuid.NewString()
		st.persons[p.ID] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r personRepo) Update(_ context.Context, p repository.Person) (*repository.Person, error) {
	err := r.v.do(func(st *state) error {
		cur, ok := st.persons[p.ID]
		if !ok {
			return repository.ErrNotFound
		}
		p.TenantID = cur.TenantID
		st.persons[p.ID] = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}
