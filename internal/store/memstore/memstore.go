// Package memstore is an in-memory repository.Store for tests and for the
// "memory" storage driver. Data is lost on restart.
package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

// Store keeps every table in maps behind one mutex.
//
// InTx holds the mutex for the whole callback and works on a copy that is
// swapped in on success, so fn must only use the Repositories it is given.
type Store struct {
	mu   sync.Mutex
	data *state
	now  func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{data: newState(), now: time.Now}
}

func (s *Store) Ping(context.Context) error { return nil }
func (s *Store) Close()                     {}

func (s *Store) InTx(ctx context.Context, fn func(repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(view{s: s, tx: work}); err != nil {
		return err
	}
	s.data = work
	return nil
}

func (s *Store) Users() repository.UserRepository                   { return view{s: s}.Users() }
func (s *Store) Tenants() repository.TenantRepository               { return view{s: s}.Tenants() }
func (s *Store) Memberships() repository.MembershipRepository       { return view{s: s}.Memberships() }
func (s *Store) Clients() repository.ClientRepository               { return view{s: s}.Clients() }
func (s *Store) ClientAccounts() repository.ClientAccountRepository { return view{s: s}.ClientAccounts() }
func (s *Store) ClientGrants() repository.ClientGrantRepository     { return view{s: s}.ClientGrants() }
func (s *Store) Persons() repository.PersonRepository               { return view{s: s}.Persons() }

// view is either the live store (tx == nil) or an open transaction.
type view struct {
	s  *Store
	tx *state
}

func (v view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	return fn(v.s.data)
}

func (v view) Users() repository.UserRepository                   { return userRepo{v} }
func (v view) Tenants() repository.TenantRepository               { return tenantRepo{v} }
func (v view) Memberships() repository.MembershipRepository       { return membershipRepo{v} }
func (v view) Clients() repository.ClientRepository               { return clientRepo{v} }
func (v view) ClientAccounts() repository.ClientAccountRepository { return clientAccountRepo{v} }
func (v view) ClientGrants() repository.ClientGrantRepository     { return clientGrantRepo{v} }
func (v view) Persons() repository.PersonRepository               { return personRepo{v} }

type membershipKey struct{ tenantID, userID, role string }

type state struct {
	users       map[string]repository.User
	tenants     map[string]repository.Tenant
	memberships map[membershipKey]membershipRow
	clients     map[string]repository.Client
	accounts    map[string]accountRow
	grants      map[string]grantRow
	persons     map[string]repository.Person
}

type membershipRow struct {
	repository.Membership
	seq int64
}

type accountRow struct {
	repository.ClientAccount
	seq int64
}

type grantRow struct {
	repository.ClientGrant
	seq int64
}

func newState() *state {
	return &state{
		users:       map[string]repository.User{},
		tenants:     map[string]repository.Tenant{},
		memberships: map[membershipKey]membershipRow{},
		clients:     map[string]repository.Client{},
		accounts:    map[string]accountRow{},
		grants:      map[string]grantRow{},
		persons:     map[string]repository.Person{},
	}
}

// clone copies the maps. Slice fields are copied again on write, so sharing
// them between copies is safe.
func (st *state) clone() *state {
	out := newState()
	for k, v := range st.users {
		out.users[k] = v
	}
	for k, v := range st.tenants {
		out.tenants[k] = v
	}
	for k, v := range st.memberships {
		out.memberships[k] = v
	}
	for k, v := range st.clients {
		out.clients[k] = v
	}
	for k, v := range st.accounts {
		out.accounts[k] = v
	}
	for k, v := range st.grants {
		out.grants[k] = v
	}
	for k, v := range st.persons {
		out.persons[k] = v
	}
	return out
}

var seq struct {
	sync.Mutex
	n int64
}

// nextSeq orders rows the way created_at does in Postgres.
func nextSeq() int64 {
	seq.Lock()
	defer seq.Unlock()
	seq.n++
	return seq.n
}
