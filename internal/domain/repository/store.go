package repository

import "context"

// Repositories groups every repository over one connection scope.
type Repositories interface {
	Users() UserRepository
	Tenants() TenantRepository
	Memberships() MembershipRepository
	Clients() ClientRepository
	ClientAccounts() ClientAccountRepository
	ClientGrants() ClientGrantRepository
	Persons() PersonRepository
}

// Store is the data access entry point.
type Store interface {
	Repositories

	// InTx runs fn against repositories bound to one transaction. The
	// transaction commits if fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(Repositories) error) error

	Ping(ctx context.Context) error
	Close()
}
