// Package pg implements repository.Store on PostgreSQL through pgxpool.
package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/observability/logger"
)

// Config for the pool.
type Config struct {
	DSN      string
	MaxConns int32
	MinConns int32
}

// Store is the pgx-backed repository.Store.
type Store struct {
	pool *pgxpool.Pool
	repos
}

var _ repository.Store = (*Store)(nil)

// querier is what both *pgxpool.Pool and pgx.Tx offer.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// New opens the pool and pings it.
//
// Every connection checkout publishes the request's acting identity
// (repository.ActorFrom) as the session settings app.tenant_id and
// app.user_id, so it is visible to every statement of the request.
func New(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pg: parse DSN: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	poolCfg.BeforeAcquire = applyActor

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping failed: %w", err)
	}
	return &Store{pool: pool, repos: repos{q: pool}}, nil
}

const setActorSQL = `SELECT set_config('app.tenant_id', $1, false), set_config('app.user_id', $2, false)`

// applyActor runs on every checkout. Settings are always overwritten so a
// pooled connection never carries a previous request's identity.
func applyActor(ctx context.Context, conn *pgx.Conn) bool {
	a, _ := repository.ActorFrom(ctx)
	if _, err := conn.Exec(ctx, setActorSQL, a.TenantID, a.UserID); err != nil {
		logger.From(ctx).Warn("pg: set acting identity failed, dropping connection", logger.Err(err))
		return false
	}
	return true
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }
func (s *Store) Close()                         { s.pool.Close() }

// Pool exposes the pool to migrations and integration tests.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// InTx implements repository.Store.
func (s *Store) InTx(ctx context.Context, fn func(repository.Repositories) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("pg: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(repos{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("pg: commit: %w", err)
	}
	return nil
}

// repos binds every repository to one querier.
type repos struct{ q querier }

func (r repos) Users() repository.UserRepository                   { return &userRepo{q: r.q} }
func (r repos) Tenants() repository.TenantRepository               { return &tenantRepo{q: r.q} }
func (r repos) Memberships() repository.MembershipRepository       { return &membershipRepo{q: r.q} }
func (r repos) Clients() repository.ClientRepository               { return &clientRepo{q: r.q} }
func (r repos) ClientAccounts() repository.ClientAccountRepository { return &clientAccountRepo{q: r.q} }
func (r repos) ClientGrants() repository.ClientGrantRepository     { return &clientGrantRepo{q: r.q} }
func (r repos) Persons() repository.PersonRepository               { return &personRepo{q: r.q} }

// ─── helpers ───

const (
	uniqueViolation     = "23505"
	invalidTextRepr     = "22P02" // malformed uuid in a lookup
	foreignKeyViolation = "23503"
)

// mapErr translates pgx errors into repository sentinels, wrapping with op.
func mapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("pg: %s: %w", op, repository.ErrConflict)
		case invalidTextRepr:
			return repository.ErrNotFound
		case foreignKeyViolation:
			return fmt.Errorf("pg: %s: %w", op, repository.ErrInvalidInput)
		}
	}
	return fmt.Errorf("pg: %s: %w", op, err)
}

// expectOne turns a zero-row UPDATE/DELETE into ErrNotFound.
func expectOne(tag pgconn.CommandTag, err error, op string) error {
	if err != nil {
		return mapErr(op, err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
