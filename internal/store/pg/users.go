package pg

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type userRepo struct{ q querier }

const userColumns = `user_id::text, email, password_digest, status, person_id::text, is_superuser, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Status, &u.PersonID, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*repository.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM app.users WHERE email = $1 LIMIT 1`,
		strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		return nil, mapErr("find user by email", err)
	}
	return u, nil
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*repository.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx,
		`SELECT `+userColumns+` FROM app.users WHERE user_id = $1`, id))
	if err != nil {
		return nil, mapErr("find user by id", err)
	}
	return u, nil
}

func (r *userRepo) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	status := in.Status
	if status == "" {
		status = repository.UserStatusDisabled
	}
	u, err := scanUser(r.q.QueryRow(ctx, `
		INSERT INTO app.users (email, password_digest, status, person_id, is_superuser)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		strings.ToLower(strings.TrimSpace(in.Email)), in.PasswordHash, status, in.PersonID, in.IsSuperuser))
	if err != nil {
		return nil, mapErr("create user", err)
	}
	return u, nil
}

func (r *userRepo) Activate(ctx context.Context, id, passwordHash string) (*repository.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `
		UPDATE app.users
		   SET password_digest = $2, status = 'active', updated_at = now()
		 WHERE user_id = $1
		RETURNING `+userColumns, id, passwordHash))
	if err != nil {
		return nil, mapErr("activate user", err)
	}
	return u, nil
}

func (r *userRepo) UpdatePassword(ctx context.Context, id, passwordHash string) (*repository.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `
		UPDATE app.users
		   SET password_digest = $2, updated_at = now()
		 WHERE user_id = $1
		RETURNING `+userColumns, id, passwordHash))
	if err != nil {
		return nil, mapErr("update password", err)
	}
	return u, nil
}

func (r *userRepo) SetSuperuser(ctx context.Context, id string, superuser bool) (*repository.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, `
		UPDATE app.users
		   SET is_superuser = $2, updated_at = now()
		 WHERE user_id = $1
		RETURNING `+userColumns, id, superuser))
	if err != nil {
		return nil, mapErr("set superuser", err)
	}
	return u, nil
}

func (r *userRepo) AttachPerson(ctx context.Context, id, personID string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE app.users SET person_id = $2, updated_at = now() WHERE user_id = $1`, id, personID)
	return expectOne(tag, err, "attach person")
}

func (r *userRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM app.users WHERE user_id = $1`, id)
	return mapErr("delete user", err)
}
