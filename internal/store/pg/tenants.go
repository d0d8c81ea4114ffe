package pg

import (
	"context"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type tenantRepo struct{ q querier }

func (r *tenantRepo) Create(ctx context.Context, ownerUserID, displayName string) (*repository.Tenant, error) {
	var t repository.Tenant
	err := r.q.QueryRow(ctx, `
		INSERT INTO app.tenant (owner_user_id, display_name)
		VALUES ($1, $2)
		RETURNING tenant_id::text, owner_user_id::text, display_name, created_at`,
		ownerUserID, displayName,
	).Scan(&t.ID, &t.OwnerUserID, &t.DisplayName, &t.CreatedAt)
	if err != nil {
		return nil, mapErr("create tenant", err)
	}
	return &t, nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id string) (*repository.Tenant, error) {
	var t repository.Tenant
	err := r.q.QueryRow(ctx, `
		SELECT tenant_id::text, owner_user_id::text, display_name, created_at
		  FROM app.tenant WHERE tenant_id = $1`, id,
	).Scan(&t.ID, &t.OwnerUserID, &t.DisplayName, &t.CreatedAt)
	if err != nil {
		return nil, mapErr("get tenant", err)
	}
	return &t, nil
}

func (r *tenantRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM app.tenant WHERE tenant_id = $1`, id)
	return mapErr("delete tenant", err)
}

type membershipRepo struct{ q querier }

func (r *membershipRepo) Create(ctx context.Context, m repository.Membership) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO app.membership (tenant_id, user_id, role, is_active)
		VALUES ($1, $2, $3, $4)`,
		m.TenantID, m.UserID, m.Role, m.IsActive)
	return mapErr("create membership", err)
}

func (r *membershipRepo) Activate(ctx context.Context, tenantID, userID, role string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE app.membership
		   SET is_active = true, updated_at = now()
		 WHERE tenant_id = $1 AND user_id = $2 AND role = $3`,
		tenantID, userID, role)
	return expectOne(tag, err, "activate membership")
}

func (r *membershipRepo) ListActiveByUser(ctx context.Context, userID string) ([]repository.Membership, error) {
	rows, err := r.q.Query(ctx, `
		SELECT tenant_id::text, user_id::text, role, is_active
		  FROM app.membership
		 WHERE user_id = $1 AND is_active = true
		 ORDER BY created_at, tenant_id`, userID)
	if err != nil {
		return nil, mapErr("list memberships", err)
	}
	defer rows.Close()

	var out []repository.Membership
	for rows.Next() {
		var m repository.Membership
		if err := rows.Scan(&m.TenantID, &m.UserID, &m.Role, &m.IsActive); err != nil {
			return nil, mapErr("scan membership", err)
		}
		out = append(out, m)
	}
	return out, mapErr("list memberships", rows.Err())
}
