package pg

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type clientRepo struct{ q querier }

const clientColumns = `c.client_id::text, c.tenant_id::text, c.primary_attorney_user_id::text, c.label, c.status,
	c.relationship_status, c.editing_frozen, c.residence_country, c.residence_admin_area, c.residence_locality,
	c.residence_postal_code, c.residence_line1, c.residence_line2, c.created_at`

func scanClient(row pgx.Row) (*repository.Client, error) {
	var c repository.Client
	err := row.Scan(&c.ID, &c.TenantID, &c.PrimaryAttorneyUserID, &c.Label, &c.Status,
		&c.RelationshipStatus, &c.EditingFrozen, &c.Residence.Country, &c.Residence.AdminArea, &c.Residence.Locality,
		&c.Residence.PostalCode, &c.Residence.Line1, &c.Residence.Line2, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepo) Create(ctx context.Context, in repository.CreateClientInput) (*repository.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `
		INSERT INTO app.client AS c (
			tenant_id, primary_attorney_user_id, label, status, relationship_status,
			residence_country, residence_admin_area, residence_locality,
			residence_postal_code, residence_line1, residence_line2
		)
		VALUES ($1, $2, $3, 'active', $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+clientColumns,
		in.TenantID, in.PrimaryAttorneyUserID, in.Label, in.RelationshipStatus,
		in.Residence.Country, in.Residence.AdminArea, in.Residence.Locality,
		in.Residence.PostalCode, in.Residence.Line1, in.Residence.Line2))
	if err != nil {
		return nil, mapErr("create client", err)
	}
	return c, nil
}

func (r *clientRepo) GetByID(ctx context.Context, id string) (*repository.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM app.client c WHERE c.client_id = $1`, id))
	if err != nil {
		return nil, mapErr("get client", err)
	}
	return c, nil
}

func (r *clientRepo) SetEditingFrozen(ctx context.Context, id string, frozen bool) (*repository.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `
		UPDATE app.client AS c
		   SET editing_frozen = $2, updated_at = now()
		 WHERE c.client_id = $1
		RETURNING `+clientColumns, id, frozen))
	if err != nil {
		return nil, mapErr("set editing frozen", err)
	}
	return c, nil
}

func (r *clientRepo) UpdateResidence(ctx context.Context, id string, res repository.Residence) (*repository.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `
		UPDATE app.client AS c
		   SET residence_country = $2, residence_admin_area = $3, residence_locality = $4,
		       residence_postal_code = $5, residence_line1 = $6, residence_line2 = $7,
		       updated_at = now()
		 WHERE c.client_id = $1
		RETURNING `+clientColumns,
		id, res.Country, res.AdminArea, res.Locality, res.PostalCode, res.Line1, res.Line2))
	if err != nil {
		return nil, mapErr("update residence", err)
	}
	return c, nil
}

func (r *clientRepo) FindPrimaryForUser(ctx context.Context, userID string) (*repository.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `
		SELECT `+clientColumns+`
		  FROM app.client c
		  JOIN app.client_account ca ON ca.client_id = c.client_id
		 WHERE ca.user_id = $1 AND ca.is_enabled = true
		 ORDER BY ca.created_at
		 LIMIT 1`, userID))
	if err != nil {
		return nil, mapErr("find primary client", err)
	}
	return c, nil
}

func (r *clientRepo) Delete(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM app.client WHERE client_id = $1`, id)
	return mapErr("delete client", err)
}

// ─── client accounts ───

type clientAccountRepo struct{ q querier }

const accountColumns = `client_account_id::text, tenant_id::text, client_id::text, user_id::text, role, can_write, is_enabled`

func scanAccount(row pgx.Row) (*repository.ClientAccount, error) {
	var a repository.ClientAccount
	if err := row.Scan(&a.ID, &a.TenantID, &a.ClientID, &a.UserID, &a.Role, &a.CanWrite, &a.IsEnabled); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *clientAccountRepo) Create(ctx context.Context, a repository.ClientAccount) (*repository.ClientAccount, error) {
	out, err := scanAccount(r.q.QueryRow(ctx, `
		INSERT INTO app.client_account (tenant_id, client_id, user_id, role, can_write, is_enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+accountColumns,
		a.TenantID, a.ClientID, a.UserID, a.Role, a.CanWrite, a.IsEnabled))
	if err != nil {
		return nil, mapErr("create client account", err)
	}
	return out, nil
}

func (r *clientAccountRepo) Get(ctx context.Context, userID, clientID string) (*repository.ClientAccount, error) {
	out, err := scanAccount(r.q.QueryRow(ctx, `
		SELECT `+accountColumns+`
		  FROM app.client_account
		 WHERE user_id = $1 AND client_id = $2
		 LIMIT 1`, userID, clientID))
	if err != nil {
		return nil, mapErr("get client account", err)
	}
	return out, nil
}

func (r *clientAccountRepo) Enable(ctx context.Context, userID, clientID string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE app.client_account
		   SET is_enabled = true, updated_at = now()
		 WHERE user_id = $1 AND client_id = $2`, userID, clientID)
	return expectOne(tag, err, "enable client account")
}

func (r *clientAccountRepo) ListEnabledByUser(ctx context.Context, userID string) ([]repository.ClientAccount, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+accountColumns+`
		  FROM app.client_account
		 WHERE user_id = $1 AND is_enabled = true
		 ORDER BY created_at`, userID)
	if err != nil {
		return nil, mapErr("list client accounts", err)
	}
	defer rows.Close()

	var out []repository.ClientAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, mapErr("scan client account", err)
		}
		out = append(out, *a)
	}
	return out, mapErr("list client accounts", rows.Err())
}

// ─── client grants ───

type clientGrantRepo struct{ q querier }

func (r *clientGrantRepo) Create(ctx context.Context, g repository.ClientGrant) (*repository.ClientGrant, error) {
	out := g
	perms := g.Permissions
	if perms == nil {
		perms = []string{}
	}
	err := r.q.QueryRow(ctx, `
		INSERT INTO app.client_grant (tenant_id, client_id, user_id, permissions, is_enabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING grant_id::text`,
		g.TenantID, g.ClientID, g.UserID, perms, g.IsEnabled,
	).Scan(&out.ID)
	if err != nil {
		return nil, mapErr("create client grant", err)
	}
	out.Permissions = perms
	return &out, nil
}

func (r *clientGrantRepo) ListEnabledByUser(ctx context.Context, userID string) ([]repository.ClientGrant, error) {
	rows, err := r.q.Query(ctx, `
		SELECT grant_id::text, tenant_id::text, client_id::text, user_id::text, permissions, is_enabled
		  FROM app.client_grant
		 WHERE user_id = $1 AND is_enabled = true
		 ORDER BY created_at`, userID)
	if err != nil {
		return nil, mapErr("list client grants", err)
	}
	defer rows.Close()

	var out []repository.ClientGrant
	for rows.Next() {
		var g repository.ClientGrant
		if err := rows.Scan(&g.ID, &g.TenantID, &g.ClientID, &g.UserID, &g.Permissions, &g.IsEnabled); err != nil {
			return nil, mapErr("scan client grant", err)
		}
		out = append(out, g)
	}
	return out, mapErr("list client grants", rows.Err())
}
