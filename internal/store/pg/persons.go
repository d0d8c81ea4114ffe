package pg

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type personRepo struct{ q querier }

const personColumns = `person_id::text, COALESCE(tenant_id::text, ''), first_name, middle_name, last_name, suffix,
	preferred_name, to_char(date_of_birth, 'YYYY-MM-DD'), birth_country, birth_admin_area, birth_locality`

func scanPerson(row pgx.Row) (*repository.Person, error) {
	var p repository.Person
	err := row.Scan(&p.ID, &p.TenantID, &p.FirstName, &p.MiddleName, &p.LastName, &p.Suffix,
		&p.PreferredName, &p.DateOfBirth, &p.BirthCountry, &p.BirthAdminArea, &p.BirthLocality)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *personRepo) GetByID(ctx context.Context, id string) (*repository.Person, error) {
	p, err := scanPerson(r.q.QueryRow(ctx, `SELECT `+personColumns+` FROM app.person WHERE person_id = $1`, id))
	if err != nil {
		return nil, mapErr("get person", err)
	}
	return p, nil
}

func (r *personRepo) Create(ctx context.Context, in repository.Person) (*repository.Person, error) {
	p, err := scanPerson(r.q.QueryRow(ctx, `
		INSERT INTO app.person (
			tenant_id, first_name, middle_name, last_name, suffix, preferred_name,
			date_of_birth, birth_country, birth_admin_area, birth_locality
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7::text::date, $8, $9, $10)
		RETURNING `+personColumns,
		nullIfEmpty(in.TenantID), in.FirstName, in.MiddleName, in.LastName, in.Suffix, in.PreferredName,
		in.DateOfBirth, in.BirthCountry, in.BirthAdminArea, in.BirthLocality))
	if err != nil {
		return nil, mapErr("create person", err)
	}
	return p, nil
}

func (r *personRepo) Update(ctx context.Context, in repository.Person) (*repository.Person, error) {
	p, err := scanPerson(r.q.QueryRow(ctx, `
		UPDATE app.person
		   SET first_name = $2, middle_name = $3, last_name = $4, suffix = $5, preferred_name = $6,
		       date_of_birth = $7::text::date, birth_country = $8, birth_admin_area = $9, birth_locality = $10,
		       updated_at = now()
		 WHERE person_id = $1
		RETURNING `+personColumns,
		in.ID, in.FirstName, in.MiddleName, in.LastName, in.Suffix, in.PreferredName,
		in.DateOfBirth, in.BirthCountry, in.BirthAdminArea, in.BirthLocality))
	if err != nil {
		return nil, mapErr("update person", err)
	}
	return p, nil
}
