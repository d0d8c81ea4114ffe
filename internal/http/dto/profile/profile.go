// Package profile holds the DTOs of /profile/me.
package profile

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/http/dto/clients"
)

type PersonInput struct {
	FirstName      string  `json:"first_name"`
	MiddleName     *string `json:"middle_name"`
	LastName       string  `json:"last_name"`
	Suffix         *string `json:"suffix"`
	PreferredName  *string `json:"preferred_name"`
	DateOfBirth    *string `json:"date_of_birth"`
	BirthCountry   *string `json:"birth_country"`
	BirthAdminArea *string `json:"birth_admin_area"`
	BirthLocality  *string `json:"birth_locality"`
}

func (p PersonInput) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FirstName, validation.Required),
		validation.Field(&p.LastName, validation.Required),
		validation.Field(&p.DateOfBirth, validation.Date("2006-01-02")),
	)
}

// Person maps the input; empty optionals become nil.
func (p PersonInput) Person() repository.Person {
	return repository.Person{
		FirstName:      p.FirstName,
		MiddleName:     clients.NilIfEmpty(p.MiddleName),
		LastName:       p.LastName,
		Suffix:         clients.NilIfEmpty(p.Suffix),
		PreferredName:  clients.NilIfEmpty(p.PreferredName),
		DateOfBirth:    clients.NilIfEmpty(p.DateOfBirth),
		BirthCountry:   clients.NilIfEmpty(p.BirthCountry),
		BirthAdminArea: clients.NilIfEmpty(p.BirthAdminArea),
		BirthLocality:  clients.NilIfEmpty(p.BirthLocality),
	}
}

type ResidenceInput struct {
	Country    string  `json:"residence_country"`
	AdminArea  string  `json:"residence_admin_area"`
	Locality   string  `json:"residence_locality"`
	PostalCode *string `json:"residence_postal_code"`
	Line1      *string `json:"residence_line1"`
	Line2      *string `json:"residence_line2"`
}

func (c ResidenceInput) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Country, validation.Required),
		validation.Field(&c.AdminArea, validation.Required),
		validation.Field(&c.Locality, validation.Required),
	)
}

func (c ResidenceInput) Residence() repository.Residence {
	return repository.Residence{
		Country:    c.Country,
		AdminArea:  c.AdminArea,
		Locality:   c.Locality,
		PostalCode: clients.NilIfEmpty(c.PostalCode),
		Line1:      clients.NilIfEmpty(c.Line1),
		Line2:      clients.NilIfEmpty(c.Line2),
	}
}

type UpdateRequest struct {
	Person PersonInput    `json:"person"`
	Client ResidenceInput `json:"client"`
}

// Validate descends into both halves; ozzo reports "person.first_name"-style keys
// as nested Errors.
func (r UpdateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Person),
		validation.Field(&r.Client),
	)
}

type Response struct {
	Person *repository.Person  `json:"person"`
	Client *clients.ClientView `json:"client"`
}
