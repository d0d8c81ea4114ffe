package repository

import "context"

// Person is the civil profile attached to a user.
type Person struct {
	ID             string  `json:"person_id"`
	TenantID       string  `json:"tenant_id"`
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

type PersonRepository interface {
	GetByID(ctx context.Context, id string) (*Person, error)
	Create(ctx context.Context, p Person) (*Person, error)
	Update(ctx context.Context, p Person) (*Person, error)
}
