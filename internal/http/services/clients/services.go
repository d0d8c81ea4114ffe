// Package clients contiene los services de alta y congelamiento de clientes.
package clients

import (
	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
	"github.com/Project-Legacy-LA/legacy-la/internal/email"
	"github.com/Project-Legacy-LA/legacy-la/internal/invite"
	"github.com/Project-Legacy-LA/legacy-la/internal/security/password"
)

type Deps struct {
	Store   repository.Store
	Invites *invite.Store
	Hasher  password.Hasher
	Mailer  email.Sender
	BaseURL string
}

type Services struct {
	Clients ClientService
}

func NewServices(d Deps) Services {
	if d.Hasher == nil {
		d.Hasher = password.Bcrypt{}
	}
	return Services{Clients: NewClientService(d)}
}
