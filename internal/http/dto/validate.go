// Package dto holds request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Validatable is implemented by every request that validates itself.
type Validatable interface {
	Validate() error
}

// Message renders validation errors as one client-facing line, e.g.
// "email: must be a valid email address; password: cannot be blank".
func Message(err error) string {
	var es validation.Errors
	if errors.As(err, &es) {
		return strings.TrimSuffix(es.Error(), ".")
	}
	return err.Error()
}
