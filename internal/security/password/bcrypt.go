// Package password hashes and verifies credentials with bcrypt and checks
// new passwords against a Policy.
package password

import (
	"crypto/rand"
	"errors"
	"math/big"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the cost of hashes already stored by the web app.
const DefaultCost = 10

const tempAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%"

// ErrMismatch is returned by Verify for a wrong password.
var ErrMismatch = errors.New("password: mismatch")

// Hasher hashes and compares passwords.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) error
}

// Bcrypt implements Hasher. A zero Cost uses DefaultCost.
type Bcrypt struct {
	Cost int
}

func (b Bcrypt) Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("password: empty")
	}
	cost := b.Cost
	if cost == 0 {
		cost = DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// Verify returns ErrMismatch for a wrong password and any other error for a
// malformed hash.
func (Bcrypt) Verify(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}

// TempPassword returns a random password for invited accounts. Nobody is told
// the value; the account stays disabled until the invite is accepted.
func TempPassword(n int) (string, error) {
	if n <= 0 {
		n = 12
	}
	limit := big.NewInt(int64(len(tempAlphabet)))
	out := make([]byte, n)
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		out[i] = tempAlphabet[idx.Int64()]
	}
	return string(out), nil
}
