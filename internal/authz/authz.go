// Package authz decides client-scoped actions.
//
// A check walks an ordered list of tiers; the first tier that allows or
// denies settles the decision:
//
//  1. primary attorney of the client: always allowed, frozen or not
//  2. enabled client account: read always, write/delete unless frozen
//  3. enabled grants for the client: the action must be in a grant's
//     permission list, and write/delete are refused while frozen
//
// Anything that falls through is denied with NoGrant.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/Project-Legacy-LA/legacy-la/internal/domain/repository"
)

type Action string

const (
	Read   Action = "read"
	Write  Action = "write"
	Delete Action = "delete"
)

func (a Action) mutates() bool { return a == Write || a == Delete }

type Reason string

const (
	ReasonNotFound          Reason = "not_found"
	ReasonFrozen            Reason = "frozen"
	ReasonNoGrant           Reason = "no_grant"
	ReasonInsufficientGrant Reason = "insufficient_grant"
)

var (
	ErrNotFound          = errors.New("authz: client not found")
	ErrFrozen            = errors.New("authz: client is frozen")
	ErrNoGrant           = errors.New("authz: no grant for client")
	ErrInsufficientGrant = errors.New("authz: grant does not cover action")
)

func (r Reason) Err() error {
	switch r {
	case ReasonNotFound:
		return ErrNotFound
	case ReasonFrozen:
		return ErrFrozen
	case ReasonNoGrant:
		return ErrNoGrant
	case ReasonInsufficientGrant:
		return ErrInsufficientGrant
	}
	return nil
}

type Via string

const (
	ViaPrimaryAttorney Via = "primary_attorney"
	ViaClientAccount   Via = "client_account"
	ViaClientGrant     Via = "client_grant"
)

// Decision is the result of a check.
type Decision struct {
	Allowed bool
	Reason  Reason
	Via     Via
	Client  *repository.Client
	Grant   *repository.ClientGrant
}

// Err is nil for allowed decisions and the reason's sentinel otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return d.Reason.Err()
}

// Caller is who is asking. Grants are the caller's enabled grants as loaded
// at login.
type Caller struct {
	UserID string
	Grants []repository.ClientGrant
}

// Input is everything a tier may look at. Account is nil when the caller
// has no account on the client.
type Input struct {
	Caller  Caller
	Client  *repository.Client
	Account *repository.ClientAccount
	Action  Action
}

type verdict int

const (
	next verdict = iota
	allow
	deny
)

// Outcome is a tier's answer.
type Outcome struct {
	verdict verdict
	reason  Reason
	via     Via
	grant   *repository.ClientGrant
}

func Next() Outcome              { return Outcome{} }
func Allow(via Via) Outcome      { return Outcome{verdict: allow, via: via} }
func Deny(reason Reason) Outcome { return Outcome{verdict: deny, reason: reason} }

func (o Outcome) withGrant(g *repository.ClientGrant) Outcome {
	o.grant = g
	return o
}

// Tier is one rung of the ladder. Tiers are pure.
type Tier func(in Input) Outcome

// DefaultTiers is the production ladder.
var DefaultTiers = []Tier{PrimaryAttorney, ClientAccountTier, ClientGrantTier}

func PrimaryAttorney(in Input) Outcome {
	if in.Caller.UserID != "" && in.Caller.UserID == in.Client.PrimaryAttorneyUserID {
		return Allow(ViaPrimaryAttorney)
	}
	return Next()
}

func ClientAccountTier(in Input) Outcome {
	if in.Account == nil || !in.Account.IsEnabled {
		return Next()
	}
	if in.Action.mutates() && in.Client.EditingFrozen {
		return Deny(ReasonFrozen)
	}
	return Allow(ViaClientAccount)
}

func ClientGrantTier(in Input) Outcome {
	var scoped []repository.ClientGrant
	for _, g := range in.Caller.Grants {
		if g.IsEnabled && g.ClientID == in.Client.ID {
			scoped = append(scoped, g)
		}
	}
	if len(scoped) == 0 {
		return Deny(ReasonNoGrant)
	}
	for i := range scoped {
		if !scoped[i].Allows(string(in.Action)) {
			continue
		}
		if in.Action.mutates() && in.Client.EditingFrozen {
			return Deny(ReasonFrozen).withGrant(&scoped[i])
		}
		return Allow(ViaClientGrant).withGrant(&scoped[i])
	}
	return Deny(ReasonInsufficientGrant)
}

// ClientReader and AccountReader are the store reads a check needs.
type ClientReader interface {
	GetByID(ctx context.Context, id string) (*repository.Client, error)
}

type AccountReader interface {
	Get(ctx context.Context, userID, clientID string) (*repository.ClientAccount, error)
}

type Resolver struct {
	clients  ClientReader
	accounts AccountReader
	tiers    []Tier
}

func NewResolver(clients ClientReader, accounts AccountReader, tiers ...Tier) *Resolver {
	if len(tiers) == 0 {
		tiers = DefaultTiers
	}
	return &Resolver{clients: clients, accounts: accounts, tiers: tiers}
}

// Check resolves action on clientID for caller. The error is non-nil only
// for store failures; denials are reported in the Decision.
func (r *Resolver) Check(ctx context.Context, caller Caller, clientID string, action Action) (Decision, error) {
	client, err := r.clients.GetByID(ctx, clientID)
	if repository.IsNotFound(err) {
		return Decision{Reason: ReasonNotFound}, nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("authz: load client: %w", err)
	}

	in := Input{Caller: caller, Client: client, Action: action}
	if client.PrimaryAttorneyUserID != caller.UserID {
		acct, err := r.accounts.Get(ctx, caller.UserID, clientID)
		switch {
		case err == nil:
			in.Account = acct
		case !repository.IsNotFound(err):
			return Decision{}, fmt.Errorf("authz: load client account: %w", err)
		}
	}
	return Evaluate(in, r.tiers...), nil
}

// Evaluate runs tiers over in. With no verdict from any tier the caller has
// no access.
func Evaluate(in Input, tiers ...Tier) Decision {
	for _, t := range tiers {
		o := t(in)
		switch o.verdict {
		case allow:
			return Decision{Allowed: true, Via: o.via, Client: in.Client, Grant: o.grant}
		case deny:
			return Decision{Reason: o.reason, Client: in.Client, Grant: o.grant}
		}
	}
	return Decision{Reason: ReasonNoGrant, Client: in.Client}
}
