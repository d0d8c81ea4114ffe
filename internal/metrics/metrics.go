// Package metrics holds the domain counters (sessions, invites, authorization).
// They live apart from the HTTP package so services can record them without
// importing the transport.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SessionsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sessions_created_total",
		Help: "Sessions issued, by source (login|register)",
	}, []string{"source"})

	SessionsRevoked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sessions_revoked_total",
		Help: "Sessions deleted by logout or revocation",
	})

	AuthzDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "authz_decisions_total",
		Help: "Client permission checks, by action and outcome (via or deny reason)",
	}, []string{"action", "outcome"})

	InvitesIssued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invites_issued_total",
		Help: "Invite tokens issued, by role",
	}, []string{"role"})

	InvitesConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invites_consumed_total",
		Help: "Invite acceptances, by result (accepted|invalid|restored)",
	}, []string{"result"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{SessionsCreated, SessionsRevoked, AuthzDecisions, InvitesIssued, InvitesConsumed}
}

// Register registers the domain metrics on reg (or the default registry if nil).
// Registering twice on the same registry is not an error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
