// Package health contiene el service de readiness.
package health

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Pinger is anything readiness depends on (database, cache).
type Pinger interface {
	Ping(ctx context.Context) error
}

type Component struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type Report struct {
	Status     string      `json:"status"` // ready | unavailable
	Components []Component `json:"components"`
}

type HealthService interface {
	Check(ctx context.Context) Report
}

type Services struct {
	Health HealthService
}

// NewServices checks every named dependency with timeout each.
func NewServices(deps map[string]Pinger, timeout time.Duration) Services {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return Services{Health: &healthService{deps: deps, timeout: timeout}}
}

type healthService struct {
	deps    map[string]Pinger
	timeout time.Duration
}

func (s *healthService) Check(ctx context.Context) Report {
	names := make([]string, 0, len(s.deps))
	for n := range s.deps {
		names = append(names, n)
	}
	sort.Strings(names)

	comps := make([]Component, len(names))
	var g errgroup.Group
	for i, n := range names {
		i, n := i, n
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			comps[i] = Component{Name: n, Status: "ok"}
			if err := s.deps[n].Ping(cctx); err != nil {
				comps[i] = Component{Name: n, Status: "down", Error: err.Error()}
			}
			return nil
		})
	}
	_ = g.Wait()

	rep := Report{Status: "ready", Components: comps}
	for _, c := range comps {
		if c.Status != "ok" {
			rep.Status = "unavailable"
		}
	}
	return rep
}
