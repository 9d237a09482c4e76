package ports

import (
	"context"

	"github.com/poyrazK/dspilot/internal/core/domain"
	"github.com/poyrazK/dspilot/internal/dns/record"
)

// RegistryClient files DS changes with a registry that processes them
// asynchronously: an accepted change returns a task reference, not a
// final outcome.
type RegistryClient interface {
	Submit(ctx context.Context, ds record.DS) (domain.Task, error)
	Retract(ctx context.Context, ds record.DS) (domain.Task, error)
	TaskStatus(ctx context.Context, ref string) (domain.Task, error)
	Ping(ctx context.Context) error
}

// Provisioner runs a batch of DNSKEY presentation lines through the
// parse, convert and registry stages, one independent Result per line.
type Provisioner interface {
	Run(ctx context.Context, action domain.Action, lines []string) []domain.Result
}
