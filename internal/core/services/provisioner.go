package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/poyrazK/dspilot/internal/core/domain"
	"github.com/poyrazK/dspilot/internal/core/ports"
	"github.com/poyrazK/dspilot/internal/dns/record"
	"github.com/poyrazK/dspilot/internal/infrastructure/metrics"
)

// Provisioner drives each input record through parsing, DS derivation
// and the registry. Records in a batch are independent: one bad line
// never blocks the rest.
type Provisioner struct {
	client      ports.RegistryClient
	digestTypes []record.DigestType
	concurrency int
	log         *slog.Logger
}

// NewProvisioner builds the orchestrator. The client may be nil when
// only ActionConvert runs will be issued. An empty digest type list
// means every supported type.
func NewProvisioner(client ports.RegistryClient, digestTypes []record.DigestType, concurrency int, logger *slog.Logger) *Provisioner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Provisioner{
		client:      client,
		digestTypes: digestTypes,
		concurrency: concurrency,
		log:         logger,
	}
}

// Run processes a batch of DNSKEY presentation lines, at most the
// configured number of records in flight at once. Results come back in
// input order, one per line, each carrying its own terminal state.
func (p *Provisioner) Run(ctx context.Context, action domain.Action, lines []string) []domain.Result {
	results := make([]domain.Result, len(lines))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, line := range lines {
		i, line := i, line
		g.Go(func() error {
			results[i] = p.processRecord(ctx, action, i, line)
			return nil
		})
	}
	g.Wait()

	failed := 0
	for i := range results {
		if results[i].Failed() {
			failed++
		}
	}
	p.log.Info("batch finished",
		"action", string(action), "records", len(lines), "failed", failed)
	return results
}

// processRecord walks one record through the pipeline stages. Any
// failure is terminal for this record only; submissions acknowledged
// before the failure stay in the result.
func (p *Provisioner) processRecord(ctx context.Context, action domain.Action, index int, line string) (res domain.Result) {
	res = domain.Result{Index: index, Action: action, State: domain.StateIdle}
	defer func() {
		metrics.RecordsTotal.WithLabelValues(string(action), string(res.State)).Inc()
		if res.Failed() {
			metrics.FailuresTotal.WithLabelValues(string(action), res.ErrorKind).Inc()
		}
	}()

	log := p.log.With("index", index, "action", string(action))

	// 1. Parse the presentation line.
	key, err := record.ParseDNSKEY(line)
	if err != nil {
		log.Warn("record rejected", "error", err)
		res.Fail(err)
		return res
	}
	res.State = domain.StateParsed
	res.Owner = key.Owner
	res.KeyTag = key.KeyTag()
	res.Algorithm = record.AlgorithmName(key.Algorithm)
	log = log.With("owner", key.Owner, "key_tag", res.KeyTag)

	// 2. Derive the DS set.
	set, err := record.Convert(key, p.digestTypes...)
	if err != nil {
		log.Warn("conversion failed", "error", err)
		res.Fail(err)
		return res
	}
	res.State = domain.StateConverted
	for _, ds := range set {
		metrics.ConversionsTotal.WithLabelValues(ds.DigestType.String()).Inc()
	}

	if action == domain.ActionConvert {
		for _, ds := range set {
			res.Submissions = append(res.Submissions, domain.Submission{
				RR:         ds.String(),
				DigestType: ds.DigestType.String(),
			})
		}
		res.State = domain.StateReported
		return res
	}

	if p.client == nil {
		res.Fail(fmt.Errorf("no registry client configured for action %s", action))
		return res
	}

	// 3. File each DS with the registry.
	for _, ds := range set {
		var task domain.Task
		switch action {
		case domain.ActionSubmit:
			task, err = p.client.Submit(ctx, ds)
		case domain.ActionRetract:
			task, err = p.client.Retract(ctx, ds)
		default:
			err = fmt.Errorf("unknown action %q", action)
		}
		if err != nil {
			log.Warn("registry change failed",
				"digest_type", ds.DigestType.String(), "error", err)
			res.Fail(err)
			return res
		}
		res.State = domain.StateSubmitted
		res.Submissions = append(res.Submissions, domain.Submission{
			RR:         ds.String(),
			DigestType: ds.DigestType.String(),
			TaskRef:    task.Ref,
			TaskState:  task.State,
		})
	}

	res.State = domain.StateReported
	log.Info("record provisioned", "tasks", len(res.Submissions))
	return res
}
