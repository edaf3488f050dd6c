// Package prober runs targets through the HTTP client and the envelope
// classifier, remembers outcomes, and publishes them.
package prober

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/samvad-hq/samvad-http-envelope/internal/config"
	"github.com/samvad-hq/samvad-http-envelope/internal/logger"
	"github.com/samvad-hq/samvad-http-envelope/internal/storage"
	"github.com/samvad-hq/samvad-http-envelope/pkg/envelope"
	"github.com/samvad-hq/samvad-http-envelope/pkg/httpclient"
	"github.com/samvad-hq/samvad-http-envelope/pkg/publishers"
	"github.com/samvad-hq/samvad-http-envelope/pkg/targets"
	"golang.org/x/sync/errgroup"
)

// EventPublisher delivers probe events downstream. *publishers.Fanout implements it.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Options tunes a Service.
type Options struct {
	// PublishMode is config.PublishAlways or config.PublishChanges.
	PublishMode string
	Concurrency int
}

// Report is the result of probing one target.
type Report struct {
	TargetID  string
	Result    envelope.Result
	Changed   bool
	Published bool
}

// Service probes targets and publishes their classified outcomes.
type Service struct {
	client httpclient.Client
	pub    EventPublisher
	store  storage.Store
	log    logger.Logger
	opts   Options
	now    func() time.Time
}

// NewService wires a prober. A nil store forgets outcomes between runs.
func NewService(client httpclient.Client, pub EventPublisher, store storage.Store, log logger.Logger, opts Options) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if store == nil {
		store, _ = storage.NewStore("none", "", storage.Options{})
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.PublishMode == "" {
		opts.PublishMode = config.PublishChanges
	}
	return &Service{
		client: client,
		pub:    pub,
		store:  store,
		log:    log,
		opts:   opts,
		now:    time.Now,
	}
}

// Run probes every target, at most Concurrency at a time. Reports keep the
// order of tgts; failed probes are joined into the returned error.
func (s *Service) Run(ctx context.Context, tgts []targets.Target) ([]Report, error) {
	if s == nil || s.client == nil {
		return nil, fmt.Errorf("prober service is not initialized")
	}
	if len(tgts) == 0 {
		return nil, fmt.Errorf("no targets configured for probing")
	}

	reports := make([]Report, len(tgts))
	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, tgt := range tgts {
		g.Go(func() error {
			rep, err := s.Probe(ctx, tgt)
			reports[i] = rep
			if err != nil {
				s.log.ErrorObj("target probe failed", "probe_error", map[string]any{
					"target_id": tgt.ID,
					"error":     err.Error(),
				})
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return reports, errors.Join(errs...)
}

// Probe runs a single target. The returned error covers delivery failures
// and errors the policy refused to classify; an unhealthy target alone is
// reported through Report.Result.
func (s *Service) Probe(ctx context.Context, tgt targets.Target) (Report, error) {
	rep := Report{TargetID: tgt.ID}

	resp, err := s.client.Do(ctx, tgt.Request())
	res, err := envelope.New(tgt.Policy(), s.log).Outcome(resp, err)
	if err != nil {
		return rep, fmt.Errorf("classify target %s: %w", tgt.ID, err)
	}
	rep.Result = res

	observed := s.now().UTC()
	current := storage.Outcome{
		OK:         res.OK,
		Code:       res.Code,
		ObservedAt: observed,
	}
	if res.Context != nil {
		current.Status = res.Context.Status
	}

	prev, found, err := s.store.LastOutcome(tgt.ID)
	if err != nil {
		s.log.WarnObj("outcome lookup failed", "storage_error", map[string]any{
			"target_id": tgt.ID,
			"error":     err.Error(),
		})
		found = false
	}
	rep.Changed = !found || !prev.Same(current)

	var pubErr error
	if s.pub != nil && (rep.Changed || s.opts.PublishMode == config.PublishAlways) {
		evt := publishers.NewEvent(tgt.ID, tgt.Name, res, rep.Changed)
		evt.ObservedAt = observed
		delivered, err := s.pub.Publish(ctx, evt)
		rep.Published = delivered > 0
		if err != nil {
			pubErr = fmt.Errorf("publish target %s: %w", tgt.ID, err)
		}
	}

	if err := s.store.RecordOutcome(tgt.ID, current); err != nil {
		s.log.WarnObj("outcome record failed", "storage_error", map[string]any{
			"target_id": tgt.ID,
			"error":     err.Error(),
		})
	}

	s.log.InfoObj("target probed", "probe_result", map[string]any{
		"target_id": tgt.ID,
		"ok":        res.OK,
		"code":      res.Code,
		"status":    current.Status,
		"changed":   rep.Changed,
		"published": rep.Published,
	})
	return rep, pubErr
}
