package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/samvad-http-envelope/internal/config"
	"github.com/samvad-hq/samvad-http-envelope/internal/logger"
	"github.com/samvad-hq/samvad-http-envelope/internal/prober"
	"github.com/samvad-hq/samvad-http-envelope/internal/storage"
	"github.com/samvad-hq/samvad-http-envelope/pkg/httpclient"
	"github.com/samvad-hq/samvad-http-envelope/pkg/publishers"
	"github.com/samvad-hq/samvad-http-envelope/pkg/targets"
)

// Prober is the probe runtime. It loads targets and publishers, owns the
// outcome store, and drives the probe loop.
type Prober struct {
	cfg           *config.Config
	targetReg     *targets.Registry
	fanout        *publishers.Fanout
	service       *prober.Service
	probeInterval time.Duration
	log           logger.Logger
	store         storage.Store
}

// NewProber builds a probe runtime from config files.
func NewProber(ctx context.Context, cfg *config.Config, log logger.Logger) (*Prober, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	targetReg, err := targets.LoadRegistry(cfg.TargetsFile)
	if err != nil {
		return nil, fmt.Errorf("load targets registry: %w", err)
	}
	targetList := targetReg.All()
	targetIDs := make([]string, 0, len(targetList))
	for _, t := range targetList {
		targetIDs = append(targetIDs, t.ID)
	}
	log.InfoObj("targets registry loaded", "targets_meta", map[string]any{
		"count": len(targetIDs),
		"ids":   targetIDs,
	})

	publisherReg, err := publishers.LoadRegistry(cfg.PublishersFile)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabledPublishers := publisherReg.Enabled()
	if len(enabledPublishers) == 0 {
		return nil, fmt.Errorf("no publishers configured")
	}

	pubClients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabledPublishers, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubClients)
	publisherSummaries := make([]map[string]string, 0, len(enabledPublishers))
	for _, pubCfg := range enabledPublishers {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(publisherSummaries),
		"publishers": publisherSummaries,
	})

	store, err := storage.NewStore(cfg.StorageType, cfg.BBoltPath, storage.Options{
		OutcomeTTL:      cfg.StorageTTL,
		CleanupInterval: cfg.StorageCleanupInterval,
	})
	if err != nil {
		return nil, errors.Join(fmt.Errorf("init storage: %w", err), fanout.Close())
	}
	log.InfoObj("storage initialized", "storage_config", map[string]any{
		"type":                     cfg.StorageType,
		"path":                     cfg.BBoltPath,
		"outcome_ttl_seconds":      int(cfg.StorageTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.StorageCleanupInterval.Seconds()),
	})

	service := prober.NewService(httpclient.NewRestyClient(cfg.HTTPTimeout), fanout, store, log, prober.Options{
		PublishMode: cfg.PublishMode,
		Concurrency: cfg.ProbeConcurrency,
	})

	return &Prober{
		cfg:           cfg,
		targetReg:     targetReg,
		fanout:        fanout,
		service:       service,
		probeInterval: cfg.ProbeInterval,
		log:           log,
		store:         store,
	}, nil
}

// Run probes on every tick until the context is cancelled. With run_once
// set it makes a single pass and returns its error.
func (p *Prober) Run(ctx context.Context) error {
	if p == nil || p.service == nil {
		return fmt.Errorf("prober is not initialized")
	}
	defer p.close()

	tgts := p.targetReg.All()
	p.log.InfoObj("probe loop starting", "prober_state", map[string]any{
		"targets_count":    len(tgts),
		"publishers_count": p.fanout.Size(),
		"probe_interval":   p.probeInterval.String(),
		"publish_mode":     p.cfg.PublishMode,
		"run_once":         p.cfg.RunOnce,
	})

	if p.cfg.RunOnce {
		return p.runOnce(ctx, tgts)
	}

	if err := p.runOnce(ctx, tgts); err != nil {
		p.log.ErrorObj("initial probe failed", "error", err.Error())
	}

	ticker := time.NewTicker(p.probeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.InfoObj("probe loop exiting", "reason", ctx.Err().Error())
			return nil
		case <-ticker.C:
			if err := p.runOnce(ctx, tgts); err != nil {
				p.log.ErrorObj("scheduled probe failed", "error", err.Error())
			}
		}
	}
}

// runOnce performs a single probe pass across all targets.
func (p *Prober) runOnce(ctx context.Context, tgts []targets.Target) error {
	start := time.Now()
	reports, err := p.service.Run(ctx, tgts)

	healthy := 0
	for _, rep := range reports {
		if rep.Result.OK {
			healthy++
		}
	}
	p.log.InfoObj("probe pass completed", "probe_meta", map[string]any{
		"targets_count": len(tgts),
		"healthy_count": healthy,
		"elapsed_ms":    time.Since(start).Milliseconds(),
	})
	return err
}

// close releases publishers and the store, logging any errors encountered.
func (p *Prober) close() {
	if p == nil {
		return
	}
	if err := p.fanout.Close(); err != nil {
		p.log.ErrorObj("publishers close failed", "error", err.Error())
	}
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			p.log.ErrorObj("storage close failed", "error", err.Error())
		}
	}
}
