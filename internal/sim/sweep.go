package sim

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/san-kum/framehold/internal/config"
	"github.com/san-kum/framehold/internal/policy"
)

// Sweep runs one scenario under several modes concurrently. Each run gets its
// own world and engine; metrics are built per run by newMetrics.
type Sweep struct {
	cfg        *config.Config
	newMetrics func() []Metric
	log        zerolog.Logger
}

func NewSweep(cfg *config.Config, newMetrics func() []Metric, log zerolog.Logger) *Sweep {
	return &Sweep{cfg: cfg, newMetrics: newMetrics, log: log}
}

func (sw *Sweep) Run(ctx context.Context, modes []policy.Mode) ([]*Result, error) {
	results := make([]*Result, len(modes))
	errs := make([]error, len(modes))

	var wg sync.WaitGroup
	for i, mode := range modes {
		wg.Add(1)
		go func(idx int, mode policy.Mode) {
			defer wg.Done()

			cfgCopy := sw.cfg.Clone()
			cfgCopy.Mode = mode.String()

			sc, err := Build(cfgCopy, sw.log)
			if err != nil {
				errs[idx] = err
				return
			}
			defer sc.Close()

			if sw.newMetrics != nil {
				for _, m := range sw.newMetrics() {
					sc.Sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sc.Sim.Run(ctx, sc.Config)
		}(i, mode)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
