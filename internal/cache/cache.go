// Package cache holds small in-process caches and the janitor that sweeps
// their expired entries.
package cache

import (
	"context"
	"time"

	"finance/internal/log"
)

// Store is a keyed cache of T.
type Store[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
	Len() int
}

// Sweeper drops expired entries and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// Janitor periodically sweeps registered caches.
type Janitor struct {
	sweepers []Sweeper
	logger   *log.Logger
}

func NewJanitor(logger *log.Logger) *Janitor {
	if logger == nil {
		logger = log.Discard()
	}
	return &Janitor{logger: logger.WithComponent(log.ComponentCache)}
}

func (j *Janitor) Register(s Sweeper) {
	j.sweepers = append(j.sweepers, s)
}

// Run sweeps every interval until ctx is done. It returns nil on
// cancellation so it can run inside an errgroup.
func (j *Janitor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := j.SweepAll(); n > 0 {
				j.logger.Debug("Expired cache entries removed", "count", n)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// SweepAll sweeps every registered cache once.
func (j *Janitor) SweepAll() int {
	total := 0
	for _, s := range j.sweepers {
		total += s.Sweep()
	}
	return total
}
