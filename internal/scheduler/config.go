package scheduler

import (
	"errors"
	"time"
)

var ErrInvalidConfig = errors.New("invalid_scheduler_config")

// Config tunes the declaration sweep.
type Config struct {
	RunInterval time.Duration
	JobTimeout  time.Duration

	// FetchProposals enables best-effort SII proposal enrichment during
	// the sweep.
	FetchProposals bool
}

func (c Config) withDefaults() Config {
	if c.RunInterval <= 0 {
		c.RunInterval = time.Hour
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = 30 * time.Minute
	}
	return c
}
