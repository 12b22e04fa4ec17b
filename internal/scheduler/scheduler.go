// Package scheduler runs the two periodic sweeps: the hourly event expiry
// pass and the daily purge of stale external listings. Each job is wrapped
// with SkipIfStillRunning so a slow run can never overlap itself.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type ExpirySweeper interface {
	SweepExpired(ctx context.Context) (int, error)
}

type ExternalEventPurger interface {
	PurgeOld(ctx context.Context) (int64, error)
}

type Scheduler struct {
	cron       *cron.Cron
	sweeper    ExpirySweeper
	purger     ExternalEventPurger
	jobTimeout time.Duration
}

func New(sweeper ExpirySweeper, purger ExternalEventPurger) *Scheduler {
	logger := cron.VerbosePrintfLogger(log.Default())
	return &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(logger),
			cron.Recover(logger),
		)),
		sweeper:    sweeper,
		purger:     purger,
		jobTimeout: 10 * time.Minute,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 * * * *", s.runExpirySweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("30 3 * * *", s.runExternalPurge); err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Sweep failures are logged only; the next tick retries.
func (s *Scheduler) runExpirySweep() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	count, err := s.sweeper.SweepExpired(ctx)
	if err != nil {
		log.Printf("expiry sweep failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("expiry sweep marked %d events expired", count)
	}
}

func (s *Scheduler) runExternalPurge() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	count, err := s.purger.PurgeOld(ctx)
	if err != nil {
		log.Printf("external event purge failed: %v", err)
		return
	}
	if count > 0 {
		log.Printf("external event purge deleted %d listings", count)
	}
}
