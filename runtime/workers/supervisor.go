package workers

import (
	"context"
	"log/slog"
	"sync"

	"turnchat/contract"
	"turnchat/errors"
)

// Supervisor runs each worker in a goroutine, recovers panics and waits for
// all of them via WaitGroup. There is no restart policy: every failure in
// this system resolves into a liveness transition upstream, so a worker
// that returns, errors or panics simply terminates. A failure in one worker
// must not stop the supervisor itself.
type Supervisor struct {
	wg  sync.WaitGroup
	log *slog.Logger
}

func NewSupervisor(log *slog.Logger) *Supervisor {
	return &Supervisor{log: log}
}

// Start runs a worker under supervision in a dedicated goroutine.
func (s *Supervisor) Start(ctx context.Context, worker contract.Worker) {
	s.wg.Add(1)
	workerName := contract.GetWorkerName(worker)

	go func() {
		defer s.wg.Done()

		err := func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = errors.ErrWorkerPanic
				}
			}()
			return worker.Run(ctx)
		}()

		switch {
		case err == nil:
			s.log.Info("Worker finished", "name", workerName)
		case ctx.Err() != nil:
			s.log.Info("Worker stopped (context canceled)", "name", workerName)
		default:
			s.log.Warn("Worker failed", "name", workerName, "error", err)
		}
	}()
}

// Wait blocks until every started worker has terminated.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}
