package approval_expiry

import (
	"context"
	"time"
)

const defaultInterval = time.Hour

// Worker периодически помечает просроченные заявки как EXPIRED
type Worker struct {
	service      ApprovalService
	interval     time.Duration
	timeProvider TimeProvider
	logger       Logger
}

func New(service ApprovalService, interval time.Duration, timeProvider TimeProvider, logger Logger) *Worker {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Worker{
		service:      service,
		interval:     interval,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Run запускает цикл обхода до отмены контекста
// Первый обход выполняется сразу, далее по тикеру
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("approval expiry worker started: interval=%s", w.interval)

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("approval expiry worker stopped")
			return
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

func (w *Worker) sweep(ctx context.Context) {
	expired, err := w.service.Expire(ctx, w.timeProvider.Now())
	if err != nil {
		w.logger.Error("approval expiry sweep failed: %v", err)
		return
	}
	if expired > 0 {
		w.logger.Info("approval expiry sweep: expired=%d", expired)
	}
}
