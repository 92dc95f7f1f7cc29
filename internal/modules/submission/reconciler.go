package submission

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Reconciler periodically re-drives unpaid winner slots through settlement.
type Reconciler struct {
	service   *Service
	scheduler gocron.Scheduler
	loggerf   func(format string, args ...interface{})
}

func NewReconciler(service *Service, interval time.Duration, loggerf func(format string, args ...interface{})) (*Reconciler, error) {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	r := &Reconciler{service: service, scheduler: scheduler, loggerf: loggerf}
	if _, err := scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(r.run),
	); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Reconciler) Start() {
	r.scheduler.Start()
}

func (r *Reconciler) Stop() error {
	return r.scheduler.Shutdown()
}

func (r *Reconciler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	settled, err := r.service.Reconcile(ctx)
	if err != nil {
		r.loggerf("level=error msg=reconcile pass failed err=%v", err)
		return
	}
	if settled > 0 {
		r.loggerf("level=info msg=reconcile pass settled=%d", settled)
	}
}
