package widget

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type eventKind int

const (
	evTick eventKind = iota
	evPress
)

// Runtime is the widget's event loop. Ticks and button presses are consumed
// one at a time by a single goroutine, so a reconciliation never interleaves
// with an in-flight submission.
type Runtime struct {
	rec      *Reconciler
	sub      *Submitter
	notifier Notifier
	display  func(ButtonState)

	events chan eventKind
	cron   *cron.Cron
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRuntime wires the reconciler and submitter to a display callback.
func NewRuntime(rec *Reconciler, sub *Submitter, notifier Notifier, display func(ButtonState)) *Runtime {
	return &Runtime{
		rec:      rec,
		sub:      sub,
		notifier: notifier,
		display:  display,
		events:   make(chan eventKind, 16),
		done:     make(chan struct{}),
	}
}

// Start launches the event loop, runs the initial tick, and optionally
// starts a periodic poll on the given cron schedule.
func (rt *Runtime) Start(schedule string) error {
	ctx, cancel := context.WithCancel(context.Background())
	rt.cancel = cancel

	if schedule != "" {
		rt.cron = cron.New()
		if _, err := rt.cron.AddFunc(schedule, rt.RequestTick); err != nil {
			cancel()
			return err
		}
		rt.cron.Start()
	}

	go rt.run(ctx)
	rt.RequestTick()
	return nil
}

// Stop shuts the loop down and waits for it to drain.
func (rt *Runtime) Stop() {
	if rt.cron != nil {
		rt.cron.Stop()
	}
	rt.cancel()
	<-rt.done
}

// RequestTick schedules a reconciliation. Every trigger queues its own tick;
// the only coalescing is the queue overflowing under a burst.
func (rt *Runtime) RequestTick() {
	select {
	case rt.events <- evTick:
	default:
		log.Println("tick queue full, dropping reconciliation request")
	}
}

// Press schedules a button press.
func (rt *Runtime) Press() {
	select {
	case rt.events <- evPress:
	default:
	}
}

// State returns the currently displayed button state.
func (rt *Runtime) State() ButtonState {
	return rt.rec.State()
}

func (rt *Runtime) run(ctx context.Context) {
	defer close(rt.done)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-rt.events:
			switch ev {
			case evTick:
				prev := rt.rec.State()
				next := rt.rec.Tick(ctx)
				rt.display(next)
				rt.announceChange(prev, next)
			case evPress:
				current := rt.rec.State()
				result := rt.sub.Submit(ctx, current, rt.rec.Snapshot().AccountID, func(st ButtonState) {
					rt.rec.SetState(st)
					rt.display(st)
				})
				if result.RecheckAfter > 0 {
					time.AfterFunc(result.RecheckAfter, rt.RequestTick)
				}
			}
		}
	}
}

// announceChange raises a desktop notification when the watched account
// changes hands underneath the operator.
func (rt *Runtime) announceChange(prev, next ButtonState) {
	if prev.Style == next.Style || prev.Label == "Loading..." {
		return
	}
	account := rt.rec.Snapshot().AccountID
	switch {
	case next.Style == StyleCheckout:
		rt.notifier.Confirm("Account " + account + " is now available")
	case next.Style == StyleUnavailable && prev.Style == StyleCheckout:
		rt.notifier.Confirm("Account " + account + " was just checked out")
	}
}
