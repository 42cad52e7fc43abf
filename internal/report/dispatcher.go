package report

import (
	"context"
	"log"
	"sync"
	"time"
)

const (
	defaultSendTimeout = 10 * time.Second
	defaultQueueSize   = 16
)

// Dispatcher decouples report delivery from the submission write path. Sends
// run on a single worker goroutine; each is bounded by a timeout and a
// failure is logged and swallowed. The submission response never waits on
// delivery.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	queue   chan Report
	done    chan struct{}
	once    sync.Once
}

// NewDispatcher starts the delivery worker. A nil sender yields a dispatcher
// that drops everything, which keeps the write path identical when mail is
// not configured.
func NewDispatcher(sender Sender, timeout time.Duration, queueSize int) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultSendTimeout
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	d := &Dispatcher{
		sender:  sender,
		timeout: timeout,
		queue:   make(chan Report, queueSize),
		done:    make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue hands a report to the worker without blocking. A full queue drops
// the report; delivery is best-effort by contract.
func (d *Dispatcher) Enqueue(r Report) {
	select {
	case d.queue <- r:
	default:
		log.Printf("report dispatcher: queue full, dropping %q", r.Subject)
	}
}

// Close stops accepting reports and waits for queued sends to finish.
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.queue)
	})
	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for r := range d.queue {
		if d.sender == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sender.Send(ctx, Message{Subject: r.Subject, HTMLBody: r.HTMLBody}); err != nil {
			log.Printf("report delivery failed for %q: %v", r.Subject, err)
		}
		cancel()
	}
}
