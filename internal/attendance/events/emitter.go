package events

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tempo/internal/attendance/metrics"
	"tempo/internal/attendance/models"
	id "tempo/pkg/domain"
)

// Publisher delivers one envelope to one channel.
type Publisher interface {
	Publish(ctx context.Context, channel string, env Envelope) error
}

// EmployeeResolver finds the employee owning a shift's contract. The boolean
// is false when the contract has no linked employee; that is not an error.
type EmployeeResolver interface {
	ResolveEmployee(ctx context.Context, ref models.ScheduleRef) (id.EmployeeID, bool)
}

// ErrClosed is returned by Emit after Close.
var ErrClosed = errors.New("emitter closed")

// ErrLaneFull is returned by Emit when the event had to be dropped.
var ErrLaneFull = errors.New("emitter lane full")

type delivery struct {
	ctx             context.Context
	channel         string
	event           Event
	resolveEmployee bool
}

// Emitter delivers lifecycle events asynchronously.
//
// Each channel hashes to one lane and each lane is drained by one goroutine,
// so deliveries to a channel happen in the order they were enqueued. Lanes
// run concurrently. The employee delivery for an event is enqueued by the
// session lane after the session delivery, which keeps a session's events
// ordered on the employee channel too.
//
// Delivery is at-most-once: full lanes drop, publish failures are logged and
// counted, nothing is retried and nothing rolls back the transition.
type Emitter struct {
	publisher Publisher
	resolver  EmployeeResolver
	logger    *slog.Logger
	metrics   *metrics.Metrics
	timeout   time.Duration

	lanes    []chan delivery
	mu       sync.RWMutex
	closed   bool
	inflight sync.WaitGroup
	workers  sync.WaitGroup
	stop     chan struct{}
}

// Option configures the Emitter.
type Option func(*Emitter)

// WithLogger sets a logger for delivery failures.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Emitter) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Emitter) {
		e.metrics = m
	}
}

// WithLanes sets the number of lanes and each lane's buffer.
func WithLanes(lanes, buffer int) Option {
	return func(e *Emitter) {
		if lanes > 0 {
			e.lanes = make([]chan delivery, lanes)
		}
		if buffer > 0 {
			for i := range e.lanes {
				e.lanes[i] = make(chan delivery, buffer)
			}
		}
	}
}

// WithPublishTimeout bounds each Publish call.
func WithPublishTimeout(d time.Duration) Option {
	return func(e *Emitter) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// NewEmitter starts the lane workers. A nil resolver means events only reach
// session channels.
func NewEmitter(publisher Publisher, resolver EmployeeResolver, opts ...Option) *Emitter {
	e := &Emitter{
		publisher: publisher,
		resolver:  resolver,
		logger:    slog.Default(),
		timeout:   5 * time.Second,
		lanes:     make([]chan delivery, 4),
		stop:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	for i := range e.lanes {
		if e.lanes[i] == nil {
			e.lanes[i] = make(chan delivery, 128)
		}
	}
	for _, lane := range e.lanes {
		e.workers.Add(1)
		go e.run(lane)
	}
	return e
}

// Emit queues ev for its session channel (and, once resolved, its employee
// channel). It never blocks on I/O. The returned error only reports that the
// event was dropped; callers must not treat it as a transition failure.
func (e *Emitter) Emit(ctx context.Context, ev Event) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		e.metrics.IncDropped("closed")
		return ErrClosed
	}
	d := delivery{
		ctx:             context.WithoutCancel(ctx),
		channel:         SessionChannel(ev.SessionID),
		event:           ev,
		resolveEmployee: e.resolver != nil,
	}
	if !e.enqueue(d) {
		e.logger.WarnContext(ctx, "lifecycle event dropped, lane full",
			"session_id", ev.SessionID.String(),
			"event", ev.Tag(),
		)
		return ErrLaneFull
	}
	return nil
}

// Close stops accepting events and waits for queued deliveries to finish or
// ctx to expire, then stops the workers.
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		e.inflight.Wait()
		close(drained)
	}()

	var err error
	select {
	case <-drained:
	case <-ctx.Done():
		err = ctx.Err()
	}
	close(e.stop)
	e.workers.Wait()
	return err
}

func (e *Emitter) laneFor(channel string) chan delivery {
	h := fnv.New32a()
	_, _ = h.Write([]byte(channel))
	return e.lanes[h.Sum32()%uint32(len(e.lanes))]
}

// enqueue never blocks. The inflight count is taken before the send so Close
// cannot observe an empty pipeline while a delivery is being handed over.
func (e *Emitter) enqueue(d delivery) bool {
	e.inflight.Add(1)
	select {
	case e.laneFor(d.channel) <- d:
		return true
	default:
		e.inflight.Done()
		e.metrics.IncDropped("lane_full")
		return false
	}
}

func (e *Emitter) run(lane chan delivery) {
	defer e.workers.Done()
	for {
		select {
		case <-e.stop:
			return
		case d := <-lane:
			e.deliver(d)
			e.inflight.Done()
		}
	}
}

func (e *Emitter) deliver(d delivery) {
	kind := channelKind(d.channel)
	ctx, cancel := context.WithTimeout(d.ctx, e.timeout)
	start := time.Now()
	err := e.publisher.Publish(ctx, d.channel, NewEnvelope(d.channel, d.event))
	cancel()
	e.metrics.ObservePublish(time.Since(start))

	if err != nil {
		e.metrics.IncDelivered(kind, "error")
		e.logger.ErrorContext(d.ctx, "lifecycle event delivery failed",
			"channel", d.channel,
			"session_id", d.event.SessionID.String(),
			"event", d.event.Tag(),
			"error", err,
		)
	} else {
		e.metrics.IncDelivered(kind, "ok")
	}

	if !d.resolveEmployee {
		return
	}
	employeeID, ok := e.resolver.ResolveEmployee(d.ctx, d.event.Session.Schedule)
	if !ok {
		e.logger.DebugContext(d.ctx, "no employee linked to contract, session channel only",
			"session_id", d.event.SessionID.String(),
			"contract_id", d.event.Session.Schedule.ContractID.String(),
		)
		return
	}
	follow := delivery{
		ctx:     d.ctx,
		channel: EmployeeChannel(employeeID),
		event:   d.event,
	}
	if !e.enqueue(follow) {
		e.logger.WarnContext(d.ctx, "employee lifecycle event dropped, lane full",
			"channel", follow.channel,
			"session_id", d.event.SessionID.String(),
		)
	}
}

func channelKind(channel string) string {
	if kind, _, ok := strings.Cut(channel, "."); ok {
		return kind
	}
	return "unknown"
}
