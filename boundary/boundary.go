// Package boundary isolates widget failures so one crashing widget never
// takes down the dashboard. A boundary wraps widget work, converts panics
// into recorded faults, and gates user-triggered retries behind a bounded
// retry count.
package boundary

import (
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxRetries is how many user-triggered retries a boundary allows
// before it stays failed until an explicit reset.
const DefaultMaxRetries = 3

// State is the boundary's lifecycle position.
type State string

const (
	// StateHealthy means the last run succeeded or nothing ran yet.
	StateHealthy State = "healthy"
	// StateFaulted means the last run failed and a retry is still allowed.
	StateFaulted State = "faulted"
	// StateExhausted means the retry budget is spent; only Reset recovers.
	StateExhausted State = "exhausted"
)

// Fault is one captured failure. Stack is only set for recovered panics.
// RetryCount is how many retries had been consumed when the fault was
// captured, so reporters can tell a first failure from a re-fault.
type Fault struct {
	ID         string    `json:"id"`
	WidgetID   string    `json:"widgetId"`
	WidgetKind string    `json:"widgetKind"`
	Message    string    `json:"message"`
	Stack      string    `json:"stack,omitempty"`
	RetryCount int       `json:"retryCount"`
	Timestamp  time.Time `json:"timestamp"`
}

// Reporter receives every captured fault, typically to log it or forward it
// to an error sink. Reporters must not panic.
type Reporter func(Fault)

// Boundary is a per-widget fault barrier. Safe for concurrent use.
type Boundary struct {
	widgetID   string
	widgetKind string
	maxRetries int
	reporter   Reporter
	logger     *zap.Logger

	mu         sync.Mutex
	fault      *Fault
	retryCount int
}

// New creates a boundary for the given widget and kind. maxRetries values
// below one fall back to the default. reporter and logger may be nil.
func New(widgetID, widgetKind string, maxRetries int, reporter Reporter, logger *zap.Logger) *Boundary {
	if maxRetries < 1 {
		maxRetries = DefaultMaxRetries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Boundary{
		widgetID:   widgetID,
		widgetKind: widgetKind,
		maxRetries: maxRetries,
		reporter:   reporter,
		logger:     logger.With(zap.String("widget_id", widgetID)),
	}
}

// Run executes fn inside the barrier. A returned error or a panic becomes a
// recorded fault; the panic never escapes. Run does not consume the retry
// budget, it only opens the fault.
func (b *Boundary) Run(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("widget panic: %v", r)
			b.capture(err, debug.Stack())
		}
	}()

	if err = fn(); err != nil {
		b.capture(err, nil)
		return err
	}

	b.mu.Lock()
	b.fault = nil
	b.retryCount = 0
	b.mu.Unlock()
	return nil
}

// Retry runs fn again after a fault, consuming one retry. It refuses to run
// when the boundary is healthy or the retry budget is spent.
func (b *Boundary) Retry(fn func() error) error {
	b.mu.Lock()
	if b.fault == nil {
		b.mu.Unlock()
		return fmt.Errorf("widget %s: nothing to retry", b.widgetID)
	}
	if b.retryCount >= b.maxRetries {
		b.mu.Unlock()
		return fmt.Errorf("widget %s: retry limit of %d reached", b.widgetID, b.maxRetries)
	}
	b.retryCount++
	attempt := b.retryCount
	b.mu.Unlock()

	b.logger.Info("Widget retry triggered",
		zap.Int("attempt", attempt),
		zap.Int("max_retries", b.maxRetries))
	return b.Run(fn)
}

// State returns the boundary's current lifecycle position.
func (b *Boundary) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.fault == nil:
		return StateHealthy
	case b.retryCount >= b.maxRetries:
		return StateExhausted
	default:
		return StateFaulted
	}
}

// Fault returns the current fault, if any.
func (b *Boundary) Fault() (Fault, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fault == nil {
		return Fault{}, false
	}
	return *b.fault, true
}

// CanRetry reports whether a user-triggered retry is still allowed.
func (b *Boundary) CanRetry() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fault != nil && b.retryCount < b.maxRetries
}

// RetryCount returns how many retries have been consumed since the fault
// opened.
func (b *Boundary) RetryCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.retryCount
}

// Reset clears the fault and restores the full retry budget.
func (b *Boundary) Reset() {
	b.mu.Lock()
	b.fault = nil
	b.retryCount = 0
	b.mu.Unlock()
	b.logger.Debug("Boundary reset")
}

func (b *Boundary) capture(err error, stack []byte) {
	fault := Fault{
		ID:         uuid.New().String(),
		WidgetID:   b.widgetID,
		WidgetKind: b.widgetKind,
		Message:    err.Error(),
		Timestamp:  time.Now(),
	}
	if stack != nil {
		fault.Stack = string(stack)
	}

	b.mu.Lock()
	fault.RetryCount = b.retryCount
	b.fault = &fault
	b.mu.Unlock()

	b.logger.Error("Widget fault captured",
		zap.String("fault_id", fault.ID),
		zap.String("message", fault.Message))
	if b.reporter != nil {
		b.reporter(fault)
	}
}
