package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apierrors "github.com/cinematen/wabliefteru/internal/errors"
	"github.com/cinematen/wabliefteru/internal/models"
)

// Asker sends one question to the webhook and returns the raw reply text
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Outcome classifies a single Send
type Outcome int

const (
	// OutcomeIgnored means the input was blank and nothing happened
	OutcomeIgnored Outcome = iota
	// OutcomeBusy means another dispatch was pending and nothing happened
	OutcomeBusy
	// OutcomeSucceeded means the reply was appended
	OutcomeSucceeded
	// OutcomeFailed means the fixed failure text was appended
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIgnored:
		return "ignored"
	case OutcomeBusy:
		return "busy"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Result describes what one Send did
type Result struct {
	Outcome  Outcome
	Question models.Message // the appended user message, zero when ignored or busy
	Answer   models.Message // the appended assistant message, zero when ignored or busy
	Err      error          // the swallowed failure behind OutcomeFailed, or ErrBusy
	Duration time.Duration
}

// Appended reports whether Send added messages to the store
func (r Result) Appended() bool {
	return r.Outcome == OutcomeSucceeded || r.Outcome == OutcomeFailed
}

// Dispatcher drives one question at a time through the webhook into a Store
type Dispatcher struct {
	store  *Store
	asker  Asker
	logger zerolog.Logger
}

// DispatcherOption configures a Dispatcher
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger used for dispatch diagnostics
func WithLogger(logger zerolog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a Dispatcher appending to store and asking through asker
func NewDispatcher(store *Store, asker Asker, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		asker:  asker,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Store returns the store this dispatcher appends to
func (d *Dispatcher) Store() *Store {
	return d.store
}

// Send dispatches userText and blocks until its answer is in the store.
//
// Blank input is ignored. While another dispatch is pending the call is
// rejected as busy. Otherwise exactly one user message and then exactly one
// assistant message are appended, and pending is cleared on every path.
// Failures never escape: they become the fixed failure message.
func (d *Dispatcher) Send(ctx context.Context, userText string) Result {
	if strings.TrimSpace(userText) == "" {
		return Result{Outcome: OutcomeIgnored}
	}

	question, ok := d.store.BeginDispatch(userText)
	if !ok {
		d.logger.Debug().Str("session", d.store.SessionID()).Msg("dispatch rejected, another question is pending")
		return Result{Outcome: OutcomeBusy, Err: apierrors.ErrBusy}
	}
	defer d.store.SetPending(false)

	start := time.Now()
	reply, err := d.ask(ctx, userText)
	result := Result{Question: question, Duration: time.Since(start)}

	if err != nil {
		result.Outcome = OutcomeFailed
		result.Err = err
		result.Answer = d.store.Append(models.RoleAssistant, models.FailureText)
		d.logger.Warn().
			Err(err).
			Str("session", d.store.SessionID()).
			Int("message_id", question.ID).
			Dur("duration", result.Duration).
			Msg("question failed")
		return result
	}

	if reply == "" {
		reply = models.EmptyReplyText
	}

	result.Outcome = OutcomeSucceeded
	result.Answer = d.store.Append(models.RoleAssistant, reply)
	d.logger.Info().
		Str("session", d.store.SessionID()).
		Int("message_id", question.ID).
		Int("answer_id", result.Answer.ID).
		Int("answer_len", len(reply)).
		Dur("duration", result.Duration).
		Msg("question answered")
	return result
}

// ask calls the Asker, turning a panic into an error
func (d *Dispatcher) ask(ctx context.Context, question string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("asker panicked: %v", r)
		}
	}()

	if d.asker == nil {
		return "", fmt.Errorf("no webhook client configured")
	}
	return d.asker.Ask(ctx, question)
}
