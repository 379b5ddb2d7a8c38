package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/bookwise-ai/bookwise/pkg/logging"
)

var flowTracer = otel.Tracer("bookwise.internal.booking")

// Store persists a completed booking. Implementations resolve the customer by
// email (update-or-create) and always insert a fresh booking row; the returned
// identifier is surfaced to the user.
type Store interface {
	CreateBooking(ctx context.Context, name, email, phone, serviceType, date, timeOfDay string) (int64, error)
}

// Notifier sends the confirmation email after a booking is persisted. An
// error only downgrades the chat message; the booking stands either way.
type Notifier interface {
	SendConfirmation(ctx context.Context, draft Draft, bookingID int64) error
}

var (
	affirmativeWords = []string{"yes", "confirm", "correct", "ok", "okay", "sure", "yep", "yeah"}
	negativeWords    = []string{"no", "cancel", "stop", "restart", "nope"}
)

// Flow drives the slot-filling loop for one conversation. It is stateless
// between turns: callers thread SessionState through HandleTurn.
type Flow struct {
	extractor *Extractor
	store     Store
	notifier  Notifier
	now       func() time.Time
	logger    *logging.Logger
}

// NewFlow wires the state machine. The clock defaults to time.Now; tests
// inject a fixed one.
func NewFlow(extractor *Extractor, store Store, notifier Notifier, logger *logging.Logger) *Flow {
	if extractor == nil {
		panic("booking: extractor required")
	}
	if store == nil {
		panic("booking: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Flow{
		extractor: extractor,
		store:     store,
		notifier:  notifier,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock overrides the flow's clock. Intended for tests.
func (f *Flow) WithClock(now func() time.Time) *Flow {
	f.now = now
	return f
}

// HandleTurn advances the booking dialogue by one user utterance and returns
// the reply plus the updated session.
func (f *Flow) HandleTurn(ctx context.Context, utterance string, session SessionState) (string, SessionState) {
	ctx, span := flowTracer.Start(ctx, "booking.turn")
	defer span.End()

	if session.AwaitingConfirmation {
		return f.handleConfirmation(ctx, utterance, session)
	}
	return f.collectFields(ctx, utterance, session)
}

func (f *Flow) collectFields(ctx context.Context, utterance string, session SessionState) (string, SessionState) {
	extracted := f.extractor.Extract(ctx, utterance, session.Draft.Known())
	applyWidgetSelection(utterance, &session, extracted)

	clean, errs := ValidateAll(extracted, session.Draft, f.now())
	if len(errs) > 0 {
		// Nothing merges on a bad turn; the draft round-trips unchanged.
		return validationErrorReply(errs), session
	}

	session.Draft.Merge(clean)
	// Staged picker values survive a failed turn; drop them only once the
	// matching field has actually landed in the draft.
	if session.Draft.Date != "" {
		session.SuggestedDate = ""
	}
	if session.Draft.Time != "" {
		session.SuggestedTime = ""
	}

	missing := session.Draft.Missing()
	if len(missing) == 0 {
		session.AwaitingConfirmation = true
		return confirmationSummary(session.Draft), session
	}
	if len(missing) == len(RequiredFields) {
		return openingPrompt, session
	}
	return progressSummary(session.Draft) + questionFor(missing[0], f.now()), session
}

func (f *Flow) handleConfirmation(ctx context.Context, utterance string, session SessionState) (string, SessionState) {
	lower := strings.ToLower(strings.TrimSpace(utterance))

	if containsAny(lower, affirmativeWords) {
		draft := session.Draft
		session = SessionState{}
		bookingID, err := f.persist(ctx, draft)
		if err != nil {
			f.logger.Error("booking persistence failed", "error", err)
			return persistenceFailureReply(err), session
		}

		emailSent := false
		if f.notifier != nil {
			if nerr := f.notifier.SendConfirmation(ctx, draft, bookingID); nerr != nil {
				f.logger.Warn("confirmation email failed", "booking_id", bookingID, "error", nerr)
			} else {
				emailSent = true
			}
		}
		f.logger.Info("booking confirmed", "booking_id", bookingID, "service", draft.ServiceType, "date", draft.Date)
		return confirmedReply(draft, bookingID, emailSent), session
	}

	if containsAny(lower, negativeWords) {
		return restartReply, SessionState{}
	}

	// Neither yes nor no: hold the draft and re-prompt.
	return confirmPromptReply, session
}

// persist re-checks the draft before writing. The flow only ever reaches here
// with a validated, complete draft, but a corrupted session must not turn
// into a half-written booking.
func (f *Flow) persist(ctx context.Context, draft Draft) (int64, error) {
	ctx, span := flowTracer.Start(ctx, "booking.persist")
	defer span.End()

	for _, field := range RequiredFields {
		if draft.Value(field) == "" {
			return 0, fmt.Errorf("missing %s", strings.ReplaceAll(field, "_", " "))
		}
	}
	if !emailRE.MatchString(draft.Email) {
		return 0, fmt.Errorf("invalid email")
	}
	if _, err := time.Parse("2006-01-02", draft.Date); err != nil {
		return 0, fmt.Errorf("invalid date")
	}

	return f.store.CreateBooking(ctx, draft.Name, draft.Email, draft.Phone, draft.ServiceType, draft.Date, draft.Time)
}

// applyWidgetSelection injects a staged date or time when the user refers to
// the picker ("use selected date"). The staged value goes through the same
// validation as typed input and stays staged until it merges, so a turn that
// fails validation can still retry the selection.
func applyWidgetSelection(utterance string, session *SessionState, extracted map[string]string) {
	lower := strings.ToLower(utterance)
	if strings.Contains(lower, "selected date") && session.SuggestedDate != "" && session.Draft.Date == "" {
		extracted[FieldDate] = session.SuggestedDate
	}
	if strings.Contains(lower, "selected time") && session.SuggestedTime != "" && session.Draft.Time == "" {
		extracted[FieldTime] = session.SuggestedTime
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
