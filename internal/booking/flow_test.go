package booking

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubStore struct {
	bookingID int64
	err       error
	calls     int
	lastEmail string
}

func (s *stubStore) CreateBooking(ctx context.Context, name, email, phone, serviceType, date, timeOfDay string) (int64, error) {
	s.calls++
	s.lastEmail = email
	return s.bookingID, s.err
}

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) SendConfirmation(ctx context.Context, draft Draft, bookingID int64) error {
	s.calls++
	return s.err
}

func newTestFlow(store *stubStore, notifier *stubNotifier) *Flow {
	return NewFlow(NewExtractor(nil, nil), store, notifier, nil).WithClock(func() time.Time { return testNow })
}

func completeDraftMissingTime() Draft {
	return Draft{
		Name:        "Jane Smith",
		Email:       "jane@example.com",
		Phone:       "9876543210",
		ServiceType: "Spa Treatment",
		Date:        "2025-12-01",
		Price:       "$120",
	}
}

func TestFlowOpeningPrompt(t *testing.T) {
	flow := newTestFlow(&stubStore{}, nil)
	reply, session := flow.HandleTurn(context.Background(), "i want to make a booking", SessionState{})
	if !strings.Contains(reply, "What's your name?") {
		t.Errorf("expected opening prompt, got %q", reply)
	}
	if !session.Draft.IsEmpty() || session.AwaitingConfirmation {
		t.Errorf("session should stay empty in COLLECTING: %+v", session)
	}
}

func TestFlowCompletingDraftTransitionsToConfirming(t *testing.T) {
	flow := newTestFlow(&stubStore{}, nil)
	session := SessionState{Draft: completeDraftMissingTime()}

	reply, session := flow.HandleTurn(context.Background(), "14:30", session)

	if !session.AwaitingConfirmation {
		t.Fatal("expected transition to CONFIRMING")
	}
	if session.Draft.Time != "14:30" {
		t.Errorf("time not merged: %+v", session.Draft)
	}
	for _, v := range []string{"Jane Smith", "jane@example.com", "9876543210", "Spa Treatment", "2025-12-01", "14:30"} {
		if !strings.Contains(reply, v) {
			t.Errorf("confirmation summary missing %q:\n%s", v, reply)
		}
	}
}

func TestFlowAnyFieldOrderReachesConfirming(t *testing.T) {
	turns := [][]string{
		{"jane smith", "jane@example.com", "9876543210", "i want a spa massage", "2025-12-01", "14:30"},
		{"14:30 works", "2025-12-01", "i want a spa massage", "9876543210", "jane@example.com", "jane smith"},
	}
	for i, seq := range turns {
		flow := newTestFlow(&stubStore{}, nil)
		session := SessionState{}
		var reply string
		for _, u := range seq {
			reply, session = flow.HandleTurn(context.Background(), u, session)
		}
		if !session.AwaitingConfirmation {
			t.Errorf("sequence %d never reached CONFIRMING; last reply:\n%s", i, reply)
			continue
		}
		if session.Draft.Price != "$120" {
			t.Errorf("sequence %d: derived price = %q, want $120", i, session.Draft.Price)
		}
	}
}

func TestFlowValidationErrorLeavesDraftUnchanged(t *testing.T) {
	flow := newTestFlow(&stubStore{}, nil)
	before := SessionState{Draft: Draft{Name: "Jane Smith"}}

	reply, after := flow.HandleTurn(context.Background(), "2020-01-01", before)

	if after.Draft != before.Draft {
		t.Errorf("draft changed on failing turn: %+v", after.Draft)
	}
	if !strings.Contains(reply, "I found some issues") {
		t.Errorf("expected issue list, got %q", reply)
	}
	if !strings.Contains(reply, "Please provide the correct date") {
		t.Errorf("expected re-ask for the failing field, got %q", reply)
	}
}

func TestFlowNoExtractionReasksMissingField(t *testing.T) {
	flow := newTestFlow(&stubStore{}, nil)
	session := SessionState{Draft: completeDraftMissingTime()}

	reply, after := flow.HandleTurn(context.Background(), "no idea", session)

	if after.Draft != session.Draft {
		t.Errorf("draft should round-trip unchanged, got %+v", after.Draft)
	}
	if after.AwaitingConfirmation {
		t.Error("incomplete draft must stay in COLLECTING")
	}
	if !strings.Contains(reply, "What time?") {
		t.Errorf("expected time re-prompt, got %q", reply)
	}
}

func TestFlowProgressSummaryFollowsRequiredOrder(t *testing.T) {
	flow := newTestFlow(&stubStore{}, nil)
	// Email arrives before name; summary must still list name first once known.
	_, session := flow.HandleTurn(context.Background(), "jane@example.com", SessionState{})
	reply, _ := flow.HandleTurn(context.Background(), "jane smith", session)

	nameIdx := strings.Index(reply, "Name:")
	emailIdx := strings.Index(reply, "Email:")
	if nameIdx < 0 || emailIdx < 0 || nameIdx > emailIdx {
		t.Errorf("summary order wrong:\n%s", reply)
	}
	if !strings.Contains(reply, "phone number") {
		t.Errorf("expected next missing field (phone) to be asked, got:\n%s", reply)
	}
}

func TestFlowConfirmPersistsOnce(t *testing.T) {
	store := &stubStore{bookingID: 42}
	notifier := &stubNotifier{}
	flow := newTestFlow(store, notifier)

	draft := completeDraftMissingTime()
	draft.Time = "14:30"
	session := SessionState{Draft: draft, AwaitingConfirmation: true}

	reply, after := flow.HandleTurn(context.Background(), "yes", session)

	if store.calls != 1 {
		t.Fatalf("expected exactly one persistence call, got %d", store.calls)
	}
	if notifier.calls != 1 {
		t.Errorf("expected one confirmation email, got %d", notifier.calls)
	}
	if !after.Draft.IsEmpty() || after.AwaitingConfirmation {
		t.Errorf("session should reset after confirm: %+v", after)
	}
	if !strings.Contains(reply, "BOOKING CONFIRMED") || !strings.Contains(reply, "`42`") {
		t.Errorf("unexpected confirmation reply:\n%s", reply)
	}
	if !strings.Contains(reply, "Confirmation email sent") {
		t.Errorf("expected email-sent line:\n%s", reply)
	}
}

func TestFlowConfirmEmailFailureKeepsBooking(t *testing.T) {
	store := &stubStore{bookingID: 7}
	notifier := &stubNotifier{err: errors.New("smtp down")}
	flow := newTestFlow(store, notifier)

	draft := completeDraftMissingTime()
	draft.Time = "10:00"
	reply, after := flow.HandleTurn(context.Background(), "sure", SessionState{Draft: draft, AwaitingConfirmation: true})

	if store.calls != 1 {
		t.Fatalf("booking must persist despite email failure")
	}
	if !strings.Contains(reply, "BOOKING CONFIRMED") {
		t.Errorf("booking success message expected:\n%s", reply)
	}
	if !strings.Contains(reply, "Email could not be sent") {
		t.Errorf("expected downgraded email notice:\n%s", reply)
	}
	if !after.Draft.IsEmpty() {
		t.Errorf("draft should clear: %+v", after.Draft)
	}
}

func TestFlowPersistenceFailureDiscardsDraft(t *testing.T) {
	store := &stubStore{err: errors.New("disk full")}
	flow := newTestFlow(store, nil)

	draft := completeDraftMissingTime()
	draft.Time = "10:00"
	reply, after := flow.HandleTurn(context.Background(), "yes", SessionState{Draft: draft, AwaitingConfirmation: true})

	if !strings.Contains(reply, "Error") {
		t.Errorf("expected failure message, got %q", reply)
	}
	if !after.Draft.IsEmpty() || after.AwaitingConfirmation {
		t.Errorf("failed persistence must force a restart: %+v", after)
	}
}

func TestFlowDenyRestarts(t *testing.T) {
	flow := newTestFlow(&stubStore{}, nil)
	draft := completeDraftMissingTime()
	draft.Time = "10:00"

	reply, after := flow.HandleTurn(context.Background(), "no", SessionState{Draft: draft, AwaitingConfirmation: true})

	if !after.Draft.IsEmpty() || after.AwaitingConfirmation {
		t.Errorf("deny should clear the session: %+v", after)
	}
	if !strings.Contains(reply, "start fresh") {
		t.Errorf("expected restart prompt, got %q", reply)
	}
}

func TestFlowAmbiguousConfirmationReprompts(t *testing.T) {
	store := &stubStore{}
	flow := newTestFlow(store, nil)
	draft := completeDraftMissingTime()
	draft.Time = "10:00"
	session := SessionState{Draft: draft, AwaitingConfirmation: true}

	reply, after := flow.HandleTurn(context.Background(), "hmm let me think", session)

	if store.calls != 0 {
		t.Error("no persistence on ambiguous reply")
	}
	if !after.AwaitingConfirmation || after.Draft != draft {
		t.Errorf("session must hold in CONFIRMING: %+v", after)
	}
	if !strings.Contains(reply, "'yes'") || !strings.Contains(reply, "'no'") {
		t.Errorf("expected yes/no re-prompt, got %q", reply)
	}
}

func TestFlowCorruptedDraftAborts(t *testing.T) {
	store := &stubStore{}
	flow := newTestFlow(store, nil)
	draft := completeDraftMissingTime()
	draft.Time = "10:00"
	draft.Email = "corrupted"

	reply, _ := flow.HandleTurn(context.Background(), "yes", SessionState{Draft: draft, AwaitingConfirmation: true})

	if store.calls != 0 {
		t.Error("corrupted draft must not reach the store")
	}
	if !strings.Contains(reply, "invalid email") {
		t.Errorf("expected descriptive error, got %q", reply)
	}
}

func TestFlowWidgetSelection(t *testing.T) {
	flow := newTestFlow(&stubStore{}, nil)
	session := SessionState{Draft: completeDraftMissingTime(), SuggestedTime: "16:00"}
	// Consume the pending date suggestion path too.
	session.Draft.Date = ""
	session.SuggestedDate = "2025-12-01"

	_, session = flow.HandleTurn(context.Background(), "use selected date", session)
	if session.Draft.Date != "2025-12-01" || session.SuggestedDate != "" {
		t.Fatalf("staged date not consumed: %+v", session)
	}

	_, session = flow.HandleTurn(context.Background(), "use selected time", session)
	if session.Draft.Time != "16:00" {
		t.Fatalf("staged time not consumed: %+v", session)
	}
	if !session.AwaitingConfirmation {
		t.Error("complete draft should reach CONFIRMING")
	}
}

func TestFlowWidgetSelectionSurvivesFailedTurn(t *testing.T) {
	flow := newTestFlow(&stubStore{}, nil)
	session := SessionState{Draft: completeDraftMissingTime(), SuggestedTime: "16:00"}
	session.Draft.Date = ""

	// The past date sinks the whole turn; the staged time must stay usable.
	_, session = flow.HandleTurn(context.Background(), "use selected time on 2020-01-01", session)
	if session.Draft.Time != "" {
		t.Fatalf("failed turn must not merge: %+v", session)
	}
	if session.SuggestedTime != "16:00" {
		t.Fatalf("staged time lost after failed turn: %+v", session)
	}

	_, session = flow.HandleTurn(context.Background(), "use selected time on 2025-12-01", session)
	if session.Draft.Time != "16:00" || session.Draft.Date != "2025-12-01" {
		t.Fatalf("retried selection not applied: %+v", session)
	}
	if session.SuggestedTime != "" {
		t.Error("staged time should clear once merged")
	}
}
