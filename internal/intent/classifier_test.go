package intent

import "testing"

func TestClassifyBareGreeting(t *testing.T) {
	if got := Classify("hi", nil); got != GeneralChat {
		t.Errorf("Classify(\"hi\") = %v, want %v", got, GeneralChat)
	}
	if got := Classify("  Hello  ", nil); got != GeneralChat {
		t.Errorf("Classify(\"Hello\") = %v, want %v", got, GeneralChat)
	}
}

func TestClassifyLongerGreetingIsQuery(t *testing.T) {
	// Not a bare greeting, so the non-booking rule routes it to documents.
	if got := Classify("hello there, what do my documents say about refunds", nil); got != DocumentQuery {
		t.Errorf("got %v, want %v", got, DocumentQuery)
	}
}

func TestClassifyExplicitBookingTrigger(t *testing.T) {
	cases := []string{
		"book a doctor appointment",
		"I want to book something",
		"can i schedule a visit for next week",
		"make a booking please",
	}
	for _, utterance := range cases {
		if got := Classify(utterance, nil); got != Booking {
			t.Errorf("Classify(%q) = %v, want %v", utterance, got, Booking)
		}
	}
}

func TestClassifyDocumentReference(t *testing.T) {
	if got := Classify("what does the uploaded pdf cover", nil); got != DocumentQuery {
		t.Errorf("got %v, want %v", got, DocumentQuery)
	}
}

func TestClassifyContinuationAfterFieldQuestion(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "book a spa treatment"},
		{Role: RoleAssistant, Content: "What's your email address?\n📧 *Example: name@example.com*"},
	}
	// An email address alone matches no booking keyword; the recent assistant
	// question is what keeps the flow alive.
	if got := Classify("jane@example.com", history); got != Booking {
		t.Errorf("got %v, want %v", got, Booking)
	}
}

func TestClassifyGreetingBreaksStaleContinuation(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "book a spa treatment"},
		{Role: RoleAssistant, Content: "✅ **Information collected so far:**\n👤 **Name:** Jane"},
		{Role: RoleAssistant, Content: "Anything else I can help with today?"},
	}
	// The most recent assistant turn asks no field question, so "thanks, bye"
	// escapes the booking flow.
	if got := Classify("thanks, bye", history); got != DocumentQuery {
		t.Errorf("got %v, want %v", got, DocumentQuery)
	}
}

func TestClassifyGreetingStaysInFlowWhenQuestionPending(t *testing.T) {
	history := []Turn{
		{Role: RoleAssistant, Content: "What date?\n\n📅 Choose a date"},
	}
	if got := Classify("good morning, tomorrow works", history); got != Booking {
		t.Errorf("got %v, want %v", got, Booking)
	}
}

func TestClassifyProgressMarkerContinuation(t *testing.T) {
	history := []Turn{
		{Role: RoleAssistant, Content: "✅ **Information collected so far:**\n👤 **Name:** Jane\n\nWhat time?"},
	}
	if got := Classify("14:30", history); got != Booking {
		t.Errorf("got %v, want %v", got, Booking)
	}
}

func TestClassifyHistoryWindowIsThreeTurns(t *testing.T) {
	history := []Turn{
		{Role: RoleAssistant, Content: "What's your name?"},
		{Role: RoleUser, Content: "never mind"},
		{Role: RoleUser, Content: "tell me about the weather"},
		{Role: RoleAssistant, Content: "I can chat about that."},
		{Role: RoleUser, Content: "great"},
	}
	// The field question fell outside the three-turn window.
	if got := Classify("anything else", history); got != DocumentQuery {
		t.Errorf("got %v, want %v", got, DocumentQuery)
	}
}

func TestClassifyWidgetSelection(t *testing.T) {
	if got := Classify("use selected date", nil); got != Booking {
		t.Errorf("got %v, want %v", got, Booking)
	}
	if got := Classify("please use the selected time", nil); got != Booking {
		t.Errorf("got %v, want %v", got, Booking)
	}
}

func TestClassifyDefaultIsDocumentQuery(t *testing.T) {
	if got := Classify("what is the cancellation policy", nil); got != DocumentQuery {
		t.Errorf("got %v, want %v", got, DocumentQuery)
	}
}
