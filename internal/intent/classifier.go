// Package intent classifies each user utterance into one of three routes:
// booking slot-filling, document-grounded Q&A, or general chat. Classification
// is keyword-driven and stateless given the utterance and recent history.
package intent

import "strings"

// Intent is the route a turn should take through the orchestrator.
type Intent string

const (
	Booking       Intent = "booking"
	DocumentQuery Intent = "document_query"
	GeneralChat   Intent = "general_chat"
)

// Role values for conversation turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of conversation history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// nonBookingPhrases mark an utterance as clearly not a booking request:
// greetings, pleasantries, and anything about uploaded documents.
var nonBookingPhrases = []string{
	"upload", "uploaded", "document", "pdf", "file",
	"hi", "hello", "hey", "good morning", "good afternoon",
	"how are you", "what can you do", "help",
	"thank", "thanks", "bye", "goodbye",
}

// bareGreetings get a canned greeting instead of a document lookup.
var bareGreetings = []string{"hi", "hello", "hey"}

// widgetPhrases signal the user accepted a value from the date/time picker.
var widgetPhrases = []string{
	"use selected date", "use selected time", "selected date", "selected time",
}

var bookingTriggers = []string{
	"book a", "make a booking", "make an appointment",
	"schedule a", "reserve a", "i want to book",
	"i need to book", "i would like to book",
	"book appointment", "make reservation",
	"can i book", "can i schedule",
}

// fieldQuestionMarkers appear in the assistant prompts that ask for a booking
// field. Their presence in a recent assistant turn means the user's reply is a
// booking continuation even when it reads like something else entirely.
var fieldQuestionMarkers = []string{
	"your name", "your email", "your phone", "what date", "what time",
	"type of service", "confirm your booking", "is this correct",
}

// progressMarkers appear in assistant turns emitted mid-collection.
var progressMarkers = []string{
	"information collected so far",
	"your name?", "your email", "your phone",
	"what date", "what time",
	"type of service", "confirm your booking",
}

// Classify routes an utterance using the last three turns of history. Rules
// are evaluated in order and the first match wins; the ordering makes booking
// continuation survive replies that look unrelated (a bare email address)
// while greetings and thanks still break out of a stale booking exchange.
func Classify(utterance string, recent []Turn) Intent {
	lower := strings.ToLower(strings.TrimSpace(utterance))
	window := lastTurns(recent, 3)

	if containsAny(lower, nonBookingPhrases) {
		// A pending field question keeps the booking flow alive even for an
		// utterance that reads as a greeting or a document reference.
		if msg, ok := lastAssistantTurn(window); ok && containsAny(msg, fieldQuestionMarkers) {
			return Booking
		}
		if isBareGreeting(lower) {
			return GeneralChat
		}
		return DocumentQuery
	}

	if containsAny(lower, widgetPhrases) {
		return Booking
	}

	if containsAny(lower, bookingTriggers) {
		return Booking
	}

	for _, turn := range window {
		if turn.Role != RoleAssistant {
			continue
		}
		if containsAny(strings.ToLower(turn.Content), progressMarkers) {
			return Booking
		}
	}

	return DocumentQuery
}

func lastTurns(turns []Turn, n int) []Turn {
	if len(turns) <= n {
		return turns
	}
	return turns[len(turns)-n:]
}

// lastAssistantTurn returns the lowercased content of the most recent
// assistant turn in the window.
func lastAssistantTurn(turns []Turn) (string, bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == RoleAssistant {
			return strings.ToLower(turns[i].Content), true
		}
	}
	return "", false
}

func isBareGreeting(lower string) bool {
	for _, g := range bareGreetings {
		if lower == g {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
