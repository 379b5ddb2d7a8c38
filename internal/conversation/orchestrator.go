package conversation

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookwise-ai/bookwise/internal/booking"
	"github.com/bookwise-ai/bookwise/internal/catalog"
	"github.com/bookwise-ai/bookwise/internal/intent"
	"github.com/bookwise-ai/bookwise/internal/observability/metrics"
	"github.com/bookwise-ai/bookwise/pkg/logging"
)

// DocumentRetriever answers questions from ingested documents.
type DocumentRetriever interface {
	Query(ctx context.Context, question string) (string, error)
	DocumentCount(ctx context.Context) (int, error)
}

// Orchestrator routes each turn to the booking flow, document Q&A, or
// general chat, and guarantees every turn produces a reply.
type Orchestrator struct {
	flow      *booking.Flow
	retriever DocumentRetriever
	completer TextCompleter
	metrics   *metrics.Conversation
	logger    *logging.Logger
}

// NewOrchestrator wires the three turn handlers together. The retriever and
// completer may be nil; their paths then degrade to guidance messages.
func NewOrchestrator(flow *booking.Flow, retriever DocumentRetriever, completer TextCompleter, m *metrics.Conversation, logger *logging.Logger) *Orchestrator {
	if flow == nil {
		panic("conversation: booking flow required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{flow: flow, retriever: retriever, completer: completer, metrics: m, logger: logger}
}

// vagueQueries are too thin to retrieve on; they fall through to chat.
var vagueQueries = map[string]bool{
	"yes": true, "no": true, "ok": true, "okay": true,
	"sure": true, "nope": true, "yeah": true, "yep": true,
}

var affirmativeExact = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "sure": true, "ok": true, "okay": true,
}

var negativeExact = map[string]bool{
	"no": true, "nope": true, "nah": true, "not really": true,
}

var greetingExact = map[string]bool{
	"hi": true, "hello": true, "hey": true,
	"good morning": true, "good afternoon": true, "good evening": true,
}

var uploadWords = []string{"upload", "uploaded", "document", "pdf", "file"}

// hallucinationMarkers betray a reply drifting into the model's training data
// instead of the retrieved context.
var hallucinationMarkers = []string{
	"fake image", "detection", "ai-generated", "e-commerce refund",
	"binary classification", "visual explanation",
}

const (
	noDocsGuidance = "I don't have any documents to search yet. Upload PDFs with your service details, or say 'I want to book' to make a booking!"

	uploadInstructions = "Great! To upload documents:\n" +
		"1. Open the 📄 document upload panel\n" +
		"2. Select your PDF files\n" +
		"3. Submit them for processing\n" +
		"4. Then you can ask me questions about the content!\n\n" +
		"📋 Your PDFs should contain service info, pricing, hours, etc."

	noRelevantInfo = "I couldn't find relevant information in the uploaded documents. Could you ask a more specific question? Or say 'I want to book' to make a booking!"

	badDocumentGuidance = "It looks like the uploaded PDF might not contain booking or service information. " +
		"Please upload PDFs with:\n" +
		"• Service descriptions\n" +
		"• Pricing\n" +
		"• Business hours\n" +
		"• Contact information\n\n" +
		"Or I can help you make a booking! Just say 'I want to book' 😊"

	welcomeReply = "Hello! 👋 Welcome to our booking assistant. I'm here to help you!\n\n" +
		"I can:\n" +
		"• Answer questions about our services (upload PDFs first)\n" +
		"• Help you make bookings\n" +
		"• Provide information and assistance\n\n" +
		"What would you like to do today?"

	thanksReply  = "You're welcome! 😊 Is there anything else I can help you with?"
	goodbyeReply = "Goodbye! Have a great day! Feel free to come back anytime you need help. 👋"

	genericAffirmative = "Great! What would you like to do? I can help you with questions about our services or make a booking. Just say 'I want to book' to get started! 😊"
	genericNegative    = "No problem! Is there anything else I can help you with? Feel free to ask questions or say 'I want to book' if you'd like to make a booking later! 😊"

	startBookingReply  = "Great! Let's start your booking. What's your name?"
	uploadPointerReply = "Perfect! Please use the document upload panel to submit your PDF documents. 📄"
)

const groundedSystem = "You are a booking assistant. Only answer from provided context. Never make up information."

var generalSystem = "You are a friendly and professional booking assistant.\n\n" +
	"Key behaviors:\n" +
	"- Be warm, friendly, and helpful\n" +
	"- Keep responses concise (2-3 sentences max)\n" +
	"- If unclear what user wants, offer specific options\n" +
	"- Never make up information about services\n" +
	"- Guide users toward either asking questions (if PDFs uploaded) or making bookings\n\n" +
	"Available services:\n" +
	strings.Join(catalog.Names(), ", ") + "\n\n" +
	"NEVER discuss topics like \"fake images\", \"AI detection\", \"e-commerce\" or anything unrelated to booking services."

// HandleTurn processes one user utterance against the session state and
// returns the reply plus the updated state. Collaborator failures never
// escape; they degrade to an apology so the turn always answers.
func (o *Orchestrator) HandleTurn(ctx context.Context, utterance string, state ConversationState) (string, ConversationState) {
	trimmed := strings.TrimSpace(utterance)
	classified := intent.Classify(trimmed, state.History)

	var reply string
	route := classified
	switch {
	// An in-progress booking cannot be abandoned by a misclassified turn.
	case classified == intent.Booking || !state.Session.Draft.IsEmpty() || state.Session.AwaitingConfirmation:
		route = intent.Booking
		reply, state.Session = o.flow.HandleTurn(ctx, trimmed, state.Session)
	case classified == intent.DocumentQuery:
		reply = o.documentReply(ctx, trimmed, state.History)
	default:
		reply = o.generalReply(ctx, trimmed, state.History)
	}
	o.metrics.TurnHandled(string(route))

	state.History = append(state.History,
		intent.Turn{Role: intent.RoleUser, Content: trimmed},
		intent.Turn{Role: intent.RoleAssistant, Content: reply},
	)
	return reply, state
}

func (o *Orchestrator) documentReply(ctx context.Context, utterance string, history []intent.Turn) string {
	lower := strings.ToLower(utterance)
	if vagueQueries[lower] {
		return o.generalReply(ctx, utterance, history)
	}
	if o.retriever == nil {
		if containsAny(lower, uploadWords) {
			return uploadInstructions
		}
		return noDocsGuidance
	}

	count, err := o.retriever.DocumentCount(ctx)
	if err != nil {
		o.logger.Error("document count failed", "error", err)
		return apology(err)
	}
	if count == 0 {
		if containsAny(lower, uploadWords) {
			return uploadInstructions
		}
		return noDocsGuidance
	}

	docContext, err := o.retriever.Query(ctx, utterance)
	if err != nil {
		o.logger.Error("document query failed", "error", err)
		return apology(err)
	}
	if docContext == "" {
		return noRelevantInfo
	}

	prompt := fmt.Sprintf(`You are a helpful booking assistant. Answer the user's question using ONLY the context provided from uploaded documents.

Context from documents:
%s

Conversation history:
%s

User question: %s

CRITICAL RULES:
1. ONLY use information from the context above
2. If the context is NOT relevant to the question, say: "I don't see information about that in the uploaded documents. Could you ask something else or upload more relevant PDFs?"
3. If context seems unrelated to booking/services, say: "The uploaded document doesn't seem to contain service/booking information. Could you upload service brochures or menus?"
4. DO NOT make up information
5. DO NOT talk about topics unrelated to the user's services
6. Keep answers focused on bookings and services
7. Be concise and helpful

Answer:`, docContext, memoryContext(history), utterance)

	reply, err := o.complete(ctx, groundedSystem, prompt)
	if err != nil {
		return apology(err)
	}
	if containsAny(strings.ToLower(reply), hallucinationMarkers) {
		o.logger.Warn("grounded reply tripped hallucination filter")
		return badDocumentGuidance
	}
	return reply
}

func (o *Orchestrator) generalReply(ctx context.Context, utterance string, history []intent.Turn) string {
	lower := strings.ToLower(strings.TrimSpace(utterance))

	if affirmativeExact[lower] {
		if msg, ok := lastAssistantContent(history); ok {
			if strings.Contains(msg, "want to book") || strings.Contains(msg, "make a booking") {
				return startBookingReply
			}
			if strings.Contains(msg, "upload") {
				return uploadPointerReply
			}
		}
		return genericAffirmative
	}
	if negativeExact[lower] {
		return genericNegative
	}
	if greetingExact[lower] {
		return welcomeReply
	}
	if containsAny(lower, []string{"thank", "thanks", "thx"}) {
		return thanksReply
	}
	if containsAny(lower, []string{"bye", "goodbye", "see you"}) {
		return goodbyeReply
	}
	if containsAny(lower, uploadWords) {
		return uploadInstructions
	}

	prompt := fmt.Sprintf("Recent conversation:\n%s\n\nUser: %s\n\nRespond helpfully and concisely:", memoryContext(history), utterance)
	reply, err := o.complete(ctx, generalSystem, prompt)
	if err != nil {
		return apology(err)
	}
	return reply
}

func (o *Orchestrator) complete(ctx context.Context, system, prompt string) (string, error) {
	if o.completer == nil {
		return "", fmt.Errorf("conversation: no completion service configured")
	}
	timer := o.metrics.CompletionTimer()
	reply, err := o.completer.Complete(ctx, system, prompt, chatTemperature, chatMaxTokens)
	timer.Observe()
	if err != nil {
		o.logger.Error("completion failed", "error", err)
		return "", err
	}
	return reply, nil
}

// memoryContext flattens recent history into a prompt block, truncating each
// message so one long turn cannot crowd out the rest.
func memoryContext(history []intent.Turn) string {
	if len(history) == 0 {
		return "No previous conversation."
	}
	parts := make([]string, 0, len(history))
	for _, turn := range history {
		role := "Assistant"
		if turn.Role == intent.RoleUser {
			role = "User"
		}
		content := turn.Content
		if runes := []rune(content); len(runes) > 200 {
			content = string(runes[:200])
		}
		parts = append(parts, role+": "+content)
	}
	return strings.Join(parts, "\n")
}

func lastAssistantContent(history []intent.Turn) (string, bool) {
	start := len(history) - 3
	if start < 0 {
		start = 0
	}
	for i := len(history) - 1; i >= start; i-- {
		if history[i].Role == intent.RoleAssistant {
			return strings.ToLower(history[i].Content), true
		}
	}
	return "", false
}

func apology(err error) string {
	return fmt.Sprintf("Sorry, I encountered an error: %v", err)
}

func containsAny(s string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
