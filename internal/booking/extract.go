package booking

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/bookwise-ai/bookwise/internal/catalog"
	"github.com/bookwise-ai/bookwise/pkg/logging"
)

// FieldGuesser is the LLM-assisted fallback for fields that pattern matching
// cannot resolve. Implementations must reply with exactly one catalog name or
// the NOT_FOUND sentinel; any transport failure is treated as "not found".
type FieldGuesser interface {
	GuessService(ctx context.Context, utterance string) (string, error)
}

// NotFoundSentinel is the reply a guesser uses when the utterance names no
// known service.
const NotFoundSentinel = "NOT_FOUND"

var (
	extractEmailRE = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	extractPhoneRE = regexp.MustCompile(`\b\d{10,15}\b`)
	extractDateRE  = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	extractTimeRE  = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	digitRE        = regexp.MustCompile(`\d`)
)

// bookingVerbs disqualify a short utterance from being read as a name, so
// "book appointment" never becomes a customer called Book Appointment.
var bookingVerbs = []string{"book", "appointment", "reservation", "schedule", "want", "need", "service"}

// Extractor pulls structured booking fields out of one utterance. Extraction
// is additive: a field already known to the draft is never re-extracted.
type Extractor struct {
	guesser FieldGuesser
	logger  *logging.Logger
}

// NewExtractor builds an extractor. The guesser may be nil, in which case the
// service-type fallback is skipped.
func NewExtractor(guesser FieldGuesser, logger *logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &Extractor{guesser: guesser, logger: logger}
}

// Extract scans the utterance for every field not yet in known. It returns a
// map of field name to raw candidate value; candidates still need validation
// before they may enter a draft. Time values are re-emitted zero-padded.
func (e *Extractor) Extract(ctx context.Context, utterance string, known map[string]bool) map[string]string {
	extracted := make(map[string]string)

	if !known[FieldEmail] {
		if m := extractEmailRE.FindString(utterance); m != "" {
			extracted[FieldEmail] = m
		}
	}
	if !known[FieldPhone] {
		if m := extractPhoneRE.FindString(utterance); m != "" {
			extracted[FieldPhone] = m
		}
	}
	if !known[FieldDate] {
		if m := extractDateRE.FindString(utterance); m != "" {
			extracted[FieldDate] = m
		}
	}
	if !known[FieldTime] {
		if m := extractTimeRE.FindStringSubmatch(utterance); m != nil {
			hours, _ := strconv.Atoi(m[1])
			extracted[FieldTime] = fmt.Sprintf("%02d:%s", hours, m[2])
		}
	}
	if !known[FieldName] {
		if name := nameCandidate(utterance); name != "" {
			extracted[FieldName] = name
		}
	}
	if !known[FieldServiceType] {
		if svc := e.serviceCandidate(ctx, utterance); svc != "" {
			extracted[FieldServiceType] = svc
		}
	}

	return extracted
}

// nameCandidate applies the short-utterance heuristic: at most 5 words, under
// 50 characters, purely alphabetic, free of contact-info markers and booking
// verbs. The result is title-cased.
func nameCandidate(utterance string) string {
	clean := strings.TrimSpace(utterance)
	if clean == "" || len(strings.Fields(clean)) > 5 || len(clean) >= 50 {
		return ""
	}
	lower := strings.ToLower(clean)
	if strings.ContainsAny(clean, "@:-") || strings.Contains(lower, ".com") || digitRE.MatchString(clean) {
		return ""
	}
	for _, verb := range bookingVerbs {
		if strings.Contains(lower, verb) {
			return ""
		}
	}
	if !alphabetic(strings.ReplaceAll(clean, " ", "")) {
		return ""
	}
	return titleCase(clean)
}

func (e *Extractor) serviceCandidate(ctx context.Context, utterance string) string {
	if svc, ok := catalog.MatchKeywords(utterance); ok {
		return svc.Name
	}
	if e.guesser == nil {
		return ""
	}
	guess, err := e.guesser.GuessService(ctx, utterance)
	if err != nil {
		// Extraction failures are silent: the field simply stays missing.
		e.logger.Debug("service guess failed", "error", err)
		return ""
	}
	guess = strings.TrimSpace(strings.Trim(strings.TrimSpace(guess), `"'`))
	if guess == "" || guess == NotFoundSentinel || len(guess) >= 100 {
		return ""
	}
	return guess
}

func alphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
