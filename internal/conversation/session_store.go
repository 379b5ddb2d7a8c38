package conversation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bookwise-ai/bookwise/internal/booking"
	"github.com/bookwise-ai/bookwise/internal/intent"
	"github.com/bookwise-ai/bookwise/pkg/logging"
)

const sessionKeyPrefix = "bookwise:session:"

// ConversationState is everything remembered about one session between turns:
// the booking machine's state and the rolling chat history.
type ConversationState struct {
	Session booking.SessionState `json:"session"`
	History []intent.Turn        `json:"history"`
}

// SessionStore keeps per-session conversation state in Redis. A missing key
// reads back as a fresh state, so first turns need no special casing.
type SessionStore struct {
	client   *redis.Client
	ttl      time.Duration
	maxTurns int
	logger   *logging.Logger
}

// NewSessionStore builds the store. maxTurns bounds how much history is kept
// per session; older turns are dropped on save.
func NewSessionStore(client *redis.Client, ttl time.Duration, maxTurns int, logger *logging.Logger) *SessionStore {
	if client == nil {
		panic("conversation: redis client required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if maxTurns <= 0 {
		maxTurns = 25
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SessionStore{client: client, ttl: ttl, maxTurns: maxTurns, logger: logger}
}

// Load returns the stored state for the session, or a zero state when none
// exists or the stored payload cannot be decoded.
func (s *SessionStore) Load(ctx context.Context, sessionID string) (ConversationState, error) {
	data, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return ConversationState{}, nil
	}
	if err != nil {
		return ConversationState{}, fmt.Errorf("conversation: load session: %w", err)
	}

	var state ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		// A corrupt payload must not wedge the session forever.
		s.logger.Warn("discarding undecodable session state", "session_id", sessionID, "error", err)
		return ConversationState{}, nil
	}
	return state, nil
}

// Save writes the state back with a refreshed TTL, keeping only the most
// recent turns of history.
func (s *SessionStore) Save(ctx context.Context, sessionID string, state ConversationState) error {
	if len(state.History) > s.maxTurns {
		state.History = state.History[len(state.History)-s.maxTurns:]
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("conversation: encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("conversation: save session: %w", err)
	}
	return nil
}

// Clear removes the session state entirely.
func (s *SessionStore) Clear(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("conversation: clear session: %w", err)
	}
	return nil
}
