package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit          int       // max results (0 = unlimited)
	After          int64     // sequence > After
	Before         int64     // sequence < Before
	From           time.Time // timestamp >= From
	To             time.Time // timestamp <= To
	ConversationID string    // exact match when set
	Role           string    // exact match when set
}

// ChatMessageData captures one chat message to append to the event log.
type ChatMessageData struct {
	ConversationID string
	Role           string
	Modality       string
	Grade          int
	Subject        string
	Content        string
	HasAudio       bool
	Timestamp      time.Time // time.Now when zero
}

// ChatMessageRecord is a stored chat message.
type ChatMessageRecord struct {
	ID             int
	Sequence       int64
	Timestamp      time.Time
	ConversationID string
	Role           string
	Modality       string
	Grade          int
	Subject        string
	Content        string
	HasAudio       bool
}

// ConversationSummary aggregates the messages of one conversation.
type ConversationSummary struct {
	ConversationID string
	Grade          int
	Started        time.Time
	LastActivity   time.Time
	Messages       int
	Questions      int
	FirstQuestion  string
	LastSequence   int64
}

// EventRepo provides append and query access to chat events.
type EventRepo interface {
	// AppendChatMessage records a chat message event.
	AppendChatMessage(ctx context.Context, data ChatMessageData) error

	// QueryChatMessages returns chat messages newest first.
	QueryChatMessages(ctx context.Context, opts QueryOpts) ([]ChatMessageRecord, error)

	// Conversation returns every message of a conversation oldest first.
	Conversation(ctx context.Context, conversationID string) ([]ChatMessageRecord, error)

	// ConversationSummaries returns one summary per conversation, most
	// recently active first. Limit caps the number of summaries.
	ConversationSummaries(ctx context.Context, opts QueryOpts) ([]ConversationSummary, error)
}

// SessionRepo stores opaque blobs under string keys.
type SessionRepo interface {
	// Get returns the blob stored under key. The boolean is false when no
	// blob exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put creates or replaces the blob stored under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes the blob. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
