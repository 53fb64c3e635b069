package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// ConversationEventMixin holds the fields every chat log event carries:
// its place in the global sequence, when it happened and which
// conversation it belongs to.
type ConversationEventMixin struct {
	mixin.Schema
}

func (ConversationEventMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Global sequence number shared by all events"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable().
			Comment("UTC wall-clock time of the event"),
		field.String("conversation_id").
			NotEmpty().
			Immutable().
			Comment("Chat screen session the event belongs to"),
	}
}

func (ConversationEventMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("timestamp"),
		// Transcripts are read per conversation in sequence order.
		index.Fields("conversation_id", "sequence"),
	}
}
