package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ChatEvent records one message of a chat conversation, either the
// learner's question or the tutor's reply.
type ChatEvent struct {
	ent.Schema
}

func (ChatEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{ConversationEventMixin{}}
}

func (ChatEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("role").
			NotEmpty().
			Comment("user or bot"),
		field.String("modality").
			Default("text").
			Comment("text, voice, image or file"),
		field.Int("grade").
			Comment("Grade selected when the message was sent"),
		field.String("subject").
			Default("").
			Comment("Classified subject of a bot reply"),
		field.Text("content"),
		field.Bool("has_audio").
			Default(false),
	}
}

func (ChatEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("role"),
	}
}
