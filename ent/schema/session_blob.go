package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// SessionBlob is an opaque value stored under a string key. The signed-in
// profile lives here.
type SessionBlob struct {
	ent.Schema
}

func (SessionBlob) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			MaxLen(128).
			Immutable().
			Comment("Blob key, e.g. homeworkHelper_user"),
		field.Text("value"),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}
