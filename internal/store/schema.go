package store

import (
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/homeworkhelper/ent/schema"
)

// Table names.
const (
	chatEventsTable   = "chat_events"
	sessionBlobsTable = "session_blobs"
)

// entities maps each table to the ent schema that declares it.
var entities = []struct {
	table  string
	schema ent.Interface
}{
	{chatEventsTable, entschema.ChatEvent{}},
	{sessionBlobsTable, entschema.SessionBlob{}},
}

// migrationTables builds migration tables from the ent schema declarations.
// Mixin fields come first, then the schema's own fields. A schema without
// an explicit "id" field gets an auto-increment integer primary key, which
// is what ent code generation would produce.
func migrationTables() ([]*schema.Table, error) {
	tables := make([]*schema.Table, 0, len(entities))
	for _, e := range entities {
		t, err := tableFor(e.table, e.schema)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", e.table, err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func tableFor(name string, s ent.Interface) (*schema.Table, error) {
	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	t := schema.NewTable(name)
	hasID := false
	for _, f := range fields {
		if f.Descriptor().Name == "id" {
			hasID = true
			break
		}
	}
	if !hasID {
		t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})
	}

	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional,
			Size:     int64(d.Size),
		}
		// Func defaults such as time.Now are applied by the writer.
		switch v := d.Default.(type) {
		case string, bool, int, int64, float64:
			col.Default = v
		}
		if d.Name == "id" {
			t.AddPrimary(col)
			continue
		}
		t.AddColumn(col)
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		t.AddIndex(name+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
	}
	return t, nil
}
