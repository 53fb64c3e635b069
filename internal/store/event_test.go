package store

import (
	"context"
	"testing"
	"time"
)

func appendConversation(t *testing.T, repo EventRepo, id string, grade int, questions ...string) {
	t.Helper()
	ctx := context.Background()
	for _, q := range questions {
		if err := repo.AppendChatMessage(ctx, ChatMessageData{
			ConversationID: id, Role: "user", Modality: "text", Grade: grade, Content: q,
		}); err != nil {
			t.Fatalf("append user: %v", err)
		}
		if err := repo.AppendChatMessage(ctx, ChatMessageData{
			ConversationID: id, Role: "bot", Grade: grade, Subject: "mathematics", Content: "reply to " + q,
		}); err != nil {
			t.Fatalf("append bot: %v", err)
		}
	}
}

func TestAppendAndQueryChatMessages(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendConversation(t, repo, "c1", 3, "add 2 and 2", "what is a noun")

	got, err := repo.QueryChatMessages(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d messages, want 4", len(got))
	}
	// Newest first.
	if got[0].Sequence <= got[1].Sequence {
		t.Errorf("expected descending sequence, got %d then %d", got[0].Sequence, got[1].Sequence)
	}
	if got[0].Role != "bot" || got[0].Content != "reply to what is a noun" {
		t.Errorf("newest = %+v", got[0])
	}
	if got[0].Modality != "text" {
		t.Errorf("empty modality should default to text, got %q", got[0].Modality)
	}
	if got[3].Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestAppendChatMessageKeepsTimestamp(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.FixedZone("EAT", 3*3600))
	if err := repo.AppendChatMessage(ctx, ChatMessageData{
		ConversationID: "c1", Role: "user", Content: "q", Timestamp: at,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	got, err := repo.Conversation(ctx, "c1")
	if err != nil {
		t.Fatalf("conversation: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d messages, want 1", len(got))
	}
	if !got[0].Timestamp.Equal(at) {
		t.Errorf("timestamp = %v, want %v", got[0].Timestamp, at)
	}
}

func TestQueryChatMessagesFilters(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendConversation(t, repo, "c1", 3, "q1", "q2")
	appendConversation(t, repo, "c2", 5, "q3")

	tests := []struct {
		name string
		opts QueryOpts
		want int
	}{
		{"all", QueryOpts{}, 6},
		{"limit", QueryOpts{Limit: 2}, 2},
		{"conversation", QueryOpts{ConversationID: "c2"}, 2},
		{"role", QueryOpts{Role: "user"}, 3},
		{"after", QueryOpts{After: 4}, 2},
		{"before", QueryOpts{Before: 3}, 2},
		{"combined", QueryOpts{ConversationID: "c1", Role: "bot"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.QueryChatMessages(ctx, tt.opts)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("got %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestAppendChatMessageRequiresIDs(t *testing.T) {
	s := openTestStore(t)
	err := s.EventRepo().AppendChatMessage(context.Background(), ChatMessageData{Role: "user"})
	if err == nil {
		t.Fatal("expected error for missing conversation id")
	}
}

func TestConversationOldestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()

	appendConversation(t, repo, "c1", 2, "first", "second")
	appendConversation(t, repo, "other", 2, "noise")

	msgs, err := repo.Conversation(context.Background(), "c1")
	if err != nil {
		t.Fatalf("conversation: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("got %d messages, want 4", len(msgs))
	}
	want := []string{"first", "reply to first", "second", "reply to second"}
	for i, m := range msgs {
		if m.Content != want[i] {
			t.Errorf("msgs[%d] = %q, want %q", i, m.Content, want[i])
		}
	}
}

func TestConversationSummaries(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	appendConversation(t, repo, "old", 3, "q1", "q2")
	appendConversation(t, repo, "new", 7, "science question")

	sums, err := repo.ConversationSummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("summaries: %v", err)
	}
	if len(sums) != 2 {
		t.Fatalf("got %d summaries, want 2", len(sums))
	}
	if sums[0].ConversationID != "new" {
		t.Errorf("most recent first: got %q", sums[0].ConversationID)
	}
	old := sums[1]
	if old.Grade != 3 || old.Messages != 4 || old.Questions != 2 || old.FirstQuestion != "q1" {
		t.Errorf("old summary = %+v", old)
	}
	if old.LastActivity.Before(old.Started) {
		t.Errorf("last activity %v before start %v", old.LastActivity, old.Started)
	}

	limited, err := repo.ConversationSummaries(ctx, QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("summaries limit: %v", err)
	}
	if len(limited) != 1 || limited[0].ConversationID != "new" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestSessionRepo(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	_, ok, err := repo.Get(ctx, "homeworkHelper_user")
	if err != nil {
		t.Fatalf("get empty: %v", err)
	}
	if ok {
		t.Fatal("expected no blob")
	}

	if err := repo.Put(ctx, "homeworkHelper_user", []byte(`{"name":"Amina"}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := repo.Put(ctx, "homeworkHelper_user", []byte(`{"name":"Baraka"}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	got, ok, err := repo.Get(ctx, "homeworkHelper_user")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(got) != `{"name":"Baraka"}` {
		t.Errorf("value = %s", got)
	}

	if err := repo.Delete(ctx, "homeworkHelper_user"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "homeworkHelper_user"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "homeworkHelper_user"); ok {
		t.Error("blob still present after delete")
	}

	if err := repo.Put(ctx, "", nil); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestMigrationTablesFromSchema(t *testing.T) {
	tables, err := migrationTables()
	if err != nil {
		t.Fatalf("migration tables: %v", err)
	}
	if len(tables) != 2 {
		t.Fatalf("got %d tables, want 2", len(tables))
	}

	events := tables[0]
	if events.Name != chatEventsTable {
		t.Fatalf("table[0] = %s", events.Name)
	}
	if len(events.PrimaryKey) != 1 || events.PrimaryKey[0].Name != "id" || !events.PrimaryKey[0].Increment {
		t.Errorf("chat_events should get an auto-increment id")
	}
	if c, ok := events.Column("sequence"); !ok || !c.Unique {
		t.Errorf("sequence column should be unique")
	}

	blobs := tables[1]
	if len(blobs.PrimaryKey) != 1 || blobs.PrimaryKey[0].Name != "id" || blobs.PrimaryKey[0].Increment {
		t.Errorf("session_blobs should use its string id as primary key")
	}
	if c, ok := blobs.Column("id"); !ok || c.Size != 128 {
		t.Errorf("session_blobs id should carry its max length, got %+v", c)
	}
}
