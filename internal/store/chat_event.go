package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with the ent SQL builder and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	sql *entsql.DialectBuilder
}

var chatEventColumns = []string{
	"id", "sequence", "timestamp", "conversation_id", "role",
	"modality", "grade", "subject", "content", "has_audio",
}

func (r *eventRepo) AppendChatMessage(ctx context.Context, data ChatMessageData) error {
	if data.ConversationID == "" || data.Role == "" {
		return fmt.Errorf("append chat message: conversation id and role are required")
	}
	modality := data.Modality
	if modality == "" {
		modality = "text"
	}

	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := r.sql.Insert(chatEventsTable).
		Columns("sequence", "timestamp", "conversation_id", "role", "modality", "grade", "subject", "content", "has_audio").
		Values(seqNum, ts.UTC(), data.ConversationID, data.Role, modality, data.Grade, data.Subject, data.Content, data.HasAudio).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save chat event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryChatMessages(ctx context.Context, opts QueryOpts) ([]ChatMessageRecord, error) {
	sel := r.selectMessages(opts).OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	return r.scanMessages(ctx, sel)
}

func (r *eventRepo) Conversation(ctx context.Context, conversationID string) ([]ChatMessageRecord, error) {
	sel := r.selectMessages(QueryOpts{ConversationID: conversationID}).OrderBy(entsql.Asc("sequence"))
	return r.scanMessages(ctx, sel)
}

func (r *eventRepo) ConversationSummaries(ctx context.Context, opts QueryOpts) ([]ConversationSummary, error) {
	limit := opts.Limit
	opts.Limit = 0
	sel := r.selectMessages(opts).OrderBy(entsql.Asc("sequence"))
	events, err := r.scanMessages(ctx, sel)
	if err != nil {
		return nil, fmt.Errorf("query conversation summaries: %w", err)
	}

	byID := make(map[string]*ConversationSummary)
	var order []string
	for _, e := range events {
		s, ok := byID[e.ConversationID]
		if !ok {
			s = &ConversationSummary{
				ConversationID: e.ConversationID,
				Grade:          e.Grade,
				Started:        e.Timestamp,
			}
			byID[e.ConversationID] = s
			order = append(order, e.ConversationID)
		}
		s.Messages++
		s.LastActivity = e.Timestamp
		s.LastSequence = e.Sequence
		if e.Role == "user" {
			if s.Questions == 0 {
				s.FirstQuestion = e.Content
			}
			s.Questions++
		}
	}

	summaries := make([]ConversationSummary, 0, len(order))
	for _, id := range order {
		summaries = append(summaries, *byID[id])
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].LastSequence > summaries[j].LastSequence
	})
	if limit > 0 && len(summaries) > limit {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// selectMessages builds a chat event query with the filters in opts applied.
func (r *eventRepo) selectMessages(opts QueryOpts) *entsql.Selector {
	sel := r.sql.Select(chatEventColumns...).From(r.sql.Table(chatEventsTable))
	if opts.After > 0 {
		sel = sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel = sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel = sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel = sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.ConversationID != "" {
		sel = sel.Where(entsql.EQ("conversation_id", opts.ConversationID))
	}
	if opts.Role != "" {
		sel = sel.Where(entsql.EQ("role", opts.Role))
	}
	return sel
}

func (r *eventRepo) scanMessages(ctx context.Context, sel *entsql.Selector) ([]ChatMessageRecord, error) {
	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query chat events: %w", err)
	}
	defer rows.Close()

	var records []ChatMessageRecord
	for rows.Next() {
		var rec ChatMessageRecord
		if err := rows.Scan(
			&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.ConversationID, &rec.Role,
			&rec.Modality, &rec.Grade, &rec.Subject, &rec.Content, &rec.HasAudio,
		); err != nil {
			return nil, fmt.Errorf("scan chat event: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat events: %w", err)
	}
	return records, nil
}
