package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/tutorbot/core/logger"
	"log/slog"
)

// volatileState holds the conversation fields that never reach the database.
type volatileState struct {
	State              State
	PendingAnswer      string
	PendingExplanation string
}

type postgresStore struct {
	db  *sqlx.DB
	now func() time.Time

	mu       sync.RWMutex
	volatile map[int64]volatileState
}

// NewPostgresStore wraps a learners table with the Store and Directory
// contracts. Conversation state stays in memory over the persisted row,
// so after a restart a known user re-enters the menu with counters intact.
func NewPostgresStore(db *sqlx.DB) interface {
	Store
	Directory
} {
	return &postgresStore{
		db:       db,
		now:      time.Now,
		volatile: make(map[int64]volatileState),
	}
}

const selectLearner = `
SELECT telegram_id, first_name, last_name, username, lang, joined_at, correct_count, total_count
FROM learners WHERE telegram_id = $1`

const upsertLearner = `
INSERT INTO learners (telegram_id, first_name, last_name, username, lang, joined_at, correct_count, total_count)
VALUES (:telegram_id, :first_name, :last_name, :username, :lang, :joined_at, :correct_count, :total_count)
ON CONFLICT (telegram_id) DO UPDATE SET
	first_name = EXCLUDED.first_name,
	last_name = EXCLUDED.last_name,
	username = EXCLUDED.username,
	lang = EXCLUDED.lang,
	correct_count = EXCLUDED.correct_count,
	total_count = EXCLUDED.total_count`

func (p *postgresStore) GetOrCreate(ctx context.Context, id int64, profile Profile) (*Record, error) {
	var rec Record
	err := p.db.GetContext(ctx, &rec, selectLearner, id)
	switch {
	case err == nil:
		p.mu.RLock()
		vol, ok := p.volatile[id]
		p.mu.RUnlock()
		if ok {
			rec.State = vol.State
			rec.PendingAnswer = vol.PendingAnswer
			rec.PendingExplanation = vol.PendingExplanation
		} else {
			// Known user after a restart: menu is the safe node.
			rec.State = StateMenu
		}
		return &rec, nil
	case errors.Is(err, sql.ErrNoRows):
		rec = Record{
			ID:        id,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
			Username:  profile.Username,
			Lang:      LangEN,
			JoinedAt:  p.now(),
			State:     StateAwaitingLanguage,
		}
		if err := p.Save(ctx, &rec); err != nil {
			return nil, err
		}
		logger.SES.Info("learner created",
			slog.String("event", "session.create"),
			slog.Int64("user_id", id),
		)
		return &rec, nil
	default:
		return nil, fmt.Errorf("session: select learner %d: %w", id, err)
	}
}

func (p *postgresStore) Save(ctx context.Context, rec *Record) error {
	if _, err := p.db.NamedExecContext(ctx, upsertLearner, rec); err != nil {
		return fmt.Errorf("session: save learner %d: %w", rec.ID, err)
	}
	p.mu.Lock()
	p.volatile[rec.ID] = volatileState{
		State:              rec.State,
		PendingAnswer:      rec.PendingAnswer,
		PendingExplanation: rec.PendingExplanation,
	}
	p.mu.Unlock()
	return nil
}

func (p *postgresStore) Has(ctx context.Context, id int64) bool {
	p.mu.RLock()
	vol, ok := p.volatile[id]
	p.mu.RUnlock()
	if ok {
		return vol.State != StateTerminated
	}

	var exists bool
	if err := p.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM learners WHERE telegram_id = $1)`, id); err != nil {
		logger.SES.Warn("learner lookup failed",
			slog.String("event", "session.has"),
			slog.Int64("user_id", id),
			slog.String("err", err.Error()),
		)
		return false
	}
	return exists
}

func (p *postgresStore) List(ctx context.Context) ([]*Record, error) {
	var rows []Record
	if err := p.db.SelectContext(ctx, &rows,
		`SELECT telegram_id, first_name, last_name, username, lang, joined_at, correct_count, total_count
		 FROM learners ORDER BY joined_at`); err != nil {
		return nil, fmt.Errorf("session: list learners: %w", err)
	}
	out := make([]*Record, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (p *postgresStore) Put(ctx context.Context, rec *Record) error {
	return p.Save(ctx, rec)
}
