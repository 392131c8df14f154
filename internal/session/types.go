package session

import (
	"strings"
	"time"
)

// Lang identifies a supported interface language.
type Lang string

const (
	LangEN Lang = "en"
	LangFR Lang = "fr"
)

// ParseLang extracts a supported language from free text, defaulting to
// English as the original language picker does.
func ParseLang(s string) Lang {
	if strings.Contains(strings.ToLower(s), "fr") {
		return LangFR
	}
	return LangEN
}

// State identifies a node in the conversation graph.
type State string

const (
	StateAwaitingLanguage     State = "awaiting_language"
	StateMenu                 State = "menu"
	StateAwaitingLessonChoice State = "awaiting_lesson_choice"
	StateAwaitingQuizAnswer   State = "awaiting_quiz_answer"
	StateAwaitingQuizContinue State = "awaiting_quiz_continue"
	StateAwaitingCode         State = "awaiting_code"
	StateAwaitingCodeContinue State = "awaiting_code_continue"
	StateTerminated           State = "terminated"
)

// Profile carries the display fields known about a user at contact time.
type Profile struct {
	FirstName string
	LastName  string
	Username  string
}

// Record is the per-user conversation session. The flat fields up to
// TotalCount are persisted; State and the pending quiz fields are volatile
// and live only inside the store.
type Record struct {
	ID        int64     `db:"telegram_id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Username  string    `db:"username"`
	Lang      Lang      `db:"lang"`
	JoinedAt  time.Time `db:"joined_at"`

	CorrectCount int `db:"correct_count"`
	TotalCount   int `db:"total_count"`

	State              State  `db:"-"`
	PendingAnswer      string `db:"-"`
	PendingExplanation string `db:"-"`
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	return &cp
}
