package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m3rciful/tutorbot/core/logger"
	"github.com/m3rciful/tutorbot/internal/session"
	"log/slog"
)

// QuizItem is a single multiple-choice question.
type QuizItem struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation,omitempty"`
}

// Valid checks the structural contract: at least two options and an
// answer that equals one of them.
func (q QuizItem) Valid() bool {
	if q.Question == "" || len(q.Options) < 2 {
		return false
	}
	for _, opt := range q.Options {
		if opt == q.Answer {
			return true
		}
	}
	return false
}

// QuizProvider supplies quiz items per language.
type QuizProvider interface {
	Items(lang session.Lang) []QuizItem
}

// FileQuizzes reads <root>/<lang>.json. A missing or empty file yields an
// empty slice rather than an error; the engine treats that as "no quiz
// available".
type FileQuizzes struct {
	Root string
}

// NewFileQuizzes builds a provider over the given quizzes directory.
func NewFileQuizzes(root string) *FileQuizzes {
	return &FileQuizzes{Root: root}
}

// Items returns the valid quiz items for lang. Malformed items are logged
// and skipped at load time.
func (f *FileQuizzes) Items(lang session.Lang) []QuizItem {
	path := filepath.Join(f.Root, fmt.Sprintf("%s.json", lang))
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.CNT.Warn("quiz file unreadable",
				slog.String("event", "quiz.load"),
				slog.String("lang", string(lang)),
				slog.String("err", err.Error()),
			)
		}
		return nil
	}

	var items []QuizItem
	if err := json.Unmarshal(data, &items); err != nil {
		logger.CNT.Warn("quiz file malformed",
			slog.String("event", "quiz.load"),
			slog.String("lang", string(lang)),
			slog.String("err", err.Error()),
		)
		return nil
	}

	out := items[:0]
	for i, item := range items {
		if !item.Valid() {
			logger.CNT.Warn("quiz item skipped",
				slog.String("event", "quiz.validate"),
				slog.String("lang", string(lang)),
				slog.Int("count", i),
			)
			continue
		}
		out = append(out, item)
	}
	return out
}
