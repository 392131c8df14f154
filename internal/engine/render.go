package engine

import (
	"github.com/m3rciful/tutorbot/internal/i18n"
	"github.com/m3rciful/tutorbot/internal/session"
)

func backKeyboard(lang session.Lang) [][]string {
	return [][]string{{i18n.Label(lang, i18n.LabelBackToMenu)}}
}

// scoreText renders the running score clause, or nothing before the first
// answered question.
func scoreText(rec *session.Record) string {
	if rec.TotalCount == 0 {
		return ""
	}
	pct := 100 * float64(rec.CorrectCount) / float64(rec.TotalCount)
	return i18n.T(rec.Lang, i18n.MsgMenuScore, rec.CorrectCount, rec.TotalCount, pct)
}

func (e *Engine) renderMenu(rec *session.Record) []Message {
	kb := [][]string{
		{i18n.Label(rec.Lang, i18n.LabelMenuLessons)},
		{i18n.Label(rec.Lang, i18n.LabelMenuQuiz)},
		{i18n.Label(rec.Lang, i18n.LabelMenuCode)},
		{i18n.Label(rec.Lang, i18n.LabelMenuInfo)},
		{i18n.Label(rec.Lang, i18n.LabelMenuLanguage)},
	}
	return []Message{{
		Body:     i18n.T(rec.Lang, i18n.MsgMenuGreeting, rec.FirstName, scoreText(rec)),
		Keyboard: kb,
	}}
}

func (e *Engine) renderLessonList(rec *session.Record) []Message {
	nums := e.lessons.List(rec.Lang)
	kb := make([][]string, 0, len(nums)+1)
	for _, n := range nums {
		kb = append(kb, []string{i18n.LessonLabel(rec.Lang, n)})
	}
	kb = append(kb, []string{i18n.Label(rec.Lang, i18n.LabelBackToMenu)})
	return []Message{{
		Body:     i18n.T(rec.Lang, i18n.MsgLessonPicker),
		Keyboard: kb,
	}}
}

func (e *Engine) renderCodePrompt(rec *session.Record) []Message {
	return []Message{{
		Body:     i18n.T(rec.Lang, i18n.MsgCodePrompt),
		Keyboard: backKeyboard(rec.Lang),
	}}
}

func (e *Engine) renderInfo(rec *session.Record) []Message {
	body := i18n.T(rec.Lang, i18n.MsgInfoCard,
		rec.ID, rec.FirstName, rec.LastName, rec.Lang,
		rec.JoinedAt.Format("2006-01-02 15:04:05"),
	)
	if rec.TotalCount > 0 {
		pct := 100 * float64(rec.CorrectCount) / float64(rec.TotalCount)
		body += i18n.T(rec.Lang, i18n.MsgInfoStats, rec.TotalCount, rec.CorrectCount, pct)
	}
	return []Message{
		{Body: body},
		{Body: i18n.T(rec.Lang, i18n.MsgInfoHint), Keyboard: backKeyboard(rec.Lang)},
	}
}

// renderChunked splits a long body into messages no longer than max runes.
// Only the final chunk carries the navigation keyboard.
func renderChunked(body string, max int, kb [][]string) []Message {
	chunks := SplitChunks(body, max)
	msgs := make([]Message, len(chunks))
	for i, chunk := range chunks {
		msgs[i] = Message{Body: chunk}
	}
	msgs[len(msgs)-1].Keyboard = kb
	return msgs
}

// SplitChunks splits s into consecutive rune slices of at most max runes.
// The concatenation of the chunks equals s.
func SplitChunks(s string, max int) []string {
	if max <= 0 {
		return []string{s}
	}
	runes := []rune(s)
	if len(runes) <= max {
		return []string{s}
	}
	var chunks []string
	for start := 0; start < len(runes); start += max {
		end := start + max
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
