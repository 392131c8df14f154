// Package engine holds the conversational state machine: a closed state
// set, a pure input classifier, and a transition function that mutates the
// per-user session record and emits outbound messages. The engine itself
// is stateless; everything mutable lives in the session record.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/m3rciful/tutorbot/core/logger"
	"github.com/m3rciful/tutorbot/internal/content"
	"github.com/m3rciful/tutorbot/internal/i18n"
	"github.com/m3rciful/tutorbot/internal/runner"
	"github.com/m3rciful/tutorbot/internal/session"
	"log/slog"
)

// MaxMessageLen is the chunking threshold for long lesson bodies, in runes.
const MaxMessageLen = 4000

// Message is one outbound message: a text body plus optional reply
// keyboard rows. An empty Keyboard leaves the current keyboard in place.
type Message struct {
	Body     string
	Keyboard [][]string
}

// Engine drives conversations. All collaborators are injected; failures
// from any of them are rendered as localized messages, never propagated.
type Engine struct {
	store   session.Store
	lessons content.LessonProvider
	quizzes content.QuizProvider
	runner  runner.Runner

	pick     func(n int) int
	maxChunk int
}

// Option tweaks engine construction.
type Option func(*Engine)

// WithPick overrides the quiz selection source (tests use a fixed pick).
func WithPick(pick func(n int) int) Option {
	return func(e *Engine) { e.pick = pick }
}

// WithMaxChunk overrides the message chunking threshold.
func WithMaxChunk(n int) Option {
	return func(e *Engine) { e.maxChunk = n }
}

// New builds an Engine over its collaborators.
func New(store session.Store, lessons content.LessonProvider, quizzes content.QuizProvider, run runner.Runner, opts ...Option) *Engine {
	e := &Engine{
		store:    store,
		lessons:  lessons,
		quizzes:  quizzes,
		runner:   run,
		pick:     rand.New(rand.NewSource(time.Now().UnixNano())).Intn,
		maxChunk: MaxMessageLen,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnSessionStart handles the entry command: it (re)initializes the session
// and greets the user with the language picker.
func (e *Engine) OnSessionStart(ctx context.Context, userID int64, profile session.Profile) ([]Message, error) {
	rec, err := e.store.GetOrCreate(ctx, userID, profile)
	if err != nil {
		return nil, fmt.Errorf("engine: session start for %d: %w", userID, err)
	}
	from := rec.State

	if profile.FirstName != "" {
		rec.FirstName = profile.FirstName
	}
	if profile.LastName != "" {
		rec.LastName = profile.LastName
	}
	if profile.Username != "" {
		rec.Username = profile.Username
	}

	msgs := e.enterLanguage(rec)
	if err := e.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("engine: save session %d: %w", userID, err)
	}
	e.logTransition(ctx, rec, from, TagEntry)
	return msgs, nil
}

// HandleEvent classifies one inbound event and runs the matching
// transition. The returned messages are delivered in order by the
// transport.
func (e *Engine) HandleEvent(ctx context.Context, userID int64, profile session.Profile, in Input) ([]Message, error) {
	rec, err := e.store.GetOrCreate(ctx, userID, profile)
	if err != nil {
		return nil, fmt.Errorf("engine: load session %d: %w", userID, err)
	}
	from := rec.State

	cls := Classify(rec.State, in, rec.Lang)
	msgs := e.dispatch(ctx, rec, cls)

	// Leaving the quiz-answer state must always drop the pending item.
	if rec.State != session.StateAwaitingQuizAnswer {
		rec.PendingAnswer = ""
		rec.PendingExplanation = ""
	}

	if err := e.store.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("engine: save session %d: %w", userID, err)
	}
	e.logTransition(ctx, rec, from, cls.Tag)
	return msgs, nil
}

func (e *Engine) logTransition(ctx context.Context, rec *session.Record, from session.State, tag Tag) {
	logger.ENG.LogAttrs(ctx, slog.LevelDebug, "transition",
		slog.String("event", "engine.transition"),
		slog.Int64("user_id", rec.ID),
		slog.String("from_state", string(from)),
		slog.String("to_state", string(rec.State)),
		slog.String("input", string(tag)),
		slog.String("lang", string(rec.Lang)),
	)
}

func (e *Engine) dispatch(ctx context.Context, rec *session.Record, cls Classification) []Message {
	// Entry and cancel apply from every state.
	switch cls.Tag {
	case TagEntry:
		return e.enterLanguage(rec)
	case TagCancel:
		rec.State = session.StateTerminated
		return []Message{{Body: i18n.T(rec.Lang, i18n.MsgFarewell)}}
	}

	if rec.State == session.StateTerminated {
		return []Message{{Body: i18n.T(rec.Lang, i18n.MsgTerminatedReenter)}}
	}

	// Navigation commands are live in every state, matching the original
	// handler registration: they jump to their target without feeding the
	// state's free-text path. A /menu mid-quiz must never score an answer.
	switch cls.Tag {
	case TagShowMenu:
		rec.State = session.StateMenu
		return e.renderMenu(rec)
	case TagLessons:
		rec.State = session.StateAwaitingLessonChoice
		return e.renderLessonList(rec)
	case TagQuiz:
		return e.startQuiz(rec)
	case TagCode:
		rec.State = session.StateAwaitingCode
		return e.renderCodePrompt(rec)
	case TagInfo:
		rec.State = session.StateMenu
		return e.renderInfo(rec)
	}

	switch rec.State {
	case session.StateAwaitingLanguage:
		return e.handleLanguage(rec, cls)
	case session.StateMenu:
		return e.handleMenu(ctx, rec, cls)
	case session.StateAwaitingLessonChoice:
		return e.handleLessonChoice(rec, cls)
	case session.StateAwaitingQuizAnswer:
		return e.handleQuizAnswer(rec, cls)
	case session.StateAwaitingQuizContinue:
		return e.handleQuizContinue(rec, cls)
	case session.StateAwaitingCode:
		return e.handleCode(ctx, rec, cls)
	case session.StateAwaitingCodeContinue:
		return e.handleCodeContinue(rec, cls)
	}

	rec.State = session.StateMenu
	return e.renderMenu(rec)
}

// enterLanguage (re)initializes the session: counters to zero, pending
// quiz dropped, language picker shown.
func (e *Engine) enterLanguage(rec *session.Record) []Message {
	rec.State = session.StateAwaitingLanguage
	rec.CorrectCount = 0
	rec.TotalCount = 0
	rec.PendingAnswer = ""
	rec.PendingExplanation = ""
	return []Message{{
		Body:     i18n.T(rec.Lang, i18n.MsgGreeting, rec.FirstName),
		Keyboard: [][]string{{i18n.LabelFrench, i18n.LabelEnglish}},
	}}
}

func (e *Engine) handleLanguage(rec *session.Record, cls Classification) []Message {
	switch cls.Tag {
	case TagBack:
		rec.State = session.StateMenu
		return e.renderMenu(rec)
	case TagLangChoice:
		rec.Lang = cls.Lang
		rec.State = session.StateMenu
		msgs := []Message{{Body: i18n.T(rec.Lang, i18n.MsgLanguageSet)}}
		return append(msgs, e.renderMenu(rec)...)
	default:
		rec.State = session.StateMenu
		return e.renderMenu(rec)
	}
}

func (e *Engine) handleMenu(ctx context.Context, rec *session.Record, cls Classification) []Message {
	switch cls.Tag {
	case TagLanguage:
		rec.State = session.StateAwaitingLanguage
		return []Message{{
			Body:     i18n.T(rec.Lang, i18n.MsgLanguagePicker),
			Keyboard: [][]string{{i18n.LabelFrench, i18n.LabelEnglish}, {i18n.Label(rec.Lang, i18n.LabelBackShort)}},
		}}
	case TagWebCode:
		return e.runWebCode(ctx, rec, cls.Payload)
	default:
		msgs := []Message{{Body: i18n.T(rec.Lang, i18n.MsgMenuUnrecognized)}}
		return append(msgs, e.renderMenu(rec)...)
	}
}

func (e *Engine) handleLessonChoice(rec *session.Record, cls Classification) []Message {
	switch cls.Tag {
	case TagBack:
		rec.State = session.StateMenu
		return e.renderMenu(rec)
	case TagLessonPick:
		body, err := e.lessons.Get(rec.Lang, cls.Lesson)
		if err != nil {
			if errors.Is(err, content.ErrNotFound) {
				return []Message{{
					Body:     i18n.T(rec.Lang, i18n.MsgLessonMissing, cls.Lesson),
					Keyboard: backKeyboard(rec.Lang),
				}}
			}
			logger.ENG.Warn("lesson fetch failed",
				slog.String("event", "engine.lesson"),
				slog.Int64("user_id", rec.ID),
				slog.Int("lesson", cls.Lesson),
				slog.String("err", err.Error()),
			)
			msgs := []Message{{Body: i18n.T(rec.Lang, i18n.MsgLessonUnknown)}}
			return append(msgs, e.renderLessonList(rec)...)
		}
		return renderChunked(body, e.maxChunk, backKeyboard(rec.Lang))
	default:
		msgs := []Message{{Body: i18n.T(rec.Lang, i18n.MsgLessonUnknown)}}
		return append(msgs, e.renderLessonList(rec)...)
	}
}

func (e *Engine) handleQuizAnswer(rec *session.Record, cls Classification) []Message {
	if cls.Tag == TagBack {
		rec.State = session.StateMenu
		rec.PendingAnswer = ""
		rec.PendingExplanation = ""
		return e.renderMenu(rec)
	}
	if cls.Tag != TagAnswer {
		// Unknown commands are not answers; the question stays pending.
		return []Message{{Body: i18n.T(rec.Lang, i18n.MsgUnknownCommand)}}
	}

	answer := rec.PendingAnswer
	explanation := rec.PendingExplanation
	rec.PendingAnswer = ""
	rec.PendingExplanation = ""
	rec.TotalCount++

	var body string
	if cls.Payload == answer {
		rec.CorrectCount++
		body = i18n.T(rec.Lang, i18n.MsgQuizCorrect, rec.CorrectCount, rec.TotalCount)
	} else {
		body = i18n.T(rec.Lang, i18n.MsgQuizWrong, answer, rec.CorrectCount, rec.TotalCount)
	}
	if explanation != "" {
		body += i18n.T(rec.Lang, i18n.MsgQuizExplanation, explanation)
	}

	rec.State = session.StateAwaitingQuizContinue
	return []Message{{
		Body: body,
		Keyboard: [][]string{
			{i18n.Label(rec.Lang, i18n.LabelAnotherQuiz)},
			{i18n.Label(rec.Lang, i18n.LabelBackToMenu)},
		},
	}}
}

func (e *Engine) handleQuizContinue(rec *session.Record, cls Classification) []Message {
	if cls.Tag == TagAnotherQuiz {
		return e.startQuiz(rec)
	}
	rec.State = session.StateMenu
	return e.renderMenu(rec)
}

func (e *Engine) handleCode(ctx context.Context, rec *session.Record, cls Classification) []Message {
	if cls.Tag == TagBack {
		rec.State = session.StateMenu
		return e.renderMenu(rec)
	}
	if cls.Tag != TagCodeSubmit {
		return []Message{{Body: i18n.T(rec.Lang, i18n.MsgUnknownCommand)}}
	}

	output, err := e.runner.Run(ctx, cls.Payload)
	var body string
	if err != nil {
		// Execution failure is surfaced as output, never as an error.
		body = i18n.T(rec.Lang, i18n.MsgCodeError, err.Error())
	} else {
		body = i18n.T(rec.Lang, i18n.MsgCodeResult, output)
	}

	rec.State = session.StateAwaitingCodeContinue
	return []Message{{
		Body: body,
		Keyboard: [][]string{
			{i18n.Label(rec.Lang, i18n.LabelRunMoreCode)},
			{i18n.Label(rec.Lang, i18n.LabelBackToMenu)},
		},
	}}
}

func (e *Engine) handleCodeContinue(rec *session.Record, cls Classification) []Message {
	if cls.Tag == TagRunMore {
		rec.State = session.StateAwaitingCode
		return e.renderCodePrompt(rec)
	}
	rec.State = session.StateMenu
	return e.renderMenu(rec)
}

func (e *Engine) runWebCode(ctx context.Context, rec *session.Record, code string) []Message {
	if code == "" {
		return []Message{{Body: i18n.T(rec.Lang, i18n.MsgWebCodeEmpty)}}
	}

	output, err := e.runner.Run(ctx, code)
	var body string
	if err != nil {
		body = i18n.T(rec.Lang, i18n.MsgCodeError, err.Error())
	} else {
		body = i18n.T(rec.Lang, i18n.MsgWebCodeResult, output)
	}

	rec.State = session.StateAwaitingCodeContinue
	return []Message{{
		Body: body,
		Keyboard: [][]string{
			{i18n.Label(rec.Lang, i18n.LabelRunMoreCode)},
			{i18n.Label(rec.Lang, i18n.LabelBackToMenu)},
		},
	}}
}

// startQuiz implements the MENU→quiz transition: pick a random item for
// the session language or fall back to the menu when the set is empty.
func (e *Engine) startQuiz(rec *session.Record) []Message {
	items := e.quizzes.Items(rec.Lang)
	if len(items) == 0 {
		rec.State = session.StateMenu
		msgs := []Message{{Body: i18n.T(rec.Lang, i18n.MsgQuizNone)}}
		return append(msgs, e.renderMenu(rec)...)
	}

	item := items[e.pick(len(items))]
	rec.PendingAnswer = item.Answer
	rec.PendingExplanation = item.Explanation
	rec.State = session.StateAwaitingQuizAnswer

	kb := make([][]string, 0, len(item.Options)+1)
	for _, opt := range item.Options {
		kb = append(kb, []string{opt})
	}
	kb = append(kb, []string{i18n.Label(rec.Lang, i18n.LabelBackToMenu)})

	return []Message{{
		Body:     i18n.T(rec.Lang, i18n.MsgQuizIntro, item.Question),
		Keyboard: kb,
	}}
}
