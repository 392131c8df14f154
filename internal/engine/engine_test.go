package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/m3rciful/tutorbot/internal/content"
	"github.com/m3rciful/tutorbot/internal/session"
)

type fakeLessons struct {
	bodies map[session.Lang]map[int]string
}

func (f fakeLessons) Get(lang session.Lang, n int) (string, error) {
	if body, ok := f.bodies[lang][n]; ok {
		return body, nil
	}
	return "", content.ErrNotFound
}

func (f fakeLessons) List(lang session.Lang) []int {
	var nums []int
	for n := range f.bodies[lang] {
		nums = append(nums, n)
	}
	return nums
}

type fakeQuizzes struct {
	items map[session.Lang][]content.QuizItem
}

func (f fakeQuizzes) Items(lang session.Lang) []content.QuizItem {
	return f.items[lang]
}

type fakeRunner struct {
	output string
	err    error
	got    string
	calls  int
}

func (f *fakeRunner) Run(_ context.Context, source string) (string, error) {
	f.got = source
	f.calls++
	return f.output, f.err
}

func newTestEngine(t *testing.T, run *fakeRunner) (*Engine, session.Store) {
	t.Helper()
	if run == nil {
		run = &fakeRunner{output: "ok"}
	}
	store := session.NewMemoryStore()
	lessons := fakeLessons{bodies: map[session.Lang]map[int]string{
		session.LangEN: {1: "lesson one body"},
		session.LangFR: {1: "leçon un"},
	}}
	quizzes := fakeQuizzes{items: map[session.Lang][]content.QuizItem{
		session.LangEN: {
			{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4", Explanation: "arithmetic"},
		},
	}}
	return New(store, lessons, quizzes, run, WithPick(func(int) int { return 0 })), store
}

func record(t *testing.T, store session.Store, id int64) *session.Record {
	t.Helper()
	rec, err := store.GetOrCreate(context.Background(), id, session.Profile{})
	if err != nil {
		t.Fatal(err)
	}
	return rec
}

func checkInvariants(t *testing.T, rec *session.Record) {
	t.Helper()
	hasPending := rec.PendingAnswer != ""
	inQuiz := rec.State == session.StateAwaitingQuizAnswer
	if hasPending != inQuiz {
		t.Errorf("pending_answer %q with state %q violates invariant", rec.PendingAnswer, rec.State)
	}
	if rec.CorrectCount > rec.TotalCount {
		t.Errorf("correct %d > total %d", rec.CorrectCount, rec.TotalCount)
	}
}

func send(t *testing.T, e *Engine, store session.Store, id int64, in Input) []Message {
	t.Helper()
	msgs, err := e.HandleEvent(context.Background(), id, session.Profile{FirstName: "Ada"}, in)
	if err != nil {
		t.Fatalf("HandleEvent(%+v): %v", in, err)
	}
	checkInvariants(t, record(t, store, id))
	return msgs
}

func TestFullQuizScenario(t *testing.T) {
	e, store := newTestEngine(t, nil)
	ctx := context.Background()

	if _, err := e.OnSessionStart(ctx, 1, session.Profile{FirstName: "Ada"}); err != nil {
		t.Fatal(err)
	}
	if rec := record(t, store, 1); rec.State != session.StateAwaitingLanguage {
		t.Fatalf("state after start = %q", rec.State)
	}

	send(t, e, store, 1, Input{Text: "🇬🇧 English (en)"})
	rec := record(t, store, 1)
	if rec.State != session.StateMenu || rec.Lang != session.LangEN {
		t.Fatalf("after language: state=%q lang=%q", rec.State, rec.Lang)
	}

	send(t, e, store, 1, Input{Text: "❓ Quiz - Test your knowledge"})
	rec = record(t, store, 1)
	if rec.State != session.StateAwaitingQuizAnswer {
		t.Fatalf("after quiz: state=%q", rec.State)
	}
	if rec.PendingAnswer != "4" {
		t.Fatalf("pending answer = %q", rec.PendingAnswer)
	}

	msgs := send(t, e, store, 1, Input{Text: "4"})
	rec = record(t, store, 1)
	if rec.State != session.StateAwaitingQuizContinue {
		t.Errorf("after answer: state=%q", rec.State)
	}
	if rec.CorrectCount != 1 || rec.TotalCount != 1 {
		t.Errorf("score = %d/%d, want 1/1", rec.CorrectCount, rec.TotalCount)
	}
	if rec.PendingAnswer != "" {
		t.Errorf("pending answer not cleared: %q", rec.PendingAnswer)
	}
	if len(msgs) != 1 || !strings.Contains(msgs[0].Body, "✅ Correct answer! (1/1)") {
		t.Errorf("result message = %+v", msgs)
	}
	if !strings.Contains(msgs[0].Body, "Explanation: arithmetic") {
		t.Errorf("explanation missing: %q", msgs[0].Body)
	}
}

func TestWrongAnswerCountsTotalOnly(t *testing.T) {
	e, store := newTestEngine(t, nil)

	send(t, e, store, 2, Input{Command: "start"})
	send(t, e, store, 2, Input{Text: "🇬🇧 English (en)"})
	send(t, e, store, 2, Input{Command: "quiz"})
	msgs := send(t, e, store, 2, Input{Text: "3"})

	rec := record(t, store, 2)
	if rec.CorrectCount != 0 || rec.TotalCount != 1 {
		t.Errorf("score = %d/%d, want 0/1", rec.CorrectCount, rec.TotalCount)
	}
	if !strings.Contains(msgs[0].Body, "The correct answer was: 4") {
		t.Errorf("wrong-answer message = %q", msgs[0].Body)
	}
}

func TestEntryCommandIsIdempotentFromEveryState(t *testing.T) {
	e, store := newTestEngine(t, nil)

	// Walk into a quiz to accumulate state, then restart from each state.
	setup := [][]Input{
		{},
		{{Text: "🇬🇧 English (en)"}},
		{{Text: "🇬🇧 English (en)"}, {Command: "quiz"}},
		{{Text: "🇬🇧 English (en)"}, {Command: "quiz"}, {Text: "4"}},
		{{Text: "🇬🇧 English (en)"}, {Command: "code"}},
		{{Text: "🇬🇧 English (en)"}, {Command: "cancel"}},
	}

	for i, steps := range setup {
		id := int64(100 + i)
		send(t, e, store, id, Input{Command: "start"})
		for _, in := range steps {
			send(t, e, store, id, in)
		}

		send(t, e, store, id, Input{Command: "start"})
		rec := record(t, store, id)
		if rec.State != session.StateAwaitingLanguage {
			t.Errorf("case %d: state after restart = %q", i, rec.State)
		}
		if rec.CorrectCount != 0 || rec.TotalCount != 0 {
			t.Errorf("case %d: counters not reset: %d/%d", i, rec.CorrectCount, rec.TotalCount)
		}
	}
}

func TestLanguageRoundTrip(t *testing.T) {
	e, store := newTestEngine(t, nil)

	send(t, e, store, 3, Input{Command: "start"})
	msgs := send(t, e, store, 3, Input{Text: "🇫🇷 Français (fr)"})

	rec := record(t, store, 3)
	if rec.Lang != session.LangFR {
		t.Fatalf("lang = %q, want fr", rec.Lang)
	}
	menu := msgs[len(msgs)-1]
	if !strings.Contains(menu.Body, "Bonjour") {
		t.Errorf("menu body not French: %q", menu.Body)
	}
	foundFrenchLabel := false
	for _, row := range menu.Keyboard {
		for _, label := range row {
			if strings.Contains(label, "Leçons") {
				foundFrenchLabel = true
			}
		}
	}
	if !foundFrenchLabel {
		t.Errorf("menu keyboard not French: %v", menu.Keyboard)
	}

	send(t, e, store, 3, Input{Text: "🔄 Langue - Changer de langue"})
	msgs = send(t, e, store, 3, Input{Text: "🇬🇧 English (en)"})
	if rec := record(t, store, 3); rec.Lang != session.LangEN {
		t.Errorf("lang after switch = %q, want en", rec.Lang)
	}
	if !strings.Contains(msgs[len(msgs)-1].Body, "Hello") {
		t.Errorf("menu body not English: %q", msgs[len(msgs)-1].Body)
	}
}

func TestEmptyQuizSetFallsBackToMenu(t *testing.T) {
	e, store := newTestEngine(t, nil)

	send(t, e, store, 4, Input{Command: "start"})
	send(t, e, store, 4, Input{Text: "🇫🇷 Français (fr)"})
	msgs := send(t, e, store, 4, Input{Command: "quiz"})

	rec := record(t, store, 4)
	if rec.State != session.StateMenu {
		t.Errorf("state = %q, want menu", rec.State)
	}
	if rec.TotalCount != 0 {
		t.Errorf("counters mutated: total=%d", rec.TotalCount)
	}
	if !strings.Contains(msgs[0].Body, "Aucun quiz disponible") {
		t.Errorf("first message = %q", msgs[0].Body)
	}
}

func TestLessonChunking(t *testing.T) {
	long := strings.Repeat("é", 9500)
	store := session.NewMemoryStore()
	e := New(
		store,
		fakeLessons{bodies: map[session.Lang]map[int]string{session.LangEN: {1: long}}},
		fakeQuizzes{},
		&fakeRunner{},
	)

	send(t, e, store, 20, Input{Command: "start"})
	send(t, e, store, 20, Input{Text: "🇬🇧 English (en)"})
	send(t, e, store, 20, Input{Command: "lesson"})
	msgs := send(t, e, store, 20, Input{Text: "📖 Lesson 1: Python Basics"})

	if len(msgs) != 3 {
		t.Fatalf("chunks = %d, want 3", len(msgs))
	}
	var total string
	for i, m := range msgs {
		if n := len([]rune(m.Body)); n > MaxMessageLen {
			t.Errorf("chunk %d has %d runes", i, n)
		}
		last := i == len(msgs)-1
		if last && len(m.Keyboard) == 0 {
			t.Error("final chunk missing navigation keyboard")
		}
		if !last && len(m.Keyboard) != 0 {
			t.Errorf("chunk %d carries a keyboard", i)
		}
		total += m.Body
	}
	if total != long {
		t.Error("chunk concatenation differs from original body")
	}
	if rec := record(t, store, 20); rec.State != session.StateAwaitingLessonChoice {
		t.Errorf("state after lesson = %q", rec.State)
	}
}

func TestSplitChunks(t *testing.T) {
	if got := SplitChunks("", 10); len(got) != 1 || got[0] != "" {
		t.Errorf("empty input: %v", got)
	}
	got := SplitChunks("abcdef", 4)
	if len(got) != 2 || got[0] != "abcd" || got[1] != "ef" {
		t.Errorf("ascii split: %v", got)
	}
}

func TestFailingCodeDoesNotCrashOrStick(t *testing.T) {
	run := &fakeRunner{err: errors.New("division by zero")}
	e, store := newTestEngine(t, run)

	send(t, e, store, 5, Input{Command: "start"})
	send(t, e, store, 5, Input{Text: "🇬🇧 English (en)"})
	send(t, e, store, 5, Input{Command: "code"})
	msgs := send(t, e, store, 5, Input{Text: "1/0"})

	rec := record(t, store, 5)
	if rec.State != session.StateAwaitingCodeContinue {
		t.Errorf("state = %q, want awaiting_code_continue", rec.State)
	}
	if !strings.Contains(msgs[0].Body, "division by zero") {
		t.Errorf("error text missing: %q", msgs[0].Body)
	}

	// And the user can keep going.
	send(t, e, store, 5, Input{Text: "🔄 Run more code"})
	if rec := record(t, store, 5); rec.State != session.StateAwaitingCode {
		t.Errorf("state after run-more = %q", rec.State)
	}
}

func TestCancelFromAnyState(t *testing.T) {
	e, store := newTestEngine(t, nil)

	send(t, e, store, 6, Input{Command: "start"})
	send(t, e, store, 6, Input{Text: "🇬🇧 English (en)"})
	send(t, e, store, 6, Input{Command: "quiz"})
	msgs := send(t, e, store, 6, Input{Command: "cancel"})

	rec := record(t, store, 6)
	if rec.State != session.StateTerminated {
		t.Errorf("state = %q, want terminated", rec.State)
	}
	if !strings.Contains(msgs[0].Body, "Session ended") {
		t.Errorf("farewell = %q", msgs[0].Body)
	}

	// Only the entry command leaves the terminal state.
	send(t, e, store, 6, Input{Text: "❓ Quiz - Test your knowledge"})
	if rec := record(t, store, 6); rec.State != session.StateTerminated {
		t.Errorf("terminated state left by plain text: %q", rec.State)
	}
	send(t, e, store, 6, Input{Command: "start"})
	if rec := record(t, store, 6); rec.State != session.StateAwaitingLanguage {
		t.Errorf("entry from terminated = %q", rec.State)
	}
}

func TestMissingLessonRendersFallback(t *testing.T) {
	e, store := newTestEngine(t, nil)

	send(t, e, store, 7, Input{Command: "start"})
	send(t, e, store, 7, Input{Text: "🇬🇧 English (en)"})
	send(t, e, store, 7, Input{Command: "lesson"})
	msgs := send(t, e, store, 7, Input{Text: "📖 Lesson 3: Conditions"})

	rec := record(t, store, 7)
	if rec.State != session.StateAwaitingLessonChoice {
		t.Errorf("state = %q, want awaiting_lesson_choice", rec.State)
	}
	if !strings.Contains(msgs[0].Body, "under development") {
		t.Errorf("fallback message = %q", msgs[0].Body)
	}
}

func TestMenuUnrecognizedRePrompts(t *testing.T) {
	e, store := newTestEngine(t, nil)

	send(t, e, store, 8, Input{Command: "start"})
	send(t, e, store, 8, Input{Text: "🇬🇧 English (en)"})
	msgs := send(t, e, store, 8, Input{Text: "what?"})

	rec := record(t, store, 8)
	if rec.State != session.StateMenu {
		t.Errorf("state = %q, want menu", rec.State)
	}
	if len(msgs) != 2 || !strings.Contains(msgs[0].Body, "Unrecognized option") {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestWebCodeFromMenu(t *testing.T) {
	run := &fakeRunner{output: "42"}
	e, store := newTestEngine(t, run)

	send(t, e, store, 9, Input{Command: "start"})
	send(t, e, store, 9, Input{Text: "🇬🇧 English (en)"})
	msgs := send(t, e, store, 9, Input{Text: "Code reçu depuis l'interface web :\nprint(42)"})

	if run.got != "print(42)" {
		t.Errorf("runner got %q", run.got)
	}
	if !strings.Contains(msgs[0].Body, "42") {
		t.Errorf("web result = %q", msgs[0].Body)
	}
	if rec := record(t, store, 9); rec.State != session.StateAwaitingCodeContinue {
		t.Errorf("state = %q", rec.State)
	}
}

func TestMenuCommandNeverScoresQuiz(t *testing.T) {
	e, store := newTestEngine(t, nil)

	send(t, e, store, 30, Input{Command: "start"})
	send(t, e, store, 30, Input{Text: "🇬🇧 English (en)"})
	send(t, e, store, 30, Input{Command: "quiz"})
	msgs := send(t, e, store, 30, Input{Command: "menu"})

	rec := record(t, store, 30)
	if rec.State != session.StateMenu {
		t.Errorf("state = %q, want menu", rec.State)
	}
	if rec.TotalCount != 0 || rec.CorrectCount != 0 {
		t.Errorf("counters mutated by /menu: %d/%d", rec.CorrectCount, rec.TotalCount)
	}
	if rec.PendingAnswer != "" {
		t.Errorf("pending answer survived /menu: %q", rec.PendingAnswer)
	}
	if strings.Contains(msgs[0].Body, "❌") {
		t.Errorf("/menu rendered a grading message: %q", msgs[0].Body)
	}
}

func TestMenuCommandSkipsCodeRunner(t *testing.T) {
	run := &fakeRunner{output: "ok"}
	e, store := newTestEngine(t, run)

	send(t, e, store, 31, Input{Command: "start"})
	send(t, e, store, 31, Input{Text: "🇬🇧 English (en)"})
	send(t, e, store, 31, Input{Command: "code"})
	send(t, e, store, 31, Input{Command: "menu"})

	if run.calls != 0 {
		t.Errorf("runner called %d times by /menu", run.calls)
	}
	if rec := record(t, store, 31); rec.State != session.StateMenu {
		t.Errorf("state = %q, want menu", rec.State)
	}
}

func TestNavigationCommandsMidState(t *testing.T) {
	e, store := newTestEngine(t, nil)

	send(t, e, store, 32, Input{Command: "start"})
	send(t, e, store, 32, Input{Text: "🇬🇧 English (en)"})

	// /menu from the lesson list shows the menu, not a lesson error.
	send(t, e, store, 32, Input{Command: "lesson"})
	msgs := send(t, e, store, 32, Input{Command: "menu"})
	if rec := record(t, store, 32); rec.State != session.StateMenu {
		t.Fatalf("state after /menu = %q", rec.State)
	}
	if strings.Contains(msgs[0].Body, "Unrecognized lesson") {
		t.Errorf("/menu treated as lesson choice: %q", msgs[0].Body)
	}

	// /quiz jumps straight from the code prompt into a quiz.
	send(t, e, store, 32, Input{Command: "code"})
	send(t, e, store, 32, Input{Command: "quiz"})
	rec := record(t, store, 32)
	if rec.State != session.StateAwaitingQuizAnswer {
		t.Errorf("state after mid-code /quiz = %q", rec.State)
	}
	if rec.PendingAnswer == "" {
		t.Error("quiz not started by mid-code /quiz")
	}

	// /lesson mid-quiz drops the pending question.
	send(t, e, store, 32, Input{Command: "lesson"})
	rec = record(t, store, 32)
	if rec.State != session.StateAwaitingLessonChoice {
		t.Errorf("state after mid-quiz /lesson = %q", rec.State)
	}
	if rec.TotalCount != 0 {
		t.Errorf("mid-quiz /lesson scored: total=%d", rec.TotalCount)
	}
}

func TestUnknownCommandMidStateHasNoSideEffects(t *testing.T) {
	run := &fakeRunner{output: "ok"}
	e, store := newTestEngine(t, run)

	send(t, e, store, 33, Input{Command: "start"})
	send(t, e, store, 33, Input{Text: "🇬🇧 English (en)"})
	send(t, e, store, 33, Input{Command: "quiz"})

	send(t, e, store, 33, Input{Command: "bogus"})
	rec := record(t, store, 33)
	if rec.State != session.StateAwaitingQuizAnswer || rec.PendingAnswer == "" {
		t.Errorf("unknown command broke the quiz: state=%q pending=%q", rec.State, rec.PendingAnswer)
	}
	if rec.TotalCount != 0 {
		t.Errorf("unknown command scored: total=%d", rec.TotalCount)
	}

	send(t, e, store, 33, Input{Text: "🔙 Back to Menu"})
	send(t, e, store, 33, Input{Command: "code"})
	send(t, e, store, 33, Input{Command: "bogus"})
	if run.calls != 0 {
		t.Errorf("unknown command reached the runner %d times", run.calls)
	}
	if rec := record(t, store, 33); rec.State != session.StateAwaitingCode {
		t.Errorf("state after unknown command = %q", rec.State)
	}
}

func TestScoreOmittedUntilFirstAnswer(t *testing.T) {
	e, store := newTestEngine(t, nil)

	send(t, e, store, 10, Input{Command: "start"})
	msgs := send(t, e, store, 10, Input{Text: "🇬🇧 English (en)"})
	if strings.Contains(msgs[len(msgs)-1].Body, "Quiz Score") {
		t.Errorf("score shown with zero answers: %q", msgs[len(msgs)-1].Body)
	}

	send(t, e, store, 10, Input{Command: "quiz"})
	send(t, e, store, 10, Input{Text: "4"})
	msgs = send(t, e, store, 10, Input{Text: "anything"})
	if !strings.Contains(msgs[len(msgs)-1].Body, "Quiz Score: 1/1 (100.0%)") {
		t.Errorf("score missing after answers: %q", msgs[len(msgs)-1].Body)
	}
}
