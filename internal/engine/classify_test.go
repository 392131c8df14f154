package engine

import (
	"testing"

	"github.com/m3rciful/tutorbot/internal/session"
)

func TestClassifyCommands(t *testing.T) {
	cases := map[string]Tag{
		"start":  TagEntry,
		"cancel": TagCancel,
		"menu":   TagShowMenu,
		"lesson": TagLessons,
		"quiz":   TagQuiz,
		"code":   TagCode,
		"info":   TagInfo,
		"bogus":  TagUnrecognized,
	}
	for cmd, want := range cases {
		got := Classify(session.StateMenu, Input{Command: cmd}, session.LangEN)
		if got.Tag != want {
			t.Errorf("command %q: tag = %q, want %q", cmd, got.Tag, want)
		}
	}
}

func TestClassifyCommandsBeatMarkers(t *testing.T) {
	// A command resolves even when the text also carries a menu marker.
	got := Classify(session.StateMenu, Input{Command: "quiz", Text: "/quiz 📚"}, session.LangEN)
	if got.Tag != TagQuiz {
		t.Errorf("tag = %q, want %q", got.Tag, TagQuiz)
	}
}

func TestClassifyMenuMarkers(t *testing.T) {
	cases := []struct {
		text string
		want Tag
	}{
		{"📚 Lessons - Learn Python step by step", TagLessons},
		{"❓ Quiz - Testez vos connaissances", TagQuiz},
		{"💻 Code - Execute Python code", TagCode},
		{"ℹ️ Info - View your information", TagInfo},
		{"🔄 Langue - Changer de langue", TagLanguage},
		{"🔙 Retour / Back", TagShowMenu},
		{"plain text", TagUnrecognized},
		{"📚 and ❓ together", TagUnrecognized},
	}
	for _, tc := range cases {
		got := Classify(session.StateMenu, Input{Text: tc.text}, session.LangEN)
		if got.Tag != tc.want {
			t.Errorf("menu %q: tag = %q, want %q", tc.text, got.Tag, tc.want)
		}
	}
}

func TestClassifyLanguageChoice(t *testing.T) {
	got := Classify(session.StateAwaitingLanguage, Input{Text: "🇫🇷 Français (fr)"}, session.LangEN)
	if got.Tag != TagLangChoice || got.Lang != session.LangFR {
		t.Errorf("french pick: %+v", got)
	}
	got = Classify(session.StateAwaitingLanguage, Input{Text: "🇬🇧 English (en)"}, session.LangEN)
	if got.Tag != TagLangChoice || got.Lang != session.LangEN {
		t.Errorf("english pick: %+v", got)
	}
	got = Classify(session.StateAwaitingLanguage, Input{Text: "🔙 Retour / Back"}, session.LangEN)
	if got.Tag != TagBack {
		t.Errorf("back from picker: %+v", got)
	}
}

func TestClassifyLessonNumbers(t *testing.T) {
	cases := []struct {
		text   string
		lesson int
		ok     bool
	}{
		{"📖 Lesson 2: Variables and Types", 2, true},
		{"📖 Leçon 4: Boucles", 4, true},
		{"📖 Lesson 12", 12, true},
		{"📖 Lesson zero", 0, false},
		{"random words", 0, false},
	}
	for _, tc := range cases {
		got := Classify(session.StateAwaitingLessonChoice, Input{Text: tc.text}, session.LangEN)
		if tc.ok {
			if got.Tag != TagLessonPick || got.Lesson != tc.lesson {
				t.Errorf("%q: %+v, want lesson %d", tc.text, got, tc.lesson)
			}
		} else if got.Tag != TagUnrecognized {
			t.Errorf("%q: tag = %q, want unrecognized", tc.text, got.Tag)
		}
	}
}

func TestClassifyQuizAnswerPassthrough(t *testing.T) {
	got := Classify(session.StateAwaitingQuizAnswer, Input{Text: "print()"}, session.LangEN)
	if got.Tag != TagAnswer || got.Payload != "print()" {
		t.Errorf("answer: %+v", got)
	}
	got = Classify(session.StateAwaitingQuizAnswer, Input{Text: "🔙 Back to Menu"}, session.LangEN)
	if got.Tag != TagBack {
		t.Errorf("back from quiz: %+v", got)
	}
}

func TestClassifyContinueStates(t *testing.T) {
	got := Classify(session.StateAwaitingQuizContinue, Input{Text: "❓ Another Quiz"}, session.LangEN)
	if got.Tag != TagAnotherQuiz {
		t.Errorf("another quiz: %+v", got)
	}
	got = Classify(session.StateAwaitingQuizContinue, Input{Text: "🔙 Back to Menu"}, session.LangEN)
	if got.Tag != TagShowMenu {
		t.Errorf("quiz continue back: %+v", got)
	}
	got = Classify(session.StateAwaitingCodeContinue, Input{Text: "🔄 Exécuter autre code"}, session.LangFR)
	if got.Tag != TagRunMore {
		t.Errorf("run more: %+v", got)
	}
	got = Classify(session.StateAwaitingCodeContinue, Input{Text: "whatever"}, session.LangFR)
	if got.Tag != TagShowMenu {
		t.Errorf("code continue fallback: %+v", got)
	}
}

func TestClassifyWebCode(t *testing.T) {
	text := "Code reçu depuis l'interface web :\nprint('hi')\nprint('bye')"
	got := Classify(session.StateMenu, Input{Text: text}, session.LangFR)
	if got.Tag != TagWebCode {
		t.Fatalf("tag = %q", got.Tag)
	}
	if got.Payload != "print('hi')\nprint('bye')" {
		t.Errorf("payload = %q", got.Payload)
	}

	got = Classify(session.StateMenu, Input{Text: "Code reçu depuis l'interface web :"}, session.LangFR)
	if got.Tag != TagWebCode || got.Payload != "" {
		t.Errorf("prefix only: %+v", got)
	}
}
