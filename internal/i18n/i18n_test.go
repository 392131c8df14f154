package i18n

import (
	"strings"
	"testing"

	"github.com/m3rciful/tutorbot/internal/session"
)

func TestEveryMessageHasBothLanguages(t *testing.T) {
	for id, byLang := range messages {
		for _, lang := range []session.Lang{session.LangEN, session.LangFR} {
			if _, ok := byLang[lang]; !ok {
				t.Errorf("message %q missing %q", id, lang)
			}
		}
	}
	for id, byLang := range labels {
		for _, lang := range []session.Lang{session.LangEN, session.LangFR} {
			if _, ok := byLang[lang]; !ok {
				t.Errorf("label %q missing %q", id, lang)
			}
		}
	}
}

func TestMenuMarkersDisjoint(t *testing.T) {
	markers := []string{MarkerLessons, MarkerQuiz, MarkerCode, MarkerInfo, MarkerLanguage}
	menu := []LabelID{LabelMenuLessons, LabelMenuQuiz, LabelMenuCode, LabelMenuInfo, LabelMenuLanguage}

	for _, lang := range []session.Lang{session.LangEN, session.LangFR} {
		for i, id := range menu {
			label := Label(lang, id)
			for j, m := range markers {
				has := strings.Contains(label, m)
				if i == j && !has {
					t.Errorf("%s label %q missing own marker %q", lang, label, m)
				}
				if i != j && has {
					t.Errorf("%s label %q contains foreign marker %q", lang, label, m)
				}
			}
		}
	}
}

func TestTFallsBackToEnglish(t *testing.T) {
	got := T(session.Lang("de"), MsgQuizNone)
	if got != "No quiz available at the moment." {
		t.Errorf("fallback = %q", got)
	}
}

func TestLessonLabel(t *testing.T) {
	if got := LessonLabel(session.LangFR, 1); got != "📖 Leçon 1: Bases de Python" {
		t.Errorf("fr label = %q", got)
	}
	if got := LessonLabel(session.LangEN, 9); got != "📖 Lesson 9" {
		t.Errorf("fallback label = %q", got)
	}
}
