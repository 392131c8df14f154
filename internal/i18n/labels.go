package i18n

import (
	"fmt"

	"github.com/m3rciful/tutorbot/internal/session"
)

// Marker substrings are disjoint per keyboard, so classification can match
// an option even when the user retypes a label with extra characters.
const (
	MarkerLessons     = "📚"
	MarkerQuiz        = "❓"
	MarkerCode        = "💻"
	MarkerInfo        = "ℹ️"
	MarkerLanguage    = "🔄"
	MarkerBack        = "🔙"
	MarkerLessonEntry = "📖"
)

// Language picker labels are deliberately bilingual, mirroring the first
// message a new user sees.
const (
	LabelFrench  = "🇫🇷 Français (fr)"
	LabelEnglish = "🇬🇧 English (en)"
)

// LabelID names a keyboard label.
type LabelID string

const (
	LabelMenuLessons  LabelID = "menu_lessons"
	LabelMenuQuiz     LabelID = "menu_quiz"
	LabelMenuCode     LabelID = "menu_code"
	LabelMenuInfo     LabelID = "menu_info"
	LabelMenuLanguage LabelID = "menu_language"
	LabelBackToMenu   LabelID = "back_to_menu"
	LabelBackShort    LabelID = "back_short"
	LabelAnotherQuiz  LabelID = "another_quiz"
	LabelRunMoreCode  LabelID = "run_more_code"
)

var labels = map[LabelID]map[session.Lang]string{
	LabelMenuLessons: {
		session.LangEN: "📚 Lessons - Learn Python step by step",
		session.LangFR: "📚 Leçons - Apprenez Python pas à pas",
	},
	LabelMenuQuiz: {
		session.LangEN: "❓ Quiz - Test your knowledge",
		session.LangFR: "❓ Quiz - Testez vos connaissances",
	},
	LabelMenuCode: {
		session.LangEN: "💻 Code - Execute Python code",
		session.LangFR: "💻 Code - Exécutez du code Python",
	},
	LabelMenuInfo: {
		session.LangEN: "ℹ️ Info - View your information",
		session.LangFR: "ℹ️ Info - Voir vos informations",
	},
	LabelMenuLanguage: {
		session.LangEN: "🔄 Language - Change language",
		session.LangFR: "🔄 Langue - Changer de langue",
	},
	LabelBackToMenu: {
		session.LangEN: "🔙 Back to Menu",
		session.LangFR: "🔙 Retour au Menu",
	},
	LabelBackShort: {
		session.LangEN: "🔙 Retour / Back",
		session.LangFR: "🔙 Retour / Back",
	},
	LabelAnotherQuiz: {
		session.LangEN: "❓ Another Quiz",
		session.LangFR: "❓ Autre Quiz",
	},
	LabelRunMoreCode: {
		session.LangEN: "🔄 Run more code",
		session.LangFR: "🔄 Exécuter autre code",
	},
}

// Label returns the keyboard label for lang, falling back to English.
func Label(lang session.Lang, id LabelID) string {
	byLang, ok := labels[id]
	if !ok {
		return string(id)
	}
	if s, ok := byLang[lang]; ok {
		return s
	}
	return byLang[session.LangEN]
}

var lessonTitles = map[session.Lang]map[int]string{
	session.LangEN: {
		1: "Python Basics",
		2: "Variables and Types",
		3: "Conditions",
		4: "Loops",
	},
	session.LangFR: {
		1: "Bases de Python",
		2: "Variables et Types",
		3: "Conditions",
		4: "Boucles",
	},
}

// LessonLabel builds the keyboard label for a lesson number, with a plain
// fallback for numbers beyond the titled set.
func LessonLabel(lang session.Lang, n int) string {
	word := "Lesson"
	if lang == session.LangFR {
		word = "Leçon"
	}
	if title, ok := lessonTitles[lang][n]; ok {
		return fmt.Sprintf("%s %s %d: %s", MarkerLessonEntry, word, n, title)
	}
	return fmt.Sprintf("%s %s %d", MarkerLessonEntry, word, n)
}
