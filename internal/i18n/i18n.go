// Package i18n holds every user-facing string keyed by (message id,
// language). Rendering code formats these; transition logic never touches
// them directly.
package i18n

import (
	"fmt"

	"github.com/m3rciful/tutorbot/internal/session"
)

// MsgID names a localized message.
type MsgID string

const (
	MsgGreeting          MsgID = "greeting"
	MsgLanguagePicker    MsgID = "language_picker"
	MsgLanguageSet       MsgID = "language_set"
	MsgMenuGreeting      MsgID = "menu_greeting"
	MsgMenuScore         MsgID = "menu_score"
	MsgMenuUnrecognized  MsgID = "menu_unrecognized"
	MsgLessonPicker      MsgID = "lesson_picker"
	MsgLessonUnknown     MsgID = "lesson_unknown"
	MsgLessonMissing     MsgID = "lesson_missing"
	MsgQuizIntro         MsgID = "quiz_intro"
	MsgQuizNone          MsgID = "quiz_none"
	MsgQuizCorrect       MsgID = "quiz_correct"
	MsgQuizWrong         MsgID = "quiz_wrong"
	MsgQuizExplanation   MsgID = "quiz_explanation"
	MsgCodePrompt        MsgID = "code_prompt"
	MsgCodeResult        MsgID = "code_result"
	MsgCodeError         MsgID = "code_error"
	MsgWebCodeResult     MsgID = "web_code_result"
	MsgWebCodeEmpty      MsgID = "web_code_empty"
	MsgInfoCard          MsgID = "info_card"
	MsgInfoStats         MsgID = "info_stats"
	MsgInfoHint          MsgID = "info_hint"
	MsgFarewell          MsgID = "farewell"
	MsgUnknownCommand    MsgID = "unknown_command"
	MsgTerminatedReenter MsgID = "terminated_reenter"
)

var messages = map[MsgID]map[session.Lang]string{
	MsgGreeting: {
		session.LangEN: "👋 Hello %s! Choose language / Choisis ta langue :",
		session.LangFR: "👋 Hello %s! Choose language / Choisis ta langue :",
	},
	MsgLanguagePicker: {
		session.LangEN: "Choose your language:",
		session.LangFR: "Choisissez votre langue:",
	},
	MsgLanguageSet: {
		session.LangEN: "✅ Language set to English. Type /menu to continue.",
		session.LangFR: "✅ Langue définie sur français. Tapez /menu pour continuer.",
	},
	MsgMenuGreeting: {
		session.LangEN: "Hello %s! Here are the available options:%s",
		session.LangFR: "Bonjour %s! Voici les options disponibles:%s",
	},
	MsgMenuScore: {
		session.LangEN: "\n📊 Quiz Score: %d/%d (%.1f%%)",
		session.LangFR: "\n📊 Score Quiz: %d/%d (%.1f%%)",
	},
	MsgMenuUnrecognized: {
		session.LangEN: "Unrecognized option. Please choose an option from the menu.",
		session.LangFR: "Option non reconnue. Veuillez choisir une option du menu.",
	},
	MsgLessonPicker: {
		session.LangEN: "Choose a lesson:",
		session.LangFR: "Choisissez une leçon:",
	},
	MsgLessonUnknown: {
		session.LangEN: "Unrecognized lesson. Please choose an available lesson.",
		session.LangFR: "Leçon non reconnue. Veuillez choisir une leçon disponible.",
	},
	MsgLessonMissing: {
		session.LangEN: "Lesson %d under development.\nCheck back soon!",
		session.LangFR: "Leçon %d en cours de développement.\nRevenez bientôt!",
	},
	MsgQuizIntro: {
		session.LangEN: "📝 Quiz: %s",
		session.LangFR: "📝 Quiz: %s",
	},
	MsgQuizNone: {
		session.LangEN: "No quiz available at the moment.",
		session.LangFR: "Aucun quiz disponible pour le moment.",
	},
	MsgQuizCorrect: {
		session.LangEN: "✅ Correct answer! (%d/%d)",
		session.LangFR: "✅ Bonne réponse ! (%d/%d)",
	},
	MsgQuizWrong: {
		session.LangEN: "❌ Wrong answer. The correct answer was: %s (%d/%d)",
		session.LangFR: "❌ Mauvaise réponse. La bonne réponse était: %s (%d/%d)",
	},
	MsgQuizExplanation: {
		session.LangEN: "\n\nExplanation: %s",
		session.LangFR: "\n\nExplication: %s",
	},
	MsgCodePrompt: {
		session.LangEN: "💻 Send me your Python code and I'll execute it for you.\n\nExample:\n```\nprint('Hello!')\nfor i in range(5):\n    print(i)\n```",
		session.LangFR: "💻 Envoyez-moi votre code Python et je l'exécuterai pour vous.\n\nExemple:\n```\nprint('Bonjour!')\nfor i in range(5):\n    print(i)\n```",
	},
	MsgCodeResult: {
		session.LangEN: "✅ Execution result:\n\n```\n%s\n```",
		session.LangFR: "✅ Résultat de l'exécution:\n\n```\n%s\n```",
	},
	MsgCodeError: {
		session.LangEN: "❌ Error executing code: %s",
		session.LangFR: "❌ Erreur lors de l'exécution du code: %s",
	},
	MsgWebCodeResult: {
		session.LangEN: "✅ Code de l'interface Web exécuté:\n\n```\n%s\n```",
		session.LangFR: "✅ Code de l'interface Web exécuté:\n\n```\n%s\n```",
	},
	MsgWebCodeEmpty: {
		session.LangEN: "❌ Aucun code Python à exécuter",
		session.LangFR: "❌ Aucun code Python à exécuter",
	},
	MsgInfoCard: {
		session.LangEN: "🔑 ID: %d\n👤 First name: %s\n👤 Last name: %s\n🌐 Language: %s\n📅 Joined: %s",
		session.LangFR: "🔑 ID: %d\n👤 First name: %s\n👤 Last name: %s\n🌐 Language: %s\n📅 Joined: %s",
	},
	MsgInfoStats: {
		session.LangEN: "\n📊 Quizzes completed: %d\n📈 Correct answers: %d (%.1f%%)",
		session.LangFR: "\n📊 Quiz complétés: %d\n📈 Réponses correctes: %d (%.1f%%)",
	},
	MsgInfoHint: {
		session.LangEN: "ℹ️ Use the button below to return to the main menu.",
		session.LangFR: "ℹ️ Utilisez le bouton ci-dessous pour revenir au menu principal.",
	},
	MsgFarewell: {
		session.LangEN: "Session ended. Send /start to begin again.",
		session.LangFR: "Session terminée. Envoyez /start pour recommencer.",
	},
	MsgUnknownCommand: {
		session.LangEN: "Commande non reconnue. Essayez /menu ou /start.",
		session.LangFR: "Commande non reconnue. Essayez /menu ou /start.",
	},
	MsgTerminatedReenter: {
		session.LangEN: "Session ended. Send /start to begin again.",
		session.LangFR: "Session terminée. Envoyez /start pour recommencer.",
	},
}

// T formats the message id for lang, falling back to English for
// unknown languages.
func T(lang session.Lang, id MsgID, args ...any) string {
	byLang, ok := messages[id]
	if !ok {
		return string(id)
	}
	tmpl, ok := byLang[lang]
	if !ok {
		tmpl = byLang[session.LangEN]
	}
	if len(args) == 0 {
		return tmpl
	}
	return fmt.Sprintf(tmpl, args...)
}
