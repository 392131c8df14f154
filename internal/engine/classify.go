package engine

import (
	"strconv"
	"strings"

	"github.com/m3rciful/tutorbot/internal/i18n"
	"github.com/m3rciful/tutorbot/internal/session"
)

// WebCodeMarker prefixes messages relayed from the companion web form.
const WebCodeMarker = "Code reçu depuis l'interface web"

// Tag classifies one inbound event relative to the session state.
type Tag string

const (
	TagEntry        Tag = "entry"
	TagCancel       Tag = "cancel"
	TagShowMenu     Tag = "show_menu"
	TagLessons      Tag = "lessons"
	TagQuiz         Tag = "quiz"
	TagCode         Tag = "code"
	TagInfo         Tag = "info"
	TagLanguage     Tag = "language"
	TagBack         Tag = "back"
	TagLangChoice   Tag = "lang_choice"
	TagLessonPick   Tag = "lesson_pick"
	TagAnotherQuiz  Tag = "another_quiz"
	TagRunMore      Tag = "run_more"
	TagWebCode      Tag = "web_code"
	TagAnswer       Tag = "answer"
	TagCodeSubmit   Tag = "code_submit"
	TagUnrecognized Tag = "unrecognized"
)

// Input is one inbound event from the transport. Command is set (without
// the slash) when the event was a bot command; Text carries the raw
// message text either way.
type Input struct {
	Text    string
	Command string
	Args    []string
}

// Classification is the result of classifying an Input: the tag plus the
// values extracted from the text for tags that carry one.
type Classification struct {
	Tag     Tag
	Lang    session.Lang // TagLangChoice
	Lesson  int          // TagLessonPick
	Payload string       // TagWebCode, TagAnswer, TagCodeSubmit
}

var commandTags = map[string]Tag{
	"start":  TagEntry,
	"cancel": TagCancel,
	"menu":   TagShowMenu,
	"lesson": TagLessons,
	"quiz":   TagQuiz,
	"code":   TagCode,
	"info":   TagInfo,
}

// Classify maps (state, input, language) to a transition tag. It is a pure
// function: commands resolve first, then marker substrings from the
// localized label set for the current state's keyboard. A text matching
// markers of zero or several options is unrecognized.
func Classify(state session.State, in Input, lang session.Lang) Classification {
	if in.Command != "" {
		if tag, ok := commandTags[strings.ToLower(in.Command)]; ok {
			return Classification{Tag: tag}
		}
		return Classification{Tag: TagUnrecognized}
	}

	text := in.Text

	switch state {
	case session.StateAwaitingLanguage:
		if strings.Contains(text, i18n.MarkerBack) {
			return Classification{Tag: TagBack}
		}
		return Classification{Tag: TagLangChoice, Lang: session.ParseLang(text)}

	case session.StateMenu:
		if strings.Contains(text, WebCodeMarker) {
			return Classification{Tag: TagWebCode, Payload: stripWebPrefix(text)}
		}
		if strings.Contains(text, i18n.MarkerBack) {
			return Classification{Tag: TagShowMenu}
		}
		return classifyMarkers(text, map[string]Tag{
			i18n.MarkerLessons:  TagLessons,
			i18n.MarkerQuiz:     TagQuiz,
			i18n.MarkerCode:     TagCode,
			i18n.MarkerInfo:     TagInfo,
			i18n.MarkerLanguage: TagLanguage,
		})

	case session.StateAwaitingLessonChoice:
		if strings.Contains(text, i18n.MarkerBack) {
			return Classification{Tag: TagBack}
		}
		if n, ok := lessonNumber(text); ok {
			return Classification{Tag: TagLessonPick, Lesson: n}
		}
		return Classification{Tag: TagUnrecognized}

	case session.StateAwaitingQuizAnswer:
		if strings.Contains(text, i18n.MarkerBack) {
			return Classification{Tag: TagBack}
		}
		return Classification{Tag: TagAnswer, Payload: text}

	case session.StateAwaitingQuizContinue:
		if strings.Contains(text, i18n.MarkerQuiz) {
			return Classification{Tag: TagAnotherQuiz}
		}
		return Classification{Tag: TagShowMenu}

	case session.StateAwaitingCode:
		if strings.Contains(text, i18n.MarkerBack) {
			return Classification{Tag: TagBack}
		}
		return Classification{Tag: TagCodeSubmit, Payload: text}

	case session.StateAwaitingCodeContinue:
		if strings.Contains(text, i18n.MarkerLanguage) {
			// The "run more" label reuses the 🔄 marker on this keyboard.
			return Classification{Tag: TagRunMore}
		}
		return Classification{Tag: TagShowMenu}
	}

	return Classification{Tag: TagUnrecognized}
}

// classifyMarkers returns the tag whose marker appears in text, requiring
// exactly one match.
func classifyMarkers(text string, markers map[string]Tag) Classification {
	var (
		found Tag
		hits  int
	)
	for marker, tag := range markers {
		if strings.Contains(text, marker) {
			found = tag
			hits++
		}
	}
	if hits != 1 {
		return Classification{Tag: TagUnrecognized}
	}
	return Classification{Tag: found}
}

// lessonNumber extracts the lesson number from a label like
// "📖 Leçon 2: ..." or "📖 Lesson 2: ...". Matching on the word tail
// tolerates the accented French form.
func lessonNumber(text string) (int, bool) {
	for _, word := range []string{"eçon", "esson"} {
		idx := strings.Index(text, word)
		if idx < 0 {
			continue
		}
		rest := strings.TrimLeft(text[idx+len(word):], " ")
		end := 0
		for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
			end++
		}
		if end == 0 {
			continue
		}
		n, err := strconv.Atoi(rest[:end])
		if err != nil || n <= 0 {
			continue
		}
		return n, true
	}
	return 0, false
}

func stripWebPrefix(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) <= 1 {
		return ""
	}
	return strings.Join(lines[1:], "\n")
}
