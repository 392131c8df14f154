package content

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/m3rciful/tutorbot/internal/session"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFileLessonsGet(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "en", "lesson1.txt"), "Hello, world!")
	writeFile(t, filepath.Join(root, "fr", "lecon1.txt"), "Bonjour, monde !")

	lessons := NewFileLessons(root)

	if got, err := lessons.Get(session.LangEN, 1); err != nil || got != "Hello, world!" {
		t.Errorf("en lesson1 = %q, %v", got, err)
	}
	if got, err := lessons.Get(session.LangFR, 1); err != nil || got != "Bonjour, monde !" {
		t.Errorf("fr lecon1 = %q, %v", got, err)
	}
	if _, err := lessons.Get(session.LangEN, 7); err == nil {
		t.Error("missing lesson did not error")
	}
}

func TestFileLessonsList(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "en", "lesson3.txt"), "c")
	writeFile(t, filepath.Join(root, "en", "lesson1.txt"), "a")
	writeFile(t, filepath.Join(root, "en", "notes.txt"), "junk")
	writeFile(t, filepath.Join(root, "fr", "lecon2.txt"), "b")

	lessons := NewFileLessons(root)

	if got := lessons.List(session.LangEN); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("en list = %v, want [1 3]", got)
	}
	if got := lessons.List(session.LangFR); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("fr list = %v, want [2]", got)
	}
	if got := lessons.List(session.Lang("de")); got != nil {
		t.Errorf("unknown lang list = %v, want nil", got)
	}
}

func TestFileQuizzesItems(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "en.json"), `[
		{"question": "2+2?", "options": ["3", "4"], "answer": "4", "explanation": "arithmetic"},
		{"question": "bad item", "options": ["a", "b"], "answer": "c"},
		{"question": "", "options": ["a", "b"], "answer": "a"}
	]`)

	quizzes := NewFileQuizzes(root)

	items := quizzes.Items(session.LangEN)
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1 (invalid items skipped)", len(items))
	}
	if items[0].Answer != "4" || items[0].Explanation != "arithmetic" {
		t.Errorf("unexpected item: %+v", items[0])
	}

	if got := quizzes.Items(session.LangFR); len(got) != 0 {
		t.Errorf("missing file items = %v, want empty", got)
	}
}

func TestFileQuizzesMalformed(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "en.json"), `{not json`)

	if got := NewFileQuizzes(root).Items(session.LangEN); got != nil {
		t.Errorf("malformed file items = %v, want nil", got)
	}
}
