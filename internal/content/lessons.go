// Package content supplies read-only lesson bodies and quiz items from
// data files on disk.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/m3rciful/tutorbot/internal/session"
)

// ErrNotFound reports a missing lesson.
var ErrNotFound = errors.New("content: not found")

// LessonProvider looks up lesson text by (language, number).
type LessonProvider interface {
	Get(lang session.Lang, n int) (string, error)
	List(lang session.Lang) []int
}

// FileLessons reads lessons from <root>/<lang>/lesson<N>.txt, with the
// French files named lecon<N>.txt as in the published lesson set.
type FileLessons struct {
	Root string
}

// NewFileLessons builds a provider over the given lessons directory.
func NewFileLessons(root string) *FileLessons {
	return &FileLessons{Root: root}
}

func lessonFile(lang session.Lang, n int) string {
	if lang == session.LangFR {
		return fmt.Sprintf("lecon%d.txt", n)
	}
	return fmt.Sprintf("lesson%d.txt", n)
}

// Get returns the lesson body or ErrNotFound.
func (f *FileLessons) Get(lang session.Lang, n int) (string, error) {
	path := filepath.Join(f.Root, string(lang), lessonFile(lang, n))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: lesson %d (%s)", ErrNotFound, n, lang)
		}
		return "", fmt.Errorf("content: read lesson %d (%s): %w", n, lang, err)
	}
	return string(data), nil
}

// List reports which lesson numbers exist for lang, in ascending order.
func (f *FileLessons) List(lang session.Lang) []int {
	entries, err := os.ReadDir(filepath.Join(f.Root, string(lang)))
	if err != nil {
		return nil
	}

	prefix := "lesson"
	if lang == session.LangFR {
		prefix = "lecon"
	}

	var nums []int
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".txt") {
			continue
		}
		numPart := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".txt")
		n, err := strconv.Atoi(numPart)
		if err != nil || n <= 0 {
			continue
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
