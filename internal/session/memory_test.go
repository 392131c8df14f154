package session

import (
	"context"
	"testing"
)

func TestMemoryStoreCreateDefaults(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec, err := s.GetOrCreate(ctx, 42, Profile{FirstName: "Ada", Username: "ada"})
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if rec.Lang != LangEN {
		t.Errorf("default lang = %q, want en", rec.Lang)
	}
	if rec.State != StateAwaitingLanguage {
		t.Errorf("default state = %q, want awaiting_language", rec.State)
	}
	if rec.CorrectCount != 0 || rec.TotalCount != 0 {
		t.Errorf("counters = %d/%d, want 0/0", rec.CorrectCount, rec.TotalCount)
	}
	if rec.JoinedAt.IsZero() {
		t.Error("JoinedAt not set")
	}
}

func TestMemoryStoreSaveRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec, _ := s.GetOrCreate(ctx, 7, Profile{})
	rec.Lang = LangFR
	rec.State = StateAwaitingQuizAnswer
	rec.PendingAnswer = "B"
	rec.CorrectCount = 2
	rec.TotalCount = 3
	if err := s.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _ := s.GetOrCreate(ctx, 7, Profile{})
	if got.Lang != LangFR || got.State != StateAwaitingQuizAnswer || got.PendingAnswer != "B" {
		t.Errorf("round trip lost fields: %+v", got)
	}
	if got.CorrectCount != 2 || got.TotalCount != 3 {
		t.Errorf("counters = %d/%d, want 2/3", got.CorrectCount, got.TotalCount)
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	rec, _ := s.GetOrCreate(ctx, 1, Profile{})
	rec.TotalCount = 99

	got, _ := s.GetOrCreate(ctx, 1, Profile{})
	if got.TotalCount != 0 {
		t.Error("mutation of a returned record leaked into the store without Save")
	}
}

func TestMemoryStoreHas(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if s.Has(ctx, 5) {
		t.Error("Has true for unknown user")
	}

	rec, _ := s.GetOrCreate(ctx, 5, Profile{})
	if !s.Has(ctx, 5) {
		t.Error("Has false for live session")
	}

	rec.State = StateTerminated
	_ = s.Save(ctx, rec)
	if s.Has(ctx, 5) {
		t.Error("Has true for terminated session")
	}
}

func TestParseLang(t *testing.T) {
	cases := map[string]Lang{
		"🇫🇷 Français (fr)": LangFR,
		"🇬🇧 English (en)":  LangEN,
		"FR":               LangFR,
		"something else":   LangEN,
	}
	for in, want := range cases {
		if got := ParseLang(in); got != want {
			t.Errorf("ParseLang(%q) = %q, want %q", in, got, want)
		}
	}
}
