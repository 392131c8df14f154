package webform

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, telegram http.HandlerFunc) *Server {
	t.Helper()
	tg := httptest.NewServer(telegram)
	t.Cleanup(tg.Close)

	s, err := New(Config{
		Token:   "123:test-token",
		ChatID:  42,
		APIBase: tg.URL,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewValidation(t *testing.T) {
	if _, err := New(Config{ChatID: 1}); err == nil {
		t.Error("missing token accepted")
	}
	if _, err := New(Config{Token: "t"}); err == nil {
		t.Error("missing chat id accepted")
	}
}

func TestGetRendersForm(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `name="code"`) {
		t.Errorf("form field missing:\n%s", body)
	}
}

func TestSubmitRelaysWithPrefix(t *testing.T) {
	var gotPath, gotChat, gotText string
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		vals, _ := url.ParseQuery(string(body))
		gotChat = vals.Get("chat_id")
		gotText = vals.Get("text")
	})

	form := url.Values{"code": {"print('hi')"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotPath != "/bot123:test-token/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotChat != "42" {
		t.Errorf("chat_id = %q", gotChat)
	}
	want := "Code reçu depuis l'interface web :\nprint('hi')"
	if gotText != want {
		t.Errorf("text = %q, want %q", gotText, want)
	}
	if !strings.Contains(w.Body.String(), "Code envoyé") {
		t.Errorf("status line missing:\n%s", w.Body.String())
	}
}

func TestSubmitEmptyCode(t *testing.T) {
	called := false
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	form := url.Values{"code": {"   "}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if called {
		t.Error("empty code was relayed")
	}
	if !strings.Contains(w.Body.String(), "avant d'envoyer") {
		t.Errorf("validation message missing:\n%s", w.Body.String())
	}
}

func TestSubmitTelegramFailure(t *testing.T) {
	s := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	form := url.Values{"code": {"print('hi')"}}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), "Échec de l'envoi") {
		t.Errorf("failure status missing:\n%s", w.Body.String())
	}
	// The submitted code is preserved in the textarea for retry.
	if !strings.Contains(w.Body.String(), "print(&#39;hi&#39;)") {
		t.Errorf("code not preserved:\n%s", w.Body.String())
	}
}
