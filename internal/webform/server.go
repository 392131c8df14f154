// Package webform serves the companion code-submission page. Submitted
// code is relayed to the tutoring bot's chat through the Telegram
// sendMessage API, prefixed with the marker the bot recognizes.
package webform

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/m3rciful/tutorbot/core/logger"
	"github.com/m3rciful/tutorbot/internal/engine"
	"log/slog"
)

// Config holds the webform server settings.
type Config struct {
	Listen string
	Token  string
	ChatID int64

	// APIBase overrides the Telegram API origin; tests point it at a
	// local server.
	APIBase string
}

// Server renders the form and relays submissions.
type Server struct {
	cfg    Config
	client *http.Client
	tmpl   *template.Template
}

// New validates the config and builds a Server.
func New(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("webform: telegram token is required")
	}
	if cfg.ChatID == 0 {
		return nil, fmt.Errorf("webform: chat id is required")
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.telegram.org"
	}
	return &Server{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		tmpl:   template.Must(template.New("form").Parse(pageTemplate)),
	}, nil
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Heartbeat("/health"))
	r.Get("/", s.handleForm)
	r.Post("/", s.handleSubmit)
	return r
}

// ListenAndServe runs the server until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.WEB.Info("listening",
			slog.String("event", "listen"),
			slog.String("addr", s.cfg.Listen),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

type pageData struct {
	Status  string
	IsError bool
	Code    string
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, pageData{})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	code := r.PostFormValue("code")
	if strings.TrimSpace(code) == "" {
		s.render(w, pageData{Status: "Veuillez saisir du code avant d'envoyer.", IsError: true})
		return
	}

	start := time.Now()
	err := s.Relay(r.Context(), code)
	if err != nil {
		logger.WEB.Error("relay failed",
			slog.String("event", "relay"),
			slog.String("err", err.Error()),
			slog.Duration("duration_ms", logger.RoundMS(time.Since(start))),
		)
		s.render(w, pageData{Status: "Échec de l'envoi au bot. Réessayez.", IsError: true, Code: code})
		return
	}

	logger.WEB.Info("code relayed",
		slog.String("event", "relay"),
		slog.Int("code_len", len(code)),
		slog.Duration("duration_ms", logger.RoundMS(time.Since(start))),
	)
	s.render(w, pageData{Status: "✅ Code envoyé au bot ! Consultez Telegram pour le résultat."})
}

// Relay forwards code to the bot chat with the web-form prefix.
func (s *Server) Relay(ctx context.Context, code string) error {
	text := engine.WebCodeMarker + " :\n" + code

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.cfg.APIBase, s.cfg.Token)
	form := url.Values{
		"chat_id": {strconv.FormatInt(s.cfg.ChatID, 10)},
		"text":    {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("webform: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("webform: send message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webform: telegram responded %s", resp.Status)
	}
	return nil
}

func (s *Server) render(w http.ResponseWriter, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		logger.WEB.Error("template render failed",
			slog.String("event", "render"),
			slog.String("err", err.Error()),
		)
	}
}

const pageTemplate = `<!DOCTYPE html>
<html lang="fr">
<head>
<meta charset="utf-8">
<title>Python Tutor — Interface Web</title>
<style>
body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; padding: 0 1rem; }
textarea { width: 100%; height: 260px; font-family: monospace; font-size: 14px; }
button { margin-top: .5rem; padding: .5rem 1.5rem; }
.status { padding: .5rem; margin-bottom: 1rem; border-radius: 4px; }
.ok { background: #e6f7e6; }
.err { background: #fde8e8; }
</style>
</head>
<body>
<h1>🐍 Python Tutor</h1>
<p>Envoyez votre code Python au bot Telegram pour l'exécuter.</p>
{{if .Status}}<div class="status {{if .IsError}}err{{else}}ok{{end}}">{{.Status}}</div>{{end}}
<form method="post" action="/">
<textarea name="code" placeholder="print('Hello!')">{{.Code}}</textarea>
<button type="submit">Envoyer au bot</button>
</form>
</body>
</html>
`
