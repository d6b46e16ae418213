package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/astral-shooter/internal/config"
	"github.com/tomz197/astral-shooter/internal/logging"
	"github.com/tomz197/astral-shooter/internal/score"
)

const (
	defaultHost  = "0.0.0.0"
	defaultPort  = "8080"
	topSessions  = 10
	queryTimeout = 2 * time.Second
)

//go:embed index.html
var htmlPage string

var pageTmpl = template.Must(template.New("index").Parse(htmlPage))

type pageData struct {
	SSHHost   string
	SSHPort   string
	HighScore int
	Sessions  []sessionView
}

type sessionView struct {
	Rank     int       `json:"rank"`
	Score    int       `json:"score"`
	Duration string    `json:"duration"`
	EndedAt  time.Time `json:"endedAt"`
}

func main() {
	logger := logging.New(config.GetEnv("LOG_LEVEL", "info"), os.Stderr)
	if err := run(logger); err != nil {
		logger.Fatal("web server failed", "err", err)
	}
}

func run(logger *log.Logger) error {
	if err := config.LoadEnvFile(); err != nil {
		return err
	}
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)

	store, err := score.Open(score.Options{
		Backend:    config.GetEnv("SCORE_BACKEND", score.BackendSQLite),
		AppName:    "astral-shooter",
		SQLitePath: config.GetEnv("SCORE_DB", "astral.db"),
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("open score store: %w", err)
	}
	defer store.Close()

	h := &handler{
		store:   store,
		sshHost: config.GetEnv("SSH_DISPLAY_HOST", "your-server.com"),
		sshPort: config.GetEnv("SSH_PORT", "2222"),
		log:     logging.Component(logger, "web"),
	}
	srv := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           h.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting web server", "addr", "http://"+srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type handler struct {
	store   score.Store
	sshHost string
	sshPort string
	log     *log.Logger
}

func (h *handler) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.index)
	mux.HandleFunc("GET /api/scores", h.scores)
	return mux
}

// leaderboard loads the high score and the best sessions. Store errors are
// logged and shown as an empty board.
func (h *handler) leaderboard(ctx context.Context) (int, []sessionView) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	high, err := h.store.Load(ctx)
	if err != nil {
		h.log.Warn("failed to load high score", "err", err)
	}
	hist, ok := h.store.(score.History)
	if !ok {
		return high, nil
	}
	recs, err := hist.TopSessions(ctx, topSessions)
	if err != nil {
		h.log.Warn("failed to load sessions", "err", err)
		return high, nil
	}
	views := make([]sessionView, len(recs))
	for i, rec := range recs {
		views[i] = sessionView{
			Rank:     i + 1,
			Score:    rec.Score,
			Duration: rec.Duration.Round(time.Second).String(),
			EndedAt:  rec.EndedAt,
		}
	}
	return high, views
}

func (h *handler) index(w http.ResponseWriter, r *http.Request) {
	high, sessions := h.leaderboard(r.Context())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := pageTmpl.Execute(w, pageData{
		SSHHost:   h.sshHost,
		SSHPort:   h.sshPort,
		HighScore: high,
		Sessions:  sessions,
	})
	if err != nil {
		h.log.Warn("failed to render page", "err", err)
	}
}

func (h *handler) scores(w http.ResponseWriter, r *http.Request) {
	high, sessions := h.leaderboard(r.Context())
	if sessions == nil {
		sessions = []sessionView{}
	}
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(struct {
		HighScore int           `json:"highScore"`
		Sessions  []sessionView `json:"sessions"`
	}{high, sessions})
	if err != nil {
		h.log.Warn("failed to encode scores", "err", err)
	}
}
