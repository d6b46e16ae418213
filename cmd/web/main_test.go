package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tomz197/astral-shooter/internal/logging"
	"github.com/tomz197/astral-shooter/internal/score"
)

func newTestHandler(t *testing.T) *handler {
	t.Helper()
	store := score.NewMemoryStore(0)
	ctx := context.Background()
	ended := time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)
	for i, s := range []int{20, 55, 5} {
		if err := store.RecordSession(ctx, score.Record{
			SessionID: uuid.New(),
			Score:     s,
			Duration:  time.Duration(10+i) * time.Second,
			EndedAt:   ended.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Save(ctx, 55); err != nil {
		t.Fatal(err)
	}
	return &handler{store: store, sshHost: "play.example.com", sshPort: "2222", log: logging.Discard()}
}

func TestIndexShowsLeaderboard(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"ssh -t play.example.com -p 2222", "High score: 55", "<td>11s</td>"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Index(body, "<td>55</td>") > strings.Index(body, "<td>20</td>") {
		t.Error("sessions not sorted by score")
	}
}

func TestScoresAPI(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/scores", nil))

	var got struct {
		HighScore int `json:"highScore"`
		Sessions  []struct {
			Rank  int `json:"rank"`
			Score int `json:"score"`
		} `json:"sessions"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.HighScore != 55 || len(got.Sessions) != 3 {
		t.Fatalf("got %+v", got)
	}
	if got.Sessions[0].Score != 55 || got.Sessions[0].Rank != 1 || got.Sessions[2].Score != 5 {
		t.Fatalf("sessions = %+v", got.Sessions)
	}
}

func TestUnknownPathIsNotFound(t *testing.T) {
	h := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}
