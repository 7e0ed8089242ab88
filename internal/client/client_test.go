package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"exam_practice_backend/internal/quiz"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"code": status, "message": http.StatusText(status), "data": data})
}

func TestClient_LoginThenComposeSendsToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]interface{}{"token": "tok-1", "user": map[string]string{"id": "u1", "role": "student"}})
	})
	mux.HandleFunc("/api/quiz/compose", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			writeEnvelope(w, http.StatusUnauthorized, nil)
			return
		}
		var req ComposeRequest
		json.NewDecoder(r.Body).Decode(&req)
		writeEnvelope(w, http.StatusOK, ComposedQuiz{
			SessionID:       "s1",
			SubjectID:       req.SubjectID,
			DurationSeconds: 60,
			Questions:       []quiz.Question{{ID: "q1", Kind: quiz.KindShortAnswer, Text: "?"}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, time.Second)
	user, err := c.Login(context.Background(), "a@b.c", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID != "u1" || c.Token() != "tok-1" {
		t.Fatalf("unexpected login result %+v token=%q", user, c.Token())
	}

	composed, err := c.Compose(context.Background(), ComposeRequest{SubjectID: "math"})
	if err != nil {
		t.Fatal(err)
	}
	if composed.SessionID != "s1" || composed.SubjectID != "math" || len(composed.Questions) != 1 {
		t.Errorf("unexpected composition %+v", composed)
	}
	if composed.Questions[0].Keyed {
		t.Error("questions from the wire carry no key")
	}
}

func TestClient_StatusMapsToSentinels(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, quiz.ErrNotFound},
		{http.StatusConflict, quiz.ErrInsufficientBank},
		{http.StatusBadRequest, quiz.ErrValidation},
		{http.StatusForbidden, quiz.ErrUnauthorized},
		{http.StatusInternalServerError, quiz.ErrPersistence},
	}
	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, tc.status, nil)
			}))
			defer srv.Close()

			_, err := New(srv.URL, time.Second).Compose(context.Background(), ComposeRequest{SubjectID: "x"})
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			var apiErr *APIError
			if !errors.As(err, &apiErr) || apiErr.Status != tc.status {
				t.Errorf("expected APIError with status %d, got %v", tc.status, err)
			}
		})
	}
}

func TestClient_SessionSubmitFailureThenRetry(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			writeEnvelope(w, http.StatusInternalServerError, nil)
			return
		}
		var sub quiz.Submission
		json.NewDecoder(r.Body).Decode(&sub)
		if len(sub.Answers) != 1 || sub.Answers[0].SelectedAnswerEncoded != "42" {
			writeEnvelope(w, http.StatusBadRequest, nil)
			return
		}
		writeEnvelope(w, http.StatusCreated, quiz.SubmitResult{AttemptID: "a1", Score: 1, Total: 1})
	}))
	defer srv.Close()

	s, err := quiz.Start(quiz.SessionConfig{
		SessionID:       "s1",
		SubjectID:       "math",
		Questions:       []quiz.Question{{ID: "q1", Kind: quiz.KindShortAnswer, Text: "6*7?"}},
		DurationSeconds: 3600,
		Submitter:       New(srv.URL, time.Second),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SelectAnswer("q1", quiz.TextAnswer{Text: "42"}); err != nil {
		t.Fatal(err)
	}

	out, err := s.Submit(context.Background())
	if !errors.Is(err, quiz.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !out.Unsaved || s.State() != quiz.StateCompleted {
		t.Fatalf("expected completed and unsaved, got %+v in %s", out, s.State())
	}
	if out.Graded != 0 || out.Answered != 1 {
		t.Errorf("stripped questions should only count answers, got %+v", out)
	}

	out, err = s.Retry(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !out.Saved || out.AttemptID != "a1" || out.Score != 1 {
		t.Errorf("unexpected retry outcome %+v", out)
	}
}
