// Package client talks to the exam practice HTTP API. It implements
// quiz.Submitter so a quiz.Session can deliver its answers to the server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/quiz"
)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

var _ quiz.Submitter = (*Client)(nil)

// APIError carries the envelope returned with a non-2xx status.
type APIError struct {
	Status  int
	Message string
	kind    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.kind }

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ComposedQuiz mirrors the compose and resume payloads.
type ComposedQuiz struct {
	SessionID        string          `json:"sessionId"`
	SubjectID        string          `json:"subjectId"`
	ExamID           string          `json:"examId"`
	DurationSeconds  int             `json:"durationSeconds"`
	RemainingSeconds int             `json:"remainingSeconds"`
	Questions        []quiz.Question `json:"questions"`
}

type ComposeRequest struct {
	SubjectID string             `json:"subjectId"`
	Mode      quiz.Mode          `json:"mode,omitempty"`
	ExamID    string             `json:"examId,omitempty"`
	Matrix    []quiz.MatrixEntry `json:"matrix,omitempty"`
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

// Login stores the returned bearer token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var out struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/login", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out.User, nil
}

func (c *Client) Subjects(ctx context.Context) ([]model.Subject, error) {
	var out []model.Subject
	if err := c.do(ctx, http.MethodGet, "/api/subjects", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Exams(ctx context.Context, subjectID string) ([]model.Exam, error) {
	path := "/api/exams"
	if subjectID != "" {
		path += "?subjectId=" + url.QueryEscape(subjectID)
	}
	var out []model.Exam
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Compose(ctx context.Context, req ComposeRequest) (*ComposedQuiz, error) {
	var out ComposedQuiz
	if err := c.do(ctx, http.MethodPost, "/api/quiz/compose", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Resume(ctx context.Context, sessionID string) (*ComposedQuiz, error) {
	var out ComposedQuiz
	if err := c.do(ctx, http.MethodGet, "/api/quiz/sessions/"+url.PathEscape(sessionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Abandon(ctx context.Context, sessionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/quiz/sessions/"+url.PathEscape(sessionID), nil, nil)
}

// Submit posts the answer set. Transport failures and 5xx responses wrap
// quiz.ErrPersistence so the session marks the outcome unsaved.
func (c *Client) Submit(ctx context.Context, sub quiz.Submission) (*quiz.SubmitResult, error) {
	var out quiz.SubmitResult
	if err := c.do(ctx, http.MethodPost, "/api/attempts", sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", quiz.ErrValidation, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", quiz.ErrPersistence, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", quiz.ErrPersistence, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("%w: decode response: %v", quiz.ErrPersistence, err)
		}
	}
	if resp.StatusCode >= 300 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: msg, kind: kindFor(resp.StatusCode)}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", quiz.ErrPersistence, err)
	}
	return nil
}

func kindFor(status int) error {
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return quiz.ErrNotFound
	case status == http.StatusConflict:
		return quiz.ErrInsufficientBank
	case status == http.StatusBadRequest:
		return quiz.ErrValidation
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return quiz.ErrUnauthorized
	default:
		return quiz.ErrPersistence
	}
}
