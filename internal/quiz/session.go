package quiz

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type State string

const (
	StateActive     State = "active"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateAbandoned  State = "abandoned"
)

// SubmittedAnswer is one entry of the submission payload.
type SubmittedAnswer struct {
	QuestionID            string `json:"questionId"`
	SelectedAnswerEncoded string `json:"selectedAnswerEncoded"`
}

type Submission struct {
	SessionID     string            `json:"sessionId,omitempty"`
	SubjectID     string            `json:"subjectId"`
	ExamID        string            `json:"examId,omitempty"`
	QuestionIDs   []string          `json:"questionIds"`
	AutoSubmitted bool              `json:"autoSubmitted"`
	Answers       []SubmittedAnswer `json:"answers"`
}

type SubmitResult struct {
	AttemptID string  `json:"attemptId"`
	Score     float64 `json:"score"`
	Total     int     `json:"total"`
}

// Submitter delivers a finished session to Scoring & Persistence.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (*SubmitResult, error)
}

// Outcome is what the session shows once it leaves Active through submit.
type Outcome struct {
	// Provisional is scored locally on the questions the client holds keys for.
	Provisional float64
	Graded      int
	Answered    int
	Total       int

	AttemptID     string
	Score         float64
	Saved         bool
	Unsaved       bool
	AutoSubmitted bool
	Err           error
}

type SessionConfig struct {
	SessionID       string
	SubjectID       string
	ExamID          string
	Questions       []Question
	DurationSeconds int
	Submitter       Submitter
	NewTicker       TickerFunc
	Logger          *zap.Logger
	// OnTick, if set, observes every countdown step.
	OnTick func(remaining int)
}

// Session is the attempt state machine. Its lifetime runs from Start to a
// terminal state; all transitions serialize on mu.
type Session struct {
	mu        sync.Mutex
	cfg       SessionConfig
	state     State
	index     int
	answers   map[string]Answer
	byID      map[string]Question
	countdown *Countdown
	outcome   *Outcome
	pending   *Submission
	retrying  bool
	done      chan struct{}
	log       *zap.Logger
}

// Start enters Active and arms the countdown.
func Start(cfg SessionConfig) (*Session, error) {
	if len(cfg.Questions) == 0 {
		return nil, fmt.Errorf("%w: session needs at least one question", ErrValidation)
	}
	if cfg.Submitter == nil {
		return nil, fmt.Errorf("%w: session needs a submitter", ErrValidation)
	}

	s := &Session{
		cfg:     cfg,
		state:   StateActive,
		answers: make(map[string]Answer),
		byID:    make(map[string]Question, len(cfg.Questions)),
		done:    make(chan struct{}),
		log:     cfg.Logger,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	for _, q := range cfg.Questions {
		s.byID[q.ID] = q
	}
	s.countdown = NewCountdown(cfg.NewTicker, cfg.OnTick, s.expire)
	s.countdown.Reset(cfg.DurationSeconds)
	return s, nil
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) Current() Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.index
	if i < 0 {
		i = 0
	}
	if last := len(s.cfg.Questions) - 1; i > last {
		i = last
	}
	return s.cfg.Questions[i]
}

func (s *Session) Len() int { return len(s.cfg.Questions) }

func (s *Session) SecondsRemaining() int { return s.countdown.Remaining() }

// Done is closed when the session reaches Completed or Abandoned.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) Outcome() *Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outcome == nil {
		return nil
	}
	out := *s.outcome
	return &out
}

func (s *Session) Answer(questionID string) (Answer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.answers[questionID]
	return a, ok
}

// SelectAnswer records the answer for a question; the last write wins.
func (s *Session) SelectAnswer(questionID string, a Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return fmt.Errorf("%w: select answer while %s", ErrInvalidState, s.state)
	}
	q, ok := s.byID[questionID]
	if !ok {
		return fmt.Errorf("%w: question %s is not part of this session", ErrValidation, questionID)
	}
	if a == nil || a.Kind() != q.Kind {
		return fmt.Errorf("%w: answer does not match %s question", ErrValidation, q.Kind)
	}
	s.answers[questionID] = a
	return nil
}

// GoTo sets the index directly. An index outside the question list is
// rejected and the current position is kept.
func (s *Session) GoTo(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return fmt.Errorf("%w: navigate while %s", ErrInvalidState, s.state)
	}
	if i < 0 || i >= len(s.cfg.Questions) {
		return fmt.Errorf("%w: question index %d out of range [0,%d)", ErrValidation, i, len(s.cfg.Questions))
	}
	s.index = i
	return nil
}

func (s *Session) Next() error { return s.step(1) }

func (s *Session) Prev() error { return s.step(-1) }

func (s *Session) step(delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return fmt.Errorf("%w: navigate while %s", ErrInvalidState, s.state)
	}
	i := s.index + delta
	if i < 0 {
		i = 0
	}
	if last := len(s.cfg.Questions) - 1; i > last {
		i = last
	}
	s.index = i
	return nil
}

// ResetTimer restarts the countdown at seconds, keeping recorded answers.
func (s *Session) ResetTimer(seconds int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return fmt.Errorf("%w: reset timer while %s", ErrInvalidState, s.state)
	}
	s.countdown.Reset(seconds)
	return nil
}

// Abandon leaves Active without persisting anything.
func (s *Session) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateActive {
		return fmt.Errorf("%w: abandon while %s", ErrInvalidState, s.state)
	}
	s.countdown.Stop()
	s.state = StateAbandoned
	close(s.done)
	return nil
}

// Submit sends the recorded answers. A persistence failure still completes the
// session; the outcome is flagged Unsaved and the error is returned alongside.
func (s *Session) Submit(ctx context.Context) (*Outcome, error) {
	return s.submit(ctx, false, 0)
}

func (s *Session) expire(gen uint64) {
	out, err := s.submit(context.Background(), true, gen)
	if out == nil {
		// stale expiry, or already submitted or abandoned
		return
	}
	if err != nil {
		s.log.Warn("auto-submit not saved",
			zap.String("session_id", s.cfg.SessionID),
			zap.Error(err))
	}
}

func (s *Session) submit(ctx context.Context, auto bool, gen uint64) (*Outcome, error) {
	s.mu.Lock()
	if auto && !s.countdown.Expired(gen) {
		// the timer was reset after this expiry was issued
		s.mu.Unlock()
		return nil, nil
	}
	if s.state != StateActive {
		state := s.state
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: submit while %s", ErrInvalidState, state)
	}
	s.state = StateSubmitting
	s.countdown.Stop()

	sub, err := s.buildSubmissionLocked(auto)
	if err != nil {
		// nothing was sent; resume where the clock stopped
		s.state = StateActive
		s.countdown.Reset(s.countdown.Remaining())
		s.mu.Unlock()
		return nil, err
	}
	out := s.provisionalLocked()
	out.AutoSubmitted = auto
	s.pending = sub
	s.mu.Unlock()

	res, sendErr := s.cfg.Submitter.Submit(ctx, *sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyResultLocked(&out, res, sendErr)
	s.outcome = &out
	s.state = StateCompleted
	close(s.done)

	result := out
	return &result, out.Err
}

// Retry re-sends an unsaved submission. It is a no-op once saved, and a
// second caller is rejected while a retry is still in flight.
func (s *Session) Retry(ctx context.Context) (*Outcome, error) {
	s.mu.Lock()
	if s.state != StateCompleted || s.outcome == nil || s.pending == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: nothing to retry", ErrInvalidState)
	}
	if s.outcome.Saved {
		out := *s.outcome
		s.mu.Unlock()
		return &out, nil
	}
	if s.retrying {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: retry already in flight", ErrInvalidState)
	}
	s.retrying = true
	sub := *s.pending
	s.mu.Unlock()

	res, err := s.cfg.Submitter.Submit(ctx, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.retrying = false
	s.applyResultLocked(s.outcome, res, err)
	out := *s.outcome
	return &out, out.Err
}

func (s *Session) applyResultLocked(out *Outcome, res *SubmitResult, err error) {
	if err != nil || res == nil {
		if err == nil {
			err = fmt.Errorf("%w: empty response", ErrPersistence)
		}
		out.Unsaved = true
		out.Saved = false
		out.Err = err
		return
	}
	out.AttemptID = res.AttemptID
	out.Score = res.Score
	out.Total = res.Total
	out.Saved = true
	out.Unsaved = false
	out.Err = nil
}

func (s *Session) buildSubmissionLocked(auto bool) (*Submission, error) {
	sub := &Submission{
		SessionID:     s.cfg.SessionID,
		SubjectID:     s.cfg.SubjectID,
		ExamID:        s.cfg.ExamID,
		QuestionIDs:   make([]string, 0, len(s.cfg.Questions)),
		AutoSubmitted: auto,
		Answers:       make([]SubmittedAnswer, 0, len(s.answers)),
	}
	for _, q := range s.cfg.Questions {
		sub.QuestionIDs = append(sub.QuestionIDs, q.ID)
		a, ok := s.answers[q.ID]
		if !ok {
			continue
		}
		enc, err := a.Encode()
		if err != nil {
			return nil, fmt.Errorf("%w: encode answer for %s: %v", ErrValidation, q.ID, err)
		}
		sub.Answers = append(sub.Answers, SubmittedAnswer{QuestionID: q.ID, SelectedAnswerEncoded: enc})
	}
	return sub, nil
}

func (s *Session) provisionalLocked() Outcome {
	out := Outcome{Total: len(s.cfg.Questions), Answered: len(s.answers)}
	for _, q := range s.cfg.Questions {
		if !q.Keyed {
			continue
		}
		w, _, err := Grade(q, s.answers[q.ID])
		if err != nil {
			continue
		}
		out.Graded++
		out.Provisional += w
	}
	return out
}
