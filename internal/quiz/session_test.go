package quiz_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"exam_practice_backend/internal/quiz"
)

type fakeTicker struct {
	ch      chan time.Time
	stopped chan struct{}
	once    sync.Once
}

func (f *fakeTicker) C() <-chan time.Time { return f.ch }

func (f *fakeTicker) Stop() { f.once.Do(func() { close(f.stopped) }) }

// tick delivers one tick; it reports false if the ticker is no longer read.
func (f *fakeTicker) tick() bool {
	select {
	case f.ch <- time.Now():
		return true
	case <-f.stopped:
		return false
	case <-time.After(200 * time.Millisecond):
		return false
	}
}

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (c *fakeClock) NewTicker(time.Duration) quiz.Ticker {
	t := &fakeTicker{ch: make(chan time.Time), stopped: make(chan struct{})}
	c.mu.Lock()
	c.tickers = append(c.tickers, t)
	c.mu.Unlock()
	return t
}

func (c *fakeClock) latest() *fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickers[len(c.tickers)-1]
}

func (c *fakeClock) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

type recordingSubmitter struct {
	calls atomic.Int32
	mu    sync.Mutex
	last  quiz.Submission
	err   error
	score float64
}

func (r *recordingSubmitter) Submit(_ context.Context, sub quiz.Submission) (*quiz.SubmitResult, error) {
	r.calls.Add(1)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = sub
	if r.err != nil {
		return nil, r.err
	}
	return &quiz.SubmitResult{AttemptID: "att-1", Score: r.score, Total: len(sub.QuestionIDs)}, nil
}

func waitDone(t *testing.T, s *quiz.Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("session did not finish")
	}
}

func startSession(t *testing.T, seconds int, sub quiz.Submitter, clock *fakeClock) *quiz.Session {
	t.Helper()
	s, err := quiz.Start(quiz.SessionConfig{
		SessionID:       "sess",
		SubjectID:       "math",
		Questions:       []quiz.Question{singleChoice("q1", "B"), shortAnswer("q2", "42"), trueFalseSet("q3", true, false)},
		DurationSeconds: seconds,
		Submitter:       sub,
		NewTicker:       clock.NewTicker,
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestCountdown_DecrementsAndExpiresOnce(t *testing.T) {
	clock := &fakeClock{}
	ticks := make(chan int, 10)
	var expired atomic.Int32
	c := quiz.NewCountdown(clock.NewTicker, func(r int) { ticks <- r }, func(uint64) { expired.Add(1) })

	c.Reset(3)
	tk := clock.latest()
	for want := 2; want >= 0; want-- {
		if !tk.tick() {
			t.Fatalf("tick toward %d not delivered", want)
		}
		if got := <-ticks; got != want {
			t.Fatalf("expected remaining %d, got %d", want, got)
		}
	}
	if tk.tick() {
		t.Error("ticker still read after expiry")
	}
	if expired.Load() != 1 {
		t.Errorf("expected one expiry, got %d", expired.Load())
	}
	if c.Remaining() != 0 || c.Running() {
		t.Errorf("expected stopped at zero, got remaining=%d running=%v", c.Remaining(), c.Running())
	}
}

func TestCountdown_ResetCancelsPreviousTicker(t *testing.T) {
	clock := &fakeClock{}
	ticks := make(chan int, 10)
	c := quiz.NewCountdown(clock.NewTicker, func(r int) { ticks <- r }, nil)

	c.Reset(10)
	old := clock.latest()
	c.Reset(5)
	if clock.count() != 2 {
		t.Fatalf("expected 2 tickers, got %d", clock.count())
	}

	select {
	case <-old.stopped:
	case <-time.After(time.Second):
		t.Fatal("previous ticker was not stopped")
	}
	if old.tick() {
		t.Error("stale ticker still drives the countdown")
	}

	if !clock.latest().tick() {
		t.Fatal("new ticker not running")
	}
	if got := <-ticks; got != 4 {
		t.Errorf("expected 4 after reset to 5, got %d", got)
	}
	c.Stop()
}

func TestSession_OneSecondTimerAutoSubmitsExactlyOnce(t *testing.T) {
	clock := &fakeClock{}
	sub := &recordingSubmitter{}
	s := startSession(t, 1, sub, clock)

	if err := s.SelectAnswer("q1", quiz.ChoiceAnswer{Option: "B"}); err != nil {
		t.Fatal(err)
	}
	tk := clock.latest()
	if !tk.tick() {
		t.Fatal("tick not delivered")
	}
	waitDone(t, s)

	for i := 0; i < 3; i++ {
		tk.tick()
	}
	if n := sub.calls.Load(); n != 1 {
		t.Errorf("expected exactly one submit, got %d", n)
	}
	if s.SecondsRemaining() != 0 {
		t.Errorf("expected 0 seconds remaining, got %d", s.SecondsRemaining())
	}
	out := s.Outcome()
	if out == nil || !out.AutoSubmitted || !out.Saved {
		t.Fatalf("expected saved auto-submitted outcome, got %+v", out)
	}
	if len(sub.last.Answers) != 1 || sub.last.Answers[0].QuestionID != "q1" {
		t.Errorf("expected recorded answers to be sent, got %+v", sub.last.Answers)
	}
	if len(sub.last.QuestionIDs) != 3 {
		t.Errorf("expected all presented ids, got %v", sub.last.QuestionIDs)
	}
}

func TestSession_AutoSubmitSurvivesPersistenceFailure(t *testing.T) {
	clock := &fakeClock{}
	sub := &recordingSubmitter{err: quiz.ErrPersistence}
	s := startSession(t, 1, sub, clock)

	clock.latest().tick()
	waitDone(t, s)

	if s.State() != quiz.StateCompleted {
		t.Errorf("expected completed, got %s", s.State())
	}
	out := s.Outcome()
	if !out.Unsaved || out.Saved || !errors.Is(out.Err, quiz.ErrPersistence) {
		t.Errorf("expected unsaved outcome carrying the error, got %+v", out)
	}
}

func TestSession_SubmitThenRetry(t *testing.T) {
	clock := &fakeClock{}
	sub := &recordingSubmitter{err: errors.New("connection reset"), score: 2}
	s := startSession(t, 60, sub, clock)

	_ = s.SelectAnswer("q1", quiz.ChoiceAnswer{Option: "B"})
	_ = s.SelectAnswer("q2", quiz.TextAnswer{Text: " 42 "})

	out, err := s.Submit(context.Background())
	if err == nil || out == nil || !out.Unsaved {
		t.Fatalf("expected unsaved outcome with error, got %+v / %v", out, err)
	}
	if out.Provisional != 2 || out.Graded != 3 || out.Answered != 2 {
		t.Errorf("unexpected provisional figures %+v", out)
	}
	if _, err := s.Submit(context.Background()); !errors.Is(err, quiz.ErrInvalidState) {
		t.Errorf("expected second submit to be rejected, got %v", err)
	}

	sub.mu.Lock()
	sub.err = nil
	sub.mu.Unlock()
	out, err = s.Retry(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !out.Saved || out.AttemptID != "att-1" || out.Score != 2 || out.Total != 3 {
		t.Errorf("unexpected retried outcome %+v", out)
	}
	if sub.calls.Load() != 2 {
		t.Errorf("expected 2 sends, got %d", sub.calls.Load())
	}
}

func TestSession_NavigationClamps(t *testing.T) {
	clock := &fakeClock{}
	s := startSession(t, 60, &recordingSubmitter{}, clock)
	defer s.Abandon()

	_ = s.Prev()
	if s.Index() != 0 {
		t.Errorf("prev at start: expected 0, got %d", s.Index())
	}
	for i := 0; i < 5; i++ {
		_ = s.Next()
	}
	if s.Index() != 2 {
		t.Errorf("next past end: expected 2, got %d", s.Index())
	}
	_ = s.GoTo(1)
	if s.Current().ID != "q2" {
		t.Errorf("expected q2, got %s", s.Current().ID)
	}

	for _, i := range []int{-1, 3, 99} {
		if err := s.GoTo(i); !errors.Is(err, quiz.ErrValidation) {
			t.Errorf("GoTo(%d): expected ErrValidation, got %v", i, err)
		}
	}
	if s.Index() != 1 || s.Current().ID != "q2" {
		t.Errorf("rejected GoTo moved the index to %d", s.Index())
	}
}

func TestSession_SelectAnswerLastWriteWins(t *testing.T) {
	clock := &fakeClock{}
	s := startSession(t, 60, &recordingSubmitter{}, clock)
	defer s.Abandon()

	_ = s.SelectAnswer("q1", quiz.ChoiceAnswer{Option: "A"})
	_ = s.SelectAnswer("q1", quiz.ChoiceAnswer{Option: "C"})
	a, ok := s.Answer("q1")
	if !ok || a.(quiz.ChoiceAnswer).Option != "C" {
		t.Errorf("expected C, got %#v", a)
	}
	if s.Index() != 0 {
		t.Error("selecting an answer must not move the index")
	}

	if err := s.SelectAnswer("q1", quiz.TextAnswer{Text: "C"}); !errors.Is(err, quiz.ErrValidation) {
		t.Errorf("expected kind mismatch to fail, got %v", err)
	}
	if err := s.SelectAnswer("nope", quiz.TextAnswer{Text: "C"}); !errors.Is(err, quiz.ErrValidation) {
		t.Errorf("expected unknown question to fail, got %v", err)
	}
}

func TestSession_ResetTimerKeepsAnswers(t *testing.T) {
	clock := &fakeClock{}
	s := startSession(t, 60, &recordingSubmitter{}, clock)
	defer s.Abandon()

	_ = s.SelectAnswer("q2", quiz.TextAnswer{Text: "42"})
	if err := s.ResetTimer(30); err != nil {
		t.Fatal(err)
	}
	if s.SecondsRemaining() != 30 {
		t.Errorf("expected 30, got %d", s.SecondsRemaining())
	}
	if _, ok := s.Answer("q2"); !ok {
		t.Error("reset discarded answers")
	}
	if clock.count() != 2 {
		t.Errorf("expected a fresh ticker, got %d tickers", clock.count())
	}
}

func TestSession_AbandonIsTerminal(t *testing.T) {
	clock := &fakeClock{}
	sub := &recordingSubmitter{}
	s := startSession(t, 60, sub, clock)

	if err := s.Abandon(); err != nil {
		t.Fatal(err)
	}
	waitDone(t, s)
	if _, err := s.Submit(context.Background()); !errors.Is(err, quiz.ErrInvalidState) {
		t.Errorf("expected submit after abandon to fail, got %v", err)
	}
	if err := s.Next(); !errors.Is(err, quiz.ErrInvalidState) {
		t.Errorf("expected navigation after abandon to fail, got %v", err)
	}
	if sub.calls.Load() != 0 {
		t.Error("abandon must not persist")
	}
}

func TestSession_ResetOnFinalTickCancelsAutoSubmit(t *testing.T) {
	clock := &fakeClock{}
	sub := &recordingSubmitter{}
	var (
		s        *quiz.Session
		resetErr = make(chan error, 1)
	)
	s, err := quiz.Start(quiz.SessionConfig{
		SessionID:       "sess",
		SubjectID:       "math",
		Questions:       []quiz.Question{singleChoice("q1", "B")},
		DurationSeconds: 1,
		Submitter:       sub,
		NewTicker:       clock.NewTicker,
		OnTick: func(remaining int) {
			if remaining == 0 {
				resetErr <- s.ResetTimer(30)
			}
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Abandon()

	first := clock.latest()
	if !first.tick() {
		t.Fatal("tick not delivered")
	}
	if err := <-resetErr; err != nil {
		t.Fatalf("reset on the final tick: %v", err)
	}
	// the tick goroutine stops its ticker only after the expiry callback returns
	select {
	case <-first.stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("expired ticker was not stopped")
	}

	if s.State() != quiz.StateActive {
		t.Errorf("expected session to stay active after reset, got %s", s.State())
	}
	if n := sub.calls.Load(); n != 0 {
		t.Errorf("expected no auto-submit after reset, got %d", n)
	}
	if s.SecondsRemaining() != 30 {
		t.Errorf("expected 30 seconds remaining, got %d", s.SecondsRemaining())
	}
	if clock.count() != 2 {
		t.Errorf("expected a fresh ticker, got %d tickers", clock.count())
	}
}

type blockingSubmitter struct {
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSubmitter) Submit(ctx context.Context, sub quiz.Submission) (*quiz.SubmitResult, error) {
	if b.calls.Add(1) == 1 {
		return nil, quiz.ErrPersistence
	}
	b.entered <- struct{}{}
	<-b.release
	return &quiz.SubmitResult{AttemptID: "att-1", Total: len(sub.QuestionIDs)}, nil
}

func TestSession_ConcurrentRetrySendsOnce(t *testing.T) {
	clock := &fakeClock{}
	sub := &blockingSubmitter{entered: make(chan struct{}, 1), release: make(chan struct{})}
	s := startSession(t, 60, sub, clock)

	if _, err := s.Submit(context.Background()); !errors.Is(err, quiz.ErrPersistence) {
		t.Fatalf("expected failed first send, got %v", err)
	}

	type result struct {
		out *quiz.Outcome
		err error
	}
	first := make(chan result, 1)
	go func() {
		out, err := s.Retry(context.Background())
		first <- result{out, err}
	}()
	<-sub.entered

	if _, err := s.Retry(context.Background()); !errors.Is(err, quiz.ErrInvalidState) {
		t.Errorf("expected overlapping retry to be rejected, got %v", err)
	}
	close(sub.release)

	r := <-first
	if r.err != nil || r.out == nil || !r.out.Saved {
		t.Fatalf("expected first retry to save, got %+v / %v", r.out, r.err)
	}
	if n := sub.calls.Load(); n != 2 {
		t.Errorf("expected 2 sends, got %d", n)
	}

	out, err := s.Retry(context.Background())
	if err != nil || !out.Saved {
		t.Errorf("expected saved no-op retry, got %+v / %v", out, err)
	}
	if n := sub.calls.Load(); n != 2 {
		t.Errorf("retry after save must not send, got %d sends", n)
	}
}
