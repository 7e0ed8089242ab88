package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"exam_practice_backend/internal/quiz"

	"go.uber.org/zap"
)

type runner struct {
	session *quiz.Session
	out     *bufio.Writer
	log     *zap.Logger
}

const help = `命令: n 下一题 | p 上一题 | g <序号> 跳转 | a <答案> 作答 | t 剩余时间 | s 交卷 | q 放弃 | r 重试保存 | h 帮助
  单选: a B    判断组: a s1=t,s2=f    简答: a 任意文本`

func (r *runner) run(ctx context.Context, lines <-chan string) {
	fmt.Fprintln(r.out, help)
	r.show()

	done := r.session.Done()
	for {
		select {
		case <-done:
			// auto-submit or our own submit; keep reading only for retry
			r.printFinal()
			done = nil
			if o := r.session.Outcome(); o == nil || o.Saved {
				return
			}
		case line, ok := <-lines:
			if !ok {
				return
			}
			if err := r.handle(ctx, strings.TrimSpace(line)); err != nil {
				if errors.Is(err, errQuit) {
					return
				}
				fmt.Fprintf(r.out, "错误: %v\n", err)
				r.out.Flush()
			}
		}
	}
}

func (r *runner) handle(ctx context.Context, line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "", "h":
		fmt.Fprintln(r.out, help)
	case "n":
		if err := r.session.Next(); err != nil {
			return err
		}
		r.show()
	case "p":
		if err := r.session.Prev(); err != nil {
			return err
		}
		r.show()
	case "g":
		i, err := strconv.Atoi(arg)
		if err != nil || i < 1 || i > r.session.Len() {
			return fmt.Errorf("序号应在 1 到 %d 之间", r.session.Len())
		}
		if err := r.session.GoTo(i - 1); err != nil {
			return err
		}
		r.show()
	case "a":
		q := r.session.Current()
		a, err := parseAnswer(q, arg)
		if err != nil {
			return err
		}
		if err := r.session.SelectAnswer(q.ID, a); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "已记录")
	case "t":
		fmt.Fprintf(r.out, "剩余 %d 秒\n", r.session.SecondsRemaining())
	case "s":
		// the result is printed when Done fires
		if _, err := r.session.Submit(ctx); err != nil && !errors.Is(err, quiz.ErrPersistence) {
			return err
		}
	case "r":
		o, err := r.session.Retry(ctx)
		printOutcome(r.out, o, err)
		if o != nil && o.Saved {
			return errQuit
		}
	case "q":
		if err := r.session.Abandon(); err != nil {
			return err
		}
		fmt.Fprintln(r.out, "已放弃，本次作答不会保存")
		r.out.Flush()
		return errQuit
	default:
		return fmt.Errorf("未知命令 %q", cmd)
	}
	r.out.Flush()
	return nil
}

func (r *runner) printFinal() {
	if r.session.State() != quiz.StateCompleted {
		return
	}
	o := r.session.Outcome()
	var err error
	if o != nil {
		err = o.Err
	}
	printOutcome(r.out, o, err)
}

func (r *runner) show() {
	q := r.session.Current()
	fmt.Fprintf(r.out, "\n第 %d/%d 题 [%s]\n%s\n", r.session.Index()+1, r.session.Len(), q.Kind, q.Text)
	if q.ImageURL != "" {
		fmt.Fprintf(r.out, "图片: %s\n", q.ImageURL)
	}
	switch q.Kind {
	case quiz.KindSingleChoice:
		for _, l := range quiz.OptionLetters {
			if text, ok := q.Options[l]; ok && text != "" {
				fmt.Fprintf(r.out, "  %s. %s\n", l, text)
			}
		}
	case quiz.KindTrueFalseSet:
		for _, st := range q.Statements {
			fmt.Fprintf(r.out, "  %s: %s\n", st.SubID, st.Text)
		}
	}
	if a, ok := r.session.Answer(q.ID); ok {
		enc, _ := a.Encode()
		fmt.Fprintf(r.out, "当前答案: %s\n", enc)
	}
	r.out.Flush()
}

// parseAnswer turns the typed text into the answer shape of q.
func parseAnswer(q quiz.Question, text string) (quiz.Answer, error) {
	switch q.Kind {
	case quiz.KindSingleChoice:
		opt := strings.ToUpper(strings.TrimSpace(text))
		if _, ok := q.Options[opt]; !ok {
			return nil, fmt.Errorf("%w: no option %q", quiz.ErrValidation, text)
		}
		return quiz.ChoiceAnswer{Option: opt}, nil
	case quiz.KindTrueFalseSet:
		values := map[string]bool{}
		known := make(map[string]bool, len(q.Statements))
		for _, st := range q.Statements {
			known[st.SubID] = true
		}
		for _, part := range strings.Split(text, ",") {
			id, v, ok := strings.Cut(strings.TrimSpace(part), "=")
			if !ok || !known[id] {
				return nil, fmt.Errorf("%w: expected subId=t|f, got %q", quiz.ErrValidation, part)
			}
			switch strings.ToLower(v) {
			case "t", "true", "y", "1":
				values[id] = true
			case "f", "false", "n", "0":
				values[id] = false
			default:
				return nil, fmt.Errorf("%w: %q is not true or false", quiz.ErrValidation, v)
			}
		}
		return quiz.TrueFalseAnswer{Values: values}, nil
	case quiz.KindShortAnswer:
		return quiz.TextAnswer{Text: text}, nil
	default:
		return nil, fmt.Errorf("%w: unknown question kind %q", quiz.ErrValidation, q.Kind)
	}
}

// parseMatrix reads "easy:2,hard:1" keeping the given order.
func parseMatrix(s string) ([]quiz.MatrixEntry, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []quiz.MatrixEntry
	for _, part := range strings.Split(s, ",") {
		key, n, ok := strings.Cut(strings.TrimSpace(part), ":")
		count, err := strconv.Atoi(n)
		if !ok || key == "" || err != nil {
			return nil, fmt.Errorf("%w: bad matrix entry %q", quiz.ErrValidation, part)
		}
		out = append(out, quiz.MatrixEntry{PartitionKey: key, Count: count})
	}
	return out, quiz.ValidateMatrix(out)
}
