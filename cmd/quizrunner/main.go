// quizrunner 在终端中完成一次计时答题：登录、组卷、作答、交卷。
//
// 用法:
//
//	go run ./cmd/quizrunner -server http://localhost:8080 -email a@b.c -password secret -subject <id> [-exam <id>] [-matrix easy:2,hard:1]
//	go run ./cmd/quizrunner ... -resume <sessionId>
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"exam_practice_backend/internal/client"
	"exam_practice_backend/internal/quiz"

	"go.uber.org/zap"
)

func main() {
	server := flag.String("server", "http://localhost:8080", "API 地址")
	email := flag.String("email", "", "登录邮箱")
	password := flag.String("password", "", "登录密码")
	subjectID := flag.String("subject", "", "科目ID")
	examID := flag.String("exam", "", "试卷ID（固定组卷或使用试卷的随机矩阵）")
	mode := flag.String("mode", "", "组卷方式 fixed|random，默认跟随试卷")
	matrix := flag.String("matrix", "", "随机组卷矩阵，例如 easy:2,hard:1")
	resume := flag.String("resume", "", "恢复未完成的答题会话")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	zl, err := newLogger(*verbose)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()
	api := client.New(*server, 30*time.Second)
	if _, err := api.Login(ctx, *email, *password); err != nil {
		log.Fatalf("登录失败: %v", err)
	}

	var composed *client.ComposedQuiz
	if *resume != "" {
		composed, err = api.Resume(ctx, *resume)
	} else {
		req := client.ComposeRequest{SubjectID: *subjectID, Mode: quiz.Mode(*mode), ExamID: *examID}
		if req.Matrix, err = parseMatrix(*matrix); err != nil {
			log.Fatal(err)
		}
		composed, err = api.Compose(ctx, req)
	}
	if err != nil {
		log.Fatalf("获取试题失败: %v", err)
	}

	seconds := composed.DurationSeconds
	if *resume != "" {
		seconds = composed.RemainingSeconds
	}

	out := bufio.NewWriter(os.Stdout)
	session, err := quiz.Start(quiz.SessionConfig{
		SessionID:       composed.SessionID,
		SubjectID:       composed.SubjectID,
		ExamID:          composed.ExamID,
		Questions:       composed.Questions,
		DurationSeconds: seconds,
		Submitter:       api,
		Logger:          zl,
		OnTick: func(remaining int) {
			if remaining == 60 || remaining == 10 {
				fmt.Fprintf(os.Stdout, "\n[还剩 %d 秒]\n", remaining)
			}
		},
	})
	if err != nil {
		log.Fatalf("无法开始答题: %v", err)
	}

	r := &runner{session: session, out: out, log: zl}
	r.run(ctx, readLines(os.Stdin))
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

func readLines(f *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()
	return lines
}

func printOutcome(w *bufio.Writer, o *quiz.Outcome, err error) {
	switch {
	case o == nil:
		fmt.Fprintf(w, "交卷失败: %v\n", err)
	case o.Saved:
		fmt.Fprintf(w, "已保存 作答ID=%s 得分 %.2f / %d\n", o.AttemptID, o.Score, o.Total)
	case o.Unsaved:
		fmt.Fprintf(w, "成绩未保存: %v（输入 r 重试）\n", err)
	}
	if o != nil {
		if o.Graded > 0 {
			fmt.Fprintf(w, "本地预估 %.2f（已评 %d 题）\n", o.Provisional, o.Graded)
		} else {
			fmt.Fprintf(w, "已作答 %d / %d\n", o.Answered, o.Total)
		}
		if o.AutoSubmitted {
			fmt.Fprintln(w, "时间到，已自动交卷")
		}
	}
	w.Flush()
}

var errQuit = errors.New("quit")
