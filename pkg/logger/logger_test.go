package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"exam_practice_backend/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLevel(t *testing.T) {
	cases := []struct {
		mode, level string
		want        zapcore.Level
	}{
		{"debug", "", zapcore.DebugLevel},
		{"release", "", zapcore.InfoLevel},
		{"debug", "warn", zapcore.WarnLevel},
		{"release", "nonsense", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		cfg := &config.Config{Server: config.ServerConfig{Mode: tc.mode}, Log: config.LogConfig{Level: tc.level}}
		if got := level(cfg); got != tc.want {
			t.Errorf("mode=%s level=%q: expected %s, got %s", tc.mode, tc.level, tc.want, got)
		}
	}
}

func TestInitLogger_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	InitLogger(&config.Config{
		Server: config.ServerConfig{Mode: "release"},
		Log:    config.LogConfig{File: path, MaxSizeMB: 1},
	})
	defer func() { Log = zap.NewNop() }()

	Log.Info("attempt saved", zap.String("attemptID", "a1"))
	Log.Debug("dropped at info level")
	Log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]interface{}
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q: %v", data, err)
	}
	if entry["msg"] != "attempt saved" || entry["attemptID"] != "a1" || entry["service"] != "exam-practice" {
		t.Errorf("unexpected entry %v", entry)
	}
}
