package database

import (
	"testing"

	"exam_practice_backend/internal/config"
)

func TestDSN(t *testing.T) {
	got := DSN(&config.DatabaseConfig{
		Host: "db", Port: 3306, User: "exam", Password: "pw",
		DBName: "exam_practice", Charset: "utf8mb4", ParseTime: true,
	})
	want := "exam:pw@tcp(db:3306)/exam_practice?charset=utf8mb4&parseTime=true&loc=Local"
	if got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestInitRedis_DisabledReturnsNil(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	if err != nil || rdb != nil {
		t.Errorf("expected nil client and no error, got %v %v", rdb, err)
	}
}
