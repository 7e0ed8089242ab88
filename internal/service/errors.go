package service

import (
	"errors"
	"fmt"

	"exam_practice_backend/internal/quiz"

	"gorm.io/gorm"
)

// notFound turns gorm's missing-row error into the quiz sentinel.
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", quiz.ErrNotFound, fmt.Sprintf(format, args...))
	}
	return err
}
