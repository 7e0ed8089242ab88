package service

import (
	"context"
	"errors"
	"fmt"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/quiz"
	"exam_practice_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo UserStore
}

func NewUserService(userRepo UserStore) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) List(ctx context.Context, role string, page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.List(ctx, role, page, limit)
}

// UpdateRole changes another user's role. Admins cannot demote themselves.
func (s *UserService) UpdateRole(ctx context.Context, actorID, userID string, role model.UserRole) error {
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", quiz.ErrValidation, role)
	}
	if actorID == userID {
		return util.ErrPermissionDenied
	}
	return s.userErr(s.UserRepo.UpdateRole(ctx, userID, role))
}

func (s *UserService) SetDisabled(ctx context.Context, actorID, userID string, disabled bool) error {
	if actorID == userID {
		return util.ErrPermissionDenied
	}
	return s.userErr(s.UserRepo.SetDisabled(ctx, userID, disabled))
}

func (s *UserService) userErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	}
	return err
}
