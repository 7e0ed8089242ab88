package service

import (
	"context"
	"errors"
	"testing"

	"exam_practice_backend/internal/model"
	"exam_practice_backend/internal/service/servicetest"
	"exam_practice_backend/internal/util"
)

func TestAuthService_RegisterAndLogin(t *testing.T) {
	users := servicetest.NewUsers()
	svc := NewAuthService(users, testConfig())
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ana", " Ana@Example.com ", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if user.Role != model.Student || user.Email != "ana@example.com" || user.Password == "secret1" {
		t.Errorf("unexpected registered user %+v", user)
	}

	if _, err := svc.Register(ctx, "Ana", "ana@example.com", "secret1"); !errors.Is(err, util.ErrEmailRegistered) {
		t.Errorf("expected duplicate email error, got %v", err)
	}

	token, logged, err := svc.Login(ctx, "ana@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != logged.ID || claims.Role != model.Student {
		t.Errorf("unexpected claims %+v", claims)
	}
	stored, _ := users.FindByID(ctx, logged.ID)
	if stored.LastLogin == nil {
		t.Error("expected last login to be recorded")
	}

	if _, _, err := svc.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, util.ErrInvalidLogin) {
		t.Errorf("expected invalid login, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, util.ErrInvalidLogin) {
		t.Errorf("expected invalid login for unknown email, got %v", err)
	}

	users.SetDisabled(ctx, logged.ID, true)
	if _, _, err := svc.Login(ctx, "ana@example.com", "secret1"); !errors.Is(err, util.ErrUserDisabled) {
		t.Errorf("expected disabled user to be rejected, got %v", err)
	}
}

func TestUserService_CannotChangeOwnAccount(t *testing.T) {
	users := servicetest.NewUsers()
	users.Create(context.Background(), &model.User{UUIDBase: model.UUIDBase{ID: "admin"}, Role: model.Admin})
	users.Create(context.Background(), &model.User{UUIDBase: model.UUIDBase{ID: "u1"}, Role: model.Student})
	svc := NewUserService(users)
	ctx := context.Background()

	if err := svc.UpdateRole(ctx, "admin", "admin", model.Student); !errors.Is(err, util.ErrPermissionDenied) {
		t.Errorf("expected self-demotion to be denied, got %v", err)
	}
	if err := svc.UpdateRole(ctx, "admin", "u1", "overlord"); err == nil {
		t.Error("expected unknown role to be rejected")
	}
	if err := svc.UpdateRole(ctx, "admin", "u1", model.Teacher); err != nil {
		t.Fatal(err)
	}
	if u, _ := users.FindByID(ctx, "u1"); u.Role != model.Teacher {
		t.Errorf("expected teacher role, got %s", u.Role)
	}
	if err := svc.SetDisabled(ctx, "admin", "ghost", true); !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("expected user not found, got %v", err)
	}
}
