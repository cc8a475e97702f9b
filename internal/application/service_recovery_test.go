package application

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/keyhaven/keyhaven/internal/domain"
)

const testBaseURL = "http://portal.test"

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	res, err := f.svc.RequestPasswordReset(context.Background(), "nobody@example.com", testBaseURL)
	if err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if res.Message != genericResetMessage {
		t.Fatalf("unexpected message %q", res.Message)
	}
	if res.ResetLink != "" {
		t.Fatal("no link may be produced for an unknown email")
	}
}

func TestRequestPasswordResetInvalidEmail(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	_, err := f.svc.RequestPasswordReset(context.Background(), "not-an-email", testBaseURL)
	fieldErrs, ok := domain.AsFieldErrors(err)
	if !ok || fieldErrs["email"] == "" {
		t.Fatalf("expected an email field error, got %v", err)
	}
}

func TestRequestPasswordResetIssuesToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.register(ctx, "alice@example.com", "alice", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	forgot, err := f.svc.RequestPasswordReset(ctx, "alice@example.com", testBaseURL+"/")
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if forgot.Message != genericResetMessage {
		t.Fatalf("unexpected message %q", forgot.Message)
	}
	if !strings.HasPrefix(forgot.ResetLink, testBaseURL+"/reset-password/") {
		t.Fatalf("unexpected reset link %q", forgot.ResetLink)
	}

	user, err := f.users.GetByID(ctx, res.Identity.UserID)
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if user.ResetPasswordToken == nil || user.ResetPasswordExpires == nil {
		t.Fatal("reset fields not persisted")
	}
	plaintext := strings.TrimPrefix(forgot.ResetLink, testBaseURL+"/reset-password/")
	if *user.ResetPasswordToken == plaintext {
		t.Fatal("plaintext token must not be persisted")
	}
	if got, want := *user.ResetPasswordExpires, f.now.Add(time.Hour); !got.Equal(want) {
		t.Fatalf("expiry %v, want %v", got, want)
	}
}

func TestRequestPasswordResetOverwritesOutstandingToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.register(ctx, "alice@example.com", "alice", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}

	first, err := f.svc.RequestPasswordReset(ctx, "alice@example.com", testBaseURL)
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	if _, err := f.svc.RequestPasswordReset(ctx, "alice@example.com", testBaseURL); err != nil {
		t.Fatalf("second request: %v", err)
	}

	firstToken := strings.TrimPrefix(first.ResetLink, testBaseURL+"/reset-password/")
	valid, err := f.svc.CheckResetToken(ctx, firstToken)
	if err != nil {
		t.Fatalf("check first token: %v", err)
	}
	if valid {
		t.Fatal("a reissued token must invalidate the previous one")
	}
}

func TestRequestPasswordResetLinkHiddenWhenDisabled(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.svc.cfg.ExposeResetLinks = false
	ctx := context.Background()

	if _, err := f.register(ctx, "alice@example.com", "alice", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	res, err := f.svc.RequestPasswordReset(ctx, "alice@example.com", testBaseURL)
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if res.ResetLink != "" {
		t.Fatal("link must stay out of the response when exposure is disabled")
	}
}

func TestResetPasswordFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.register(ctx, "alice@example.com", "alice", "old-secret"); err != nil {
		t.Fatalf("register: %v", err)
	}
	forgot, err := f.svc.RequestPasswordReset(ctx, "alice@example.com", testBaseURL)
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	token := strings.TrimPrefix(forgot.ResetLink, testBaseURL+"/reset-password/")

	valid, err := f.svc.CheckResetToken(ctx, token)
	if err != nil || !valid {
		t.Fatalf("token should be valid before use: valid=%v err=%v", valid, err)
	}

	if err := f.svc.ResetPassword(ctx, token, "new-secret", "new-secret"); err != nil {
		t.Fatalf("reset password: %v", err)
	}

	if _, err := f.svc.Login(ctx, LoginRequest{UsernameOrEmail: "alice", Password: "old-secret"}); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
	if _, err := f.svc.Login(ctx, LoginRequest{UsernameOrEmail: "alice", Password: "new-secret"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	// Single use: the same token must be dead now.
	if err := f.svc.ResetPassword(ctx, token, "another1", "another1"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("reused token: expected ErrTokenInvalid, got %v", err)
	}
	if valid, _ := f.svc.CheckResetToken(ctx, token); valid {
		t.Fatal("consumed token must not check as valid")
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.register(ctx, "alice@example.com", "alice", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	forgot, err := f.svc.RequestPasswordReset(ctx, "alice@example.com", testBaseURL)
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	token := strings.TrimPrefix(forgot.ResetLink, testBaseURL+"/reset-password/")

	f.now = f.now.Add(time.Hour + time.Minute)

	if valid, _ := f.svc.CheckResetToken(ctx, token); valid {
		t.Fatal("expired token must not check as valid")
	}
	if err := f.svc.ResetPassword(ctx, token, "new-secret", "new-secret"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := f.svc.Login(ctx, LoginRequest{UsernameOrEmail: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("password must be unchanged after a failed reset: %v", err)
	}
}

func TestResetPasswordRejectsBadInput(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.ResetPassword(ctx, "  ", "new-secret", "new-secret"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("blank token: expected ErrTokenInvalid, got %v", err)
	}

	err := f.svc.ResetPassword(ctx, "some-token", "short", "different")
	fieldErrs, ok := domain.AsFieldErrors(err)
	if !ok || fieldErrs["password"] == "" || fieldErrs["confirmPassword"] == "" {
		t.Fatalf("expected password field errors, got %v", err)
	}
}
