package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/panier/internal/model"
	"github.com/hitoshi/panier/internal/repository"
)

// --- モック定義 ---

type mockUserRepo struct {
	findByIDFn    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFn func(ctx context.Context, email string) (*model.User, error)
	createFn      func(ctx context.Context, user *model.User) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFn != nil {
		return m.findByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

type mockSessionRepo struct {
	createFn   func(ctx context.Context, session *model.Session) error
	findByIDFn func(ctx context.Context, id string) (*model.Session, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockSessionRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return nil
}

// testConfig はテスト用の低コストbcrypt設定を返す。
func testConfig() ServiceConfig {
	return ServiceConfig{
		SessionMaxAge: 86400,
		BcryptCost:    bcrypt.MinCost,
	}
}

// --- Register テスト ---

func TestRegister_Success_HashesPassword(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, testConfig())

	user, err := svc.Register(context.Background(), "a@x.com", "motdepasse", "Alice")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	if user.Email != "a@x.com" || user.Name != "Alice" {
		t.Errorf("user = %+v", user)
	}
	if user.ID == "" {
		t.Error("expected generated user ID")
	}
	if created == nil {
		t.Fatal("expected Create to be called")
	}

	// 平文パスワードがそのまま保存されていないこと
	if created.PasswordHash == "motdepasse" {
		t.Error("password must not be stored in plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("motdepasse")); err != nil {
		t.Errorf("stored hash does not verify original password: %v", err)
	}
}

func TestRegister_DuplicateEmail_ReturnsEmailTaken(t *testing.T) {
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email}, nil
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, testConfig())

	_, err := svc.Register(context.Background(), "a@x.com", "p", "A")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeEmailTaken {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeEmailTaken)
	}
	if apiErr.Message != "Un utilisateur avec cet email existe déjà" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

// 事前チェック通過後にUNIQUE制約違反が起きた場合も同じエラーに収束すること
func TestRegister_RaceOnInsert_ReturnsEmailTaken(t *testing.T) {
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return repository.ErrDuplicateEmail
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, testConfig())

	_, err := svc.Register(context.Background(), "a@x.com", "p", "A")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeEmailTaken {
		t.Fatalf("expected EMAIL_TAKEN, got %v", err)
	}
}

func TestRegister_MissingFields_ReturnsInvalidRequest(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, testConfig())

	for _, tc := range []struct {
		name, email, password string
	}{
		{"empty email", "", "p"},
		{"empty password", "a@x.com", ""},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.email, tc.password, "A")
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidRequest {
				t.Errorf("expected INVALID_REQUEST, got %v", err)
			}
		})
	}
}

// --- Login テスト ---

func TestLogin_Success_CreatesSession(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", Email: email, PasswordHash: string(hash)}, nil
		},
	}
	var saved *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			saved = session
			return nil
		},
	}
	svc := NewService(userRepo, sessionRepo, testConfig())

	before := time.Now()
	session, err := svc.Login(context.Background(), "a@x.com", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if session.UserID != "user-1" {
		t.Errorf("session.UserID = %q, want %q", session.UserID, "user-1")
	}
	if len(session.ID) != 64 {
		t.Errorf("session ID length = %d, want 64 hex chars", len(session.ID))
	}
	wantExpiry := before.Add(86400 * time.Second)
	if session.ExpiresAt.Before(wantExpiry.Add(-time.Minute)) {
		t.Errorf("ExpiresAt = %v, want around %v", session.ExpiresAt, wantExpiry)
	}
	if saved == nil {
		t.Error("expected session to be persisted")
	}
}

func TestLogin_UnknownEmail_ReturnsInvalidCredentials(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, testConfig())

	_, err := svc.Login(context.Background(), "nobody@x.com", "p")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
	}
}

func TestLogin_WrongPassword_ReturnsInvalidCredentials(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.MinCost)
	userRepo := &mockUserRepo{
		findByEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user-1", PasswordHash: string(hash)}, nil
		},
	}
	svc := NewService(userRepo, &mockSessionRepo{}, testConfig())

	_, err := svc.Login(context.Background(), "a@x.com", "wrong")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != model.ErrCodeInvalidCredentials {
		t.Fatalf("expected INVALID_CREDENTIALS, got %v", err)
	}
}

// --- Logout / GetCurrentUser テスト ---

func TestLogout_DeletesSession(t *testing.T) {
	var deletedID string
	sessionRepo := &mockSessionRepo{
		deleteFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := NewService(&mockUserRepo{}, sessionRepo, testConfig())

	if err := svc.Logout(context.Background(), "session-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if deletedID != "session-1" {
		t.Errorf("deleted session = %q, want %q", deletedID, "session-1")
	}
}

func TestLogout_EmptySessionID_ReturnsError(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, testConfig())

	if err := svc.Logout(context.Background(), ""); err == nil {
		t.Error("expected error for empty session ID")
	}
}

func TestGetCurrentUser_ValidSession_ReturnsUser(t *testing.T) {
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Email: "a@x.com", Name: "Alice"}, nil
		},
	}
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
		},
	}
	svc := NewService(userRepo, sessionRepo, testConfig())

	user, err := svc.GetCurrentUser(context.Background(), "session-1")
	if err != nil {
		t.Fatalf("GetCurrentUser returned error: %v", err)
	}
	if user.ID != "user-1" {
		t.Errorf("user.ID = %q, want %q", user.ID, "user-1")
	}
}

func TestGetCurrentUser_ExpiredSession_ReturnsError(t *testing.T) {
	svc := NewService(&mockUserRepo{}, &mockSessionRepo{}, testConfig())

	if _, err := svc.GetCurrentUser(context.Background(), "expired"); err == nil {
		t.Error("expected error for expired session")
	}
}
