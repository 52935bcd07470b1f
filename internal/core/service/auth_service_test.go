package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
	"github.com/vinealabs/winery-system/internal/pkg/password"
	"github.com/vinealabs/winery-system/internal/pkg/token"
)

type stubUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Insert(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return cloneUser(user), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) UpdateProfile(_ context.Context, id uuid.UUID, firstName, lastName *string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) UpdatePasswordHash(_ context.Context, id uuid.UUID, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserRepo) SetActive(_ context.Context, id uuid.UUID, active bool) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.IsActive = active
	return nil
}

func newTestAuthService(repo ports.UserRepository) *AuthService {
	return NewAuthService(repo, password.NewHasher(), "secret", 24, zerolog.Nop())
}

func register(t *testing.T, svc *AuthService, email, pw string, role domain.Role) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:     email,
		Password:  pw,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return user
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	user := register(t, svc, "alice@vineyard.test", "longpassword", domain.RoleWinemaker)
	if user.PasswordHash == "longpassword" {
		t.Fatalf("expected password to be hashed")
	}
	if !user.IsActive {
		t.Fatalf("expected new account to be active")
	}
	if user.Role != domain.RoleWinemaker {
		t.Fatalf("unexpected role: %s", user.Role)
	}

	ok, err := password.NewHasher().Verify("longpassword", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("stored hash does not match password: ok=%v err=%v", ok, err)
	}
}

func TestAuthService_Register_UnknownRole(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "bob@vineyard.test",
		Password: "longpassword",
		Role:     domain.Role("superuser"),
	})
	if err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())

	register(t, svc, "bob@vineyard.test", "longpassword", domain.RoleWorker)
	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Email:    "bob@vineyard.test",
		Password: "otherpassword",
		Role:     domain.RoleWorker,
	})
	if err != domain.ErrEmailExists {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	created := register(t, svc, "carol@vineyard.test", "s3cretpass", domain.RoleAdmin)

	signed, user, err := svc.Login(context.Background(), "carol@vineyard.test", "s3cretpass")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if signed == "" {
		t.Fatalf("expected token, got empty")
	}
	if user == nil || user.ID != created.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims, err := token.Decode(signed, "secret")
	if err != nil {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Role != domain.RoleAdmin {
		t.Fatalf("expected role %s, got %s", domain.RoleAdmin, claims.Role)
	}
	if claims.Email != "carol@vineyard.test" {
		t.Fatalf("unexpected email claim: %s", claims.Email)
	}
	userID, err := claims.UserID()
	if err != nil || userID != created.ID {
		t.Fatalf("unexpected subject: %v %v", userID, err)
	}
}

// Wrong password, unknown email and deactivated account must be impossible to
// tell apart from the outside.
func TestAuthService_Login_UniformFailures(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	created := register(t, svc, "dave@vineyard.test", "goodpassword", domain.RoleWorker)

	if _, _, err := svc.Login(context.Background(), "dave@vineyard.test", "badpassword"); err != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@vineyard.test", "goodpassword"); err != domain.ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.Deactivate(context.Background(), created.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "dave@vineyard.test", "goodpassword"); err != domain.ErrInvalidCredentials {
		t.Fatalf("deactivated account: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	svc := newTestAuthService(newStubUserRepo())
	created := register(t, svc, "erin@vineyard.test", "originalpass", domain.RoleWinemaker)

	if err := svc.ChangePassword(context.Background(), created.ID, "wrongpass", "newpassword"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for wrong current password, got %v", err)
	}

	if err := svc.ChangePassword(context.Background(), created.ID, "originalpass", "newpassword"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	if _, _, err := svc.Login(context.Background(), "erin@vineyard.test", "originalpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("old password should no longer work, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "erin@vineyard.test", "newpassword"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}
}

func TestAuthService_TokenExpiry(t *testing.T) {
	claims := token.New(uuid.New(), "frank@vineyard.test", domain.RoleWorker, time.Now().UTC().Add(-48*time.Hour), 24)
	signed, err := token.Encode(claims, "secret")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if _, err := token.Decode(signed, "secret"); err != token.ErrExpired {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}
