package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vinealabs/winery-system/internal/core/domain"
	"github.com/vinealabs/winery-system/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Profile(context.Context, uuid.UUID) (*domain.User, error) {
	return nil, nil
}

func (s *stubAuthService) UpdateProfile(context.Context, uuid.UUID, *string, *string) (*domain.User, error) {
	return nil, nil
}

func (s *stubAuthService) ChangePassword(context.Context, uuid.UUID, string, string) error {
	return nil
}

func (s *stubAuthService) ListUsers(context.Context) ([]domain.User, error) {
	return nil, nil
}

func (s *stubAuthService) Deactivate(context.Context, uuid.UUID) error {
	return nil
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Email != "alice@vineyard.test" || in.Role != domain.RoleWinemaker {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{
				ID:        uuid.New(),
				Email:     in.Email,
				FirstName: in.FirstName,
				LastName:  in.LastName,
				Role:      in.Role,
				IsActive:  true,
			}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := `{"email":"alice@vineyard.test","password":"longenough","first_name":"Alice","last_name":"Vintner","role":"winemaker"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "alice@vineyard.test" || user["role"] != "winemaker" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must never be serialized")
	}
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrEmailExists
		},
	}
	h := NewAuthHandler(stub)

	body := `{"email":"bob@vineyard.test","password":"longenough","first_name":"Bob","last_name":"Crush","role":"worker"}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/register", body)

	err := h.Register(c)
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthHandler_Register_ValidationFailures(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	cases := []struct {
		name string
		body string
	}{
		{"bad email", `{"email":"not-an-email","password":"longenough","first_name":"A","last_name":"B","role":"worker"}`},
		{"short password", `{"email":"a@b.test","password":"short","first_name":"A","last_name":"B","role":"worker"}`},
		{"unknown role", `{"email":"a@b.test","password":"longenough","first_name":"A","last_name":"B","role":"superuser"}`},
		{"missing fields", `{"email":"a@b.test"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodPost, "/auth/register", tc.body)

			err := h.Register(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewAuthHandler(stub)

	c, _ := newTestContext(t, http.MethodPost, "/auth/register", "not-json")

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@vineyard.test" || password != "longenough" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{Email: email, Role: domain.RoleAdmin}, nil
		},
	}
	h := NewAuthHandler(stub)

	body := `{"email":"alice@vineyard.test","password":"longenough"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub)

	body := `{"email":"alice@vineyard.test","password":"wrongpass"}`
	c, _ := newTestContext(t, http.MethodPost, "/auth/login", body)

	err := h.Login(c)
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
