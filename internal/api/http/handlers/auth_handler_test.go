package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ier-platform/auth-service/internal/auth"
	"github.com/ier-platform/auth-service/internal/config"
	"github.com/ier-platform/auth-service/internal/domain"
	"github.com/ier-platform/auth-service/internal/repository"
	"github.com/ier-platform/auth-service/internal/service"
	apperrors "github.com/ier-platform/auth-service/pkg/util"
)

type stubAccountRepo struct {
	accounts map[uuid.UUID]*domain.Account
}

var _ repository.AccountRepository = (*stubAccountRepo)(nil)

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{accounts: make(map[uuid.UUID]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	return &clone
}

func (r *stubAccountRepo) Create(_ context.Context, account *domain.Account) error {
	account.UUID = uuid.New()
	r.accounts[account.UUID] = cloneAccount(account)
	return nil
}

func (r *stubAccountRepo) Update(_ context.Context, account *domain.Account) error {
	if _, ok := r.accounts[account.UUID]; !ok {
		return pgx.ErrNoRows
	}
	r.accounts[account.UUID] = cloneAccount(account)
	return nil
}

func (r *stubAccountRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	if account, ok := r.accounts[id]; ok {
		return cloneAccount(account), nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubAccountRepo) GetByIDNumber(_ context.Context, idNumber string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.IDNumber == idNumber {
			return cloneAccount(account), nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubAccountRepo) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Email == email {
			return cloneAccount(account), nil
		}
	}
	return nil, pgx.ErrNoRows
}

type testEnv struct {
	app  *fiber.App
	repo *stubAccountRepo
	svc  *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	repo := newStubAccountRepo()
	svc := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		RefreshTokenTTLHours:  24,
		BcryptCost:            4,
	}, repo)

	middleware := auth.NewMiddleware(svc.TokenManager(), repo, auth.NewAccountCache(nil, 0))

	// Same DomainError -> {"detail": ...} mapping the error middleware
	// applies in the composed app.
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"detail": domainErr.Message})
		},
	})
	authHandler := NewAuthHandler(svc)
	sessionHandler := NewSessionHandler()

	app.Post("/login/", authHandler.Login)
	app.Post("/token/refresh/", authHandler.Refresh)
	app.Get("/user/", middleware.Handle, sessionHandler.CurrentUser)

	return &testEnv{app: app, repo: repo, svc: svc}
}

func (e *testEnv) createAccount(t *testing.T) *domain.Account {
	t.Helper()
	account, err := e.svc.CreateAccount(context.Background(), service.CreateAccountInput{
		IDNumber:  "EMP-001",
		Password:  "Secret1!",
		FirstName: "A",
		LastName:  "B",
		Email:     "a@x.com",
		Role:      domain.RoleInspector,
	})
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	return account
}

func (e *testEnv) postJSON(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body %q: %v", raw, err)
	}
	return body
}

func TestLogin_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	for _, payload := range []map[string]string{
		{"id_number": "EMP-001"},
		{"password": "Secret1!"},
		{},
	} {
		resp := env.postJSON(t, "/login/", payload)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", resp.StatusCode)
		}
		body := decodeBody(t, resp)
		if body["detail"] != "Both id_number and password are required." {
			t.Fatalf("unexpected detail: %v", body["detail"])
		}
	}
}

func TestLogin_UniformFailure(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t)

	// Wrong password, unknown id_number and inactive account must all
	// produce byte-identical failure bodies.
	account.Status = domain.StatusInactive
	wrongPassword := env.postJSON(t, "/login/", map[string]string{"id_number": "EMP-001", "password": "wrong"})
	unknownID := env.postJSON(t, "/login/", map[string]string{"id_number": "EMP-404", "password": "Secret1!"})

	if err := env.repo.Update(context.Background(), account); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	inactive := env.postJSON(t, "/login/", map[string]string{"id_number": "EMP-001", "password": "Secret1!"})

	for name, resp := range map[string]*http.Response{
		"wrong password": wrongPassword,
		"unknown id":     unknownID,
		"inactive":       inactive,
	} {
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, resp.StatusCode)
		}
		body := decodeBody(t, resp)
		if body["detail"] != "Invalid credentials" {
			t.Fatalf("%s: unexpected detail: %v", name, body["detail"])
		}
		if len(body) != 1 {
			t.Fatalf("%s: failure body must not leak extra fields: %v", name, body)
		}
	}
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t)

	resp := env.postJSON(t, "/login/", map[string]string{"id_number": "EMP-001", "password": "Secret1!"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	if body["access"] == "" || body["refresh"] == "" {
		t.Fatalf("expected access and refresh tokens: %v", body)
	}

	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user profile, got %v", body["user"])
	}
	if user["uuid"] != account.UUID.String() {
		t.Fatalf("profile uuid mismatch: %v", user["uuid"])
	}
	if user["id_number"] != "EMP-001" || user["user_level"] != "inspector" || user["status"] != "active" {
		t.Fatalf("unexpected profile: %v", user)
	}
	for _, forbidden := range []string{"password", "password_hash", "PasswordHash"} {
		if _, present := user[forbidden]; present {
			t.Fatalf("profile leaks %s", forbidden)
		}
	}
}

func TestCurrentUser_RoundTrip(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t)

	login := decodeBody(t, env.postJSON(t, "/login/", map[string]string{"id_number": "EMP-001", "password": "Secret1!"}))
	access, _ := login["access"].(string)
	if access == "" {
		t.Fatalf("no access token in login response")
	}

	req := httptest.NewRequest(http.MethodGet, "/user/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeBody(t, resp)
	user, _ := body["user"].(map[string]any)
	if user == nil || user["uuid"] != account.UUID.String() {
		t.Fatalf("session resolved wrong identity: %v", body)
	}
}

func TestCurrentUser_Unauthorized(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t)

	req := httptest.NewRequest(http.MethodGet, "/user/", nil)
	resp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", resp.StatusCode)
	}

	login := decodeBody(t, env.postJSON(t, "/login/", map[string]string{"id_number": "EMP-001", "password": "Secret1!"}))
	access, _ := login["access"].(string)

	account.Status = domain.StatusInactive
	if err := env.repo.Update(context.Background(), account); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	req = httptest.NewRequest(http.MethodGet, "/user/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err = env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("inactive account: expected 401, got %d", resp.StatusCode)
	}
}

func TestRefresh_Endpoint(t *testing.T) {
	env := newTestEnv(t)
	account := env.createAccount(t)

	login := decodeBody(t, env.postJSON(t, "/login/", map[string]string{"id_number": "EMP-001", "password": "Secret1!"}))
	refresh, _ := login["refresh"].(string)
	if refresh == "" {
		t.Fatalf("no refresh token in login response")
	}

	resp := env.postJSON(t, "/token/refresh/", map[string]string{"refresh": refresh})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	access, _ := body["access"].(string)
	if access == "" {
		t.Fatalf("no access token in refresh response")
	}

	// The refreshed token must independently resolve to the same account.
	req := httptest.NewRequest(http.MethodGet, "/user/", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	userResp, err := env.app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	userBody := decodeBody(t, userResp)
	user, _ := userBody["user"].(map[string]any)
	if user == nil || user["uuid"] != account.UUID.String() {
		t.Fatalf("refreshed token resolved wrong identity: %v", userBody)
	}

	bad := env.postJSON(t, "/token/refresh/", map[string]string{"refresh": "garbage"})
	if bad.StatusCode != http.StatusUnauthorized {
		t.Fatalf("garbage refresh: expected 401, got %d", bad.StatusCode)
	}
}
