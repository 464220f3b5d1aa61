package server

import (
	"testing"

	"coachhub/internal/config"
	"coachhub/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthTestServer(t *testing.T, redisClient *redis.Client) (*fiber.App, *Server, *mockUserRepo) {
	t.Helper()

	userRepo := new(mockUserRepo)
	cfg := &config.Config{
		JWTSecret: "test-secret-key-test-secret-key!",
		Env:       "test",
	}
	s := NewServerWithDeps(cfg, nil, redisClient, userRepo, nil, nil, nil, nil)

	app := fiber.New()
	s.SetupRoutes(app)
	return app, s, userRepo
}

func TestSignup_RejectsPrivilegedRoles(t *testing.T) {
	app, s, userRepo := newAuthTestServer(t, nil)

	for _, role := range []string{models.RoleStaff, models.RoleAdmin, "superuser"} {
		req := authedRequest(t, s, "POST", "/api/auth/signup", map[string]string{
			"email":    "x@example.com",
			"password": "password123",
			"role":     role,
		}, 0, "")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "role %s must be rejected", role)
	}
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_CreatesUserAndProfile(t *testing.T) {
	app, s, userRepo := newAuthTestServer(t, nil)

	userRepo.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, nil)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.User).ID = 11
		}).Return(nil)
	userRepo.On("CreateProfile", mock.Anything, uint(11), models.RoleCoach, "Dana", "Reyes").Return(nil)

	req := authedRequest(t, s, "POST", "/api/auth/signup", map[string]string{
		"email":      "new@example.com",
		"password":   "password123",
		"role":       models.RoleCoach,
		"first_name": "Dana",
		"last_name":  "Reyes",
	}, 0, "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.NotEmpty(t, body["token"])
	userRepo.AssertExpectations(t)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	app, s, userRepo := newAuthTestServer(t, nil)

	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	userRepo.On("GetByEmail", mock.Anything, "known@example.com").
		Return(&models.User{ID: 1, Email: "known@example.com", Password: string(hashed), Role: models.RoleClient}, nil)
	userRepo.On("GetByEmail", mock.Anything, "unknown@example.com").Return(nil, nil)

	req := authedRequest(t, s, "POST", "/api/auth/login", map[string]string{
		"email": "known@example.com", "password": "wrong",
	}, 0, "")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req = authedRequest(t, s, "POST", "/api/auth/login", map[string]string{
		"email": "unknown@example.com", "password": "whatever",
	}, 0, "")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_BlacklistsToken(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	app, s, _ := newAuthTestServer(t, redisClient)

	token, err := s.generateToken(1, models.RoleClient)
	require.NoError(t, err)

	// Token works before logout.
	req := authedRequest(t, s, "POST", "/api/auth/logout", nil, 0, "")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The same token is rejected afterwards.
	req = authedRequest(t, s, "POST", "/api/auth/logout", nil, 0, "")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
