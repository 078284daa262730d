package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"logistics-auth-service/internal/config"
	domainUser "logistics-auth-service/internal/domain/user"
	"logistics-auth-service/internal/infrastructure/memory"
	"logistics-auth-service/internal/middleware"
	"logistics-auth-service/internal/token"
	"logistics-auth-service/internal/usecase/supplier"
	"logistics-auth-service/internal/usecase/user"
	"logistics-auth-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const password = "Passw0rdOk"

type testServer struct {
	router *gin.Engine
	users  *user.Service
	store  *memory.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	cfg := &config.Config{
		Auth:   config.AuthConfig{TokenTTL: 7 * 24 * time.Hour},
		Reset:  config.ResetConfig{TTL: 24 * time.Hour, FrontendURL: "http://localhost:3000"},
		Events: config.EventsConfig{SupplierTopic: "supplier-events"},
	}
	scheme := token.NewOpaqueScheme(store.Tokens(), store.Users(), cfg.Auth.TokenTTL)
	users := user.NewService(store, scheme, nil, nil, cfg)
	suppliers := supplier.NewService(store, users, nil, cfg.Events.SupplierTopic)

	userHandler := NewUserHandler(users)
	supplierHandler := NewSupplierHandler(suppliers)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	v1 := router.Group("/api/v1")
	userHandler.RegisterRoutes(v1, func(c *gin.Context) { c.Next() })
	supplierHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(scheme))
	userHandler.RegisterProfileRoutes(protected)
	supplierHandler.RegisterAdminRoutes(protected)

	admin := protected.Group("")
	admin.Use(middleware.AdminOnly())
	userHandler.RegisterAdminRoutes(admin)

	return &testServer{router: router, users: users, store: store}
}

func (s *testServer) do(t *testing.T, method, path string, body any, authToken string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authToken != "" {
		req.Header.Set("Authorization", "Token "+authToken)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func (s *testServer) createUser(t *testing.T, username string, role domainUser.Role) *domainUser.User {
	t.Helper()

	hashed, err := utils.HashPassword(password)
	require.NoError(t, err)
	u := &domainUser.User{
		Username:       username,
		Email:          username + "@example.com",
		PasswordHashed: hashed,
		IsActive:       true,
		CreatedAt:      time.Now(),
	}
	u.SetRole(role)
	require.NoError(t, s.store.Users().Create(context.Background(), u))
	return u
}

func (s *testServer) login(t *testing.T, username string) string {
	t.Helper()

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"username": username, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return body["token"].(string)
}

func TestLoginSuccess(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "alice", domainUser.RoleRegularUser)

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"username": "alice", "password": password}, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Login successful", body["message"])
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, body["expires_at"])
	u := body["user"].(map[string]any)
	assert.Equal(t, "alice", u["username"])
	assert.Equal(t, float64(domainUser.RoleRegularUser), u["role_id"])
}

func TestLoginWrongPassword(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "alice", domainUser.RoleRegularUser)

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/login", gin.H{"username": "alice", "password": "Wrong1234"}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, map[string]any{"success": false, "message": "Invalid credentials"}, body)
}

func TestLoginMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid request body"}`, w.Body.String())
}

func TestRegisterReturnsUserIDOnly(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "newbie",
		"email":    "newbie@example.com",
		"password": password,
	}, "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, body["user_id"])
	assert.NotContains(t, body, "token")
}

func TestRegisterSupplierAcceptsTopLevelRoleFields(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/register/supplier", gin.H{
		"username":      "acme",
		"email":         "acme@example.com",
		"password":      password,
		"company_name":  "Acme",
		"business_type": "wholesale",
		"tax_id":        "T-1",
	}, "")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Supplier registered successfully", body["message"])
	assert.NotEmpty(t, body["token"])
}

func TestRegisterSupplierMissingFields(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/register/supplier", gin.H{
		"username": "acme",
		"email":    "acme@example.com",
		"password": password,
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Missing required fields for Supplier profile", body["message"])
	fields := body["field_errors"].(map[string]any)
	assert.Contains(t, fields, "company_name")
	assert.Contains(t, fields, "business_type")
	assert.Contains(t, fields, "tax_id")
}

func TestRegisterInvalidPhone(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"username": "phoney",
		"email":    "phoney@example.com",
		"password": password,
		"phone":    "12",
	}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", body["message"])
	assert.Equal(t, map[string]any{"phone": "Invalid phone number"}, body["field_errors"])
}

func TestProtectedRoutesRequireCredentials(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Authentication credentials were not provided", body["message"])

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer something")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid authorization header format"}`, rec.Body.String())

	w, body = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "unknown")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", body["message"])
}

func TestProfileAndLogout(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "bob", domainUser.RoleRegularUser)
	tok := s.login(t, "bob")

	w, body := s.do(t, http.MethodGet, "/api/v1/auth/me", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "bob", body["user"].(map[string]any)["username"])

	w, body = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Successfully logged out", body["message"])

	w, _ = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, tok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.createUser(t, "root", domainUser.RoleAdmin)
	target := s.createUser(t, "victim", domainUser.RoleRegularUser)
	adminToken := s.login(t, "root")
	userToken := s.login(t, "victim")

	t.Run("non admin is forbidden", func(t *testing.T) {
		w, body := s.do(t, http.MethodGet, "/api/v1/auth/admin/users", nil, userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Permission denied", body["message"])
	})

	t.Run("list", func(t *testing.T) {
		w, body := s.do(t, http.MethodGet, "/api/v1/auth/admin/users?page=1&limit=1", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
		pagination := body["pagination"].(map[string]any)
		assert.Equal(t, float64(2), pagination["total"])
		assert.Equal(t, float64(2), pagination["pages"])
	})

	t.Run("page past the end", func(t *testing.T) {
		w, body := s.do(t, http.MethodGet, "/api/v1/auth/admin/users?page=9223372036854775807&limit=10", nil, adminToken)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, true, body["success"])
		assert.Empty(t, body["users"])
	})

	t.Run("self delete is forbidden", func(t *testing.T) {
		w, body := s.do(t, http.MethodDelete, "/api/v1/auth/admin/users/"+admin.ID.String(), nil, adminToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "Cannot delete your own account", body["message"])
	})

	t.Run("invalid id", func(t *testing.T) {
		w, body := s.do(t, http.MethodDelete, "/api/v1/auth/admin/users/not-a-uuid", nil, adminToken)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Invalid user ID", body["message"])
	})

	t.Run("delete other", func(t *testing.T) {
		w, _ := s.do(t, http.MethodDelete, "/api/v1/auth/admin/users/"+target.ID.String(), nil, adminToken)
		assert.Equal(t, http.StatusOK, w.Code)

		w, body := s.do(t, http.MethodGet, "/api/v1/auth/me", nil, userToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid token", body["message"])
	})
}

func TestPasswordResetResponsesAreIdentical(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "carol", domainUser.RoleRegularUser)

	wKnown, _ := s.do(t, http.MethodPost, "/api/v1/auth/password/reset", gin.H{"email": "carol@example.com"}, "")
	wUnknown, _ := s.do(t, http.MethodPost, "/api/v1/auth/password/reset", gin.H{"email": "ghost@example.com"}, "")
	s.users.Wait()

	assert.Equal(t, http.StatusOK, wKnown.Code)
	assert.Equal(t, wKnown.Code, wUnknown.Code)
	assert.Equal(t, wKnown.Body.String(), wUnknown.Body.String())

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/password/reset", gin.H{"email": ""}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please provide email address", body["message"])
}

func TestPasswordResetConfirmInvalidLink(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/api/v1/auth/password/reset/confirm/bogus/bogus", gin.H{"new_password": "N3wPassword"}, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Password reset link is invalid or has expired", body["message"])
}

func TestDriverVehicleRequiresDriver(t *testing.T) {
	s := newTestServer(t)
	s.createUser(t, "walker", domainUser.RoleRegularUser)
	tok := s.login(t, "walker")

	w, _ := s.do(t, http.MethodPut, "/api/v1/auth/drivers/vehicle", gin.H{"vehicle_id": "V-1"}, tok)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := s.do(t, http.MethodGet, "/api/v1/auth/drivers/vehicle", nil, tok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Please provide vehicle_id", body["message"])
}

func TestSupplierPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/api/v1/suppliers?active=maybe", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]any{"active": "Must be true or false"}, body["field_errors"])

	w, body = s.do(t, http.MethodGet, "/api/v1/suppliers/count", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["count"])

	w, body = s.do(t, http.MethodGet, "/api/v1/suppliers/00000000-0000-0000-0000-000000000001", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Supplier not found", body["message"])
}
