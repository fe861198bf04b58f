package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skillswap/internal/domain/community"
	infraconfig "skillswap/internal/infrastructure/config"
	"skillswap/internal/infrastructure/persistence/models"
	sharedconfig "skillswap/internal/shared/config"
	"skillswap/internal/shared/logger"
)

const (
	testSecret = "test-secret"
	testIssuer = "skillswap"
)

type nopNotifier struct{}

func (nopNotifier) SendToCommunity(context.Context, uint, community.Event) error { return nil }
func (nopNotifier) SendToUser(context.Context, uint, community.Event) error      { return nil }

func setupRouter(t *testing.T) (*Router, *gorm.DB) {
	t.Helper()
	cfg := testConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CommunityModel{},
		&models.MembershipModel{},
		&models.UserModel{},
		&models.CreditTransactionModel{},
	))

	return NewRouter(cfg, db, nopNotifier{}, logger.NewLogger()), db
}

func testConfig() *infraconfig.Config {
	return &infraconfig.Config{
		Server: sharedconfig.ServerConfig{Mode: "test"},
		Auth: sharedconfig.AuthConfig{
			JWT: sharedconfig.JWTConfig{Secret: testSecret, Issuer: testIssuer},
		},
	}
}

func bearerToken(t *testing.T, userID uint) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iss":     testIssuer,
		"iat":     now.Unix(),
		"exp":     now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func seedCommunity(t *testing.T, db *gorm.DB, cost int) uint {
	t.Helper()
	model := &models.CommunityModel{
		Name:          "Go Study Circle",
		CreditsCost:   cost,
		CreditsPeriod: "monthly",
		IsActive:      true,
		AdminID:       99,
	}
	require.NoError(t, db.Create(model).Error)
	return model.ID
}

func doRequest(r *Router, method, path, authorization string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.Engine().ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	r, _ := setupRouter(t)

	w := doRequest(r, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ListCommunities_Public(t *testing.T) {
	r, db := setupRouter(t)
	seedCommunity(t, db, 20)

	w := doRequest(r, http.MethodGet, "/api/communities", "", "")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Data.Total)
}

func TestRouter_CreateCommunity(t *testing.T) {
	r, _ := setupRouter(t)
	token := bearerToken(t, 7)

	w := doRequest(r, http.MethodPost, "/api/communities", token,
		`{"name":"Woodworking Circle","description":"hand tools only","credits_cost":15,"credits_period":"monthly"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			ID          uint   `json:"id"`
			Name        string `json:"name"`
			CreditsCost int    `json:"credits_cost"`
			AdminID     uint   `json:"admin_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotZero(t, resp.Data.ID)
	assert.Equal(t, "Woodworking Circle", resp.Data.Name)
	assert.Equal(t, 15, resp.Data.CreditsCost)
	assert.Equal(t, uint(7), resp.Data.AdminID)

	// created community is publicly listed
	w = doRequest(r, http.MethodGet, "/api/communities", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Woodworking Circle")
}

func TestRouter_CreateCommunity_ValidationErrors(t *testing.T) {
	r, _ := setupRouter(t)
	token := bearerToken(t, 7)

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"credits_period":"monthly"}`},
		{"bad period", `{"name":"Chess Club","credits_period":"weekly"}`},
		{"negative cost", `{"name":"Chess Club","credits_cost":-5,"credits_period":"monthly"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, http.MethodPost, "/api/communities", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestRouter_Join_RequiresAuth(t *testing.T) {
	r, db := setupRouter(t)
	seedCommunity(t, db, 20)

	w := doRequest(r, http.MethodPost, "/api/communities/1/join", "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_JoinLeaveFlow(t *testing.T) {
	r, db := setupRouter(t)
	communityID := seedCommunity(t, db, 20)
	require.NoError(t, db.Create(&models.UserModel{ID: 10, Name: "member", Credits: 50}).Error)

	token := bearerToken(t, 10)

	w := doRequest(r, http.MethodPost, "/api/communities/1/join", token, `{"auto_renew":true}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var joinResp struct {
		Data struct {
			CommunityID uint `json:"community_id"`
			IsAutoRenew bool `json:"is_auto_renew"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &joinResp))
	assert.Equal(t, communityID, joinResp.Data.CommunityID)
	assert.True(t, joinResp.Data.IsAutoRenew)

	// joining again conflicts
	w = doRequest(r, http.MethodPost, "/api/communities/1/join", token, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	// membership shows up in the caller's list
	w = doRequest(r, http.MethodGet, "/api/memberships", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var listResp struct {
		Data struct {
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	assert.Equal(t, 1, listResp.Data.Total)

	w = doRequest(r, http.MethodPost, "/api/communities/1/leave", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	// leaving twice is a 404: no active membership remains
	w = doRequest(r, http.MethodPost, "/api/communities/1/leave", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_Join_InsufficientCredits(t *testing.T) {
	r, db := setupRouter(t)
	seedCommunity(t, db, 20)
	require.NoError(t, db.Create(&models.UserModel{ID: 10, Name: "member", Credits: 5}).Error)

	w := doRequest(r, http.MethodPost, "/api/communities/1/join", bearerToken(t, 10), "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient credits")
}

func TestRouter_Join_UnknownCommunity(t *testing.T) {
	r, db := setupRouter(t)
	require.NoError(t, db.Create(&models.UserModel{ID: 10, Name: "member", Credits: 50}).Error)

	w := doRequest(r, http.MethodPost, "/api/communities/42/join", bearerToken(t, 10), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}
