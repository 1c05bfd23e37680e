// Package apitest provides an in-process stand-in for the Site Crawler
// API, used by the service tests. It speaks the same envelopes as the real
// backend and mints real HS256 bearer tokens so the client's auth paths
// are exercised end to end without a network.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jrsteele09/go-crawler-client/internal/utils"
	"github.com/jrsteele09/go-crawler-client/users"
)

// WebsiteCredential is the expected username/password pair for one portal
// website.
type WebsiteCredential struct {
	Username string
	Password string
}

// Backend simulates the Site Crawler API. Configure the exported fields
// before calling Start; the zero configuration from New covers the common
// happy path.
type Backend struct {
	Secret   []byte
	User     users.User
	Password string

	Websites      []map[string]any
	WebsiteCreds  map[string]WebsiteCredential
	Deals         map[string][]string
	PortalDeals   []map[string]any
	FileContents  string
	FileName      string
	TokenLifetime time.Duration

	// LoginDelay stalls the login endpoint, for timeout tests.
	LoginDelay time.Duration

	server   *httptest.Server
	mu       sync.Mutex
	requests map[string]int
}

// New returns a backend with one verified admin user (a@b.com / x) and two
// supported websites.
func New() *Backend {
	return &Backend{
		Secret:   []byte("apitest-secret"),
		User:     users.User{ID: 1, Name: "A", LastName: "B", Email: "a@b.com", Role: utils.Ptr("admin"), IsVerified: true},
		Password: "x",
		Websites: []map[string]any{
			{"id": 1, "website_id": "fo1", "name": "Forex Option 1", "url": "fo1.altius.finance", "active": true, "created_at": nil, "updated_at": nil},
			{"id": 2, "website_id": "fo2", "name": "Forex Option 2", "url": "fo2.altius.finance", "active": true, "created_at": nil, "updated_at": nil},
		},
		WebsiteCreds: map[string]WebsiteCredential{
			"fo1": {Username: "fo1_test_user@whatever.com", Password: "Test123!"},
		},
		Deals: map[string][]string{
			"fo1": {"EUR/USD - Long Position - Entry: 1.0850, Target: 1.0920"},
		},
		PortalDeals: []map[string]any{
			{
				"id": 10, "name": "Deal Ten", "category": "forex", "owner": "desk-1",
				"files": []map[string]any{
					{"id": 100, "name": "deal10.pdf", "download_url": "https://fo1.altius.finance/files/deal10.pdf"},
				},
			},
		},
		FileContents:  "deal file body",
		FileName:      "deal10.pdf",
		TokenLifetime: time.Hour,
		requests:      make(map[string]int),
	}
}

// Start spins up the HTTP test server.
func (b *Backend) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/login", b.handleLogin)
	mux.HandleFunc("GET /websites/user", b.handleWebsites)
	mux.HandleFunc("POST /credentials/submit", b.handleSubmit)
	mux.HandleFunc("GET /users", b.handleListUsers)
	mux.HandleFunc("GET /users/{id}", b.handleGetUser)
	mux.HandleFunc("PUT /users/{id}", b.handleUpdateUser)
	mux.HandleFunc("POST /users", b.handleCreateUser)
	mux.HandleFunc("DELETE /users/{id}", b.handleDeleteUser)
	mux.HandleFunc("POST /login", b.handlePortalLogin)
	mux.HandleFunc("GET /download", b.handleDownload)

	counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests[r.Method+" "+r.URL.Path]++
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	})
	b.server = httptest.NewServer(counted)
}

// URL returns the backend's base URL.
func (b *Backend) URL() string {
	return b.server.URL
}

// Close shuts the test server down.
func (b *Backend) Close() {
	b.server.Close()
}

// Requests reports how many requests hit the given "METHOD /path" route.
func (b *Backend) Requests(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[route]
}

// TotalRequests reports how many requests reached the backend at all.
func (b *Backend) TotalRequests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := 0
	for _, n := range b.requests {
		total += n
	}
	return total
}

// MintToken creates a signed bearer token for the configured user with the
// given lifetime. Negative lifetimes produce an already-expired token.
func (b *Backend) MintToken(lifetime time.Duration) string {
	claims := jwtlib.MapClaims{
		"sub":     strconv.Itoa(b.User.ID),
		"email":   b.User.Email,
		"user_id": b.User.ID,
		"role":    utils.Value(b.User.Role),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(lifetime).Unix(),
		"jti":     uuid.New().String(),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(b.Secret)
	if err != nil {
		panic("apitest: sign token: " + err.Error())
	}
	return token
}

func (b *Backend) authorize(w http.ResponseWriter, r *http.Request) bool {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return false
	}
	raw := strings.TrimPrefix(header, "Bearer ")
	_, err := jwtlib.Parse(raw, func(token *jwtlib.Token) (any, error) {
		if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return b.Secret, nil
	})
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "jwt expired")
		return false
	}
	return true
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	if b.LoginDelay > 0 {
		time.Sleep(b.LoginDelay)
	}

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Missing login fields")
		return
	}
	if req.Email != b.User.Email || req.Password != b.Password {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"message": "Invalid email or password",
		})
		return
	}

	data := userJSON(b.User)
	data["token"] = b.MintToken(b.TokenLifetime)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Login successful",
		"data":    data,
	})
}

func (b *Backend) handleWebsites(w http.ResponseWriter, r *http.Request) {
	if !b.authorize(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(b.Websites),
		"data":    b.Websites,
	})
}

func (b *Backend) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if !b.authorize(w, r) {
		return
	}

	var req struct {
		Website  string `json:"website"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	expected, ok := b.WebsiteCreds[req.Website]
	if !ok {
		writeDetail(w, http.StatusNotFound, fmt.Sprintf("Website '%s' not found", req.Website))
		return
	}
	if req.Username != expected.Username || req.Password != expected.Password {
		writeDetail(w, http.StatusUnauthorized, "Invalid username or password for this website")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Credentials submitted successfully",
		"token":   b.MintToken(b.TokenLifetime),
		"deals":   b.Deals[req.Website],
	})
}

func (b *Backend) handleListUsers(w http.ResponseWriter, r *http.Request) {
	if !b.authorize(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   1,
		"data":    []map[string]any{userJSON(b.User)},
	})
}

func (b *Backend) handleGetUser(w http.ResponseWriter, r *http.Request) {
	if !b.authorize(w, r) {
		return
	}
	if r.PathValue("id") != strconv.Itoa(b.User.ID) {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    userJSON(b.User),
	})
}

func (b *Backend) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	if !b.authorize(w, r) {
		return
	}
	if r.PathValue("id") != strconv.Itoa(b.User.ID) {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}

	var update users.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if update.Name != nil {
		b.User.Name = *update.Name
	}
	if update.LastName != nil {
		b.User.LastName = *update.LastName
	}
	if update.Email != nil {
		b.User.Email = *update.Email
	}
	if update.Role != nil {
		b.User.Role = update.Role
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User updated",
		"data":    userJSON(b.User),
	})
}

func (b *Backend) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	if !b.authorize(w, r) {
		return
	}
	var create users.Create
	if err := json.NewDecoder(r.Body).Decode(&create); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	created := users.User{
		ID:       b.User.ID + 1,
		Name:     create.Name,
		LastName: create.LastName,
		Email:    create.Email,
		Role:     create.Role,
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "User created",
		"data":    userJSON(created),
	})
}

func (b *Backend) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if !b.authorize(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "User deleted",
		"data":    userJSON(b.User),
	})
}

func (b *Backend) handlePortalLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Website  string `json:"website"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
		writeDetail(w, http.StatusBadRequest, "Missing login fields")
		return
	}

	expected, ok := b.WebsiteCreds[req.Website]
	if !ok {
		writeDetail(w, http.StatusBadRequest, fmt.Sprintf("Website '%s' is not supported", req.Website))
		return
	}
	if req.Username != expected.Username || req.Password != expected.Password {
		writeDetail(w, http.StatusUnauthorized, "Bad credentials")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session":    "active",
		"session_id": uuid.New().String(),
		"user":       map[string]any{"username": req.Username, "website": req.Website},
		"deals":      b.PortalDeals,
	})
}

func (b *Backend) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("url") == "" {
		writeDetail(w, http.StatusBadRequest, "Download URL is required")
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", b.FileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	_, _ = w.Write([]byte(b.FileContents))
}

func userJSON(u users.User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"name":        u.Name,
		"last_name":   u.LastName,
		"email":       u.Email,
		"role":        u.Role,
		"is_verified": u.IsVerified,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]any{"detail": detail})
}
