package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/kosync/internal/accounts"
	"github.com/mrlokans/kosync/internal/auth"
	"github.com/mrlokans/kosync/internal/config"
	"github.com/mrlokans/kosync/internal/database"
	"github.com/mrlokans/kosync/internal/database/settings"
	syncrepo "github.com/mrlokans/kosync/internal/database/sync"
	"github.com/mrlokans/kosync/internal/database/users"
	"github.com/mrlokans/kosync/internal/progress"
	"github.com/mrlokans/kosync/internal/settingsstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const adminPassword = "admin-secret"

// routerConfigFor wires the services over an open gorm connection.
func routerConfigFor(gdb *gorm.DB) RouterConfig {
	keys := auth.PlainKeys{}
	userRepo := users.NewRepository(gdb)
	progressRepo := syncrepo.NewRepository(gdb)
	store := settingsstore.New(settings.NewRepository(gdb))

	return RouterConfig{
		Accounts:      accounts.NewService(userRepo, progressRepo, store, keys, accounts.Options{}),
		Progress:      progress.NewService(progressRepo),
		Settings:      store,
		Authenticator: auth.NewAuthenticator(userRepo, keys),
		Version:       "test",
	}
}

func setupTestRouter(t *testing.T, mutate ...func(*RouterConfig)) (*gin.Engine, *database.Database) {
	t.Helper()

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(config.Database{
		Driver:   config.DatabaseDriverSQLite,
		Path:     dbPath,
		LogLevel: "silent",
	})
	require.NoError(t, err)
	require.NoError(t, db.EnsureDefaults(config.Bootstrap{}, auth.HashPassword(adminPassword), auth.PlainKeys{}))

	t.Cleanup(func() {
		db.Close()
		os.Remove(dbPath)
	})

	cfg := routerConfigFor(db.DB)
	cfg.Database = db
	for _, m := range mutate {
		m(&cfg)
	}

	router, err := NewRouter(cfg)
	require.NoError(t, err)
	return router, db
}

type credentials struct {
	username string
	password string
}

var adminCreds = &credentials{username: "admin", password: adminPassword}

func doJSON(router *gin.Engine, method, path string, body any, creds *credentials) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, _ := json.Marshal(b)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if creds != nil {
		req.Header.Set(auth.HeaderUser, creds.username)
		req.Header.Set(auth.HeaderKey, auth.HashPassword(creds.password))
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// createUser registers an account through the management API.
func createUser(t *testing.T, router *gin.Engine, username, password string) *credentials {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/manage/users", gin.H{"username": username, "password": password}, adminCreds)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return &credentials{username: username, password: password}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
