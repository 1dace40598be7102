package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/kosync/internal/entities"
)

func TestManageSettings(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := doJSON(router, http.MethodGet, "/manage/settings", nil, adminCreds)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "false", decode[map[string]string](t, w)[entities.SettingKeyRegistrationDisabled])

	w = doJSON(router, http.MethodPut, "/manage/settings",
		gin.H{entities.SettingKeyAdminEmail: "ops@example.com", "Motd": "hello"}, adminCreds)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Settings updated"}`, w.Body.String())

	values := decode[map[string]string](t, doJSON(router, http.MethodGet, "/manage/settings", nil, adminCreds))
	assert.Equal(t, "ops@example.com", values[entities.SettingKeyAdminEmail])
	assert.Equal(t, "hello", values["Motd"])

	w = doJSON(router, http.MethodPut, "/manage/settings", gin.H{" ": "x"}, adminCreds)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestManage_RequiresAdmin(t *testing.T) {
	router, _ := setupTestRouter(t)
	alice := createUser(t, router, "alice", "secret")

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/manage/settings"},
		{http.MethodPut, "/manage/settings"},
		{http.MethodGet, "/manage/users"},
		{http.MethodPost, "/manage/users"},
		{http.MethodPut, "/manage/users/active?username=alice"},
		{http.MethodPut, "/manage/users/password?username=alice"},
		{http.MethodGet, "/manage/audit"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := doJSON(router, route.method, route.path, gin.H{}, alice)
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			w = doJSON(router, route.method, route.path, gin.H{}, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestManageUsers(t *testing.T) {
	router, _ := setupTestRouter(t)
	alice := createUser(t, router, "alice", "secret")

	t.Run("list includes document counts", func(t *testing.T) {
		doJSON(router, http.MethodPut, "/syncs/progress", gin.H{"document": "abc123"}, alice)
		doJSON(router, http.MethodPut, "/syncs/progress", gin.H{"document": "def456"}, alice)

		w := doJSON(router, http.MethodGet, "/manage/users", nil, adminCreds)
		require.Equal(t, http.StatusOK, w.Code)

		summaries := decode[[]entities.UserSummary](t, w)
		counts := map[string]int64{}
		for _, s := range summaries {
			counts[s.Username] = s.DocumentCount
		}
		assert.Equal(t, map[string]int64{"admin": 0, "alice": 2}, counts)
	})

	t.Run("create duplicate", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/manage/users", gin.H{"username": "alice", "password": "x"}, adminCreds)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"User already exists"}`, w.Body.String())
	})

	t.Run("create without password", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/manage/users", gin.H{"username": "carol"}, adminCreds)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("toggle active twice", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/manage/users/active?username=alice", nil, adminCreds)
		assert.JSONEq(t, `{"message":"User marked as inactive"}`, w.Body.String())

		w = doJSON(router, http.MethodPut, "/manage/users/active?username=alice", nil, adminCreds)
		assert.JSONEq(t, `{"message":"User marked as active"}`, w.Body.String())
	})

	t.Run("admin account is protected", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/manage/users/active?username=admin", nil, adminCreds)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		w = doJSON(router, http.MethodPut, "/manage/users/password?username=admin", gin.H{"password": "x"}, adminCreds)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Cannot update admin user"}`, w.Body.String())
	})

	t.Run("unknown user", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/manage/users/active?username=ghost", nil, adminCreds)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"User does not exist"}`, w.Body.String())
	})

	t.Run("missing username", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/manage/users/active", nil, adminCreds)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"Username is required"}`, w.Body.String())
	})

	t.Run("reset password", func(t *testing.T) {
		w := doJSON(router, http.MethodPut, "/manage/users/password?username=alice", gin.H{"password": "reset"}, adminCreds)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Password changed successfully"}`, w.Body.String())

		assert.Equal(t, http.StatusOK, doJSON(router, http.MethodGet, "/users/auth", nil,
			&credentials{username: "alice", password: "reset"}).Code)
	})
}

func TestManageDocuments(t *testing.T) {
	router, _ := setupTestRouter(t)
	alice := createUser(t, router, "alice", "secret")
	bob := createUser(t, router, "bob", "secret")

	doJSON(router, http.MethodPut, "/syncs/progress", gin.H{"document": "abc123", "percentage": 0.3}, alice)

	w := doJSON(router, http.MethodGet, "/manage/users/documents?username=alice", nil, alice)
	require.Equal(t, http.StatusOK, w.Code)
	docs := decode[[]entities.Document](t, w)
	require.Len(t, docs, 1)
	assert.Equal(t, "abc123", docs[0].DocumentHash)

	w = doJSON(router, http.MethodGet, "/manage/users/documents?username=alice", nil, adminCreds)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodGet, "/manage/users/documents?username=alice", nil, bob)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/manage/users/documents?username=ALICE", nil, alice)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestManageDeleteUser(t *testing.T) {
	router, _ := setupTestRouter(t)
	alice := createUser(t, router, "alice", "secret")
	bob := createUser(t, router, "bob", "secret")

	t.Run("other users cannot delete", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/manage/users?username=alice", nil, bob)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("self delete removes progress", func(t *testing.T) {
		doJSON(router, http.MethodPut, "/syncs/progress", gin.H{"document": "abc123"}, alice)

		w := doJSON(router, http.MethodDelete, "/manage/users?username=alice", nil, alice)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Success"}`, w.Body.String())

		assert.Equal(t, http.StatusUnauthorized, doJSON(router, http.MethodGet, "/users/auth", nil, alice).Code)
	})

	t.Run("admin deletes missing user", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/manage/users?username=ghost", nil, adminCreds)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"message":"User does not exist"}`, w.Body.String())
	})

	t.Run("admin deletes another user", func(t *testing.T) {
		w := doJSON(router, http.MethodDelete, "/manage/users?username=bob", nil, adminCreds)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
