package users

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/kosync/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := "./test_users_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{}, &entities.Document{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, db, cleanup
}

func TestRepository_CreateUser(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := entities.NewUser("alice", "digest")
	err := repo.CreateUser(user)

	require.NoError(t, err)
	assert.NotZero(t, user.ID)

	stored, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.True(t, stored.IsActive)
	assert.False(t, stored.IsAdministrator)
}

func TestRepository_CreateUser_InactiveSurvives(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := entities.NewUser("bob", "digest")
	user.IsActive = false
	require.NoError(t, repo.CreateUser(user))

	stored, err := repo.GetUserByUsername("bob")
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestRepository_CreateUser_DuplicateUsername(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.CreateUser(entities.NewUser("alice", "one")))

	err := repo.CreateUser(entities.NewUser("alice", "two"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestRepository_GetUserByUsername_CaseSensitive(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.CreateUser(entities.NewUser("Alice", "digest")))

	_, err := repo.GetUserByUsername("alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	user, err := repo.GetUserByUsername("Alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Username)
}

func TestRepository_UsernameExists(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, repo.CreateUser(entities.NewUser("alice", "digest")))

	exists, err := repo.UsernameExists("alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.UsernameExists("nobody")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepository_ListUsers_CountsDocuments(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	alice := entities.NewUser("alice", "digest")
	require.NoError(t, repo.CreateUser(alice))
	bob := entities.NewUser("bob", "digest")
	bob.IsAdministrator = true
	require.NoError(t, repo.CreateUser(bob))

	now := time.Now()
	require.NoError(t, db.Create(&entities.Document{UserID: alice.ID, DocumentHash: "a", Timestamp: now}).Error)
	require.NoError(t, db.Create(&entities.Document{UserID: alice.ID, DocumentHash: "b", Timestamp: now}).Error)

	summaries, err := repo.ListUsers()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "alice", summaries[0].Username)
	assert.Equal(t, int64(2), summaries[0].DocumentCount)
	assert.True(t, summaries[0].IsActive)
	assert.Equal(t, "bob", summaries[1].Username)
	assert.Equal(t, int64(0), summaries[1].DocumentCount)
	assert.True(t, summaries[1].IsAdministrator)
}

func TestRepository_ListUsers_Empty(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	summaries, err := repo.ListUsers()
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestRepository_UpdateUser(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := entities.NewUser("alice", "old")
	require.NoError(t, repo.CreateUser(user))

	user.PasswordHash = "new"
	user.IsActive = false
	prefs := `{"font":"serif"}`
	user.Preferences = &prefs
	require.NoError(t, repo.UpdateUser(user))

	stored, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", stored.PasswordHash)
	assert.False(t, stored.IsActive)
	require.NotNil(t, stored.Preferences)
	assert.Equal(t, prefs, *stored.Preferences)
}

func TestRepository_DeleteUser_RemovesDocuments(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	user := entities.NewUser("alice", "digest")
	require.NoError(t, repo.CreateUser(user))
	require.NoError(t, db.Create(&entities.Document{UserID: user.ID, DocumentHash: "a", Timestamp: time.Now()}).Error)

	require.NoError(t, repo.DeleteUser(user.ID))

	_, err := repo.GetUserByID(user.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&entities.Document{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRepository_DeleteUser_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	err := repo.DeleteUser(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteUser_FreesUsername(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	user := entities.NewUser("alice", "digest")
	require.NoError(t, repo.CreateUser(user))
	require.NoError(t, repo.DeleteUser(user.ID))

	assert.NoError(t, repo.CreateUser(entities.NewUser("alice", "digest")))
}
