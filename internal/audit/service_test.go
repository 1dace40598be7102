package audit

import (
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/kosync/internal/database/audit"
	"github.com/mrlokans/kosync/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// Single connection so every goroutine sees the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func findEvent(t *testing.T, db *gorm.DB, action string) entities.AuditEvent {
	t.Helper()
	var event entities.AuditEvent
	err := db.Where("action = ?", action).First(&event).Error
	require.NoError(t, err)
	return event
}

func TestService_LogAccount(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful change", func(t *testing.T) {
		svc.LogAccount("admin", "user_delete", "bob", "10.0.0.1", nil)
		svc.Wait()

		event := findEvent(t, db, "user_delete")
		assert.Equal(t, entities.AuditEventAccount, event.EventType)
		assert.Equal(t, entities.AuditStatusSuccess, event.Status)
		assert.Equal(t, "bob", event.Target)
		assert.Equal(t, "10.0.0.1", event.IPAddress)
		assert.Equal(t, "user delete: bob", event.Description)
	})

	t.Run("failed change", func(t *testing.T) {
		svc.LogAccount("admin", "password_reset", "admin", "", errors.New("protected account"))
		svc.Wait()

		event := findEvent(t, db, "password_reset")
		assert.Equal(t, entities.AuditStatusFailed, event.Status)
		assert.Contains(t, event.Description, "protected account")
	})
}

func TestService_LogRegistration(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogRegistration("alice", "1.1.1.1", nil)
	svc.Wait()

	event := findEvent(t, db, "user_register")
	assert.Equal(t, entities.AuditEventRegistration, event.EventType)
	assert.Equal(t, "alice", event.Actor)
	assert.Equal(t, entities.AuditStatusSuccess, event.Status)
}

func TestService_LogAuth(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogAuth("alice", "1.1.1.1", true)
	svc.LogAuth("alice", "1.1.1.1", false)
	svc.Wait()

	assert.Equal(t, entities.AuditStatusSuccess, findEvent(t, db, "login").Status)
	assert.Equal(t, entities.AuditStatusFailed, findEvent(t, db, "login_failed").Status)
}

func TestService_LogSettings(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogSettings("admin", "", map[string]string{"b": "secret", "a": "1"})
	svc.Wait()

	event := findEvent(t, db, "settings_update")
	assert.Equal(t, "a,b", event.Target)
	assert.NotContains(t, event.Description, "secret")
}

func TestService_NilIsNoop(t *testing.T) {
	var svc *Service

	assert.NotPanics(t, func() {
		svc.LogAccount("admin", "user_create", "alice", "", nil)
		svc.LogRegistration("alice", "", nil)
		svc.LogAuth("alice", "", false)
		svc.LogSettings("admin", "", map[string]string{"a": "1"})
		svc.Wait()
	})
}

func TestService_Events(t *testing.T) {
	svc, _ := setupTestService(t)

	for i := 0; i < 3; i++ {
		svc.LogAccount("admin", "user_create", "user", "", nil)
	}
	svc.LogAuth("alice", "", false)
	svc.Wait()

	events, total, err := svc.Events(auditRepo.Filter{Actor: "admin", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, events, 2)

	events, total, err = svc.Events(auditRepo.Filter{EventType: entities.AuditEventAuth})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "login_failed", events[0].Action)
}

func TestService_PruneBefore(t *testing.T) {
	svc, db := setupTestService(t)

	old := &entities.AuditEvent{
		Actor:     "admin",
		EventType: entities.AuditEventAccount,
		Action:    "old_event",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}
	require.NoError(t, db.Create(old).Error)

	svc.LogAccount("admin", "recent_event", "alice", "", nil)
	svc.Wait()

	deleted, err := svc.PruneBefore(time.Now().UTC().Add(-24 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	var count int64
	db.Model(&entities.AuditEvent{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestService_NilReads(t *testing.T) {
	var svc *Service

	_, _, err := svc.Events(auditRepo.Filter{})
	assert.ErrorIs(t, err, ErrDisabled)

	_, err = svc.PruneBefore(time.Now())
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestService_BoundsLongValues(t *testing.T) {
	svc, db := setupTestService(t)

	name := strings.Repeat("ü", 300)
	svc.LogAuth(name, "10.0.0.1", false)
	svc.Wait()

	event := findEvent(t, db, "login_failed")
	assert.True(t, utf8.ValidString(event.Actor))
	assert.Equal(t, maxNameLength, utf8.RuneCountInString(event.Actor))
	assert.Equal(t, maxNameLength, utf8.RuneCountInString(event.Target))
	assert.True(t, strings.HasSuffix(event.Actor, "..."))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate(strings.Repeat("abcdefg", 3), 10))

	// Cuts between runes, never inside one
	cut := truncate(strings.Repeat("日本", 10), 7)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, "日本日本...", cut)
}
