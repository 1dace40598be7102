package audit

import (
	"errors"
	"log"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mrlokans/kosync/internal/database/audit"
	"github.com/mrlokans/kosync/internal/entities"
)

// ErrDisabled is returned by read operations when the audit trail is off.
var ErrDisabled = errors.New("audit trail is disabled")

// Column bounds of entities.AuditEvent, in characters.
const (
	maxNameLength        = 255
	maxIPLength          = 45
	maxDescriptionLength = 500
)

// Service records account, registration, login and settings events.
// A nil *Service is valid and records nothing, which is how AUDIT_ENABLED=false
// is wired.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	if s == nil {
		return
	}
	event.Actor = truncate(event.Actor, maxNameLength)
	event.Target = truncate(event.Target, maxNameLength)
	event.IPAddress = truncate(event.IPAddress, maxIPLength)
	event.Description = truncate(event.Description, maxDescriptionLength)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.Record(event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every LogAsync write has finished.
func (s *Service) Wait() {
	if s == nil {
		return
	}
	s.pending.Wait()
}

// LogAccount records an administrative or self-service account change.
func (s *Service) LogAccount(actor, action, target, ipAddr string, err error) {
	event := &entities.AuditEvent{
		Actor:       actor,
		EventType:   entities.AuditEventAccount,
		Action:      action,
		Target:      target,
		Description: strings.ReplaceAll(action, "_", " ") + ": " + target,
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.Description += " (" + err.Error() + ")"
	}

	s.LogAsync(event)
}

// LogRegistration records a public registration attempt.
func (s *Service) LogRegistration(username, ipAddr string, err error) {
	event := &entities.AuditEvent{
		Actor:       username,
		EventType:   entities.AuditEventRegistration,
		Action:      "user_register",
		Target:      username,
		Description: "Registered account " + username,
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	}

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.Description = "Registration rejected: " + err.Error()
	}

	s.LogAsync(event)
}

// LogAuth records a credential check on /users/auth.
func (s *Service) LogAuth(username, ipAddr string, success bool) {
	event := &entities.AuditEvent{
		Actor:     username,
		EventType: entities.AuditEventAuth,
		Action:    "login",
		Target:    username,
		IPAddress: ipAddr,
		Status:    entities.AuditStatusSuccess,
	}

	if !success {
		event.Status = entities.AuditStatusFailed
		event.Action = "login_failed"
	}

	s.LogAsync(event)
}

// LogSettings records a settings update; only the keys are stored.
func (s *Service) LogSettings(actor, ipAddr string, values map[string]string) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	event := &entities.AuditEvent{
		Actor:       actor,
		EventType:   entities.AuditEventSettings,
		Action:      "settings_update",
		Target:      strings.Join(keys, ","),
		Description: "Updated settings",
		IPAddress:   ipAddr,
		Status:      entities.AuditStatusSuccess,
	}

	s.LogAsync(event)
}

// Events returns one page of recorded events, newest first, with the total
// number of matches.
func (s *Service) Events(filter audit.Filter) ([]entities.AuditEvent, int64, error) {
	if s == nil {
		return nil, 0, ErrDisabled
	}
	return s.repo.Find(filter)
}

// PruneBefore deletes events recorded before cutoff.
func (s *Service) PruneBefore(cutoff time.Time) (int64, error) {
	if s == nil {
		return 0, ErrDisabled
	}
	return s.repo.DeleteBefore(cutoff)
}

// truncate shortens s to at most maxLen characters, cutting on a rune
// boundary and marking the cut with "...".
func truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
