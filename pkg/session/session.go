// Package session persists image-usage sessions between compositions.
//
// A session holds the explicit repetition counters ([collage.Usage]) that the
// placement planner consults when an image may only be reused a limited number
// of times. Counters live in a session object owned by the caller, never in
// package state, so two sessions never interfere.
//
// Backends:
//   - memory: in-process storage for the API server and tests
//   - file: JSON files for CLI applications
//
// # Usage
//
//	store, err := session.NewFileStore("")  // Uses ~/.config/assemblage/sessions/
//	sess, err := session.New(3, session.DefaultTTL)
//	opts.Usage = sess.Usage
//	// ... compose ...
//	store.Set(ctx, sess)
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/assemblage/pkg/collage"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("expired")
)

// Session stores the image-usage counters of a series of compositions.
type Session struct {
	ID           string         `json:"id"`
	Usage        *collage.Usage `json:"usage"`
	Compositions int            `json:"compositions"`
	ExpiresAt    time.Time      `json:"expires_at"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch records one more composition and pushes the expiry out by ttl.
func (s *Session) Touch(ttl time.Duration) {
	now := time.Now()
	s.Compositions++
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Reset clears the usage counters and the composition count.
func (s *Session) Reset() {
	if s.Usage == nil {
		s.Usage = collage.NewUsage(0)
	}
	s.Usage.Reset()
	s.Compositions = 0
	s.UpdatedAt = time.Now()
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions.
	Cleanup(ctx context.Context) error
}

// DefaultTTL is the default session duration.
const DefaultTTL = 30 * 24 * time.Hour

// GenerateID returns a random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// New creates a session with empty counters capped at maxRepeats uses per
// image (zero for unlimited).
func New(maxRepeats int, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        GenerateID(),
		Usage:     collage.NewUsage(maxRepeats),
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
