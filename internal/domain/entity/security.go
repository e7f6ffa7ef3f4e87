// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// AccountSecurity tracks per-account login security state: failed attempt
// counters, lock status and metadata about the last successful login.
// It is a plain data record; the transition rules live in the security package
// so the state machine can be tested without any persistence concerns.
type AccountSecurity struct {
	ID                 uuid.UUID  // The unique ID for this record.
	UserID             uuid.UUID  // Links this state to the User it belongs to (unique).
	FailedAttempts     int        // Consecutive failed login attempts since the last success.
	LockUntil          *time.Time // When set and in the future, the account is locked.
	LastLogin          *time.Time // Timestamp of the last successful login.
	LastFailedLogin    *time.Time // Timestamp of the last failed login attempt.
	LastLoginIP        string     // Client IP recorded on the last attempt.
	LastLoginUserAgent string     // Raw User-Agent recorded on the last attempt.
	DeviceType         string     // Parsed device descriptor, e.g. "desktop".
	Browser            string     // Parsed browser descriptor.
	OS                 string     // Parsed operating system descriptor.
	CreatedAt          time.Time  // Timestamp of when this record was created.
	UpdatedAt          time.Time  // Timestamp of the last modification.
}

// DeviceInfo carries the parsed client descriptors recorded on a successful
// login. All fields are opaque strings from the domain's perspective.
type DeviceInfo struct {
	Browser    string
	OS         string
	DeviceType string
}
