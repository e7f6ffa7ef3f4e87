// Package security implements the account lockout state machine as pure
// transition functions over the AccountSecurity entity. Keeping the rules out
// of the entity and out of the persistence layer makes them unit-testable and
// keeps the policy configuration explicit instead of hidden in shared state.
package security

import (
	"time"

	"taskflow/internal/domain/entity"
)

const (
	// DefaultMaxAttempts is the number of consecutive failures that locks an account.
	DefaultMaxAttempts = 4
	// DefaultLockDuration is how long an account stays locked once the threshold is hit.
	DefaultLockDuration = 2 * time.Minute
)

// Policy holds the process-wide lockout configuration. A Policy value is cheap
// and is rebuilt from configuration on every call site, so administrative
// changes apply without restarting and without relocking accounts that were
// already unlocked.
type Policy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// DefaultPolicy returns the policy used when no configuration is supplied.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, LockDuration: DefaultLockDuration}
}

// normalized guards against zero-valued configuration.
func (p Policy) normalized() Policy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.LockDuration <= 0 {
		p.LockDuration = DefaultLockDuration
	}

	return p
}

// RecordFailure registers a failed login attempt: it increments the counter,
// stamps the failure time, records the client ip/agent when supplied and locks
// the account once the attempt threshold is reached.
func (p Policy) RecordFailure(sec *entity.AccountSecurity, now time.Time, ip, userAgent string) {
	p = p.normalized()

	sec.FailedAttempts++
	failedAt := now
	sec.LastFailedLogin = &failedAt

	if ip != "" {
		sec.LastLoginIP = ip
	}
	if userAgent != "" {
		sec.LastLoginUserAgent = userAgent
	}

	if sec.FailedAttempts >= p.MaxAttempts {
		until := now.Add(p.LockDuration)
		sec.LockUntil = &until
	}
}

// RecordSuccess registers a successful login: counters and lock fields are
// reset regardless of prior failures, the login time is stamped and any
// supplied client descriptors are recorded.
func (p Policy) RecordSuccess(sec *entity.AccountSecurity, now time.Time, ip, userAgent string, device entity.DeviceInfo) {
	sec.FailedAttempts = 0
	sec.LockUntil = nil
	sec.LastFailedLogin = nil

	loginAt := now
	sec.LastLogin = &loginAt

	if ip != "" {
		sec.LastLoginIP = ip
	}
	if userAgent != "" {
		sec.LastLoginUserAgent = userAgent
	}
	if device.Browser != "" {
		sec.Browser = device.Browser
	}
	if device.OS != "" {
		sec.OS = device.OS
	}
	if device.DeviceType != "" {
		sec.DeviceType = device.DeviceType
	}
}

// IsLocked reports whether the account is currently locked. An expired lock is
// cleared in place (same effect as Unlock) and reported as not locked, so a
// login attempt against an expired lock is always allowed to proceed. Callers
// must persist the state afterwards so the read-triggered unlock is durable.
func (p Policy) IsLocked(sec *entity.AccountSecurity, now time.Time) bool {
	if sec.LockUntil == nil {
		return false
	}

	if !sec.LockUntil.After(now) {
		Unlock(sec)

		return false
	}

	return true
}

// Unlock resets the account to its initial unlocked state. This is both the
// auto-unlock path and the explicit administrative reset.
func Unlock(sec *entity.AccountSecurity) {
	sec.FailedAttempts = 0
	sec.LockUntil = nil
	sec.LastFailedLogin = nil
}

// RemainingAttempts returns how many more failures the account can absorb
// before locking, never going below zero.
func (p Policy) RemainingAttempts(sec *entity.AccountSecurity) int {
	p = p.normalized()

	remaining := p.MaxAttempts - sec.FailedAttempts
	if remaining < 0 {
		return 0
	}

	return remaining
}

// RemainingLockMinutes returns the minutes until the lock expires, rounded up,
// or zero when the account is not locked.
func RemainingLockMinutes(sec *entity.AccountSecurity, now time.Time) int {
	if sec.LockUntil == nil || !sec.LockUntil.After(now) {
		return 0
	}

	remaining := sec.LockUntil.Sub(now)
	minutes := int(remaining / time.Minute)
	if remaining%time.Minute != 0 {
		minutes++
	}

	return minutes
}
