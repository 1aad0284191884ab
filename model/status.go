package model

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusCreated  Status = "created"
	StatusApproved Status = "approved"
	StatusSent     Status = "sent"
	StatusSigned   Status = "signed"
	StatusLocked   Status = "locked"
	StatusRevoked  Status = "revoked"
)

// lifecycle is the only forward path a contract may take.
var lifecycle = []Status{StatusCreated, StatusApproved, StatusSent, StatusSigned, StatusLocked}

func (s Status) Valid() bool {
	return s == StatusRevoked || s.position() >= 0
}

func (s Status) position() int {
	for i, st := range lifecycle {
		if st == s {
			return i
		}
	}
	return -1
}

// Next is the status advance leads to. There is none from locked, revoked
// or an unknown status.
func (s Status) Next() (Status, bool) {
	i := s.position()
	if i < 0 || i == len(lifecycle)-1 {
		return "", false
	}
	return lifecycle[i+1], true
}

// CanRevoke reports whether the contract may still be revoked.
func (s Status) CanRevoke() bool {
	return s == StatusCreated || s == StatusSent
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusLocked || s == StatusRevoked
}

// Advance returns the next status in the lifecycle.
func (s Status) Advance() (Status, error) {
	next, ok := s.Next()
	if !ok {
		return s, fmt.Errorf("%w: cannot advance from %q", ErrTransition, s)
	}
	return next, nil
}

// Revoke returns StatusRevoked when s allows it.
func (s Status) Revoke() (Status, error) {
	if !s.CanRevoke() {
		return s, fmt.Errorf("%w: cannot revoke from %q", ErrTransition, s)
	}
	return StatusRevoked, nil
}

// TransitionTo checks that moving from s to to is a single legal step.
func (s Status) TransitionTo(to Status) error {
	if next, ok := s.Next(); ok && next == to {
		return nil
	}
	if to == StatusRevoked && s.CanRevoke() {
		return nil
	}
	return fmt.Errorf("%w: %q to %q", ErrTransition, s, to)
}

// Label is the display name of the status.
func (s Status) Label() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Bucket is the simplified status shown in list views.
type Bucket string

const (
	BucketActive  Bucket = "active"
	BucketPending Bucket = "pending"
	BucketSigned  Bucket = "signed"
	BucketRevoked Bucket = "revoked"
)

func (s Status) Bucket() Bucket {
	switch s {
	case StatusCreated, StatusApproved:
		return BucketActive
	case StatusSent:
		return BucketPending
	case StatusSigned, StatusLocked:
		return BucketSigned
	case StatusRevoked:
		return BucketRevoked
	}
	return ""
}

// Label is the display name of the bucket.
func (b Bucket) Label() string {
	if b == "" {
		return ""
	}
	return strings.ToUpper(string(b[:1])) + string(b[1:])
}
