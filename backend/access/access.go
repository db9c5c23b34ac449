// Package access decides what a principal may do inside a course.
//
// Every check is made at course granularity: operations on modules, topics,
// lessons and resources are first resolved upward to their owning course.
package access

import (
	"errors"

	"courseplatform/backend/models"
)

// Operation is the class of action requested on a course subtree.
type Operation int

const (
	// Read lists or fetches content in the admin view.
	Read Operation = iota
	// Write creates, updates or reorders content.
	Write
	// Delete removes a module, topic, lesson or resource.
	Delete
	// Manage changes course settings, staff or bulk-imports content.
	Manage
)

func (op Operation) String() string {
	switch op {
	case Read:
		return "read"
	case Write:
		return "write"
	case Delete:
		return "delete"
	case Manage:
		return "manage"
	default:
		return "unknown"
	}
}

type Decision int

const (
	Allow Decision = iota
	DenyNoAccess
	DenyInsufficientRole
)

var (
	ErrNoCourseAccess   = errors.New("no access to this course")
	ErrInsufficientRole = errors.New("insufficient course role for this operation")
)

// Err converts a decision into nil or one of the sentinel errors.
func (d Decision) Err() error {
	switch d {
	case Allow:
		return nil
	case DenyNoAccess:
		return ErrNoCourseAccess
	default:
		return ErrInsufficientRole
	}
}

// Decide is a pure function of the global role, the per-course staff role
// (empty when the user is not staff on the course) and the operation.
func Decide(globalRole, staffRole string, op Operation) Decision {
	if globalRole == models.RoleSuperAdmin {
		return Allow
	}

	switch staffRole {
	case models.StaffTeacher:
		return Allow
	case models.StaffAssistant:
		if op == Read || op == Write {
			return Allow
		}
		return DenyInsufficientRole
	default:
		return DenyNoAccess
	}
}

// IsDenied reports whether err is one of the access sentinels.
func IsDenied(err error) bool {
	return errors.Is(err, ErrNoCourseAccess) || errors.Is(err, ErrInsufficientRole)
}
