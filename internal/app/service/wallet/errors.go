package wallet

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrAlreadyApplied means a completed credit already exists for the
// reference. Callers acknowledge and skip rather than failing.
var ErrAlreadyApplied = errors.New("wallet credit already applied")

// ErrInvalidAmount means the net credit would be non-positive.
var ErrInvalidAmount = errors.New("invalid wallet credit amount")

// isDuplicateErr recognizes storage-level unique violations. A concurrent
// duplicate delivery loses the insert race and lands here; that is the
// "already applied" outcome, not a hard failure.
func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "SQLSTATE 23505")
}
