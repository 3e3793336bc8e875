package naming

import (
	"errors"
	"fmt"
)

// Renaming failures. All of them indicate a broken configuration or a
// caller bug and are not meant to be shown to contract authors.
var (
	ErrUnrecognizedName   = errors.New("name matches no known category")
	ErrProhibitedCategory = errors.New("class category is prohibited")
	ErrAmbiguousName      = errors.New("name has no unambiguous pre-rename form")
	ErrInvalidName        = errors.New("malformed class name")
)

// RenameError describes a failed rename.
type RenameError struct {
	Op       string // "toPostRename", "toPreRename", ...
	Name     string
	Category ClassCategory // meaningful for ErrProhibitedCategory
	Err      error         // one of the sentinels above
	Detail   string
}

// Error implements error.
func (e *RenameError) Error() string {
	msg := fmt.Sprintf("naming: %s %q: %v", e.Op, e.Name, e.Err)
	if errors.Is(e.Err, ErrProhibitedCategory) {
		msg += " (" + e.Category.String() + ")"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the sentinel.
func (e *RenameError) Unwrap() error { return e.Err }

func prohibited(op, name string, c ClassCategory) error {
	return &RenameError{Op: op, Name: name, Category: c, Err: ErrProhibitedCategory}
}

func unrecognized(op, name string) error {
	return &RenameError{Op: op, Name: name, Err: ErrUnrecognizedName}
}

func invalid(op, name, detail string) error {
	return &RenameError{Op: op, Name: name, Err: ErrInvalidName, Detail: detail}
}
