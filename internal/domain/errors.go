package domain

import (
	"errors"
	"fmt"
)

// Revision loading failures. NoParentRevision distinguishes "nothing to
// diff against" from a genuinely missing object.
var (
	ErrNotFound         = errors.New("object not found at revision")
	ErrNoParentRevision = errors.New("commit has no parent revision")
)

// ParseError reports a structural violation in a snapshot. Deck and GUID
// identify the offending element when known. Parse errors are fatal for
// the whole run.
type ParseError struct {
	Deck   string
	GUID   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Deck != "" {
		msg += " in deck " + e.Deck
	}
	if e.GUID != "" {
		msg += " at note " + e.GUID
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// MissingNoteModelError reports a note whose model reference cannot be
// resolved. Fatal for the whole run.
type MissingNoteModelError struct {
	GUID    string
	ModelID string
}

func (e *MissingNoteModelError) Error() string {
	return fmt.Sprintf("note %s references unknown note model %s", e.GUID, e.ModelID)
}
