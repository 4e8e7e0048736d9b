// Package parser normalizes raw provider entries into snapshot rows.
// Parsing is per-entry fault tolerant: a malformed or incomplete entry is
// rejected with a reason and the rest of the payload survives.
package parser

// Rejection reasons, used as metric labels.
const (
	ReasonMalformedEntry = "malformed_entry"
	ReasonMissingName    = "missing_name"
	ReasonMissingValue   = "missing_value"
	ReasonNegativeValue  = "negative_value"
)

// Rejection records one entry that could not be normalized.
type Rejection struct {
	// Index is the entry's position in the source payload.
	Index int
	// Name identifies the entry when it could be read, "" otherwise.
	Name string
	// Reason is one of the Reason* constants.
	Reason string
}
