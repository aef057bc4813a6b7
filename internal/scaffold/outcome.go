package scaffold

import "fmt"

// Status is the terminal state of one creation attempt.
type Status int

const (
	StatusCreated Status = iota + 1
	StatusAlreadyExists
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "created"
	case StatusAlreadyExists:
		return "already-exists"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of creating one vault entry. Reason is set only for
// StatusFailed.
type Outcome struct {
	Status Status
	Reason error
}

// Created reports a newly created entry.
func Created() Outcome { return Outcome{Status: StatusCreated} }

// AlreadyExists reports an entry that was left untouched.
func AlreadyExists() Outcome { return Outcome{Status: StatusAlreadyExists} }

// Failed reports a creation attempt rejected by the vault.
func Failed(reason error) Outcome { return Outcome{Status: StatusFailed, Reason: reason} }

func (o Outcome) String() string {
	if o.Status == StatusFailed && o.Reason != nil {
		return fmt.Sprintf("%s: %v", o.Status, o.Reason)
	}
	return o.Status.String()
}

// EntryKind distinguishes folder reports from document reports.
type EntryKind int

const (
	KindFolder EntryKind = iota + 1
	KindDocument
)

func (k EntryKind) String() string {
	if k == KindFolder {
		return "folder"
	}
	return "document"
}

// Report pairs an outcome with the entry it concerns.
type Report struct {
	Label   string
	Path    string
	Kind    EntryKind
	Outcome Outcome
	// Source is the template a created document was copied from; empty
	// when the default body was used or nothing was created.
	Source string
}

// Summary counts reports by status.
type Summary struct {
	Created       int
	AlreadyExists int
	Failed        int
}

// Summarize tallies reports.
func Summarize(reports []Report) Summary {
	var s Summary
	for _, r := range reports {
		switch r.Outcome.Status {
		case StatusCreated:
			s.Created++
		case StatusAlreadyExists:
			s.AlreadyExists++
		case StatusFailed:
			s.Failed++
		}
	}
	return s
}
