package scope

import (
	"errors"
	"slices"
)

var (
	ErrNotFound = errors.New("scope not found")
	ErrInvalid  = errors.New("invalid scope")
)

// Type distinguishes one-person chats from shared group chats.
type Type string

const (
	TypePrivate Type = "PRIVATE"
	TypeGroup   Type = "GROUP"
)

func (t Type) Valid() bool {
	return t == TypePrivate || t == TypeGroup
}

// Scope is the accounting context bound to exactly one chat. ReportScopes,
// when set, lists the scopes whose transactions are merged into this
// scope's reports.
type Scope struct {
	ID           int64
	Type         Type
	ChatID       int64
	ReportScopes []int64
}

func (s *Scope) IsGroup() bool {
	return s.Type == TypeGroup
}

// Expand returns the scope ids whose transactions make up this scope's
// reports: the scope itself, or its configured report scopes verbatim.
func (s *Scope) Expand() []int64 {
	if len(s.ReportScopes) == 0 {
		return []int64{s.ID}
	}

	return slices.Clone(s.ReportScopes)
}
