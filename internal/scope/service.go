package scope

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=scope
type Repository interface {
	GetByChatID(ctx context.Context, chatID int64) (*Scope, error)
	CreateScope(ctx context.Context, s *Scope) error
	UpdateReportScopes(ctx context.Context, id int64, reportScopes []int64) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ResolveByChat returns the scope bound to chatID, or ErrNotFound.
func (s *Service) ResolveByChat(ctx context.Context, chatID int64) (*Scope, error) {
	sc, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("resolving scope for chat %d: %w", chatID, err)
	}

	return sc, nil
}

// Expand is the read-side id set for sc; see Scope.Expand.
func (s *Service) Expand(sc *Scope) []int64 {
	return sc.Expand()
}

func (s *Service) Provision(ctx context.Context, chatID int64, typ Type) (*Scope, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalid, typ)
	}

	sc := &Scope{Type: typ, ChatID: chatID}
	if err := s.repo.CreateScope(ctx, sc); err != nil {
		return nil, err
	}

	return sc, nil
}

// SetReportScopes replaces the report scope set of scope id. An empty set
// makes the scope report on itself again.
func (s *Service) SetReportScopes(ctx context.Context, id int64, reportScopes []int64) error {
	return s.repo.UpdateReportScopes(ctx, id, reportScopes)
}
