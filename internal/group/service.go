package group

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Common errors
var (
	ErrGroupNotFound     = errors.New("group not found")
	ErrUnknownMember     = errors.New("user is not a known member")
	ErrCannotRemoveOwner = errors.New("cannot remove the group creator")
)

// UserDirectory is the slice of the user feature the group service needs.
type UserDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Service handles group business logic
type Service struct {
	repo  *Repository
	users UserDirectory
}

// NewService creates a new group service with dependencies injected
func NewService(repo *Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

// Create creates a group with the creator as its first member
func (s *Service) Create(ctx context.Context, creatorID string, req *CreateGroupRequest) (*Group, error) {
	if err := s.requireUser(ctx, creatorID); err != nil {
		return nil, err
	}

	g := &Group{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedBy: creatorID,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// GetByID retrieves a group with its members
func (s *Service) GetByID(ctx context.Context, id string) (*Group, error) {
	g, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGroupNotFound
	}
	return g, nil
}

// AddMember adds a known user to the group
func (s *Service) AddMember(ctx context.Context, groupID, userID string) (*Group, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.AddMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, groupID)
}

// RemoveMember removes a member; the creator cannot be removed
func (s *Service) RemoveMember(ctx context.Context, groupID, userID string) (*Group, error) {
	g, err := s.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if userID == g.CreatedBy {
		return nil, ErrCannotRemoveOwner
	}
	if err := s.repo.RemoveMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, groupID)
}

// MemberIDs returns the group's member ids in join order
func (s *Service) MemberIDs(ctx context.Context, groupID string) ([]string, error) {
	if _, err := s.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.repo.MemberIDs(ctx, groupID)
}

// ListByMember returns the groups a user belongs to
func (s *Service) ListByMember(ctx context.Context, userID string) ([]*Group, error) {
	return s.repo.ListByMember(ctx, userID)
}

func (s *Service) requireUser(ctx context.Context, id string) error {
	ok, err := s.users.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownMember
	}
	return nil
}
