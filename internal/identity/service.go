package identity

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/newsroute/newsroute-backend/pkg/enums"
	pkgerrors "github.com/newsroute/newsroute-backend/pkg/errors"
)

// Actor is a resolved identity: who is acting and which areas they may act
// in. Every other component consults the guard through this value instead of
// comparing role strings.
type Actor struct {
	ID      uuid.UUID
	Role    enums.UserRole
	AreaIDs []uuid.UUID
}

// CanAccessArea reports whether the area is inside the actor's resolved set.
func (a Actor) CanAccessArea(areaID uuid.UUID) bool {
	for _, id := range a.AreaIDs {
		if id == areaID {
			return true
		}
	}
	return false
}

// IsManager reports whether the actor carries the manager role.
func (a Actor) IsManager() bool {
	return a.Role == enums.UserRoleManager
}

// SystemActor builds a manager-scoped actor for unattended runs. The nil ID
// marks the run as machine-initiated in audit trails.
func SystemActor(areaIDs []uuid.UUID) *Actor {
	return &Actor{ID: uuid.Nil, Role: enums.UserRoleManager, AreaIDs: areaIDs}
}

// Service is the area authorization guard.
type Service interface {
	Resolve(ctx context.Context, userID uuid.UUID) (*Actor, error)
	Authorize(ctx context.Context, actor *Actor, areaID uuid.UUID) error
	ScopeAreas(ctx context.Context, actor *Actor, requested []uuid.UUID) ([]uuid.UUID, error)
}

type service struct {
	repo Repository
}

// NewService builds the guard with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("identity repository required")
	}
	return &service{repo: repo}, nil
}

// Resolve loads the user and materializes their area set by role. Inactive
// users resolve to nothing.
func (s *service) Resolve(ctx context.Context, userID uuid.UUID) (*Actor, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.Active {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "user is inactive")
	}

	actor := &Actor{ID: user.ID, Role: user.Role}

	switch user.Role {
	case enums.UserRoleManager:
		areas, err := s.repo.FindAreasByManager(ctx, user.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load managed areas")
		}
		for _, area := range areas {
			actor.AreaIDs = append(actor.AreaIDs, area.ID)
		}
	case enums.UserRoleDeliverer:
		areas, err := s.repo.FindAreasByDeliverer(ctx, user.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load delivery areas")
		}
		for _, area := range areas {
			actor.AreaIDs = append(actor.AreaIDs, area.ID)
		}
	case enums.UserRoleCustomer:
		areaIDs, err := s.repo.FindAreasByCustomer(ctx, user.ID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer areas")
		}
		actor.AreaIDs = areaIDs
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown role")
	}

	return actor, nil
}

// Authorize fails closed: no resolved membership means Forbidden.
func (s *service) Authorize(ctx context.Context, actor *Actor, areaID uuid.UUID) error {
	if actor == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if areaID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "area id required")
	}
	if !actor.CanAccessArea(areaID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "area outside actor scope")
	}
	return nil
}

// ScopeAreas narrows a run to the requested areas. Empty input means the
// actor's whole set; any requested area outside the set is Forbidden.
func (s *service) ScopeAreas(ctx context.Context, actor *Actor, requested []uuid.UUID) ([]uuid.UUID, error) {
	if actor == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(requested) == 0 {
		if len(actor.AreaIDs) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "actor has no areas")
		}
		return actor.AreaIDs, nil
	}
	for _, areaID := range requested {
		if err := s.Authorize(ctx, actor, areaID); err != nil {
			return nil, err
		}
	}
	return requested, nil
}
