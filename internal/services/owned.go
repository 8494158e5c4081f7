package services

import (
	"context"

	"finance/internal/auth"
	"finance/internal/core"
)

// Store is the row-level persistence an Owned service drives.
type Store[T any] interface {
	Insert(ctx context.Context, row *T) error
	Get(ctx context.Context, id int64) (*T, error)
	Update(ctx context.Context, row *T) error
	Delete(ctx context.Context, id int64) error
}

// Record is satisfied by pointers to owned domain entities.
type Record[T any] interface {
	*T
	Owner() string
	AssignOwner(userID string)
	Validate() error
	Merge(from *T)
}

// Owned applies the ownership protocol to one resource type: the caller's
// principal becomes the owner on create, and update or delete of another
// user's row fails with core.ErrForbidden.
type Owned[T any, P Record[T]] struct {
	store Store[T]
}

func NewOwned[T any, P Record[T]](store Store[T]) *Owned[T, P] {
	return &Owned[T, P]{store: store}
}

// Create stores a new row owned by the principal. Only the mutable fields
// of in are used; any id or owner sent by the client is ignored.
func (s *Owned[T, P]) Create(ctx context.Context, in *T) (*T, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	var row T
	P(&row).Merge(in)
	P(&row).AssignOwner(user.ID)
	if err := P(&row).Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Insert(ctx, &row); err != nil {
		return nil, err
	}
	return &row, nil
}

// Update replaces the mutable fields of the principal's row id with those
// of patch.
func (s *Owned[T, P]) Update(ctx context.Context, id int64, patch *T) (*T, error) {
	row, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}

	P(row).Merge(patch)
	if err := P(row).Validate(); err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// Delete removes the principal's row id.
func (s *Owned[T, P]) Delete(ctx context.Context, id int64) error {
	if _, err := s.owned(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// owned loads row id and checks it belongs to the principal.
func (s *Owned[T, P]) owned(ctx context.Context, id int64) (*T, error) {
	user, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	row, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if P(row).Owner() != user.ID {
		return nil, core.ErrForbidden
	}
	return row, nil
}
