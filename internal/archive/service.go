package archive

import (
	"context"
	"fmt"

	pkgerrors "stockroom-backend/pkg/errors"
)

// Service exposes read access to commit archives.
type Service interface {
	ListByUser(ctx context.Context, userID int64) ([]ListDTO, error)
	UsersWithArchives(ctx context.Context) ([]int64, error)
}

type service struct {
	repo *Repository
}

// NewService constructs an archive service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("archive repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListByUser(ctx context.Context, userID int64) ([]ListDTO, error) {
	lists, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading archives")
	}
	out := make([]ListDTO, 0, len(lists))
	for _, list := range lists {
		out = append(out, listFromModel(list))
	}
	return out, nil
}

func (s *service) UsersWithArchives(ctx context.Context) ([]int64, error) {
	ids, err := s.repo.UsersWithArchives(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading archive owners")
	}
	return ids, nil
}
