package service

import (
	"context"

	"github.com/and161185/nhh/internal/access"
	"github.com/and161185/nhh/internal/errs"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/repository"
)

// OfficerService exposes the officer directory.
type OfficerService interface {
	Me(ctx context.Context, v *model.Viewer) (model.PublicOfficer, error)
	List(ctx context.Context, v *model.Viewer) ([]model.PublicOfficer, error)
}

type OfficerServiceImpl struct {
	officers repository.OfficerRepository
}

// NewOfficerService constructs OfficerService.
func NewOfficerService(officers repository.OfficerRepository) *OfficerServiceImpl {
	return &OfficerServiceImpl{officers: officers}
}

func (s *OfficerServiceImpl) Me(ctx context.Context, v *model.Viewer) (model.PublicOfficer, error) {
	if v == nil {
		return model.PublicOfficer{}, errs.ErrUnauthenticated
	}
	o, err := s.officers.GetByID(ctx, v.ID)
	if err != nil {
		return model.PublicOfficer{}, err
	}
	return o.Public(), nil
}

// List is restricted to command.
func (s *OfficerServiceImpl) List(ctx context.Context, v *model.Viewer) ([]model.PublicOfficer, error) {
	if err := access.Require(v, access.OpListOfficers); err != nil {
		return nil, err
	}
	list, err := s.officers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.PublicOfficer, 0, len(list))
	for _, o := range list {
		out = append(out, o.Public())
	}
	return out, nil
}
