package favorite

import (
	"context"

	"github.com/dhis2-sre/campus-events/pkg/model"
)

//goland:noinspection GoExportedFuncWithUnexportedType
func NewService(repository favoriteRepository) *Service {
	return &Service{repository: repository}
}

type favoriteRepository interface {
	add(ctx context.Context, userId, eventId uint) error
	remove(ctx context.Context, userId, eventId uint) error
	findByUser(ctx context.Context, userId uint) ([]model.Event, error)
}

type Service struct {
	repository favoriteRepository
}

func (s Service) Add(ctx context.Context, user *model.User, eventId uint) error {
	return s.repository.add(ctx, user.ID, eventId)
}

func (s Service) Remove(ctx context.Context, user *model.User, eventId uint) error {
	return s.repository.remove(ctx, user.ID, eventId)
}

func (s Service) List(ctx context.Context, user *model.User) ([]model.Event, error) {
	return s.repository.findByUser(ctx, user.ID)
}
