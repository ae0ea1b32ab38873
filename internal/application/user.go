package app

import (
	"context"

	"watermark-remover/internal/domain/entity"
	"watermark-remover/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.SetState(state)
	})
}

// Select запоминает выбранную стратегию и ждёт фото.
func (s *UserService) Select(ctx context.Context, userID, chatID int64, req entity.RemovalRequest) (*entity.User, error) {
	return s.update(ctx, userID, chatID, func(u *entity.User) {
		u.Pending = &req
		u.SetState(entity.StateAwaitingPhoto)
	})
}

// Cancel сбрасывает выбранную стратегию и возвращает в главное меню.
func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.update(ctx, userID, chatID, (*entity.User).Reset)
}

// Forget удаляет сессию пользователя целиком.
func (s *UserService) Forget(ctx context.Context, userID int64) error {
	return s.repo.Delete(ctx, userID)
}

func (s *UserService) update(ctx context.Context, userID, chatID int64, fn func(*entity.User)) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	fn(user)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
