package port

import (
	"context"

	"watermark-remover/internal/domain/entity"
)

// UserRepository хранилище диалоговых сессий пользователей
type UserRepository interface {
	// Get возвращает копию сессии пользователя, создаёт новую если не найдена
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// Save сохраняет копию сессии
	Save(ctx context.Context, user *entity.User) error

	// Delete забывает сессию пользователя
	Delete(ctx context.Context, userID int64) error
}
