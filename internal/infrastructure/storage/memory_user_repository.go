package storage

import (
	"context"
	"sync"

	"watermark-remover/internal/domain/entity"
	"watermark-remover/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище сессий.
// Наружу отдаются только копии, поэтому обработчики разных сообщений
// не делят одну структуру.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[int64]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает сессию по ID, создаёт новую если не найдена
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	user, exists := r.users[userID]
	r.mu.RUnlock()

	if exists {
		return cloneUser(user), nil
	}

	created := entity.NewUser(userID, chatID)

	r.mu.Lock()
	if existing, ok := r.users[userID]; ok {
		// кто-то успел создать сессию между блокировками
		r.mu.Unlock()
		return cloneUser(existing), nil
	}
	r.users[userID] = *cloneUser(*created)
	r.mu.Unlock()

	return created, nil
}

// Save сохраняет сессию пользователя
func (r *MemoryUserRepository) Save(ctx context.Context, user *entity.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	r.users[user.ID] = *cloneUser(*user)
	r.mu.Unlock()

	return nil
}

// Delete удаляет сессию пользователя
func (r *MemoryUserRepository) Delete(ctx context.Context, userID int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.users, userID)
	r.mu.Unlock()

	return nil
}

func cloneUser(u entity.User) *entity.User {
	out := u
	if u.Pending != nil {
		req := *u.Pending
		if req.Threshold != nil {
			p := *req.Threshold
			req.Threshold = &p
		}
		if req.Color != nil {
			c := *req.Color
			req.Color = &c
		}
		if req.Region != nil {
			reg := *req.Region
			req.Region = &reg
		}
		if req.Mask != nil {
			req.Mask = append([]byte(nil), req.Mask...)
		}
		out.Pending = &req
	}
	return &out
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
