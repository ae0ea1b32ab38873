package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"watermark-remover/internal/domain/entity"
)

func TestMemoryUserRepository_GetCreatesUser(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, int64(10), user.ChatID)
}

func TestMemoryUserRepository_SaveStoresCopy(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)

	user.SetState(entity.StateAwaitingPhoto)
	user.Pending = &entity.RemovalRequest{
		Strategy: entity.StrategyRegion,
		Region:   &entity.Region{X: 1, Y: 2, Width: 3, Height: 4},
	}
	require.NoError(t, repo.Save(ctx, user))

	// изменение после сохранения не должно попасть в хранилище
	user.Pending.Region.Width = 99
	user.SetState(entity.StateProcessing)

	stored, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, stored.State)
	require.Equal(t, 3, stored.Pending.Region.Width)
}

func TestMemoryUserRepository_Delete(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	user, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	user.Pending = &entity.RemovalRequest{Strategy: entity.StrategyFrequency}
	user.SetState(entity.StateAwaitingPhoto)
	require.NoError(t, repo.Save(ctx, user))

	require.NoError(t, repo.Delete(ctx, 1))

	// после удаления создаётся новая сессия
	fresh, err := repo.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, fresh.State)
	require.Nil(t, fresh.Pending)
}

func TestMemoryUserRepository_CancelledContext(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Get(ctx, 1, 10)
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoryUserRepository_Concurrent(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			u, err := repo.Get(ctx, id%5, 1)
			require.NoError(t, err)
			u.SetState(entity.StateAwaitingPhoto)
			require.NoError(t, repo.Save(ctx, u))
		}(int64(i))
	}
	wg.Wait()

	for id := int64(0); id < 5; id++ {
		u, err := repo.Get(ctx, id, 1)
		require.NoError(t, err)
		require.Equal(t, entity.StateAwaitingPhoto, u.State)
	}
}
