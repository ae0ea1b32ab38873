package port

import (
	"context"

	"watermark-remover/internal/domain/entity"
)

// WatermarkRemover интерфейс движка удаления водяных знаков
type WatermarkRemover interface {
	// Remove декодирует изображение, применяет стратегию из запроса и возвращает PNG
	Remove(ctx context.Context, imageData []byte, req entity.RemovalRequest) ([]byte, error)
}
