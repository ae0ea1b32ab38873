//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"watermark-remover/internal/domain/entity"
	"watermark-remover/internal/domain/port"
)

const gocvEnabled = false

// GoCVRemover заглушка движка OpenCV.
type GoCVRemover struct{}

// NewGoCVRemover создаёт движок-заглушку (без OpenCV).
func NewGoCVRemover() *GoCVRemover {
	return &GoCVRemover{}
}

// Remove возвращает ошибку, если сборка без тега gocv.
func (r *GoCVRemover) Remove(_ context.Context, _ []byte, _ entity.RemovalRequest) ([]byte, error) {
	return nil, ErrGoCVDisabled
}

var _ port.WatermarkRemover = (*GoCVRemover)(nil)
