//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"watermark-remover/internal/domain/entity"
)

func TestGoCVRemover_DisabledWithoutTag(t *testing.T) {
	require.False(t, GoCVAvailable())

	_, err := NewGoCVRemover().Remove(context.Background(), []byte("img"), entity.RemovalRequest{Strategy: entity.StrategyFrequency})
	require.ErrorIs(t, err, ErrGoCVDisabled)
}
