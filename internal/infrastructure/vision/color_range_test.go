package vision

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"watermark-remover/internal/domain/entity"
)

func TestColorRangeMask_OutsideNeverMasked(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: uint8((x + y) * 4), A: 255})
		}
	}
	rng := entity.ColorRange{Lower: entity.RGB{64, 64, 0}, Upper: entity.RGB{128, 200, 255}}

	mask := ColorRangeMask(img, rng)
	inside := 0
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			c := img.NRGBAAt(x, y)
			if rng.Contains(c.R, c.G, c.B) {
				inside++
				require.Equal(t, uint8(255), mask.GrayAt(x, y).Y)
			} else {
				require.Equal(t, uint8(0), mask.GrayAt(x, y).Y)
			}
		}
	}
	require.Positive(t, inside)
}

func TestColorRangeMask_InclusiveBounds(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{R: 199, G: 255, B: 255, A: 255})

	rng := entity.ColorRange{Lower: entity.RGB{200, 200, 200}, Upper: entity.RGB{255, 255, 255}}
	require.Equal(t, []uint8{255, 255, 0}, ColorRangeMask(img, rng).Pix)
}
