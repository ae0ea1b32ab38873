package vision

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"watermark-remover/internal/domain/entity"
)

var darkGray = color.NRGBA{R: 64, G: 64, B: 64, A: 255}

// watermarked возвращает тёмно-серое изображение 200×100 с белой полосой 180×30 в (10,10).
func watermarked() (*image.NRGBA, image.Rectangle) {
	img := solidImage(200, 100, darkGray)
	rect := image.Rect(10, 10, 190, 40)
	fillRect(img, rect, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return img, rect
}

func TestNativeRemover_AutoEndToEnd(t *testing.T) {
	img, rect := watermarked()
	r := NewNativeRemover()

	out, mask, err := r.Process(context.Background(), img, entity.RemovalRequest{
		Strategy:  entity.StrategyAuto,
		Threshold: &entity.ThresholdParams{Threshold: 200, MinArea: 100, MaxArea: 50000},
	})
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), out.Bounds())

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			require.Equal(t, uint8(255), mask.GrayAt(x, y).Y, "mask %d,%d", x, y)
			require.Less(t, luma(out.NRGBAAt(x, y)), 200, "residual at %d,%d", x, y)
		}
	}

	// вне расширенной маски ничего не меняется
	grown := rect.Inset(-2)
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			if image.Pt(x, y).In(grown) {
				continue
			}
			require.Equal(t, uint8(0), mask.GrayAt(x, y).Y)
			require.Equal(t, darkGray, out.NRGBAAt(x, y))
		}
	}
}

func TestNativeRemover_AutoDefaults(t *testing.T) {
	img, _ := watermarked()
	data := encodePNG(t, img)

	got, err := NewNativeRemover().Remove(context.Background(), data, entity.RemovalRequest{Strategy: entity.StrategyAuto})
	require.NoError(t, err)

	out, err := Decode(got)
	require.NoError(t, err)
	require.Equal(t, darkGray, out.NRGBAAt(100, 25))
}

func TestNativeRemover_AutoEmptyMaskIsNoop(t *testing.T) {
	img := solidImage(60, 40, darkGray)
	out, mask, err := NewNativeRemover().Process(context.Background(), img, entity.RemovalRequest{Strategy: entity.StrategyAuto})
	require.NoError(t, err)
	require.Zero(t, masked(mask))
	require.Equal(t, img.Pix, out.Pix)
}

func TestNativeRemover_Region(t *testing.T) {
	bg := color.NRGBA{R: 30, G: 90, B: 150, A: 255}
	img := solidImage(80, 60, bg)
	fillRect(img, image.Rect(20, 20, 40, 30), color.NRGBA{R: 250, G: 10, B: 10, A: 255})
	region := entity.Region{X: 18, Y: 18, Width: 25, Height: 15}

	out, mask, err := NewNativeRemover().Process(context.Background(), img, entity.RemovalRequest{
		Strategy: entity.StrategyRegion,
		Region:   &region,
	})
	require.NoError(t, err)
	require.Equal(t, 25*15, masked(mask))

	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			if image.Pt(x, y).In(region.Rect()) {
				require.Equal(t, bg, out.NRGBAAt(x, y), "inside %d,%d", x, y)
				continue
			}
			require.Equal(t, img.NRGBAAt(x, y), out.NRGBAAt(x, y), "outside %d,%d", x, y)
		}
	}
}

func TestNativeRemover_RegionClipped(t *testing.T) {
	img := solidImage(50, 30, darkGray)
	region := entity.Region{X: 40, Y: 5, Width: 100, Height: 10}

	out, mask, err := NewNativeRemover().Process(context.Background(), img, entity.RemovalRequest{
		Strategy: entity.StrategyRegion,
		Region:   &region,
	})
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), out.Bounds())
	require.Equal(t, img.Bounds(), mask.Bounds())
	require.Equal(t, 10*10, masked(mask))
}

func TestNativeRemover_RegionOutside(t *testing.T) {
	img := solidImage(50, 30, darkGray)
	_, _, err := NewNativeRemover().Process(context.Background(), img, entity.RemovalRequest{
		Strategy: entity.StrategyRegion,
		Region:   &entity.Region{X: 100, Y: 100, Width: 10, Height: 10},
	})
	require.ErrorIs(t, err, entity.ErrComputation)
}

func TestNativeRemover_Color(t *testing.T) {
	img := solidImage(60, 40, darkGray)
	// светло-серая плашка
	fillRect(img, image.Rect(10, 10, 30, 20), color.NRGBA{R: 210, G: 210, B: 210, A: 255})
	rng := entity.ColorRange{Lower: entity.RGB{200, 200, 200}, Upper: entity.RGB{255, 255, 255}}

	out, mask, err := NewNativeRemover().Process(context.Background(), img, entity.RemovalRequest{
		Strategy: entity.StrategyColor,
		Color:    &rng,
	})
	require.NoError(t, err)
	// закрытие и одно расширение
	require.Equal(t, 22*12, masked(mask))
	require.Equal(t, darkGray, out.NRGBAAt(20, 15))
}

func TestNativeRemover_MaskStrategy(t *testing.T) {
	img, rect := watermarked()
	maskData := encodePNG(t, maskRect(100, 50, image.Rect(5, 5, 95, 20)))

	out, mask, err := NewNativeRemover().Process(context.Background(), img, entity.RemovalRequest{
		Strategy: entity.StrategyMask,
		Mask:     maskData,
	})
	require.NoError(t, err)
	require.Equal(t, img.Bounds(), mask.Bounds())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			require.Equal(t, darkGray, out.NRGBAAt(x, y))
		}
	}
}

func TestNativeRemover_Frequency(t *testing.T) {
	img := tiledImage(64, 48)
	r := NewNativeRemover()
	req := entity.RemovalRequest{Strategy: entity.StrategyFrequency}

	out, mask, err := r.Process(context.Background(), img, req)
	require.NoError(t, err)
	require.Nil(t, mask)

	direct, err := FrequencyFilter(img)
	require.NoError(t, err)
	require.Equal(t, direct.Pix, out.Pix)

	data := encodePNG(t, img)
	a, err := r.Remove(context.Background(), data, req)
	require.NoError(t, err)
	b, err := r.Remove(context.Background(), data, req)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestNativeRemover_Errors(t *testing.T) {
	r := NewNativeRemover()
	ctx := context.Background()

	_, err := r.Remove(ctx, []byte("nope"), entity.RemovalRequest{Strategy: entity.StrategyAuto})
	require.ErrorIs(t, err, entity.ErrDecode)

	img := encodePNG(t, solidImage(10, 10, darkGray))
	_, err = r.Remove(ctx, img, entity.RemovalRequest{Strategy: "smudge"})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)
	require.Contains(t, err.Error(), "smudge")

	_, err = r.Remove(ctx, img, entity.RemovalRequest{Strategy: entity.StrategyColor})
	require.ErrorIs(t, err, entity.ErrInvalidArgument)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = r.Remove(cancelled, img, entity.RemovalRequest{Strategy: entity.StrategyAuto})
	require.ErrorIs(t, err, context.Canceled)
}

func TestNativeRemover_Concurrent(t *testing.T) {
	img, _ := watermarked()
	data := encodePNG(t, img)
	r := NewNativeRemover()

	want, err := r.Remove(context.Background(), data, entity.RemovalRequest{Strategy: entity.StrategyAuto})
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = r.Remove(context.Background(), data, entity.RemovalRequest{Strategy: entity.StrategyAuto})
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		require.Equal(t, want, results[i])
	}
}
