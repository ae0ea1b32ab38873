package vision

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/rs/zerolog/log"

	"watermark-remover/internal/domain/entity"
	"watermark-remover/internal/domain/port"
)

// ErrGoCVDisabled возвращается движком OpenCV в сборке без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

// GoCVAvailable сообщает, собран ли движок OpenCV.
func GoCVAvailable() bool {
	return gocvEnabled
}

// NativeRemover движок на чистом Go. Не хранит состояния между вызовами,
// поэтому один экземпляр можно использовать из нескольких горутин.
type NativeRemover struct{}

// NewNativeRemover создаёт движок без зависимостей от OpenCV.
func NewNativeRemover() *NativeRemover {
	return &NativeRemover{}
}

// Remove декодирует изображение, удаляет водяной знак и возвращает PNG.
func (r *NativeRemover) Remove(ctx context.Context, imageData []byte, req entity.RemovalRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	img, err := Decode(imageData)
	if err != nil {
		return nil, err
	}

	out, _, err := r.Process(ctx, img, req)
	if err != nil {
		return nil, err
	}
	return Encode(out)
}

// Process выполняет стратегию над декодированным изображением.
// Возвращает результат и маску (nil для frequency).
func (r *NativeRemover) Process(ctx context.Context, img *image.NRGBA, req entity.RemovalRequest) (*image.NRGBA, *image.Gray, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	if req.Strategy == entity.StrategyFrequency {
		start := time.Now()
		out, err := FrequencyFilter(img)
		log.Debug().
			Int64("duration(ms)", time.Since(start).Milliseconds()).
			Str("strategy", string(req.Strategy)).
			Msg("frequency filter")
		return out, nil, err
	}

	start := time.Now()
	mask, err := r.BuildMask(img, req)
	if err != nil {
		return nil, nil, err
	}
	log.Debug().
		Int64("duration(ms)", time.Since(start).Milliseconds()).
		Str("strategy", string(req.Strategy)).
		Int("masked", countMasked(mask)).
		Msg("mask built")

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	start = time.Now()
	out, err := Inpaint(img, mask, req.Strategy.InpaintRadius())
	if err != nil {
		return nil, nil, err
	}
	log.Debug().
		Int64("duration(ms)", time.Since(start).Milliseconds()).
		Int("radius", req.Strategy.InpaintRadius()).
		Msg("inpaint")

	return out, mask, nil
}

// BuildMask строит маску для стратегий, которые восстанавливают изображение.
func (r *NativeRemover) BuildMask(img *image.NRGBA, req entity.RemovalRequest) (*image.Gray, error) {
	b := img.Bounds()
	switch req.Strategy {
	case entity.StrategyAuto:
		p := req.ThresholdOrDefault()
		raw := ThresholdMask(Luminance(img), uint8(p.Threshold))
		return Refine(raw, p.MinArea, p.MaxArea), nil

	case entity.StrategyColor:
		// цвет сам по себе достаточно точен, фильтр по площади не нужен
		raw := ColorRangeMask(img, *req.Color)
		return Dilate(CloseMask(raw), 1), nil

	case entity.StrategyRegion:
		return RectangleMask(b, *req.Region)

	case entity.StrategyMask:
		return DecodeMask(req.Mask, b.Dx(), b.Dy())
	}
	return nil, entity.InvalidArgument("method", string(req.Strategy), "strategy does not produce a mask")
}

func countMasked(mask *image.Gray) int {
	n := 0
	for _, v := range mask.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// Проверка реализации интерфейса
var _ port.WatermarkRemover = (*NativeRemover)(nil)
