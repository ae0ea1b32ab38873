package vision

import (
	"fmt"
	"image"

	"watermark-remover/internal/domain/entity"
)

// RectangleMask строит маску из прямоугольника, обрезанного по границам изображения.
func RectangleMask(bounds image.Rectangle, region entity.Region) (*image.Gray, error) {
	w, h := bounds.Dx(), bounds.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))

	rect := region.Clip(mask.Rect)
	if rect.Empty() {
		return nil, entity.ComputationError(fmt.Sprintf("region %v does not intersect image %dx%d", region.Rect(), w, h))
	}

	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		row := mask.Pix[y*mask.Stride+rect.Min.X : y*mask.Stride+rect.Max.X]
		for x := range row {
			row[x] = 0xff
		}
	}
	return mask, nil
}
