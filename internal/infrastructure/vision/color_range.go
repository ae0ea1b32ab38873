package vision

import (
	"image"

	"watermark-remover/internal/domain/entity"
)

// ColorRangeMask отмечает пиксели, у которых каждый канал лежит в [Lower, Upper].
func ColorRangeMask(img *image.NRGBA, rng entity.ColorRange) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x := range dst {
			if rng.Contains(src[x*4], src[x*4+1], src[x*4+2]) {
				dst[x] = 0xff
			}
		}
	}
	return mask
}
