package vision

import "image"

// Luminance переводит изображение в оттенки серого по BT.601
// с теми же целочисленными коэффициентами, что и OpenCV.
func Luminance(img *image.NRGBA) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := img.Pix[y*img.Stride : y*img.Stride+w*4]
		dst := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x := range dst {
			r, g, bl := uint32(src[x*4]), uint32(src[x*4+1]), uint32(src[x*4+2])
			dst[x] = uint8((r*4899 + g*9617 + bl*1868 + 8192) >> 14)
		}
	}
	return gray
}

// ThresholdMask отмечает пиксели с яркостью >= threshold.
// Рассчитана на светлые текстовые водяные знаки.
func ThresholdMask(gray *image.Gray, threshold uint8) *image.Gray {
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		dst := mask.Pix[y*mask.Stride : y*mask.Stride+w]
		for x, v := range src {
			if v >= threshold {
				dst[x] = 0xff
			}
		}
	}
	return mask
}
