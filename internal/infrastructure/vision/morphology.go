package vision

import "image"

// Dilate расширяет маску квадратным ядром 3×3 заданное число раз.
// Пиксели за границей изображения не учитываются.
func Dilate(mask *image.Gray, iterations int) *image.Gray {
	out := copyMask(mask)
	for i := 0; i < iterations; i++ {
		out = morph3x3(out, true)
	}
	return out
}

// Erode сужает маску квадратным ядром 3×3 заданное число раз.
func Erode(mask *image.Gray, iterations int) *image.Gray {
	out := copyMask(mask)
	for i := 0; i < iterations; i++ {
		out = morph3x3(out, false)
	}
	return out
}

// CloseMask морфологическое закрытие (расширение, затем сужение).
// Склеивает близкие фрагменты одного символа.
func CloseMask(mask *image.Gray) *image.Gray {
	return Erode(Dilate(mask, 1), 1)
}

// OpenMask морфологическое открытие (сужение, затем расширение).
// Убирает одиночные шумовые пиксели.
func OpenMask(mask *image.Gray) *image.Gray {
	return Dilate(Erode(mask, 1), 1)
}

// Refine очищает маску порога: закрытие, открытие, фильтр компонент
// по площади (строго между minArea и maxArea) и расширение на 2 итерации,
// чтобы накрыть сглаженные края символов.
func Refine(mask *image.Gray, minArea, maxArea int) *image.Gray {
	m := OpenMask(CloseMask(mask))
	m = FilterComponents(m, minArea, maxArea)
	return Dilate(m, 2)
}

func morph3x3(src *image.Gray, dilate bool) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		y0, y1 := max(y-1, 0), min(y+1, h-1)
		for x := 0; x < w; x++ {
			x0, x1 := max(x-1, 0), min(x+1, w-1)
			v := src.Pix[y*src.Stride+x]
			for ky := y0; ky <= y1; ky++ {
				row := src.Pix[ky*src.Stride : ky*src.Stride+w]
				for kx := x0; kx <= x1; kx++ {
					if dilate && row[kx] > v {
						v = row[kx]
					} else if !dilate && row[kx] < v {
						v = row[kx]
					}
				}
			}
			dst.Pix[y*dst.Stride+x] = v
		}
	}
	return dst
}

func copyMask(mask *image.Gray) *image.Gray {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+w], mask.Pix[y*mask.Stride:y*mask.Stride+w])
	}
	return out
}
