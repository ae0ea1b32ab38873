package vision

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"watermark-remover/internal/domain/entity"
)

// Decode превращает байты изображения в NRGBA с началом координат в (0,0).
// Альфа-канал отбрасывается, как при цветном чтении в OpenCV.
func Decode(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, &entity.ParamError{Kind: entity.ErrDecode, Param: "image", Reason: "empty input"}
	}
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &entity.ParamError{Kind: entity.ErrDecode, Param: "image", Reason: err.Error()}
	}
	if src.Bounds().Empty() {
		return nil, &entity.ParamError{Kind: entity.ErrDecode, Param: "image", Reason: "image has no pixels"}
	}

	img := imaging.Clone(src)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	return img, nil
}

// DecodeMask декодирует маску и приводит её к размеру w×h.
func DecodeMask(data []byte, w, h int) (*image.Gray, error) {
	if len(data) == 0 {
		return nil, &entity.ParamError{Kind: entity.ErrDecode, Param: "mask", Reason: "empty input"}
	}
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &entity.ParamError{Kind: entity.ErrDecode, Param: "mask", Reason: err.Error()}
	}
	return fitMask(src, w, h)
}

// Encode кодирует результат в PNG.
func Encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// fitMask приводит маску к размеру изображения (ближайший сосед)
// и бинаризует: любое ненулевое значение яркости становится 255.
// Альфа-канал не учитывается, как при чтении в оттенках серого в OpenCV.
func fitMask(src image.Image, w, h int) (*image.Gray, error) {
	if src == nil {
		return nil, entity.InvalidArgument("mask", nil, "mask is required")
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, entity.DimensionMismatch("mask", fmt.Sprintf("%dx%d", b.Dx(), b.Dy()), "empty mask cannot be resized")
	}

	gray, ok := src.(*image.Gray)
	if !ok || b.Dx() != w || b.Dy() != h || b.Min != (image.Point{}) {
		// imaging работает в NRGBA, поэтому цвет прозрачных пикселей сохраняется
		var nrgba *image.NRGBA
		if b.Dx() != w || b.Dy() != h {
			nrgba = imaging.Resize(src, w, h, imaging.NearestNeighbor)
		} else {
			nrgba = imaging.Clone(src)
		}
		gray = Luminance(nrgba)
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for x, v := range row {
			if v != 0 {
				out.Pix[y*out.Stride+x] = 0xff
			}
		}
	}
	return out, nil
}
