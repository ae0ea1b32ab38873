//go:build gocv
// +build gocv

package vision

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"

	"watermark-remover/internal/domain/entity"
	"watermark-remover/internal/domain/port"
)

const gocvEnabled = true

// GoCVRemover движок на OpenCV. Частотный фильтр выполняется общим кодом на Go.
type GoCVRemover struct{}

// NewGoCVRemover создаёт движок на OpenCV.
func NewGoCVRemover() *GoCVRemover {
	return &GoCVRemover{}
}

// Remove удаляет водяной знак средствами OpenCV и возвращает PNG.
func (r *GoCVRemover) Remove(ctx context.Context, imageData []byte, req entity.RemovalRequest) ([]byte, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	src, err := decodeToMat(imageData, gocv.IMReadColor, "image")
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Strategy == entity.StrategyFrequency {
		img, err := src.ToImage()
		if err != nil {
			return nil, &entity.ParamError{Kind: entity.ErrDecode, Param: "image", Reason: err.Error()}
		}
		out, err := FrequencyFilter(imaging.Clone(img))
		if err != nil {
			return nil, err
		}
		return Encode(out)
	}

	mask, err := r.buildMask(src, req)
	if err != nil {
		return nil, err
	}
	defer mask.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := gocv.NewMat()
	defer out.Close()
	gocv.Inpaint(src, mask, &out, float32(req.Strategy.InpaintRadius()), gocv.Telea)

	buf, err := gocv.IMEncode(gocv.PNGFileExt, out)
	if err != nil {
		return nil, err
	}
	defer buf.Close()
	return append([]byte(nil), buf.GetBytes()...), nil
}

func (r *GoCVRemover) buildMask(src gocv.Mat, req entity.RemovalRequest) (gocv.Mat, error) {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()

	switch req.Strategy {
	case entity.StrategyAuto:
		p := req.ThresholdOrDefault()

		gray := gocv.NewMat()
		defer gray.Close()
		gocv.CvtColor(src, &gray, gocv.ColorBGRToGray)

		// ThresholdBinary сравнивает строго, поэтому порог сдвигаем на единицу
		bin := gocv.NewMat()
		defer bin.Close()
		gocv.Threshold(gray, &bin, float32(p.Threshold-1), 255, gocv.ThresholdBinary)

		closed := gocv.NewMat()
		defer closed.Close()
		gocv.MorphologyEx(bin, &closed, gocv.MorphClose, kernel)

		opened := gocv.NewMat()
		defer opened.Close()
		gocv.MorphologyEx(closed, &opened, gocv.MorphOpen, kernel)

		contours := gocv.FindContours(opened, gocv.RetrievalExternal, gocv.ChainApproxSimple)
		defer contours.Close()

		kept := gocv.NewPointsVector()
		defer kept.Close()
		for i := 0; i < contours.Size(); i++ {
			c := contours.At(i)
			area := gocv.ContourArea(c)
			if float64(p.MinArea) < area && area < float64(p.MaxArea) {
				kept.Append(c)
			}
		}

		filtered := gocv.Zeros(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1)
		defer filtered.Close()
		if kept.Size() > 0 {
			gocv.DrawContours(&filtered, kept, -1, color.RGBA{R: 255, G: 255, B: 255, A: 255}, -1)
		}

		return dilateMat(filtered, kernel, 2), nil

	case entity.StrategyColor:
		// в OpenCV порядок каналов BGR
		lo := gocv.NewScalar(float64(req.Color.Lower[2]), float64(req.Color.Lower[1]), float64(req.Color.Lower[0]), 0)
		hi := gocv.NewScalar(float64(req.Color.Upper[2]), float64(req.Color.Upper[1]), float64(req.Color.Upper[0]), 0)

		raw := gocv.NewMat()
		defer raw.Close()
		gocv.InRangeWithScalar(src, lo, hi, &raw)

		closed := gocv.NewMat()
		defer closed.Close()
		gocv.MorphologyEx(raw, &closed, gocv.MorphClose, kernel)

		return dilateMat(closed, kernel, 1), nil

	case entity.StrategyRegion:
		bounds := image.Rect(0, 0, src.Cols(), src.Rows())
		rect := req.Region.Clip(bounds)
		if rect.Empty() {
			return gocv.NewMat(), entity.ComputationError("region does not intersect the image")
		}
		mask := gocv.Zeros(src.Rows(), src.Cols(), gocv.MatTypeCV8UC1)
		roi := mask.Region(rect)
		roi.SetTo(gocv.NewScalar(255, 0, 0, 0))
		roi.Close()
		return mask, nil

	case entity.StrategyMask:
		m, err := decodeToMat(req.Mask, gocv.IMReadGrayScale, "mask")
		if err != nil {
			return gocv.NewMat(), err
		}
		if m.Rows() == src.Rows() && m.Cols() == src.Cols() {
			return m, nil
		}
		resized := gocv.NewMat()
		gocv.Resize(m, &resized, image.Pt(src.Cols(), src.Rows()), 0, 0, gocv.InterpolationNearestNeighbor)
		m.Close()
		return resized, nil
	}
	return gocv.NewMat(), entity.InvalidArgument("method", string(req.Strategy), "strategy does not produce a mask")
}

func dilateMat(src, kernel gocv.Mat, iterations int) gocv.Mat {
	out := src.Clone()
	for i := 0; i < iterations; i++ {
		next := gocv.NewMat()
		gocv.Dilate(out, &next, kernel)
		out.Close()
		out = next
	}
	return out
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(data []byte, flags gocv.IMReadFlag, param string) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(data, flags)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	reason := "failed to decode image"
	if err != nil {
		reason = err.Error()
	}
	return gocv.NewMat(), &entity.ParamError{Kind: entity.ErrDecode, Param: param, Reason: reason}
}

// Проверка реализации интерфейса
var _ port.WatermarkRemover = (*GoCVRemover)(nil)
