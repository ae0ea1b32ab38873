package vision

import (
	"container/heap"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"watermark-remover/internal/domain/entity"
)

// Состояния пикселя при быстром продвижении фронта.
const (
	flagKnown  uint8 = iota // значение известно
	flagBand                // фронт: значение известно, соседи ещё нет
	flagInside              // требуется восстановить
)

const fmmInf = 1e6

// Inpaint восстанавливает отмеченные маской пиксели методом Telea:
// фронт продвигается от границы маски внутрь в порядке времени прихода T,
// и каждый новый пиксель заполняется взвешенным средним известных соседей
// в радиусе radius.
//
// Неотмеченные пиксели возвращаются без изменений. Маска другого размера
// масштабируется до размера изображения.
func Inpaint(img *image.NRGBA, mask *image.Gray, radius int) (*image.NRGBA, error) {
	if radius <= 0 {
		return nil, entity.InvalidArgument("radius", radius, "must be positive")
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, entity.ComputationError("inpaint on empty image")
	}
	if mask == nil {
		return nil, entity.InvalidArgument("mask", nil, "mask is required")
	}
	m, err := fitMask(mask, w, h)
	if err != nil {
		return nil, err
	}

	f := &fmm{
		w:      w,
		h:      h,
		radius: radius,
		out:    imaging.Clone(img),
		flags:  make([]uint8, w*h),
		t:      make([]float64, w*h),
	}

	inside := 0
	for i := range f.flags {
		if m.Pix[(i/w)*m.Stride+i%w] != 0 {
			f.flags[i] = flagInside
			f.t[i] = fmmInf
			inside++
		}
	}
	// без известных пикселей восстанавливать не из чего
	if inside == 0 || inside == w*h {
		return f.out, nil
	}

	f.initBand()
	f.run()
	return f.out, nil
}

type fmm struct {
	w, h   int
	radius int
	out    *image.NRGBA
	flags  []uint8
	t      []float64
	queue  fmmQueue
	seq    int
}

func (f *fmm) initBand() {
	for i, fl := range f.flags {
		if fl != flagKnown {
			continue
		}
		x, y := i%f.w, i/f.w
		if f.isInside(x-1, y) || f.isInside(x+1, y) || f.isInside(x, y-1) || f.isInside(x, y+1) {
			f.flags[i] = flagBand
			f.push(i)
		}
	}
}

func (f *fmm) run() {
	for f.queue.Len() > 0 {
		it := heap.Pop(&f.queue).(fmmItem)
		f.flags[it.idx] = flagKnown
		x, y := it.idx%f.w, it.idx/f.w

		for _, d := range [4][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}} {
			nx, ny := x+d[0], y+d[1]
			if !f.isInside(nx, ny) {
				continue
			}
			n := ny*f.w + nx
			f.t[n] = min(
				f.solve(nx, ny-1, nx-1, ny),
				f.solve(nx, ny+1, nx-1, ny),
				f.solve(nx, ny-1, nx+1, ny),
				f.solve(nx, ny+1, nx+1, ny),
			)
			f.fill(nx, ny)
			f.flags[n] = flagBand
			f.push(n)
		}
	}
}

// solve решает уравнение эйконала по двум соседям (вертикальному и горизонтальному).
func (f *fmm) solve(x1, y1, x2, y2 int) float64 {
	k1, k2 := f.isKnown(x1, y1), f.isKnown(x2, y2)
	switch {
	case k1 && k2:
		t1, t2 := f.t[y1*f.w+x1], f.t[y2*f.w+x2]
		d := 2 - (t1-t2)*(t1-t2)
		if d < 0 {
			return 1 + math.Min(t1, t2)
		}
		r := math.Sqrt(d)
		s := (t1 + t2 - r) / 2
		if s >= t1 && s >= t2 {
			return s
		}
		s += r
		if s >= t1 && s >= t2 {
			return s
		}
		return fmmInf
	case k1:
		return 1 + f.t[y1*f.w+x1]
	case k2:
		return 1 + f.t[y2*f.w+x2]
	}
	return fmmInf
}

// fill вычисляет значение пикселя (x, y) по известным соседям в радиусе.
func (f *fmm) fill(x, y int) {
	p := y*f.w + x
	tp := f.t[p]
	gx := f.gradT(x-1, y, x+1, y, tp)
	gy := f.gradT(x, y-1, x, y+1, tp)

	var acc [3]float64
	var sum float64
	r2 := f.radius * f.radius
	for ky := max(y-f.radius, 0); ky <= min(y+f.radius, f.h-1); ky++ {
		for kx := max(x-f.radius, 0); kx <= min(x+f.radius, f.w-1); kx++ {
			q := ky*f.w + kx
			if f.flags[q] == flagInside {
				continue
			}
			rx, ry := float64(x-kx), float64(y-ky)
			lenr := rx*rx + ry*ry
			if lenr > float64(r2) {
				continue
			}

			dir := rx*gx + ry*gy
			if math.Abs(dir) <= 0.01 {
				dir = 1e-6
			}
			dst := 1 / (lenr * math.Sqrt(lenr))
			lev := 1 / (1 + math.Abs(f.t[q]-tp))
			wt := math.Abs(dir * dst * lev)

			px := f.out.Pix[ky*f.out.Stride+kx*4:]
			acc[0] += wt * float64(px[0])
			acc[1] += wt * float64(px[1])
			acc[2] += wt * float64(px[2])
			sum += wt
		}
	}
	if sum == 0 {
		return
	}

	px := f.out.Pix[y*f.out.Stride+x*4:]
	for c := 0; c < 3; c++ {
		px[c] = clampByte(acc[c] / sum)
	}
}

// gradT оценивает производную T вдоль одной оси по известным соседям a и b.
func (f *fmm) gradT(ax, ay, bx, by int, tp float64) float64 {
	ka, kb := f.isKnown(ax, ay), f.isKnown(bx, by)
	switch {
	case ka && kb:
		return (f.t[by*f.w+bx] - f.t[ay*f.w+ax]) * 0.5
	case kb:
		return f.t[by*f.w+bx] - tp
	case ka:
		return tp - f.t[ay*f.w+ax]
	}
	return 0
}

func (f *fmm) isInside(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.w && y < f.h && f.flags[y*f.w+x] == flagInside
}

func (f *fmm) isKnown(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.w && y < f.h && f.flags[y*f.w+x] != flagInside
}

func (f *fmm) push(i int) {
	it := fmmItem{t: f.t[i], seq: f.seq, idx: i}
	f.seq++
	heap.Push(&f.queue, it)
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

type fmmItem struct {
	t   float64
	seq int
	idx int
}

// fmmQueue очередь с приоритетом по T; при равенстве раньше выходит
// пиксель, добавленный первым.
type fmmQueue []fmmItem

func (q fmmQueue) Len() int { return len(q) }

func (q fmmQueue) Less(i, j int) bool {
	if q[i].t != q[j].t {
		return q[i].t < q[j].t
	}
	return q[i].seq < q[j].seq
}

func (q fmmQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *fmmQueue) Push(x any) { *q = append(*q, x.(fmmItem)) }

func (q *fmmQueue) Pop() any {
	old := *q
	n := len(old)
	it := old[n-1]
	*q = old[:n-1]
	return it
}
