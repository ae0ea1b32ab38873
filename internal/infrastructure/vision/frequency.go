package vision

import (
	"image"
	"math"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"

	"watermark-remover/internal/domain/entity"
)

// Параметры кольца ослабления в центрированном спектре.
const (
	frequencyRadius      = 30  // внешний радиус кольца
	frequencyInnerRadius = 5   // низкие частоты внутри не трогаем
	frequencyAttenuation = 0.5 // множитель для частот в кольце

	// разброс меньше этого считается постоянным каналом (ошибки округления ДПФ)
	flatChannelSpan = 1e-6
)

// FrequencyFilter ослабляет периодические (плиточные) водяные знаки.
//
// Каждый канал обрабатывается отдельно: прямое 2D ДПФ, умножение частот
// в кольце 25 < i²+j² < 900 вокруг нулевой частоты на 0.5, обратное ДПФ,
// модуль и нормировка к 0..255. Нормировка меняет яркость и контраст
// всего канала, это ожидаемое поведение фильтра.
func FrequencyFilter(img *image.NRGBA) (*image.NRGBA, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil, entity.ComputationError("frequency filter on empty image")
	}

	bins := attenuatedBins(w, h)

	var planes [3][]uint8
	var wg sync.WaitGroup
	for c := 0; c < 3; c++ {
		wg.Add(1)
		go func(c int) {
			defer wg.Done()
			planes[c] = filterChannel(img, c, w, h, bins)
		}(c)
	}
	wg.Wait()

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := out.Pix[y*out.Stride : y*out.Stride+w*4]
		for x := 0; x < w; x++ {
			i := y*w + x
			row[x*4] = planes[0][i]
			row[x*4+1] = planes[1][i]
			row[x*4+2] = planes[2][i]
			row[x*4+3] = 0xff
		}
	}
	return out, nil
}

// attenuatedBins возвращает индексы частот (в нецентрированном спектре),
// попадающих в кольцо. Смещение i от центра h/2 соответствует индексу
// i mod h; смещения, выходящие за спектр маленького изображения, пропускаются.
func attenuatedBins(w, h int) []int {
	crow, ccol := h/2, w/2
	var bins []int
	for i := -frequencyRadius; i < frequencyRadius; i++ {
		if crow+i < 0 || crow+i >= h {
			continue
		}
		u := (i + h) % h
		for j := -frequencyRadius; j < frequencyRadius; j++ {
			if ccol+j < 0 || ccol+j >= w {
				continue
			}
			d := i*i + j*j
			if d <= frequencyInnerRadius*frequencyInnerRadius || d >= frequencyRadius*frequencyRadius {
				continue
			}
			v := (j + w) % w
			bins = append(bins, u*w+v)
		}
	}
	return bins
}

func filterChannel(img *image.NRGBA, c, w, h int, bins []int) []uint8 {
	data := make([]complex128, w*h)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		for x := 0; x < w; x++ {
			data[y*w+x] = complex(float64(row[x*4+c]), 0)
		}
	}

	fft2(data, w, h, false)
	for _, i := range bins {
		data[i] *= frequencyAttenuation
	}
	fft2(data, w, h, true)

	mag := make([]float64, w*h)
	scale := 1 / float64(w*h)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, v := range data {
		m := math.Hypot(real(v), imag(v)) * scale
		mag[i] = m
		lo = math.Min(lo, m)
		hi = math.Max(hi, m)
	}
	return normalizeMinMax(mag, lo, hi)
}

// normalizeMinMax растягивает значения на 0..255 с отбрасыванием дробной части.
// Постоянный канал превращается в нули.
func normalizeMinMax(values []float64, lo, hi float64) []uint8 {
	out := make([]uint8, len(values))
	span := hi - lo
	if span < flatChannelSpan {
		return out
	}
	for i, v := range values {
		s := (v-lo)*255/span + 1e-9
		if s >= 255 {
			out[i] = 255
			continue
		}
		out[i] = uint8(s)
	}
	return out
}

// fft2 выполняет 2D ДПФ на месте проходами по строкам и столбцам.
// Обратное преобразование не нормируется.
func fft2(data []complex128, w, h int, inverse bool) {
	if w > 1 {
		t := fourier.NewCmplxFFT(w)
		buf := make([]complex128, w)
		for y := 0; y < h; y++ {
			row := data[y*w : (y+1)*w]
			if inverse {
				t.Sequence(buf, row)
			} else {
				t.Coefficients(buf, row)
			}
			copy(row, buf)
		}
	}
	if h > 1 {
		t := fourier.NewCmplxFFT(h)
		col := make([]complex128, h)
		buf := make([]complex128, h)
		for x := 0; x < w; x++ {
			for y := 0; y < h; y++ {
				col[y] = data[y*w+x]
			}
			if inverse {
				t.Sequence(buf, col)
			} else {
				t.Coefficients(buf, col)
			}
			for y := 0; y < h; y++ {
				data[y*w+x] = buf[y]
			}
		}
	}
}
