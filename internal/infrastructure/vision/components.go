package vision

import (
	"image"
	"math"
)

// Component внешний контур маски вместе со всем, что он охватывает.
type Component struct {
	// Area площадь многоугольника через центры пикселей внешнего контура,
	// как у cv::contourArea. Квадрат 11×11 имеет площадь 100, линия 0.
	Area float64

	pixels []int // индексы y*w+x, включая внутренние дыры
}

// Components находит внешние компоненты маски.
//
// Фон, достижимый от края изображения по 4-связности, считается внешним.
// Всё остальное (сами пиксели маски, дыры внутри них и острова в дырах)
// группируется по 8-связности, и каждая группа соответствует одному
// закрашенному внешнему контуру.
func Components(mask *image.Gray) []Component {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return nil
	}
	set := func(i int) bool { return mask.Pix[(i/w)*mask.Stride+i%w] != 0 }

	exterior := make([]bool, w*h)
	queue := make([]int, 0, 2*(w+h))
	seed := func(i int) {
		if !exterior[i] && !set(i) {
			exterior[i] = true
			queue = append(queue, i)
		}
	}
	for x := 0; x < w; x++ {
		seed(x)
		seed((h-1)*w + x)
	}
	for y := 0; y < h; y++ {
		seed(y * w)
		seed(y*w + w - 1)
	}
	for len(queue) > 0 {
		i := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		x, y := i%w, i/w
		if x > 0 {
			seed(i - 1)
		}
		if x < w-1 {
			seed(i + 1)
		}
		if y > 0 {
			seed(i - w)
		}
		if y < h-1 {
			seed(i + w)
		}
	}

	visited := exterior
	var comps []Component
	for start := 0; start < w*h; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		var c Component
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			i := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			c.pixels = append(c.pixels, i)
			x, y := i%w, i/w
			for dy := -1; dy <= 1; dy++ {
				ny := y + dy
				if ny < 0 || ny >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					nx := x + dx
					if nx < 0 || nx >= w {
						continue
					}
					n := ny*w + nx
					if !visited[n] {
						visited[n] = true
						queue = append(queue, n)
					}
				}
			}
		}
		// первый пиксель в порядке развёртки всегда лежит на внешней границе
		c.Area = contourArea(mask, image.Pt(start%w, start/w))
		comps = append(comps, c)
	}
	return comps
}

// FilterComponents оставляет только компоненты с площадью строго между
// minArea и maxArea. Граничные значения отбрасываются.
func FilterComponents(mask *image.Gray, minArea, maxArea int) *image.Gray {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for _, c := range Components(mask) {
		if c.Area <= float64(minArea) || c.Area >= float64(maxArea) {
			continue
		}
		for _, i := range c.pixels {
			out.Pix[(i/w)*out.Stride+i%w] = 0xff
		}
	}
	return out
}

// Направления обхода: 0 восток, дальше против часовой стрелки на экране.
var contourDirs = [8]image.Point{
	{1, 0}, {1, -1}, {0, -1}, {-1, -1},
	{-1, 0}, {-1, 1}, {0, 1}, {1, 1},
}

// contourArea обходит внешнюю границу 8-связной области, начиная с её
// верхнего левого пикселя, и считает площадь по формуле шнурования.
// Обход повторяет алгоритм Suzuki, которым пользуется cv::findContours.
func contourArea(mask *image.Gray, start image.Point) float64 {
	b := mask.Bounds()
	set := func(p image.Point) bool {
		return p.X >= 0 && p.X < b.Dx() && p.Y >= 0 && p.Y < b.Dy() &&
			mask.Pix[p.Y*mask.Stride+p.X] != 0
	}

	// поиск первого соседа по часовой стрелке от запада
	s := 4
	var first image.Point
	for {
		s = (s - 1) & 7
		first = start.Add(contourDirs[s])
		if set(first) || s == 4 {
			break
		}
	}
	if !set(first) {
		return 0 // одиночный пиксель
	}

	var sum int
	cur := start
	for {
		var next image.Point
		for k := 1; k <= 8; k++ {
			d := (s + k) & 7
			if next = cur.Add(contourDirs[d]); set(next) {
				s = d
				break
			}
		}
		sum += cur.X*next.Y - next.X*cur.Y
		if next == start && cur == first {
			break
		}
		cur = next
		s = (s + 4) & 7
	}
	return math.Abs(float64(sum)) / 2
}
