package entity

import "image"

// Region прямоугольная область водяного знака
type Region struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
}

// Rect возвращает область как image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// Clip обрезает область по границам изображения. Результат может быть пустым.
func (r Region) Clip(bounds image.Rectangle) image.Rectangle {
	return r.Rect().Intersect(bounds)
}
