package entity

import "strings"

// Strategy способ построения маски водяного знака
type Strategy string

const (
	StrategyAuto      Strategy = "auto"      // Порог яркости + морфология
	StrategyColor     Strategy = "color"     // Диапазон цвета
	StrategyRegion    Strategy = "region"    // Прямоугольник, заданный пользователем
	StrategyFrequency Strategy = "frequency" // Подавление периодического узора в частотной области
	StrategyMask      Strategy = "mask"      // Маска, присланная пользователем
)

// ParseStrategy разбирает имя стратегии.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case StrategyAuto, StrategyColor, StrategyRegion, StrategyFrequency, StrategyMask:
		return s, nil
	}
	return "", InvalidArgument("method", name, "unknown strategy")
}

// InpaintRadius возвращает радиус восстановления для стратегии.
// Для frequency восстановление не выполняется.
func (s Strategy) InpaintRadius() int {
	switch s {
	case StrategyAuto, StrategyRegion:
		return 5
	case StrategyColor, StrategyMask:
		return 3
	}
	return 0
}
