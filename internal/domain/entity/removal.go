package entity

// ThresholdParams параметры стратегии auto
type ThresholdParams struct {
	Threshold int // порог яркости 0..255
	MinArea   int // компоненты с площадью <= MinArea отбрасываются
	MaxArea   int // компоненты с площадью >= MaxArea отбрасываются
}

// DefaultThresholdParams возвращает параметры по умолчанию.
func DefaultThresholdParams() ThresholdParams {
	return ThresholdParams{Threshold: 200, MinArea: 100, MaxArea: 50000}
}

// RemovalRequest описывает один запрос на удаление водяного знака.
// Заполняется только структура параметров выбранной стратегии.
type RemovalRequest struct {
	Strategy  Strategy
	Threshold *ThresholdParams // auto; nil означает значения по умолчанию
	Color     *ColorRange      // color
	Region    *Region          // region
	Mask      []byte           // mask: закодированное изображение маски
}

// ThresholdOrDefault возвращает параметры порога с учётом значений по умолчанию.
func (r RemovalRequest) ThresholdOrDefault() ThresholdParams {
	if r.Threshold == nil {
		return DefaultThresholdParams()
	}
	return *r.Threshold
}

// Validate проверяет параметры выбранной стратегии.
func (r RemovalRequest) Validate() error {
	switch r.Strategy {
	case StrategyAuto:
		p := r.ThresholdOrDefault()
		if p.Threshold < 0 || p.Threshold > 255 {
			return InvalidArgument("threshold", p.Threshold, "must be within 0..255")
		}
		if p.MinArea < 0 {
			return InvalidArgument("min_area", p.MinArea, "must not be negative")
		}
		if p.MaxArea < 0 {
			return InvalidArgument("max_area", p.MaxArea, "must not be negative")
		}
	case StrategyColor:
		if r.Color == nil {
			return InvalidArgument("color_lower", nil, "color range is required")
		}
	case StrategyRegion:
		if r.Region == nil {
			return InvalidArgument("region", nil, "region is required")
		}
		if r.Region.Width <= 0 {
			return InvalidArgument("width", r.Region.Width, "must be positive")
		}
		if r.Region.Height <= 0 {
			return InvalidArgument("height", r.Region.Height, "must be positive")
		}
	case StrategyMask:
		if len(r.Mask) == 0 {
			return InvalidArgument("mask", nil, "mask image is required")
		}
	case StrategyFrequency:
	default:
		return InvalidArgument("method", string(r.Strategy), "unknown strategy")
	}
	return nil
}
