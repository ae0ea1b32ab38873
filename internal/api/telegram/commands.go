package telegram

import (
	"strconv"
	"strings"

	"watermark-remover/config"
	"watermark-remover/internal/domain/entity"
)

// strategyCommand разбирает команды выбора способа удаления.
func strategyCommand(command, args string, d config.Defaults) (entity.RemovalRequest, error) {
	fields := strings.Fields(args)

	switch command {
	case "auto":
		threshold := d.Threshold
		if len(fields) > 1 {
			return entity.RemovalRequest{}, entity.InvalidArgument("threshold", args, "expected /auto [threshold]")
		}
		if len(fields) == 1 {
			n, err := strconv.Atoi(fields[0])
			if err != nil {
				return entity.RemovalRequest{}, entity.InvalidArgument("threshold", fields[0], "must be an integer")
			}
			threshold = n
		}
		req := autoRequest(d, threshold)
		return req, req.Validate()

	case "color":
		lower, upper := d.ColorLower, d.ColorUpper
		switch len(fields) {
		case 0:
		case 2:
			lower, upper = fields[0], fields[1]
		default:
			return entity.RemovalRequest{}, entity.InvalidArgument("color_lower", args, "expected /color #lower #upper")
		}
		rng, err := entity.ParseColorRange(lower, upper)
		if err != nil {
			return entity.RemovalRequest{}, err
		}
		return entity.RemovalRequest{Strategy: entity.StrategyColor, Color: &rng}, nil

	case "region":
		if len(fields) != 4 {
			return entity.RemovalRequest{}, entity.InvalidArgument("region", args, "expected /region x y width height")
		}
		names := [4]string{"x", "y", "width", "height"}
		var v [4]int
		for i, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return entity.RemovalRequest{}, entity.InvalidArgument(names[i], f, "must be an integer")
			}
			v[i] = n
		}
		req := entity.RemovalRequest{
			Strategy: entity.StrategyRegion,
			Region:   &entity.Region{X: v[0], Y: v[1], Width: v[2], Height: v[3]},
		}
		return req, req.Validate()

	case "frequency":
		return entity.RemovalRequest{Strategy: entity.StrategyFrequency}, nil
	}

	return entity.RemovalRequest{}, errUnknownCommand
}

func autoRequest(d config.Defaults, threshold int) entity.RemovalRequest {
	return entity.RemovalRequest{
		Strategy: entity.StrategyAuto,
		Threshold: &entity.ThresholdParams{
			Threshold: threshold,
			MinArea:   d.MinArea,
			MaxArea:   d.MaxArea,
		},
	}
}
