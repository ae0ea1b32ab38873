package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"watermark-remover/internal/domain/entity"
	"watermark-remover/internal/domain/port"
)

// RemovalService управляет удалением водяных знаков.
type RemovalService struct {
	users   *UserService
	remover port.WatermarkRemover
}

// NewRemovalService создаёт сервис поверх движка удаления.
func NewRemovalService(users *UserService, remover port.WatermarkRemover) *RemovalService {
	return &RemovalService{
		users:   users,
		remover: remover,
	}
}

// Remove проверяет запрос и запускает движок.
func (s *RemovalService) Remove(ctx context.Context, image []byte, req entity.RemovalRequest) ([]byte, error) {
	if s.remover == nil {
		return nil, errors.New("remover is not configured")
	}
	if len(image) == 0 {
		return nil, &entity.ParamError{Kind: entity.ErrDecode, Param: "image", Reason: "no image data provided"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := s.remover.Remove(ctx, image, req)
	if err != nil {
		log.Warn().
			Err(err).
			Str("strategy", string(req.Strategy)).
			Int("bytes", len(image)).
			Msg("watermark removal failed")
		return nil, fmt.Errorf("remove watermark (%s): %w", req.Strategy, err)
	}

	log.Info().
		Int64("duration(ms)", time.Since(start).Milliseconds()).
		Str("strategy", string(req.Strategy)).
		Int("in_bytes", len(image)).
		Int("out_bytes", len(out)).
		Msg("watermark removed")

	return out, nil
}

// SelectStrategy запоминает стратегию пользователя до прихода фото.
func (s *RemovalService) SelectStrategy(ctx context.Context, userID, chatID int64, req entity.RemovalRequest) (*entity.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.users.Select(ctx, userID, chatID, req)
}

// ProcessPhoto обрабатывает фото выбранной пользователем стратегией
// и в любом случае возвращает пользователя в главное меню.
func (s *RemovalService) ProcessPhoto(ctx context.Context, userID, chatID int64, photo []byte) ([]byte, error) {
	user, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing)
	if err != nil {
		return nil, err
	}
	req := user.Request()

	out, removeErr := s.Remove(ctx, photo, req)

	if _, err := s.users.Cancel(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return out, removeErr
}
