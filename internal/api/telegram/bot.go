package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"watermark-remover/config"
	app "watermark-remover/internal/application"
	"watermark-remover/internal/container"
)

const (
	msgStart = `👋 Привет! Я бот для удаления водяных знаков с изображений.

📸 Отправьте мне фото, и я попробую убрать водяной знак.

📋 Команды:
/auto [порог] — светлые полупрозрачные знаки (по умолчанию)
/color #нижний #верхний — знак заданного цвета
/region x y ширина высота — знак в известной области
/frequency — повторяющийся узор
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Выберите способ командой (или сразу отправьте фото для /auto)
2️⃣ Отправьте фото или изображение файлом
3️⃣ Получите результат в PNG

💡 Примеры:
/auto 220
/color #c8c8c8 #ffffff
/region 10 10 200 60

📋 Команды:
/auto, /color, /region, /frequency, /cancel`

	msgAwaitingPhoto   = "📸 Способ «%s» выбран. Отправьте фото с водяным знаком."
	msgCancelled       = "❌ Операция отменена. Отправьте фото или выберите способ командой."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото с водяным знаком."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgBadArguments    = "⚠️ Неверные параметры: %v\n\nИспользуйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgDone            = "✅ Готово"
	msgProcessingError = "⚠️ Не удалось обработать изображение: %v"
)

var errUnknownCommand = errors.New("unknown command")

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	users       *app.UserService
	removal     *app.RemovalService
	defaults    config.Defaults
	maxDownload int64
}

// NewBot создаёт нового бота
func NewBot(token string, c *container.Container, cfg *config.Config) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info().Str("account", api.Self.UserName).Msg("telegram authorized")

	return &Bot{
		api:         api,
		users:       c.UserService,
		removal:     c.RemovalService,
		defaults:    cfg.Defaults,
		maxDownload: cfg.MaxUploadBytes,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if fileID, ok := imageFileID(msg); ok {
		b.handlePhoto(ctx, msg, fileID)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		if err := b.users.Forget(ctx, userID); err != nil {
			log.Error().Err(err).Int64("user", userID).Msg("forget user")
		}
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "cancel":
		if _, err := b.users.Cancel(ctx, userID, chatID); err != nil {
			log.Error().Err(err).Int64("user", userID).Msg("reset user")
		}
		b.sendMessage(chatID, msgCancelled)

	default:
		req, err := strategyCommand(msg.Command(), msg.CommandArguments(), b.defaults)
		if errors.Is(err, errUnknownCommand) {
			b.sendMessage(chatID, msgUnknownCommand)
			return
		}
		if err == nil {
			_, err = b.removal.SelectStrategy(ctx, userID, chatID, req)
		}
		if err != nil {
			b.sendMessage(chatID, fmt.Sprintf(msgBadArguments, err))
			return
		}
		b.sendMessage(chatID, fmt.Sprintf(msgAwaitingPhoto, req.Strategy))
	}
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, fileID string) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	user, err := b.users.Get(ctx, userID, chatID)
	if err != nil {
		log.Error().Err(err).Int64("user", userID).Msg("get user")
		return
	}
	// Без выбранной стратегии работает auto с параметрами из конфигурации
	if user.Pending == nil {
		if _, err := b.removal.SelectStrategy(ctx, userID, chatID, autoRequest(b.defaults, b.defaults.Threshold)); err != nil {
			log.Error().Err(err).Int64("user", userID).Msg("select default strategy")
			return
		}
	}

	b.sendMessage(chatID, msgProcessing)

	imageData, err := b.downloadFile(ctx, fileID)
	if err != nil {
		log.Warn().Err(err).Int64("user", userID).Msg("download photo")
		if _, cerr := b.users.Cancel(ctx, userID, chatID); cerr != nil {
			log.Error().Err(cerr).Int64("user", userID).Msg("reset user")
		}
		b.sendMessage(chatID, fmt.Sprintf(msgProcessingError, err))
		return
	}

	out, err := b.removal.ProcessPhoto(ctx, userID, chatID, imageData)
	if err != nil {
		b.sendMessage(chatID, fmt.Sprintf(msgProcessingError, err))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: "result.png", Bytes: out})
	doc.Caption = msgDone
	if _, err := b.api.Send(doc); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("send result")
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, b.maxDownload+1))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	if int64(len(data)) > b.maxDownload {
		return nil, fmt.Errorf("file is larger than %d bytes", b.maxDownload)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Error().Err(err).Int64("chat", chatID).Msg("send message")
	}
}

// imageFileID возвращает файл наибольшего размера из фото
// или изображение, отправленное документом.
func imageFileID(msg *tgbotapi.Message) (string, bool) {
	if len(msg.Photo) > 0 {
		return msg.Photo[len(msg.Photo)-1].FileID, true
	}
	if msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/") {
		return msg.Document.FileID, true
	}
	return "", false
}
