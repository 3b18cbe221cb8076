package services

import (
	"fmt"

	"fineops/internal/config"
	"fineops/internal/utils/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramNotifier delivers generated manifests to the configured group
// chat.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger
}

func NewTelegramNotifier(cfg config.TelegramConfig) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:    bot,
		chatID: cfg.GroupID,
		log:    logger.New("telegram"),
	}, nil
}

// SendDocument uploads the file at path to the group chat with the
// given caption.
func (n *TelegramNotifier) SendDocument(path, caption string) error {
	doc := tgbotapi.NewDocument(n.chatID, tgbotapi.FilePath(path))
	doc.Caption = caption
	if _, err := n.bot.Send(doc); err != nil {
		return fmt.Errorf("send document %s: %w", path, err)
	}
	return nil
}
