package telegram

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"chatshop/internal/domain"
	"chatshop/internal/transport"
)

func (s *Service) SendText(ctx context.Context, chatID int64, text string, buttons [][]transport.Button) error {
	_, err := s.api.SendMessage(ctx, &tgbot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard(buttons),
	})
	return classify(err)
}

func (s *Service) SendMediaGroup(ctx context.Context, chatID int64, items []transport.MediaItem) error {
	media := make([]models.InputMedia, 0, len(items))
	for i, it := range items {
		attach := fmt.Sprintf("attach://file%d", i)
		switch it.Kind {
		case domain.MediaVideo:
			media = append(media, &models.InputMediaVideo{
				Media:           attach,
				MediaAttachment: bytes.NewReader(it.Data),
			})
		default:
			media = append(media, &models.InputMediaPhoto{
				Media:           attach,
				MediaAttachment: bytes.NewReader(it.Data),
			})
		}
	}
	_, err := s.api.SendMediaGroup(ctx, &tgbot.SendMediaGroupParams{
		ChatID: chatID,
		Media:  media,
	})
	return classify(err)
}

// EditMessage rewrites a previously sent screen in place. Telegram splits the
// edit API by message shape, so fall back across the variants: media edit for
// photo screens, caption edit then text edit otherwise.
func (s *Service) EditMessage(ctx context.Context, ref transport.MessageRef, content transport.Content, buttons [][]transport.Button) error {
	kb := keyboard(buttons)

	if content.Photo != nil {
		_, err := s.api.EditMessageMedia(ctx, &tgbot.EditMessageMediaParams{
			ChatID:    ref.ChatID,
			MessageID: ref.MessageID,
			Media: &models.InputMediaPhoto{
				Media:           "attach://preview",
				MediaAttachment: bytes.NewReader(content.Photo),
				Caption:         content.Text,
			},
			ReplyMarkup: kb,
		})
		if err == nil {
			return nil
		}
		// The target was a plain text message; send the photo as a fresh one.
		_, err = s.api.SendPhoto(ctx, &tgbot.SendPhotoParams{
			ChatID:      ref.ChatID,
			Photo:       &models.InputFileUpload{Filename: "preview.jpg", Data: bytes.NewReader(content.Photo)},
			Caption:     content.Text,
			ReplyMarkup: kb,
		})
		return classify(err)
	}

	_, err := s.api.EditMessageCaption(ctx, &tgbot.EditMessageCaptionParams{
		ChatID:      ref.ChatID,
		MessageID:   ref.MessageID,
		Caption:     content.Text,
		ReplyMarkup: kb,
	})
	if err == nil {
		return nil
	}
	_, err = s.api.EditMessageText(ctx, &tgbot.EditMessageTextParams{
		ChatID:      ref.ChatID,
		MessageID:   ref.MessageID,
		Text:        content.Text,
		ReplyMarkup: kb,
	})
	return classify(err)
}

func (s *Service) Acknowledge(ctx context.Context, callbackID, text string, modal bool) error {
	_, err := s.api.AnswerCallbackQuery(ctx, &tgbot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       modal,
	})
	return classify(err)
}

func keyboard(buttons [][]transport.Button) models.ReplyMarkup {
	if len(buttons) == 0 {
		return nil
	}
	rows := make([][]models.InlineKeyboardButton, 0, len(buttons))
	for _, row := range buttons {
		r := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			r = append(r, models.InlineKeyboardButton{
				Text:         b.Label,
				CallbackData: b.Token,
				URL:          b.URL,
			})
		}
		rows = append(rows, r)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// classify sorts Telegram failures into the retry taxonomy: rate limits and
// timeouts are transient, everything else permanent.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if transport.IsTransient(err) {
		return transport.Transient(err)
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "too many requests") || strings.Contains(msg, "timeout") {
		return transport.Transient(err)
	}
	return transport.Permanent(err)
}
