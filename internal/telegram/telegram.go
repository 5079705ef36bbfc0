// Package telegram adapts the abstract chat transport onto Telegram via
// go-telegram/bot and feeds inbound updates into the navigation router.
package telegram

import (
	"context"
	"strings"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"chatshop/internal/bot"
	applog "chatshop/internal/log"
	"chatshop/internal/repos"
	"chatshop/internal/transport"
)

// Service owns the Telegram client and the long-polling loop. It implements
// transport.Client; Router is attached after construction because the router
// itself needs the transport.
type Service struct {
	api    *tgbot.Bot
	Router *bot.Router
	Buyers *repos.BuyerRepo
}

func New(token string, buyers *repos.BuyerRepo) (*Service, error) {
	s := &Service{Buyers: buyers}
	api, err := tgbot.New(token,
		tgbot.WithDefaultHandler(s.onUpdate),
		tgbot.WithAllowedUpdates(tgbot.AllowedUpdates{"message", "callback_query"}),
	)
	if err != nil {
		return nil, err
	}
	s.api = api
	return s, nil
}

// Start blocks on the long-polling loop until ctx is cancelled.
func (s *Service) Start(ctx context.Context) { s.api.Start(ctx) }

func (s *Service) onUpdate(ctx context.Context, _ *tgbot.Bot, update *models.Update) {
	switch {
	case update.Message != nil && strings.HasPrefix(update.Message.Text, "/start"):
		s.onStart(ctx, update.Message)
	case update.CallbackQuery != nil:
		s.onCallback(ctx, update.CallbackQuery)
	}
}

func (s *Service) onStart(ctx context.Context, msg *models.Message) {
	if msg.From == nil {
		return
	}
	if _, err := s.Buyers.Ensure(ctx, msg.From.ID, msg.From.Username); err != nil {
		applog.Error("tg.start.buyer", err, map[string]any{"chat_id": msg.Chat.ID})
	}

	screen := s.Router.HandleToken(ctx, bot.TokenHome(), bot.Session{
		ChatID:   msg.Chat.ID,
		BuyerID:  msg.From.ID,
		Username: msg.From.Username,
	})
	if err := s.SendText(ctx, msg.Chat.ID, screen.Caption, screen.Buttons); err != nil {
		applog.Error("tg.start.send", err, map[string]any{"chat_id": msg.Chat.ID})
	}
}

func (s *Service) onCallback(ctx context.Context, cq *models.CallbackQuery) {
	sess := bot.Session{BuyerID: cq.From.ID, Username: cq.From.Username}

	var ref transport.MessageRef
	if cq.Message.Type == models.MaybeInaccessibleMessageTypeMessage && cq.Message.Message != nil {
		ref = transport.MessageRef{
			ChatID:    cq.Message.Message.Chat.ID,
			MessageID: cq.Message.Message.ID,
		}
	}
	sess.ChatID = ref.ChatID
	if sess.ChatID == 0 {
		sess.ChatID = cq.From.ID
	}

	if _, err := s.Buyers.Ensure(ctx, cq.From.ID, cq.From.Username); err != nil {
		applog.Error("tg.callback.buyer", err, map[string]any{"chat_id": sess.ChatID})
	}

	screen := s.Router.HandleToken(ctx, cq.Data, sess)

	ack, modal := "", false
	if screen.Ack != nil {
		ack, modal = screen.Ack.Text, screen.Ack.Modal
	}
	if err := s.Acknowledge(ctx, cq.ID, ack, modal); err != nil {
		applog.Warn("tg.callback.ack", err, map[string]any{"chat_id": sess.ChatID})
	}

	if screen.Caption == "" && len(screen.Buttons) == 0 {
		return
	}
	err := s.EditMessage(ctx, ref, transport.Content{Text: screen.Caption, Photo: screen.Photo}, screen.Buttons)
	if err != nil {
		applog.Error("tg.callback.render", err, map[string]any{"chat_id": sess.ChatID})
	}
}
