// internal/delivery/telegram/handler.go
//
// Telegram front end. Each chat plays one session stored under
// "tg-<chatID>"; rounds are a single message edited in place, answers come
// back as inline-button callbacks.

package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/numeros/internal/game"
	"github.com/robalobadob/numeros/internal/quiz"
	"github.com/robalobadob/numeros/internal/store"
)

// Sender is the subset of *tgbotapi.BotAPI the handler needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Quiz is the game service the bot drives.
type Quiz interface {
	StartWithID(ctx context.Context, id string, mode game.Mode) (*game.Game, error)
	Answer(ctx context.Context, id string, round, choice int) (*game.Game, game.Result, error)
	Skip(ctx context.Context, id string, round int) (*game.Game, error)
	Restart(ctx context.Context, id string) (*game.Game, error)
}

type Handler struct {
	sender Sender
	quiz   Quiz
}

func NewHandler(sender Sender, quiz Quiz) *Handler {
	return &Handler{sender: sender, quiz: quiz}
}

// Commands registered with BotFather-style menus.
var Commands = []tgbotapi.BotCommand{
	{Command: "nuevo", Description: "Nueva partida"},
	{Command: "diario", Description: "Reto diario"},
	{Command: "help", Description: "Cómo se juega"},
}

func sessionID(chatID int64) string {
	return "tg-" + strconv.FormatInt(chatID, 10)
}

// Run consumes updates until ctx is done or the channel closes.
func (h *Handler) Run(ctx context.Context, updates tgbotapi.UpdatesChannel) error {
	log.Info().Msg("telegram handler started")
	defer log.Info().Msg("telegram handler stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			h.HandleUpdate(ctx, update)
		}
	}
}

// HandleUpdate dispatches one update.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message == nil || update.Message.Chat == nil || !update.Message.IsCommand() {
		return
	}

	chatID := update.Message.Chat.ID
	log.Debug().Int64("chatId", chatID).Str("command", update.Message.Command()).Msg("command")

	switch update.Message.Command() {
	case "start", "help":
		h.send(tgbotapi.NewMessage(chatID, msgWelcome))
		if update.Message.Command() == "start" {
			h.startGame(ctx, chatID, game.ModeRandom)
		}
	case "nuevo":
		h.startGame(ctx, chatID, game.ModeRandom)
	case "diario":
		h.startGame(ctx, chatID, game.ModeDaily)
	}
}

func (h *Handler) startGame(ctx context.Context, chatID int64, mode game.Mode) {
	g, err := h.quiz.StartWithID(ctx, sessionID(chatID), mode)
	if err != nil {
		log.Error().Err(err).Int64("chatId", chatID).Msg("start game")
		h.send(tgbotapi.NewMessage(chatID, msgFailed))
		return
	}
	text, kb := render(g)
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	h.send(msg)
}

func (h *Handler) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.Message == nil || cq.Message.Chat == nil {
		h.ack(cq.ID, "")
		return
	}
	chatID, msgID := cq.Message.Chat.ID, cq.Message.MessageID
	id := sessionID(chatID)

	cb, err := parseCallback(cq.Data)
	if err != nil {
		log.Warn().Str("data", cq.Data).Msg("unknown callback")
		h.ack(cq.ID, "")
		return
	}

	var (
		g      *game.Game
		notice string
	)
	switch cb.Action {
	case actionAnswer:
		var res game.Result
		g, res, err = h.quiz.Answer(ctx, id, cb.Round, cb.Choice)
		if err == nil {
			notice = msgCorrect
			if !res.Correct {
				notice = wrongText(res.Number)
			}
		}
	case actionNext:
		g, err = h.quiz.Skip(ctx, id, cb.Round)
	case actionAgain:
		g, err = h.quiz.Restart(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			g, err = h.quiz.StartWithID(ctx, id, game.ModeRandom)
		}
	case actionDaily:
		g, err = h.quiz.StartWithID(ctx, id, game.ModeDaily)
	}

	if err != nil {
		h.ack(cq.ID, errorNotice(err))
		return
	}
	h.ack(cq.ID, notice)

	text, kb := render(g)
	h.send(tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, text, kb))
}

func errorNotice(err error) string {
	switch {
	case errors.Is(err, quiz.ErrStaleRound):
		return msgStale
	case errors.Is(err, store.ErrNotFound):
		return msgExpired
	case errors.Is(err, game.ErrFinished):
		return msgFinished
	}
	log.Error().Err(err).Msg("telegram callback")
	return msgFailed
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.sender.Send(c); err != nil {
		log.Warn().Err(err).Msg("telegram send")
	}
}

func (h *Handler) ack(callbackID, text string) {
	if _, err := h.sender.Request(tgbotapi.NewCallback(callbackID, text)); err != nil {
		log.Warn().Err(err).Msg("telegram callback answer")
	}
}
