package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/robalobadob/numeros/internal/game"
	"github.com/robalobadob/numeros/internal/numbers"
)

var es = message.NewPrinter(language.Spanish)

const (
	msgWelcome  = "¡Hola! Te muestro un número y eliges cómo se escribe en letras. Diez jugadas por partida.\n\n/nuevo: nueva partida\n/diario: reto diario"
	msgCorrect  = "¡Correcto!"
	msgStale    = "Esa pregunta ya fue respondida."
	msgExpired  = "La partida expiró. Usa /nuevo para empezar otra."
	msgFinished = "La partida ya terminó."
	msgFailed   = "Algo salió mal, inténtalo de nuevo."
)

// render returns the text and keyboard for g: the current round while
// playing, the summary once finished.
func render(g *game.Game) (string, tgbotapi.InlineKeyboardMarkup) {
	if g.Finished {
		return summaryText(g), summaryKeyboard()
	}
	return roundText(g), roundKeyboard(g)
}

func roundText(g *game.Game) string {
	return es.Sprintf("Jugada %d de %d · Puntos: %d · %s\n\n¿Cómo se escribe %d?",
		g.Round, g.Rounds, g.Score, game.FormatElapsed(g.Elapsed), g.Target)
}

func roundKeyboard(g *game.Game) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(g.Options.Labels)+1)
	for i, label := range g.Options.Labels {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, answerData(g.Round, i)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Siguiente pregunta ⏭", nextData(g.Round)),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func summaryText(g *game.Game) string {
	return es.Sprintf("¡Juego Terminado!\n\nTu puntaje final es: %d de %d\nTiempo total: %s",
		g.Score, g.Rounds, game.FormatElapsed(g.Elapsed))
}

func summaryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Jugar de nuevo 🔄", actionAgain),
			tgbotapi.NewInlineKeyboardButtonData("Reto diario 📅", actionDaily),
		),
	)
}

func wrongText(n int) string {
	return es.Sprintf("Incorrecto: %d se escribe %s", n, numbers.Name(n))
}
