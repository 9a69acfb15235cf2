package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/conecta/internal/client/models"
)

func onOff(b bool) string {
	if b {
		return "ligado"
	}
	return "desligado"
}

func (a *App) ShowSettings(ctx context.Context, _ []string) error {
	s := a.settings.Get(ctx)
	a.printf("rate     velocidade da fala  %.1f\n", s.SpeechRate)
	a.printf("volume   volume              %.1f\n", s.SpeechVolume)
	a.printf("contrast alto contraste      %s\n", onOff(s.HighContrast))
	a.printf("large    ícones grandes      %s\n", onOff(s.LargeIcons))
	a.printf("sound    som de clique       %s\n", onOff(s.SoundFeedback))
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "sim", "s", "true", "1", "ligado":
		return true, nil
	case "off", "nao", "não", "n", "false", "0", "desligado":
		return false, nil
	}
	return false, fmt.Errorf("valor inválido: %q", s)
}

// settingSetter parses value and returns the change to apply.
func settingSetter(key, value string) (func(s *models.Settings), error) {
	switch key {
	case "rate", "volume":
		f, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
		if err != nil {
			return nil, fmt.Errorf("número inválido: %q", value)
		}
		if key == "rate" {
			return func(s *models.Settings) { s.SpeechRate = f }, nil
		}
		return func(s *models.Settings) { s.SpeechVolume = f }, nil
	case "contrast", "large", "sound":
		b, err := parseBool(value)
		if err != nil {
			return nil, err
		}
		return func(s *models.Settings) {
			switch key {
			case "contrast":
				s.HighContrast = b
			case "large":
				s.LargeIcons = b
			default:
				s.SoundFeedback = b
			}
		}, nil
	}
	return nil, fmt.Errorf("configuração desconhecida: %q", key)
}

// Set changes one setting: set <rate|volume|contrast|large|sound> <value>.
func (a *App) Set(ctx context.Context, args []string) error {
	if len(args) < 2 {
		a.println("Uso: set <rate|volume|contrast|large|sound> <valor>")
		return nil
	}
	fn, err := settingSetter(args[0], args[1])
	if err != nil {
		a.println(err.Error())
		return nil
	}
	if _, err := a.settings.Update(ctx, fn); err != nil {
		return a.fail(ctx, err)
	}
	a.println("Configuração salva.")
	return nil
}
