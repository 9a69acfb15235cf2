package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func (a *App) selectFirstCategory(ctx context.Context) {
	cats := a.icons.Categories(ctx)
	if len(cats) > 0 {
		a.category = cats[0].Key
	}
}

// Categories lists the category bar; the current one is marked.
func (a *App) Categories(ctx context.Context, _ []string) error {
	for _, c := range a.icons.Categories(ctx) {
		marker := " "
		if c.Key == a.category {
			marker = "*"
		}
		a.printf("%s %-14s %s (%d)\n", marker, c.Key, c.Name, c.Count)
	}
	return nil
}

// OpenCategory switches to the category named by args[0] and shows it.
func (a *App) OpenCategory(ctx context.Context, args []string) error {
	if len(args) == 0 {
		a.println("Uso: cat <categoria>")
		return nil
	}
	a.category = args[0]
	return a.ShowIcons(ctx, nil)
}

// ShowIcons prints the icon grid of the current category.
func (a *App) ShowIcons(ctx context.Context, _ []string) error {
	icons := a.icons.ListByCategory(ctx, a.category)
	if len(icons) == 0 {
		a.println("Nenhum ícone nesta categoria.")
		return nil
	}

	large := a.settings.Get(ctx).LargeIcons
	for _, ic := range icons {
		if large {
			a.printf("[%d]\n   %s\n   %s\n", ic.ID, ic.Emoji, strings.ToUpper(ic.Text))
			continue
		}
		a.printf("[%d] %s %s\n", ic.ID, ic.Emoji, ic.Text)
	}
	return nil
}

func parseID(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("Uso: %s", usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id inválido: %q", args[0])
	}
	return id, nil
}

// Speak activates an icon: the phrase is spoken (printed) and the
// interaction counted.
func (a *App) Speak(ctx context.Context, args []string) error {
	id, err := parseID(args, "say <id>")
	if err != nil {
		a.println(err.Error())
		return nil
	}
	icon, ok := a.icons.Find(ctx, id)
	if !ok {
		a.println("Ícone não encontrado.")
		return nil
	}

	s := a.settings.Get(ctx)
	if s.SoundFeedback {
		a.println("*clique*")
	}
	a.printf("🔊 %s %s\n", icon.Emoji, icon.Text)
	a.logger.Debug(ctx, "speak", "text", icon.Text, "rate", s.SpeechRate, "volume", s.SpeechVolume)

	if _, err := a.usage.RecordInteraction(ctx, icon); err != nil {
		a.logger.Warn(ctx, "usage not recorded", "err", err)
	}
	return nil
}

// AddIcon prompts for a new icon.
func (a *App) AddIcon(ctx context.Context, _ []string) error {
	category, err := getSimpleText(a.reader, "Categoria", a.out)
	if err != nil {
		return err
	}
	text, err := getSimpleText(a.reader, "Texto", a.out)
	if err != nil {
		return err
	}
	emoji, err := getSimpleText(a.reader, "Emoji", a.out)
	if err != nil {
		return err
	}

	icon, err := a.icons.AddIcon(ctx, category, text, emoji)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.printf("Ícone adicionado com sucesso! (id %d)\n", icon.ID)
	return nil
}

func (a *App) DeleteIcon(ctx context.Context, args []string) error {
	id, err := parseID(args, "delicon <id>")
	if err != nil {
		a.println(err.Error())
		return nil
	}
	ok, err := Confirm(a.reader, "Tem certeza que deseja excluir este ícone?", a.out)
	if err != nil || !ok {
		return err
	}

	removed, err := a.icons.DeleteIcon(ctx, id)
	if err != nil {
		return a.fail(ctx, err)
	}
	if !removed {
		a.println("Ícone não encontrado.")
		return nil
	}
	a.println("Ícone excluído.")
	return nil
}
