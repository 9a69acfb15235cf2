package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/idgen"
	"github.com/dmitrijs2005/conecta/internal/logging"
)

// IconService edits the icon catalog.
type IconService struct {
	store  Store
	ids    *idgen.Generator
	logger logging.Logger
}

func NewIconService(store Store, ids *idgen.Generator, logger logging.Logger) *IconService {
	return &IconService{store: store, ids: ids, logger: logger.With("service", "icons")}
}

// AddIcon appends a new icon to category, creating the category when it
// does not exist yet. The id is unique across the whole catalog.
func (s *IconService) AddIcon(ctx context.Context, category, text, emoji string) (models.Icon, error) {
	category = strings.TrimSpace(category)
	text = strings.TrimSpace(text)
	emoji = strings.TrimSpace(emoji)
	if category == "" || text == "" || emoji == "" {
		return models.Icon{}, invalid("Por favor, preencha todos os campos.")
	}

	var icon models.Icon
	_, err := s.store.UpdateIcons(ctx, func(c *models.Catalog) error {
		s.ids.Observe(models.MaxIconID(c))
		id := s.ids.Next()
		for models.HasIconID(c, id) {
			id = s.ids.Next()
		}

		icon = models.Icon{ID: id, Emoji: emoji, Text: text, Category: category}
		icons, _ := c.Get(category)
		c.Set(category, append(icons, icon))
		return nil
	})
	if err != nil {
		return models.Icon{}, err
	}

	s.logger.Info(ctx, "icon added", "id", icon.ID, "category", category)
	return icon, nil
}

// DeleteIcon removes the icon with id from every category. It reports
// whether anything was removed; an unknown id changes nothing.
func (s *IconService) DeleteIcon(ctx context.Context, id int64) (bool, error) {
	current := s.store.LoadIcons(ctx)
	if !models.HasIconID(&current, id) {
		return false, nil
	}

	removed := false
	_, err := s.store.UpdateIcons(ctx, func(c *models.Catalog) error {
		for _, k := range c.Keys() {
			icons, _ := c.Get(k)
			kept := make([]models.Icon, 0, len(icons))
			for _, icon := range icons {
				if icon.ID == id {
					removed = true
					continue
				}
				kept = append(kept, icon)
			}
			if len(kept) != len(icons) {
				c.Set(k, kept)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.Info(ctx, "icon deleted", "id", id)
	}
	return removed, nil
}

// ListByCategory returns the icons of key, or an empty list for an unknown
// category.
func (s *IconService) ListByCategory(ctx context.Context, key string) []models.Icon {
	c := s.store.LoadIcons(ctx)
	icons, ok := c.Get(key)
	if !ok || icons == nil {
		return []models.Icon{}
	}
	return icons
}

// Find returns the icon with id.
func (s *IconService) Find(ctx context.Context, id int64) (models.Icon, bool) {
	c := s.store.LoadIcons(ctx)
	for _, k := range c.Keys() {
		icons, _ := c.Get(k)
		for _, icon := range icons {
			if icon.ID == id {
				return icon, true
			}
		}
	}
	return models.Icon{}, false
}

// Category is one entry of the category bar.
type Category struct {
	Key   string
	Name  string
	Count int
}

// Categories lists the catalog's categories in display order.
func (s *IconService) Categories(ctx context.Context) []Category {
	c := s.store.LoadIcons(ctx)
	out := make([]Category, 0, c.Len())
	for _, k := range c.Keys() {
		icons, _ := c.Get(k)
		out = append(out, Category{Key: k, Name: models.CategoryDisplayName(k), Count: len(icons)})
	}
	return out
}

// TotalIcons counts the icons of the whole catalog.
func (s *IconService) TotalIcons(ctx context.Context) int {
	c := s.store.LoadIcons(ctx)
	return models.TotalIcons(&c)
}
