package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/logging"
)

// NoFavorite is shown when nothing has been used yet.
const NoFavorite = "-"

// UsageService aggregates icon activations into day, week and category
// counters.
type UsageService struct {
	store  Store
	logger logging.Logger
	now    func() time.Time
}

func NewUsageService(store Store, logger logging.Logger) *UsageService {
	return &UsageService{store: store, logger: logger.With("service", "usage"), now: time.Now}
}

// RecordInteraction counts one activation of icon and persists the counters.
func (s *UsageService) RecordInteraction(ctx context.Context, icon models.Icon) (models.Usage, error) {
	t := s.now()
	return s.store.UpdateUsage(ctx, func(u *models.Usage) error {
		u.Record(models.DayKey(t), models.WeekKey(t), icon.Category)
		return nil
	})
}

// FavoriteCategory returns the category with the highest count. Ties go to
// the category counted first; ok is false when no category has a count.
func FavoriteCategory(u models.Usage) (key string, ok bool) {
	best := 0
	for _, k := range u.Categories.Keys() {
		n, _ := u.Categories.Get(k)
		if n > best {
			best = n
			key = k
		}
	}
	return key, best > 0
}

// Stats is the summary shown on the reports tab.
type Stats struct {
	Today    int
	Week     int
	Favorite string
}

func (s *UsageService) Stats(ctx context.Context) Stats {
	u := s.store.LoadUsage(ctx)
	t := s.now()

	st := Stats{Favorite: NoFavorite}
	st.Today, _ = u.Daily.Get(models.DayKey(t))
	st.Week, _ = u.Weekly.Get(models.WeekKey(t))
	if k, ok := FavoriteCategory(u); ok {
		st.Favorite = models.CategoryDisplayName(k)
	}
	return st
}
