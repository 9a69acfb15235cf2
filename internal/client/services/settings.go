package services

import (
	"context"

	"github.com/dmitrijs2005/conecta/internal/client/models"
	"github.com/dmitrijs2005/conecta/internal/logging"
)

const (
	MinSpeechRate = 0.1
	MaxSpeechRate = 10
)

type SettingsService struct {
	store  Store
	logger logging.Logger
}

func NewSettingsService(store Store, logger logging.Logger) *SettingsService {
	return &SettingsService{store: store, logger: logger.With("service", "settings")}
}

func (s *SettingsService) Get(ctx context.Context) models.Settings {
	return s.store.LoadSettings(ctx)
}

func inRange(v, lo, hi float64) bool {
	return v >= lo && v <= hi
}

// ValidateSettings checks the numeric ranges of v. NaN is never in range.
func ValidateSettings(v models.Settings) error {
	if !inRange(v.SpeechVolume, 0, 1) {
		return invalid("O volume deve estar entre 0 e 1")
	}
	if !inRange(v.SpeechRate, MinSpeechRate, MaxSpeechRate) {
		return invalid("A velocidade da fala deve estar entre 0.1 e 10")
	}
	return nil
}

// Update applies fn to the current settings and persists the whole object.
// An out-of-range result is rejected and nothing is written.
func (s *SettingsService) Update(ctx context.Context, fn func(v *models.Settings)) (models.Settings, error) {
	v, err := s.store.UpdateSettings(ctx, func(v *models.Settings) error {
		fn(v)
		return ValidateSettings(*v)
	})
	if err != nil {
		return models.Settings{}, err
	}
	s.logger.Debug(ctx, "settings saved")
	return v, nil
}
