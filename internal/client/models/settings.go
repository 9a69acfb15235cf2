package models

import "encoding/json"

// Settings is the per-installation preference bag.
type Settings struct {
	SpeechRate    float64 `json:"speechRate"`
	SpeechVolume  float64 `json:"speechVolume"`
	HighContrast  bool    `json:"highContrast"`
	LargeIcons    bool    `json:"largeIcons"`
	SoundFeedback bool    `json:"soundFeedback"`
}

func DefaultSettings() Settings {
	return Settings{
		SpeechRate:    1.0,
		SpeechVolume:  1.0,
		SoundFeedback: true,
	}
}

// UnmarshalJSON merges the stored fields over DefaultSettings, so a record
// written by an older version still gets defaults for fields it lacks.
func (s *Settings) UnmarshalJSON(b []byte) error {
	type alias Settings
	a := alias(DefaultSettings())
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*s = Settings(a)
	return nil
}
