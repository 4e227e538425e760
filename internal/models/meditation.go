package models

import "time"

// MeditationCategory groups meditations in the catalog.
type MeditationCategory string

const (
	CategoryBreathing   MeditationCategory = "breathing"
	CategorySleep       MeditationCategory = "sleep"
	CategoryFocus       MeditationCategory = "focus"
	CategoryStress      MeditationCategory = "stress"
	CategoryMindfulness MeditationCategory = "mindfulness"
)

// Meditation is a guided session in the shared catalog. It has no owner;
// writes are restricted to administrators.
type Meditation struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	Description     string             `json:"description"`
	Category        MeditationCategory `json:"category"`
	DurationMinutes int                `json:"duration_minutes"`
	AudioURL        string             `json:"audio_url,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// Categories lists every accepted meditation category.
var Categories = []MeditationCategory{CategoryBreathing, CategorySleep, CategoryFocus, CategoryStress, CategoryMindfulness}

// Valid reports whether c is one of the known categories.
func (c MeditationCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
