package models

import "time"

// Mood is the feeling recorded in a mood entry.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodCalm     Mood = "calm"
	MoodNeutral  Mood = "neutral"
	MoodSad      Mood = "sad"
	MoodAnxious  Mood = "anxious"
	MoodAngry    Mood = "angry"
	MoodTired    Mood = "tired"
	MoodGrateful Mood = "grateful"
)

// Moods lists every accepted mood in display order.
var Moods = []Mood{MoodHappy, MoodCalm, MoodNeutral, MoodSad, MoodAnxious, MoodAngry, MoodTired, MoodGrateful}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// MoodEntry is a single mood check-in owned by one user.
type MoodEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Mood      Mood      `json:"mood"`
	Intensity int       `json:"intensity"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Owner returns the id of the user the entry belongs to.
func (e *MoodEntry) Owner() string { return e.UserID }

// MoodRange bounds a mood query by creation time. Zero values are open ends.
type MoodRange struct {
	From time.Time
	To   time.Time
}

// MoodTally is the number of entries for one mood and their summed intensity.
type MoodTally struct {
	Count        int
	IntensitySum int
}

// MoodStats summarizes a user's mood entries.
type MoodStats struct {
	Total            int          `json:"total"`
	Counts           map[Mood]int `json:"counts"`
	AverageIntensity float64      `json:"average_intensity"`
}
