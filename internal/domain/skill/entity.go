package skill

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
	LevelAdvanced     Level = "Advanced"
)

var ErrInvalidLevel = errors.New("invalid skill level")

// ParseLevel accepts any casing and defaults an empty value to Intermediate.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return LevelIntermediate, nil
	case "beginner":
		return LevelBeginner, nil
	case "intermediate":
		return LevelIntermediate, nil
	case "advanced":
		return LevelAdvanced, nil
	default:
		return "", ErrInvalidLevel
	}
}

// Ref is a skill as attached to a user profile.
type Ref struct {
	Name  string
	Level Level
}

type UserSkill struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Level     Level
	CreatedAt time.Time
}

func (s UserSkill) Ref() Ref {
	return Ref{Name: s.Name, Level: s.Level}
}

// NormalizeName is the canonical stored form of a skill name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func Names(refs []Ref) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.Name)
	}
	return out
}
