package user

import (
	"time"

	"job-portal/internal/domain/skill"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID
	Email     string
	CreatedAt time.Time
}

// WithSkills is a user together with the full current skill set, in the
// order the store returned them.
type WithSkills struct {
	ID     uuid.UUID
	Skills []skill.Ref
}

func (u WithSkills) HasSkills() bool {
	return len(u.Skills) > 0
}

func (u WithSkills) SkillNames() []string {
	return skill.Names(u.Skills)
}
