package repository

import (
	"context"
	"errors"

	"job-portal/internal/database"
	"job-portal/internal/domain/skill"
	"job-portal/internal/domain/user"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

type UserSkillRepository interface {
	ListUsersWithSkills(ctx context.Context) ([]user.WithSkills, error)
	FindUserWithSkills(ctx context.Context, userID uuid.UUID) (user.WithSkills, error)
}

type PostgresUserSkillRepository struct {
	db database.DB
}

func NewPostgresUserSkillRepository(db database.DB) *PostgresUserSkillRepository {
	return &PostgresUserSkillRepository{db: db}
}

// ListUsersWithSkills returns every user holding at least one skill. Users
// without skills are never part of a job fan-out, so they are not loaded.
func (r *PostgresUserSkillRepository) ListUsersWithSkills(ctx context.Context) ([]user.WithSkills, error) {
	rows, err := r.db.Query(ctx,
		`SELECT us.user_id, us.name, us.level
		 FROM user_skills us
		 JOIN users u ON u.id = us.user_id
		 ORDER BY us.user_id, us.created_at, us.name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]user.WithSkills, 0)
	for rows.Next() {
		var (
			userID uuid.UUID
			name   string
			level  string
		)
		if err := rows.Scan(&userID, &name, &level); err != nil {
			return nil, err
		}
		if n := len(out); n == 0 || out[n-1].ID != userID {
			out = append(out, user.WithSkills{ID: userID})
		}
		last := &out[len(out)-1]
		last.Skills = append(last.Skills, skill.Ref{Name: name, Level: skill.Level(level)})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// FindUserWithSkills loads the user's full current skill set. A user with no
// skills is returned with an empty set; an unknown user is ErrUserNotFound.
func (r *PostgresUserSkillRepository) FindUserWithSkills(ctx context.Context, userID uuid.UUID) (user.WithSkills, error) {
	rows, err := r.db.Query(ctx,
		`SELECT u.id, us.name, us.level
		 FROM users u
		 LEFT JOIN user_skills us ON us.user_id = u.id
		 WHERE u.id = $1
		 ORDER BY us.created_at, us.name`,
		userID,
	)
	if err != nil {
		return user.WithSkills{}, err
	}
	defer rows.Close()

	found := false
	out := user.WithSkills{ID: userID, Skills: []skill.Ref{}}
	for rows.Next() {
		var (
			id    uuid.UUID
			name  *string
			level *string
		)
		if err := rows.Scan(&id, &name, &level); err != nil {
			return user.WithSkills{}, err
		}
		found = true
		if name == nil {
			continue
		}
		ref := skill.Ref{Name: *name, Level: skill.LevelIntermediate}
		if level != nil {
			ref.Level = skill.Level(*level)
		}
		out.Skills = append(out.Skills, ref)
	}
	if err := rows.Err(); err != nil {
		return user.WithSkills{}, err
	}
	if !found {
		return user.WithSkills{}, ErrUserNotFound
	}
	return out, nil
}
