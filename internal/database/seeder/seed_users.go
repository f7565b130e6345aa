package seeder

import (
	"context"

	"job-portal/internal/database"
	"job-portal/internal/domain/skill"
)

type demoUser struct {
	Key    string
	Email  string
	Skills []skill.Ref
}

var demoUsers = []demoUser{
	{
		Key: "ayu", Email: "ayu@example.com",
		Skills: []skill.Ref{
			{Name: "go", Level: skill.LevelAdvanced},
			{Name: "postgresql", Level: skill.LevelIntermediate},
			{Name: "kubernetes", Level: skill.LevelBeginner},
		},
	},
	{
		Key: "budi", Email: "budi@example.com",
		Skills: []skill.Ref{
			{Name: "react", Level: skill.LevelAdvanced},
			{Name: "css", Level: skill.LevelIntermediate},
		},
	},
	{Key: "citra", Email: "citra@example.com"},
}

type UsersSeeder struct{}

func (UsersSeeder) Name() string { return "users" }

func (UsersSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "users", "id", "email"); err != nil {
		return err
	}
	return inTx(ctx, db, func(tx database.Tx) error {
		for _, u := range demoUsers {
			if _, err := tx.Exec(ctx,
				`INSERT INTO users (id, email) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
				seedID("user", u.Key), u.Email,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// UserSkillsSeeder attaches skill profiles. Inserting them fires the
// user_skills_added trigger, so a running server fans out matches for them.
type UserSkillsSeeder struct{}

func (UserSkillsSeeder) Name() string { return "user_skills" }

func (UserSkillsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := requireColumns(ctx, db, "user_skills", "id", "user_id", "name", "level"); err != nil {
		return err
	}
	return inTx(ctx, db, func(tx database.Tx) error {
		for _, u := range demoUsers {
			for _, s := range u.Skills {
				name := skill.NormalizeName(s.Name)
				if _, err := tx.Exec(ctx,
					`INSERT INTO user_skills (id, user_id, name, level) VALUES ($1, $2, $3, $4)
					 ON CONFLICT (user_id, name) DO NOTHING`,
					seedID("user_skill", u.Key+":"+name), seedID("user", u.Key), name, string(s.Level),
				); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
