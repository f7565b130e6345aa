package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"job-portal/internal/database"
	"job-portal/internal/domain/notification"

	"github.com/google/uuid"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(ctx context.Context, n notification.Notification) (notification.Notification, error)
	ExistsJobMatch(ctx context.Context, userID, jobID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]notification.View, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type PostgresNotificationRepository struct {
	db database.DB
}

func NewPostgresNotificationRepository(db database.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// Create inserts n and returns it with the generated ID and creation time.
func (r *PostgresNotificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.MatchedSkills == nil {
		n.MatchedSkills = []string{}
	}
	skills, err := json.Marshal(n.MatchedSkills)
	if err != nil {
		return notification.Notification{}, fmt.Errorf("encode matched skills: %w", err)
	}

	var jobID *uuid.UUID
	if n.JobID != uuid.Nil {
		jobID = &n.JobID
	}

	row := r.db.QueryRow(ctx,
		`INSERT INTO notifications (id, user_id, job_id, type, title, message, is_read, match_score, match_percentage, matched_skills)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		n.ID, n.UserID, jobID, string(n.Type), n.Title, n.Message, n.IsRead, n.MatchScore, n.MatchPercentage, string(skills),
	)
	if err := row.Scan(&n.CreatedAt); err != nil {
		return notification.Notification{}, err
	}
	return n, nil
}

func (r *PostgresNotificationRepository) ExistsJobMatch(ctx context.Context, userID, jobID uuid.UUID) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notifications WHERE user_id = $1 AND job_id = $2 AND type = $3)`,
		userID, jobID, string(notification.TypeJobMatch),
	)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListByUser returns the user's notifications newest first, joined with job
// title and company.
func (r *PostgresNotificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]notification.View, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT n.id, n.user_id, n.job_id, n.type, n.title, n.message, n.is_read,
		        n.match_score, n.match_percentage, n.matched_skills, n.created_at,
		        COALESCE(j.title, ''), c.id, COALESCE(c.name, '')
		 FROM notifications n
		 LEFT JOIN jobs j ON j.id = n.job_id
		 LEFT JOIN companies c ON c.id = j.company_id
		 WHERE n.user_id = $1
		 ORDER BY n.created_at DESC, n.id DESC
		 LIMIT $2 OFFSET $3`,
		userID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notification.View, 0)
	for rows.Next() {
		var (
			v         notification.View
			jobID     uuid.NullUUID
			companyID uuid.NullUUID
			typ       string
			skills    []byte
		)
		if err := rows.Scan(
			&v.ID, &v.UserID, &jobID, &typ, &v.Title, &v.Message, &v.IsRead,
			&v.MatchScore, &v.MatchPercentage, &skills, &v.CreatedAt,
			&v.JobTitle, &companyID, &v.CompanyName,
		); err != nil {
			return nil, err
		}
		v.Type = notification.Type(typ)
		if jobID.Valid {
			v.JobID = jobID.UUID
		}
		if companyID.Valid {
			v.CompanyID = companyID.UUID
		}
		if v.MatchedSkills, err = decodeSkills(skills); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresNotificationRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresNotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = false`, userID)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresNotificationRepository) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE user_id = $1 AND is_read = false`,
		userID,
	)
}

func (r *PostgresNotificationRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	affected, err := r.db.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *PostgresNotificationRepository) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
}

// DeleteOlderThan removes notifications created strictly before cutoff.
func (r *PostgresNotificationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.db.Exec(ctx, `DELETE FROM notifications WHERE created_at < $1`, cutoff)
}

func decodeSkills(b []byte) ([]string, error) {
	out := []string{}
	if len(b) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode matched skills: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
