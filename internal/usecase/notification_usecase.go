package usecase

import (
	"context"
	"errors"

	"job-portal/internal/domain/notification"
	"job-portal/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
	maxPage          = 1_000_000
)

// UnreadCache caches per-user unread counts. A miss is (0, false, nil).
type UnreadCache interface {
	GetUnread(ctx context.Context, userID uuid.UUID) (int, bool, error)
	SetUnread(ctx context.Context, userID uuid.UUID, count int) error
	InvalidateUnread(ctx context.Context, userID uuid.UUID) error
}

// Pagination describes one page of a list of Total items.
type Pagination struct {
	CurrentPage int
	TotalPages  int
	Total       int
	PerPage     int
	HasNextPage bool
	HasPrevPage bool
}

func newPagination(page, limit, total int) Pagination {
	pages := totalPages(total, limit)
	return Pagination{
		CurrentPage: page,
		TotalPages:  pages,
		Total:       total,
		PerPage:     limit,
		HasNextPage: page < pages,
		HasPrevPage: page > 1,
	}
}

type NotificationPage struct {
	Items      []notification.View
	Pagination Pagination
}

type NotificationUsecase interface {
	List(ctx context.Context, userID uuid.UUID, page, limit int) (NotificationPage, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error)
}

type Mailbox struct {
	notifications repository.NotificationRepository
	cache         UnreadCache
	log           *zap.Logger
}

// NewMailbox builds the mailbox service. cache may be nil.
func NewMailbox(notifications repository.NotificationRepository, cache UnreadCache, log *zap.Logger) *Mailbox {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mailbox{
		notifications: notifications,
		cache:         cache,
		log:           log.With(zap.String("component", "mailbox")),
	}
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	// keeps (page-1)*limit far from overflow
	if page > maxPage {
		page = maxPage
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total, limit int) int {
	if total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

func (m *Mailbox) List(ctx context.Context, userID uuid.UUID, page, limit int) (NotificationPage, error) {
	if userID == uuid.Nil {
		return NotificationPage{}, ErrUnauthorized
	}
	page, limit = normalizePage(page, limit)

	items, err := m.notifications.ListByUser(ctx, userID, limit, (page-1)*limit)
	if err != nil {
		m.log.Error("list notifications failed", zap.String("user_id", userID.String()), zap.Error(err))
		return NotificationPage{}, ErrInternal
	}
	total, err := m.notifications.CountByUser(ctx, userID)
	if err != nil {
		m.log.Error("count notifications failed", zap.String("user_id", userID.String()), zap.Error(err))
		return NotificationPage{}, ErrInternal
	}

	return NotificationPage{
		Items:      items,
		Pagination: newPagination(page, limit, total),
	}, nil
}

// UnreadCount serves from the cache when it can and repopulates it on a miss.
// Cache errors fall through to the store.
func (m *Mailbox) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, ErrUnauthorized
	}

	if m.cache != nil {
		n, ok, err := m.cache.GetUnread(ctx, userID)
		if err != nil {
			m.log.Warn("unread cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		} else if ok {
			return n, nil
		}
	}

	n, err := m.notifications.CountUnread(ctx, userID)
	if err != nil {
		m.log.Error("count unread failed", zap.String("user_id", userID.String()), zap.Error(err))
		return 0, ErrInternal
	}

	if m.cache != nil {
		if err := m.cache.SetUnread(ctx, userID, n); err != nil {
			m.log.Warn("unread cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
		}
	}
	return n, nil
}

func (m *Mailbox) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	if err := m.notifications.MarkRead(ctx, id, userID); err != nil {
		return m.mapStoreErr(err, "mark read failed", userID)
	}
	m.invalidate(ctx, userID)
	return nil
}

func (m *Mailbox) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, ErrUnauthorized
	}
	n, err := m.notifications.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, m.mapStoreErr(err, "mark all read failed", userID)
	}
	m.invalidate(ctx, userID)
	return n, nil
}

func (m *Mailbox) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil {
		return ErrUnauthorized
	}
	if id == uuid.Nil {
		return ErrInvalidInput
	}
	if err := m.notifications.Delete(ctx, id, userID); err != nil {
		return m.mapStoreErr(err, "delete notification failed", userID)
	}
	m.invalidate(ctx, userID)
	return nil
}

func (m *Mailbox) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, ErrUnauthorized
	}
	n, err := m.notifications.DeleteAll(ctx, userID)
	if err != nil {
		return 0, m.mapStoreErr(err, "delete all notifications failed", userID)
	}
	m.invalidate(ctx, userID)
	return n, nil
}

// NotificationCreated drops the recipient's cached unread count.
func (m *Mailbox) NotificationCreated(ctx context.Context, n notification.Notification) {
	m.invalidate(ctx, n.UserID)
}

func (m *Mailbox) invalidate(ctx context.Context, userID uuid.UUID) {
	if m.cache == nil {
		return
	}
	if err := m.cache.InvalidateUnread(ctx, userID); err != nil {
		m.log.Warn("unread cache invalidate failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

func (m *Mailbox) mapStoreErr(err error, msg string, userID uuid.UUID) error {
	if errors.Is(err, repository.ErrNotificationNotFound) {
		return ErrNotificationNotFound
	}
	m.log.Error(msg, zap.String("user_id", userID.String()), zap.Error(err))
	return ErrInternal
}
