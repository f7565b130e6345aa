package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"job-portal/internal/domain/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeUnreadCache struct {
	counts      map[uuid.UUID]int
	getErr      error
	invalidated []uuid.UUID
}

func newFakeUnreadCache() *fakeUnreadCache {
	return &fakeUnreadCache{counts: map[uuid.UUID]int{}}
}

func (c *fakeUnreadCache) GetUnread(_ context.Context, userID uuid.UUID) (int, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	n, ok := c.counts[userID]
	return n, ok, nil
}

func (c *fakeUnreadCache) SetUnread(_ context.Context, userID uuid.UUID, n int) error {
	c.counts[userID] = n
	return nil
}

func (c *fakeUnreadCache) InvalidateUnread(_ context.Context, userID uuid.UUID) error {
	delete(c.counts, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

func seedNotifications(t *testing.T, repo *fakeNotificationRepo, userID uuid.UUID, n int) []notification.Notification {
	t.Helper()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]notification.Notification, 0, n)
	for i := 0; i < n; i++ {
		created, err := repo.Create(context.Background(), notification.Notification{
			UserID:    userID,
			JobID:     uuid.New(),
			Type:      notification.TypeJobMatch,
			Title:     "t",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func TestMailbox_ListPagination(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	seeded := seedNotifications(t, repo, userID, 25)
	seedNotifications(t, repo, uuid.New(), 3)

	m := NewMailbox(repo, nil, zaptest.NewLogger(t))

	first, err := m.List(context.Background(), userID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, first.Items, 10)
	assert.Equal(t, seeded[24].ID, first.Items[0].ID)
	assert.Equal(t, Pagination{
		CurrentPage: 1,
		TotalPages:  3,
		Total:       25,
		PerPage:     10,
		HasNextPage: true,
		HasPrevPage: false,
	}, first.Pagination)

	last, err := m.List(context.Background(), userID, 3, 10)
	require.NoError(t, err)
	assert.Len(t, last.Items, 5)
	assert.False(t, last.Pagination.HasNextPage)
	assert.True(t, last.Pagination.HasPrevPage)

	capped, err := m.List(context.Background(), userID, 1, 500)
	require.NoError(t, err)
	assert.Equal(t, 50, capped.Pagination.PerPage)
	assert.Len(t, capped.Items, 25)
}

func TestMailbox_ListHugePage(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	seedNotifications(t, repo, userID, 3)

	m := NewMailbox(repo, nil, zaptest.NewLogger(t))

	page, err := m.List(context.Background(), userID, math.MaxInt/10+2, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, maxPage, page.Pagination.CurrentPage)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.False(t, page.Pagination.HasNextPage)
}

func TestMailbox_ListEmpty(t *testing.T) {
	m := NewMailbox(newFakeNotificationRepo(), nil, nil)
	page, err := m.List(context.Background(), uuid.New(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 0, page.Pagination.TotalPages)
	assert.False(t, page.Pagination.HasNextPage)
}

func TestMailbox_Unauthorized(t *testing.T) {
	m := NewMailbox(newFakeNotificationRepo(), nil, nil)
	_, err := m.List(context.Background(), uuid.Nil, 1, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = m.UnreadCount(context.Background(), uuid.Nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMailbox_UnreadCountUsesCache(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	seedNotifications(t, repo, userID, 4)
	cache := newFakeUnreadCache()
	m := NewMailbox(repo, cache, zaptest.NewLogger(t))

	n, err := m.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 4, cache.counts[userID])

	n, err = m.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 1, repo.countCalls)
}

func TestMailbox_UnreadCountCacheErrorFallsBack(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	seedNotifications(t, repo, userID, 2)
	cache := newFakeUnreadCache()
	cache.getErr = errors.New("redis down")
	m := NewMailbox(repo, cache, zaptest.NewLogger(t))

	n, err := m.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMailbox_UnreadCountStoreError(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.countErr = errors.New("db down")
	m := NewMailbox(repo, nil, zaptest.NewLogger(t))

	_, err := m.UnreadCount(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrInternal)
}

func TestMailbox_MarkReadInvalidatesCache(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	seeded := seedNotifications(t, repo, userID, 3)
	cache := newFakeUnreadCache()
	m := NewMailbox(repo, cache, zaptest.NewLogger(t))

	_, err := m.UnreadCount(context.Background(), userID)
	require.NoError(t, err)

	require.NoError(t, m.MarkRead(context.Background(), userID, seeded[0].ID))
	assert.Contains(t, cache.invalidated, userID)

	n, err := m.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMailbox_MarkReadNotFound(t *testing.T) {
	repo := newFakeNotificationRepo()
	owner, other := uuid.New(), uuid.New()
	seeded := seedNotifications(t, repo, owner, 1)
	m := NewMailbox(repo, nil, zaptest.NewLogger(t))

	assert.ErrorIs(t, m.MarkRead(context.Background(), other, seeded[0].ID), ErrNotificationNotFound)
	assert.ErrorIs(t, m.MarkRead(context.Background(), owner, uuid.Nil), ErrInvalidInput)
}

func TestMailbox_MarkAllReadAndDelete(t *testing.T) {
	repo := newFakeNotificationRepo()
	userID := uuid.New()
	seeded := seedNotifications(t, repo, userID, 3)
	cache := newFakeUnreadCache()
	m := NewMailbox(repo, cache, zaptest.NewLogger(t))

	n, err := m.MarkAllRead(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	unread, err := m.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	require.NoError(t, m.Delete(context.Background(), userID, seeded[1].ID))
	assert.ErrorIs(t, m.Delete(context.Background(), userID, seeded[1].ID), ErrNotificationNotFound)

	removed, err := m.DeleteAll(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Len(t, cache.invalidated, 3)
}

func TestMailbox_NotificationCreatedInvalidates(t *testing.T) {
	cache := newFakeUnreadCache()
	userID := uuid.New()
	cache.counts[userID] = 1
	m := NewMailbox(newFakeNotificationRepo(), cache, nil)

	m.NotificationCreated(context.Background(), notification.Notification{UserID: userID})
	_, ok := cache.counts[userID]
	assert.False(t, ok)
}
