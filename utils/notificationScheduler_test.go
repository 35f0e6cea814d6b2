package utils

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"learnhub/lms"
	"learnhub/models/course"
)

type fakeFeedBackend struct {
	mu         sync.Mutex
	list       []course.Notification
	markCalls  int
	fetchCalls int
}

func (f *fakeFeedBackend) Notifications(ctx context.Context) ([]course.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls++
	return append([]course.Notification(nil), f.list...), nil
}

func (f *fakeFeedBackend) MarkNotificationsRead(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	for i := range f.list {
		f.list[i].IsRead = true
	}
	return nil
}

type memFeedState struct {
	mu   sync.Mutex
	seen map[uint]time.Time
}

func (m *memFeedState) NotificationsLastViewed(_ context.Context, userID uint) (time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[userID], nil
}

func (m *memFeedState) SetNotificationsLastViewed(_ context.Context, userID uint, t time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[userID] = t
	return nil
}

var base = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestCountUnread(t *testing.T) {
	list := []course.Notification{
		{ID: 1, CreatedAt: base.Add(-time.Hour)},
		{ID: 2, CreatedAt: base.Add(time.Hour)},
		{ID: 3, CreatedAt: base.Add(2 * time.Hour), IsRead: true},
	}

	assert.Equal(t, 2, CountUnread(list, time.Time{}))
	assert.Equal(t, 1, CountUnread(list, base), "entries older than the last view stay quiet")
	assert.Equal(t, 0, CountUnread(list, base.Add(3*time.Hour)))
}

func newTestPoller() (*NotificationPoller, *fakeFeedBackend, *memFeedState) {
	fb := &fakeFeedBackend{list: []course.Notification{
		{ID: 1, UserID: 1, CreatedAt: base.Add(-time.Hour)},
		{ID: 2, UserID: 1, CreatedAt: base.Add(time.Hour)},
		{ID: 3, UserID: 2, CreatedAt: base.Add(time.Hour)},
	}}
	st := &memFeedState{seen: map[uint]time.Time{}}
	p := NewNotificationPoller(fb, st, time.Minute, zap.NewNop())
	p.now = func() time.Time { return base.Add(90 * time.Minute) }
	return p, fb, st
}

func TestPollerFeedAndMarkRead(t *testing.T) {
	p, fb, st := newTestPoller()
	ctx := lms.WithToken(context.Background(), "tok")

	feed, err := p.Feed(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, feed.Notifications, 2, "other users' entries are filtered out")
	assert.Equal(t, 2, feed.Unread)

	feed, err = p.MarkRead(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, feed.Unread)
	assert.Equal(t, 1, fb.markCalls)
	assert.Equal(t, base.Add(90*time.Minute), st.seen[1])
}

func TestPollerSubscription(t *testing.T) {
	p, fb, _ := newTestPoller()

	require.NoError(t, p.Subscribe(1, "a"))
	require.NoError(t, p.Subscribe(1, "b"))
	assert.True(t, p.Subscribed(1))
	assert.Len(t, p.cron.Entries(), 1, "resubscribing keeps a single entry")

	sub := p.subs[1]
	assert.Equal(t, "b", sub.token)

	p.refresh(1, sub)
	feed, err := p.Feed(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, feed.Unread)
	assert.Equal(t, 1, fb.fetchCalls, "the cached feed is served without another fetch")

	p.Unsubscribe(1)
	assert.False(t, p.Subscribed(1))
	assert.Empty(t, p.cron.Entries())
}

func TestPollerDropsStaleRefresh(t *testing.T) {
	p, _, _ := newTestPoller()
	require.NoError(t, p.Subscribe(1, "tok"))
	stale := p.subs[1]

	p.Unsubscribe(1)
	require.NoError(t, p.Subscribe(1, "tok"))

	assert.False(t, p.store(1, stale, &Feed{Unread: 99}))
	assert.Nil(t, p.subs[1].feed)
}

func TestPollerRunsOnSchedule(t *testing.T) {
	fb := &fakeFeedBackend{list: []course.Notification{{ID: 1, UserID: 1, CreatedAt: base}}}
	p := NewNotificationPoller(fb, &memFeedState{seen: map[uint]time.Time{}}, time.Second, zap.NewNop())
	require.NoError(t, p.Subscribe(1, "tok"))
	p.Start()
	defer p.Stop()

	assert.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		sub := p.subs[1]
		return sub != nil && sub.feed != nil
	}, 5*time.Second, 50*time.Millisecond)
}
