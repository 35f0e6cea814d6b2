package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"learnhub/lms"
	"learnhub/models/course"
)

// NotificationBackend is the notification part of the REST backend.
type NotificationBackend interface {
	Notifications(ctx context.Context) ([]course.Notification, error)
	MarkNotificationsRead(ctx context.Context) error
}

// NotificationState stores when the user last looked at the feed.
type NotificationState interface {
	NotificationsLastViewed(ctx context.Context, userID uint) (time.Time, error)
	SetNotificationsLastViewed(ctx context.Context, userID uint, t time.Time) error
}

// Feed is the user's notification feed as last fetched.
type Feed struct {
	Notifications []course.Notification `json:"notifications"`
	Unread        int                   `json:"unread"`
	FetchedAt     time.Time             `json:"fetched_at"`
}

type subscription struct {
	entry cron.EntryID
	token string
	feed  *Feed
}

// NotificationPoller refreshes the feed of every subscribed user on a fixed
// interval. Each subscription lives until Unsubscribe.
type NotificationPoller struct {
	cron     *cron.Cron
	backend  NotificationBackend
	state    NotificationState
	interval time.Duration
	log      *zap.Logger
	now      func() time.Time

	mu   sync.Mutex
	subs map[uint]*subscription
}

func NewNotificationPoller(backend NotificationBackend, state NotificationState, interval time.Duration, log *zap.Logger) *NotificationPoller {
	return &NotificationPoller{
		cron:     cron.New(),
		backend:  backend,
		state:    state,
		interval: interval,
		log:      log.Named("notification-poller"),
		now:      time.Now,
		subs:     map[uint]*subscription{},
	}
}

// Start begins running scheduled refreshes.
func (p *NotificationPoller) Start() {
	p.cron.Start()
	p.log.Info("notification poller started", zap.Duration("interval", p.interval))
}

// Stop halts the scheduler and waits for running refreshes to finish.
func (p *NotificationPoller) Stop() {
	<-p.cron.Stop().Done()
	p.log.Info("notification poller stopped")
}

// Subscribe starts polling for userID. Subscribing again only swaps the token.
func (p *NotificationPoller) Subscribe(userID uint, token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if sub, ok := p.subs[userID]; ok {
		sub.token = token
		return nil
	}

	sub := &subscription{token: token}
	entry := p.cron.Schedule(cron.Every(p.interval), cron.FuncJob(func() {
		p.refresh(userID, sub)
	}))
	sub.entry = entry
	p.subs[userID] = sub
	p.log.Debug("subscribed", zap.Uint("user_id", userID))
	return nil
}

// Unsubscribe stops polling for userID. A refresh already in flight is discarded.
func (p *NotificationPoller) Unsubscribe(userID uint) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub, ok := p.subs[userID]
	if !ok {
		return
	}
	p.cron.Remove(sub.entry)
	delete(p.subs, userID)
	p.log.Debug("unsubscribed", zap.Uint("user_id", userID))
}

// Subscribed reports whether userID has an active subscription.
func (p *NotificationPoller) Subscribed(userID uint) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.subs[userID]
	return ok
}

func (p *NotificationPoller) refresh(userID uint, sub *subscription) {
	p.mu.Lock()
	token := sub.token
	p.mu.Unlock()

	ctx := lms.WithToken(context.Background(), token)
	feed, err := p.fetch(ctx, userID)
	if err != nil {
		p.log.Warn("notification refresh failed", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	p.store(userID, sub, feed)
}

// store keeps feed unless the subscription it was fetched for is gone.
func (p *NotificationPoller) store(userID uint, sub *subscription, feed *Feed) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.subs[userID] != sub {
		return false
	}
	sub.feed = feed
	return true
}

func (p *NotificationPoller) fetch(ctx context.Context, userID uint) (*Feed, error) {
	list, err := p.backend.Notifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("load notifications: %w", err)
	}
	lastViewed, err := p.state.NotificationsLastViewed(ctx, userID)
	if err != nil {
		return nil, err
	}

	own := make([]course.Notification, 0, len(list))
	for _, n := range list {
		if course.OwnedBy(n.UserID, userID) {
			own = append(own, n)
		}
	}
	return &Feed{Notifications: own, Unread: CountUnread(own, lastViewed), FetchedAt: p.now()}, nil
}

// Feed returns the cached feed, fetching it when nothing was polled yet.
// ctx must carry the user's token.
func (p *NotificationPoller) Feed(ctx context.Context, userID uint) (*Feed, error) {
	p.mu.Lock()
	sub := p.subs[userID]
	var cached *Feed
	if sub != nil {
		cached = sub.feed
	}
	p.mu.Unlock()

	if cached != nil {
		return cached, nil
	}

	feed, err := p.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub != nil {
		p.store(userID, sub, feed)
	}
	return feed, nil
}

// MarkRead marks the feed read on the backend and remembers when it was viewed.
func (p *NotificationPoller) MarkRead(ctx context.Context, userID uint) (*Feed, error) {
	if err := p.backend.MarkNotificationsRead(ctx); err != nil {
		return nil, fmt.Errorf("mark notifications read: %w", err)
	}
	viewedAt := p.now()
	if err := p.state.SetNotificationsLastViewed(ctx, userID, viewedAt); err != nil {
		return nil, err
	}

	feed, err := p.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	if sub := p.subs[userID]; sub != nil {
		sub.feed = feed
	}
	p.mu.Unlock()
	return feed, nil
}

// CountUnread counts notifications that are unread and newer than lastViewed.
// Older unread entries were already seen and stay quiet.
func CountUnread(list []course.Notification, lastViewed time.Time) int {
	n := 0
	for _, item := range list {
		if !item.IsRead && item.CreatedAt.After(lastViewed) {
			n++
		}
	}
	return n
}
