package notification

import (
	"context"
	"sync"

	"github.com/dhis2-sre/campus-events/pkg/model"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
)

// subscriberBuffer is the number of notifications held for a subscriber which isn't receiving.
// Notifications sent to a full subscriber are dropped, they are still persisted.
const subscriberBuffer = 16

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[uuid.UUID]subscriber),
	}
}

type subscriber struct {
	userId  uint
	channel chan model.Notification
}

// Broker fans notifications out to the live streams of users. A user can have several streams open.
type Broker struct {
	subscribers map[uuid.UUID]subscriber
	lock        sync.RWMutex
}

// Subscribe returns the id of a new subscription for the user
func (b *Broker) Subscribe(userId uint) uuid.UUID {
	b.lock.Lock()
	defer b.lock.Unlock()
	id := uuid.New()
	b.subscribers[id] = subscriber{
		userId:  userId,
		channel: make(chan model.Notification, subscriberBuffer),
	}
	return id
}

func (b *Broker) Unsubscribe(id uuid.UUID) {
	b.lock.Lock()
	defer b.lock.Unlock()
	if s, ok := b.subscribers[id]; ok {
		close(s.channel)
		delete(b.subscribers, id)
	}
}

// Subscribers returns the ids of the users with at least one subscription
func (b *Broker) Subscribers() []uint {
	b.lock.RLock()
	defer b.lock.RUnlock()
	users := make(map[uint]struct{})
	for _, s := range b.subscribers {
		users[s.userId] = struct{}{}
	}
	return maps.Keys(users)
}

// Send delivers the notification to every subscription of its user and returns the number of
// subscriptions it was delivered to
func (b *Broker) Send(notification model.Notification) int {
	b.lock.RLock()
	defer b.lock.RUnlock()
	delivered := 0
	for _, s := range b.subscribers {
		if s.userId != notification.UserID {
			continue
		}
		select {
		case s.channel <- notification:
			delivered++
		default:
		}
	}
	return delivered
}

// Receive blocks until a notification arrives for the subscription. False is returned if the
// subscription is closed or ctx is done.
func (b *Broker) Receive(ctx context.Context, id uuid.UUID) (model.Notification, bool) {
	b.lock.RLock()
	s, ok := b.subscribers[id]
	b.lock.RUnlock()
	if !ok {
		return model.Notification{}, false
	}

	select {
	case notification, ok := <-s.channel:
		return notification, ok
	case <-ctx.Done():
		return model.Notification{}, false
	}
}
