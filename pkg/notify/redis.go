package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cbodonnell/twentyone/pkg/effects"
	"github.com/redis/go-redis/v9"
)

const (
	// PublicChannel carries effects every participant may observe
	PublicChannel = "twentyone:public"
	// PrivateChannelPrefix is followed by the recipient's participant ID
	PrivateChannelPrefix = "twentyone:private:"
)

// Publisher is the part of a redis client the notifier needs.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

var _ effects.Notifier = &RedisNotifier{}

// RedisNotifier publishes effects as JSON on redis pub/sub so services outside
// this process can follow the table.
type RedisNotifier struct {
	publisher Publisher
}

func NewRedisNotifier(publisher Publisher) *RedisNotifier {
	return &RedisNotifier{publisher: publisher}
}

// NewRedisClient connects to addr and checks the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %v", addr, err)
	}
	return rdb, nil
}

// PrivateChannel returns the channel private effects for recipientID go to.
func PrivateChannel(recipientID string) string {
	return PrivateChannelPrefix + recipientID
}

func (n *RedisNotifier) Announce(ctx context.Context, title, subtitle, message string) error {
	return n.publish(ctx, PublicChannel, effects.Announcement(title, subtitle, message))
}

func (n *RedisNotifier) Private(ctx context.Context, recipientID, title, message string) error {
	return n.publish(ctx, PrivateChannel(recipientID), effects.Private(recipientID, title, message))
}

func (n *RedisNotifier) CutIn(ctx context.Context, skill, actorID, targetID string, result map[string]interface{}) error {
	return n.publish(ctx, PublicChannel, effects.CutIn(skill, actorID, targetID, result))
}

func (n *RedisNotifier) Warn(ctx context.Context, recipientID, message string) error {
	return n.publish(ctx, PrivateChannel(recipientID), effects.Warning(recipientID, message))
}

func (n *RedisNotifier) Reveal(ctx context.Context, playerID string, die, value int) error {
	return n.publish(ctx, PublicChannel, effects.Reveal(playerID, die, value, 0))
}

func (n *RedisNotifier) publish(ctx context.Context, channel string, e effects.Effect) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal %s effect: %v", e.Kind, err)
	}
	if err := n.publisher.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s effect to %s: %v", e.Kind, channel, err)
	}
	return nil
}
