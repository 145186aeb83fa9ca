package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Per-table pub/sub channels carrying row ids after mutations. Delivery
// is best-effort and unordered relative to the subscriber's own writes;
// subscribers must treat messages as a refresh hint only and converge
// via a full refetch.

const changeFeedPrefix = "changefeed:"

func ChangeChannel(table string) string {
	return changeFeedPrefix + table
}

// PublishChange announces a mutation of one row. A nil client or a
// publish failure is silently ignored: the feed never gates a mutation.
func PublishChange(ctx context.Context, client *redis.Client, table, id string) {
	if client == nil {
		return
	}
	client.Publish(ctx, ChangeChannel(table), fmt.Sprintf("%s:%s", table, id))
}

// SubscribeChanges registers for change announcements on the given
// tables. The caller owns the returned PubSub and must Close it.
func SubscribeChanges(ctx context.Context, client *redis.Client, tables ...string) *redis.PubSub {
	channels := make([]string, len(tables))
	for i, table := range tables {
		channels[i] = ChangeChannel(table)
	}
	return client.Subscribe(ctx, channels...)
}
