package cache

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// BranchChannel carries branch-change notifications between processes (and
// between a user's open clients). Subscribers drop their cached listings for
// the branch and refetch.
const BranchChannel = "tillbook:branch_changed"

// Bus is the explicit publish/subscribe contract that replaces global
// runtime events for cross-client cache invalidation.
type Bus interface {
	PublishBranchChanged(ctx context.Context, branchID int)
}

type RedisBus struct{ rdb *redis.Client }

func NewRedisBus(rdb *redis.Client) *RedisBus { return &RedisBus{rdb: rdb} }

func (b *RedisBus) PublishBranchChanged(ctx context.Context, branchID int) {
	if err := b.rdb.Publish(ctx, BranchChannel, strconv.Itoa(branchID)).Err(); err != nil {
		log.Debug().Err(err).Int("branch", branchID).Msg("branch change publish failed")
	}
}

// Subscribe invokes fn for every branch-change notification until ctx is
// cancelled. Malformed payloads are skipped.
func (b *RedisBus) Subscribe(ctx context.Context, fn func(branchID int)) {
	sub := b.rdb.Subscribe(ctx, BranchChannel)
	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				branchID, err := strconv.Atoi(msg.Payload)
				if err != nil {
					log.Warn().Str("payload", msg.Payload).Msg("bad branch change payload")
					continue
				}
				fn(branchID)
			}
		}
	}()
}
