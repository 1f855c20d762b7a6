package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jan-ice17/supermarket-inventory/internal/core/domain"
)

const (
	itemKeyPrefix     = "item:"
	logsKey           = "inventory:logs"
	seqKey            = "inventory:seq"
	idempotencyKeyTTL = 24 * time.Hour
)

// ErrMirrorGap means an earlier change never reached the mirror. Later
// changes are refused until the mirror is reseeded.
var ErrMirrorGap = errors.New("mirror gap")

// applyChangeScript returns 1 when applied, 0 for a replay and -1 when the
// change does not directly follow the last applied seq.
var applyChangeScript = redis.NewScript(`
local logs = KEYS[1]
local item = KEYS[2]
local last_seq = KEYS[3]
local seq = tonumber(ARGV[1])
local last = tonumber(redis.call('GET', last_seq) or '0')

if seq <= last then
	return 0
end
if seq ~= last + 1 then
	return -1
end

redis.call('RPUSH', logs, ARGV[2])
if ARGV[3] == '' then
	redis.call('DEL', item)
else
	redis.call('SET', item, ARGV[3])
end
redis.call('SET', last_seq, seq)

return 1
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

func itemKey(id uint32) string {
	return itemKeyPrefix + strconv.FormatUint(uint64(id), 10)
}

func (r *RedisAdapter) ApplyChange(ctx context.Context, change domain.Change) error {
	var payload string
	if change.Kind != domain.ChangeRemoved {
		data, err := json.Marshal(change.Item)
		if err != nil {
			return fmt.Errorf("marshal item: %w", err)
		}
		payload = string(data)
	}

	keys := []string{logsKey, itemKey(change.ItemID), seqKey}
	result, err := applyChangeScript.Run(ctx, r.client, keys, change.Seq, change.Entry, payload).Int()
	if err != nil {
		return fmt.Errorf("apply change: %w", err)
	}
	if result < 0 {
		return fmt.Errorf("%w: change %d does not follow the mirrored log", ErrMirrorGap, change.Seq)
	}
	return nil
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// Reseed replaces the mirror with snap so that the next change applied is
// snap.LastSeq+1.
func (r *RedisAdapter) Reseed(ctx context.Context, snap domain.Snapshot) error {
	stale, err := r.client.Keys(ctx, itemKeyPrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("list items: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, logsKey)
		if len(stale) > 0 {
			pipe.Del(ctx, stale...)
		}
		for _, item := range snap.Items {
			data, err := json.Marshal(item)
			if err != nil {
				return fmt.Errorf("marshal item: %w", err)
			}
			pipe.Set(ctx, itemKey(item.ID), data, 0)
		}
		if len(snap.Logs) > 0 {
			values := make([]interface{}, len(snap.Logs))
			for i, entry := range snap.Logs {
				values[i] = entry
			}
			pipe.RPush(ctx, logsKey, values...)
		}
		pipe.Set(ctx, seqKey, snap.LastSeq, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reseed mirror: %w", err)
	}
	return nil
}
