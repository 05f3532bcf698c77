package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"legacyvault/internal/will/models"
	id "legacyvault/pkg/domain"
	"legacyvault/pkg/platform/sentinel"
)

const (
	contentKeyPrefix  = "will:content:"
	versionsKeyPrefix = "will:versions:"
)

// RedisContentStore keeps rendered content in Redis, one string key per
// version plus a sorted set indexing the versions of each will. Records stay
// in Postgres; this store does not take part in SQL transactions.
type RedisContentStore struct {
	client *redis.Client
}

func NewRedisContentStore(client *redis.Client) *RedisContentStore {
	return &RedisContentStore{client: client}
}

func contentKey(willID id.WillID, version int) string {
	return contentKeyPrefix + willID.String() + ":" + strconv.Itoa(version)
}

func versionsKey(willID id.WillID) string {
	return versionsKeyPrefix + willID.String()
}

func (r *RedisContentStore) Put(ctx context.Context, content models.StoredContent) error {
	payload, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("marshal will content: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, contentKey(content.WillID, content.Version), payload, 0)
		pipe.ZAdd(ctx, versionsKey(content.WillID), redis.Z{
			Score:  float64(content.Version),
			Member: strconv.Itoa(content.Version),
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("store will content: %w", err)
	}
	return nil
}

func (r *RedisContentStore) Get(ctx context.Context, willID id.WillID, version int) (models.StoredContent, error) {
	raw, err := r.client.Get(ctx, contentKey(willID, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.StoredContent{}, sentinel.ErrNotFound
	}
	if err != nil {
		return models.StoredContent{}, fmt.Errorf("load will content: %w", err)
	}
	var out models.StoredContent
	if err := json.Unmarshal(raw, &out); err != nil {
		return models.StoredContent{}, fmt.Errorf("decode will content: %w", err)
	}
	return out, nil
}

func (r *RedisContentStore) Versions(ctx context.Context, willID id.WillID) ([]int, error) {
	members, err := r.client.ZRange(ctx, versionsKey(willID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list will versions: %w", err)
	}
	out := make([]int, 0, len(members))
	for _, m := range members {
		v, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("corrupt version index entry %q: %w", m, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *RedisContentStore) DeleteVersion(ctx context.Context, willID id.WillID, version int) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, contentKey(willID, version))
		pipe.ZRem(ctx, versionsKey(willID), strconv.Itoa(version))
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete will content: %w", err)
	}
	return nil
}

func (r *RedisContentStore) DeleteAll(ctx context.Context, willID id.WillID) error {
	versions, err := r.Versions(ctx, willID)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(versions)+1)
	for _, v := range versions {
		keys = append(keys, contentKey(willID, v))
	}
	keys = append(keys, versionsKey(willID))
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete will contents: %w", err)
	}
	return nil
}
