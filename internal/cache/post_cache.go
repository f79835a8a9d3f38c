package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
)

// PostCache keeps rendered single-post payloads in redis so hot posts skip
// the database. Identity lookups are never cached; every authenticated
// request still resolves its user from the database.
type PostCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewPostCache(client *redisv9.Client, ttl time.Duration) *PostCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &PostCache{client: client, ttl: ttl}
}

// GetPost unmarshals the cached payload for postID into dest. The second
// return reports a cache hit.
func (c *PostCache) GetPost(ctx context.Context, postID uint, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, c.postKey(postID)).Result()
	if err == redisv9.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get post failed: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("unmarshal cached post failed: %w", err)
	}
	return true, nil
}

func (c *PostCache) SetPost(ctx context.Context, postID uint, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal post cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.postKey(postID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set post failed: %w", err)
	}
	return nil
}

// InvalidatePost drops the cached payload after any mutation of the post or
// its comments.
func (c *PostCache) InvalidatePost(ctx context.Context, postID uint) error {
	if err := c.client.Del(ctx, c.postKey(postID)).Err(); err != nil {
		return fmt.Errorf("redis delete post failed: %w", err)
	}
	return nil
}

func (c *PostCache) postKey(postID uint) string {
	return fmt.Sprintf("blog:post:%d", postID)
}
