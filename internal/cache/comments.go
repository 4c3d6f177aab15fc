package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"lorehub/internal/model"
)

const (
	// CommentCachePrefix is the key prefix for per-target comment listings
	CommentCachePrefix = "comments:"

	// CommentCacheTTL bounds staleness for anonymous listings
	CommentCacheTTL = 5 * time.Minute
)

// CommentCache caches the anonymous comment listing per target. Listings with
// viewer annotations are never cached. All operations are best-effort: cache
// errors are logged and swallowed, never surfaced to the request.
type CommentCache interface {
	// Get returns the cached listing and whether it was present.
	Get(ctx context.Context, targetType string, targetID int64) ([]model.Comment, bool)

	// Set stores the listing with CommentCacheTTL.
	Set(ctx context.Context, targetType string, targetID int64, comments []model.Comment)

	// Invalidate drops the listing after any comment structural or count change.
	Invalidate(ctx context.Context, targetType string, targetID int64)
}

// RedisCommentCache implements CommentCache on Redis.
type RedisCommentCache struct {
	client *redis.Client
}

// NewCommentCache creates a CommentCache backed by Redis.
func NewCommentCache(client *redis.Client) CommentCache {
	return &RedisCommentCache{client: client}
}

func commentKey(targetType string, targetID int64) string {
	return fmt.Sprintf("%s%s:%d", CommentCachePrefix, targetType, targetID)
}

func (c *RedisCommentCache) Get(ctx context.Context, targetType string, targetID int64) ([]model.Comment, bool) {
	key := commentKey(targetType, targetID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("[CommentCache] Get FAILED: key=%s err=%v", key, err)
		return nil, false
	}

	var comments []model.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		log.Printf("[CommentCache] Get unmarshal error: key=%s err=%v", key, err)
		return nil, false
	}
	return comments, true
}

func (c *RedisCommentCache) Set(ctx context.Context, targetType string, targetID int64, comments []model.Comment) {
	key := commentKey(targetType, targetID)

	data, err := json.Marshal(comments)
	if err != nil {
		log.Printf("[CommentCache] Set marshal error: key=%s err=%v", key, err)
		return
	}

	if err := c.client.Set(ctx, key, data, CommentCacheTTL).Err(); err != nil {
		log.Printf("[CommentCache] Set FAILED: key=%s err=%v", key, err)
	}
}

func (c *RedisCommentCache) Invalidate(ctx context.Context, targetType string, targetID int64) {
	key := commentKey(targetType, targetID)

	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("[CommentCache] Invalidate FAILED: key=%s err=%v", key, err)
		return
	}
	log.Printf("[CommentCache] Invalidated key=%s", key)
}
