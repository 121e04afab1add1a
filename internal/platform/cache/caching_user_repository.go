// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"todo_backend/internal/feature/auth/domain/entity"
	"todo_backend/internal/feature/auth/usecase"
)

// CachingUserRepository decorates a UserRepository with a Redis cache for FindByID,
// the lookup the auth guard performs on every protected request.
// Cached records never include the stored credential.
type CachingUserRepository struct {
	inner     usecase.UserRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string

	group singleflight.Group
}

var _ usecase.UserRepository = (*CachingUserRepository)(nil)

// cachedUser is the reduced record stored in Redis.
type cachedUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCachingUserRepository decorates inner with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "users".
func NewCachingUserRepository(rdb *redis.Client, ttl time.Duration, inner usecase.UserRepository, namespace string) *CachingUserRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "users"
	}
	return &CachingUserRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// Create passes through. Users are never updated, so nothing needs invalidating.
func (c *CachingUserRepository) Create(ctx context.Context, u *entity.User) error {
	return c.inner.Create(ctx, u)
}

// FindByEmail passes through; login needs the stored credential.
func (c *CachingUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return c.inner.FindByEmail(ctx, email)
}

// FindByID checks the cache first, then falls back to the inner repository.
// Concurrent misses for the same id share one database query.
func (c *CachingUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FindByID(ctx, id)
	}

	key := c.cacheKey(id)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var cu cachedUser
		if err := json.Unmarshal(b, &cu); err == nil && cu.ID == id {
			return cu.toEntity(), nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to database, coalescing concurrent misses
	ch := c.group.DoChan(key, func() (any, error) {
		u, err := c.inner.FindByID(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}
		// 3) Store in cache (best effort)
		if b, err := json.Marshal(fromEntity(u)); err == nil {
			_ = c.rdb.Set(context.WithoutCancel(ctx), key, b, c.ttl).Err()
		}
		return u, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		u := *res.Val.(*entity.User)
		return &u, nil
	}
}

func (c *CachingUserRepository) cacheKey(id string) string {
	return c.namespace + ":" + safe(id)
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}

func fromEntity(u *entity.User) cachedUser {
	return cachedUser{ID: u.ID, Email: u.Email, Name: u.Name, CreatedAt: u.CreatedAt}
}

func (cu cachedUser) toEntity() *entity.User {
	return &entity.User{ID: cu.ID, Email: cu.Email, Name: cu.Name, CreatedAt: cu.CreatedAt}
}
