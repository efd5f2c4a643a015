package repository

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	userDomain "github.com/shareit-team/shareit-server/internal/domain/user"
)

// CachedUserRepository is a read-through cache in front of a UserRepository.
// Booking, item and request operations check user existence on every call, so
// lookups by id are served from an expiring LRU. Writes through this repository
// evict; writes made by other replicas are evicted through user events.
type CachedUserRepository struct {
	next   userDomain.UserRepository
	cache  *expirable.LRU[int64, userDomain.User]
	logger *zap.Logger
}

// NewCachedUserRepository wraps next with a cache of size entries living ttl.
func NewCachedUserRepository(next userDomain.UserRepository, size int, ttl time.Duration, logger *zap.Logger) *CachedUserRepository {
	if size <= 0 {
		size = 1024
	}
	return &CachedUserRepository{
		next:   next,
		cache:  expirable.NewLRU[int64, userDomain.User](size, nil, ttl),
		logger: logger,
	}
}

// FindByID returns a copy of the cached user, loading it on a miss.
func (r *CachedUserRepository) FindByID(ctx context.Context, id int64) (*userDomain.User, error) {
	if u, ok := r.cache.Get(id); ok {
		return &u, nil
	}
	u, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.cache.Add(id, *u)
	return u, nil
}

func (r *CachedUserRepository) FindAll(ctx context.Context) ([]*userDomain.User, error) {
	return r.next.FindAll(ctx)
}

// Exists answers from the cache when possible. Misses are not cached.
func (r *CachedUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	if _, ok := r.cache.Peek(id); ok {
		return true, nil
	}
	return r.next.Exists(ctx, id)
}

func (r *CachedUserRepository) Save(ctx context.Context, u *userDomain.User) (*userDomain.User, error) {
	saved, err := r.next.Save(ctx, u)
	if err != nil {
		return nil, err
	}
	r.cache.Add(saved.ID(), *saved)
	return saved, nil
}

func (r *CachedUserRepository) Update(ctx context.Context, u *userDomain.User) error {
	r.Evict(u.ID())
	return r.next.Update(ctx, u)
}

func (r *CachedUserRepository) Delete(ctx context.Context, id int64) error {
	r.Evict(id)
	return r.next.Delete(ctx, id)
}

// Evict drops id from the cache.
func (r *CachedUserRepository) Evict(id int64) {
	if r.cache.Remove(id) {
		r.logger.Debug("user evicted from cache", zap.Int64("user_id", id))
	}
}

// Len returns the number of cached users.
func (r *CachedUserRepository) Len() int {
	return r.cache.Len()
}
