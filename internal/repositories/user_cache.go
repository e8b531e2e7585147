package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const userKeyFormat = "user:%d" // <userID>

// cachedUser mirrors models.User field for field; it keeps the token identifier,
// which the public JSON form omits.
type cachedUser struct {
	ID              uint      `json:"id"`
	TokenIdentifier string    `json:"token_identifier"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Username        *string   `json:"username"`
	ImageURL        string    `json:"image_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func decodeCachedUser(raw []byte) (*models.User, error) {
	var cu cachedUser
	if err := json.Unmarshal(raw, &cu); err != nil {
		return nil, err
	}
	user := models.User(cu)
	return &user, nil
}

func userKey(id uint) string {
	return fmt.Sprintf(userKeyFormat, id)
}

// CachedUserRepository is a read-through Redis cache in front of a UserRepository.
// Only lookups by id are cached; writes go to the store and invalidate the entry.
// Cache failures are logged and fall back to the store.
type CachedUserRepository struct {
	UserRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedUserRepository(next UserRepository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		UserRepository: next,
		rdb:            rdb,
		ttl:            ttl,
		logger:         logger,
	}
}

func (r *CachedUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	if user, ok := r.get(ctx, id); ok {
		return user, nil
	}
	user, err := r.UserRepository.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, user)
	return user, nil
}

func (r *CachedUserRepository) GetUsersByIDs(ctx context.Context, ids []uint) (map[uint]models.User, error) {
	out := make(map[uint]models.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userKey(id)
	}
	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.Warn("redis mget users", zap.Error(err))
		values = make([]interface{}, len(ids))
	}

	var misses []uint
	for i, id := range ids {
		raw, ok := values[i].(string)
		if !ok {
			misses = append(misses, id)
			continue
		}
		user, err := decodeCachedUser([]byte(raw))
		if err != nil {
			misses = append(misses, id)
			continue
		}
		out[id] = *user
	}
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := r.UserRepository.GetUsersByIDs(ctx, misses)
	if err != nil {
		return nil, err
	}
	for id, user := range fetched {
		u := user
		r.set(ctx, &u)
		out[id] = user
	}
	return out, nil
}

func (r *CachedUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	if err := r.UserRepository.UpdateUser(ctx, user); err != nil {
		return err
	}
	if err := r.rdb.Del(ctx, userKey(user.ID)).Err(); err != nil {
		r.logger.Warn("redis invalidate user", zap.Uint("user_id", user.ID), zap.Error(err))
	}
	return nil
}

func (r *CachedUserRepository) get(ctx context.Context, id uint) (*models.User, bool) {
	raw, err := r.rdb.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis get user", zap.Uint("user_id", id), zap.Error(err))
		}
		return nil, false
	}
	user, err := decodeCachedUser(raw)
	if err != nil {
		return nil, false
	}
	return user, true
}

func (r *CachedUserRepository) set(ctx context.Context, user *models.User) {
	data, err := json.Marshal(cachedUser(*user))
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, userKey(user.ID), data, r.ttl).Err(); err != nil {
		r.logger.Warn("redis set user", zap.Uint("user_id", user.ID), zap.Error(err))
	}
}
