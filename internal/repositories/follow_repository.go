package repositories

import (
	"context"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	// ToggleFollow removes the edge followerID->followingID if present, otherwise
	// creates it stamped with at. It reports whether the edge exists afterwards.
	ToggleFollow(ctx context.Context, followerID, followingID uint, at time.Time) (bool, error)
	IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error)
	// FollowingSet reports which of candidates followerID follows.
	FollowingSet(ctx context.Context, followerID uint, candidates []uint) (map[uint]bool, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
	// GetFollowersCounts returns follower counts for each of userIDs; absent ids count 0.
	GetFollowersCounts(ctx context.Context, userIDs []uint) (map[uint]int64, error)
	// ListFollowers returns edges pointing at userID, newest first.
	ListFollowers(ctx context.Context, userID uint, limit int) ([]models.Follow, error)
	// ListFollowing returns edges leaving userID, newest first.
	ListFollowing(ctx context.Context, userID uint, limit int) ([]models.Follow, error)
	// FollowingIDs returns every user id userID follows.
	FollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// ToggleFollow runs delete-or-insert in one transaction. The unique pair index makes the
// insert a compare-and-swap: if a concurrent toggle created the edge first, the insert is
// a no-op and the edge still exists, which is what this caller asked for.
func (r *PostgresFollowRepository) ToggleFollow(ctx context.Context, followerID, followingID uint, at time.Time) (bool, error) {
	following := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).Delete(&models.Follow{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			following = false
			return nil
		}

		follow := &models.Follow{
			FollowerID:  followerID,
			FollowingID: followingID,
			CreatedAt:   at,
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error; err != nil {
			return err
		}
		following = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return following, nil
}

func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) FollowingSet(ctx context.Context, followerID uint, candidates []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(candidates))
	if len(candidates) == 0 {
		return out, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id IN ?", followerID, candidates).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowersCounts(ctx context.Context, userIDs []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		FollowingID uint
		Total       int64
	}
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Select("following_id, COUNT(*) AS total").
		Where("following_id IN ?", userIDs).
		Group("following_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.FollowingID] = row.Total
	}
	return out, nil
}

func (r *PostgresFollowRepository) ListFollowers(ctx context.Context, userID uint, limit int) ([]models.Follow, error) {
	return r.list(ctx, "following_id = ?", userID, limit)
}

func (r *PostgresFollowRepository) ListFollowing(ctx context.Context, userID uint, limit int) ([]models.Follow, error) {
	return r.list(ctx, "follower_id = ?", userID, limit)
}

func (r *PostgresFollowRepository) FollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *PostgresFollowRepository) list(ctx context.Context, cond string, userID uint, limit int) ([]models.Follow, error) {
	var follows []models.Follow
	err := r.db.WithContext(ctx).
		Where(cond, userID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}
