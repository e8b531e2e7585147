package models

import "time"

// Follow is a directed edge: FollowerID follows FollowingID.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follower_following;check:chk_follows_not_self,follower_id <> following_id"`
	FollowingID uint      `json:"following_id" gorm:"not null;index;uniqueIndex:idx_follower_following"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}

// FollowListEntry is a related user as shown on follower/following pages.
// Optional flags are nil when the listing does not compute them.
type FollowListEntry struct {
	UserCompact
	FollowedAt         time.Time     `json:"followed_at"`
	FollowsBack        *bool         `json:"follows_back,omitempty"`
	CurrentUserFollows *bool         `json:"current_user_follows,omitempty"`
	FollowerCount      int64         `json:"follower_count"`
	PostCount          int           `json:"post_count"`
	LastPostAt         *time.Time    `json:"last_post_at"`
	RecentPosts        []PostSummary `json:"recent_posts,omitempty"`
}

type ToggleFollowResult struct {
	Following bool `json:"following"`
}
