package models

import "time"

// Like records that a user liked a post. PostID is the post's MongoDB ObjectID in hex.
type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"size:24;not null;index;uniqueIndex:idx_like_post_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_like_post_user"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeState is the caller's like on a post together with the post's like total
type LikeState struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"like_count"`
}
