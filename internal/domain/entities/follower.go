package entities

import (
	"time"

	"github.com/google/uuid"
)

// Follower links a teacher to a teacher they follow.
type Follower struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FollowerID  uuid.UUID `json:"follower_id" gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair"`
	FollowingID uuid.UUID `json:"following_id" gorm:"type:uuid;not null;uniqueIndex:idx_follow_pair;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func NewFollower(followerID, followingID uuid.UUID) *Follower {
	return &Follower{
		ID:          uuid.New(),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	}
}

// FollowStats holds follow counts for one teacher.
type FollowStats struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}
