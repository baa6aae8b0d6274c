package model

import (
	"time"

	"poster-commerce/internal/domain"

	"github.com/google/uuid"
)

const DefaultStoryTTL = 24 * time.Hour

type Story struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Image     string    `json:"image,omitempty"`
	Video     string    `json:"video,omitempty"`
	Caption   string    `json:"caption,omitempty"`
	ExpiredAt time.Time `json:"expiredAt"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewStory(userID, caption, image, video string, ttl time.Duration, now time.Time) (*Story, error) {
	if userID == "" || ttl < 0 {
		return nil, domain.ErrInvalidArgument
	}
	if ttl == 0 {
		ttl = DefaultStoryTTL
	}
	return &Story{
		ID:        uuid.NewString(),
		UserID:    userID,
		Image:     image,
		Video:     video,
		Caption:   caption,
		ExpiredAt: now.Add(ttl),
		CreatedAt: now,
	}, nil
}

// Expired is true once now reaches ExpiredAt.
func (s *Story) Expired(now time.Time) bool { return !s.ExpiredAt.After(now) }
