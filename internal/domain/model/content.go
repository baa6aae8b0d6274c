package model

import (
	"strings"
	"time"

	"poster-commerce/internal/domain"

	"github.com/google/uuid"
)

type PageKind string

const (
	PagePrivacyPolicy PageKind = "privacy_policy"
	PageAboutUs       PageKind = "about_us"
)

// Page is a singleton CMS document such as the privacy policy.
type Page struct {
	Kind    PageKind  `json:"-"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Date    time.Time `json:"date"`
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewContactMessage(name, email, mobile, message string) (*ContactMessage, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(message) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &ContactMessage{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     strings.TrimSpace(email),
		Mobile:    strings.TrimSpace(mobile),
		Message:   strings.TrimSpace(message),
		CreatedAt: time.Now(),
	}, nil
}
