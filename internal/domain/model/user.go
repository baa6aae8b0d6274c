package model

import (
	"strings"
	"time"

	"poster-commerce/internal/domain"

	"github.com/google/uuid"
)

// User is a shop account keyed by mobile number. Customers and subscribed
// plans are embedded; the booking list mirrors the order ledger for listing.
type User struct {
	ID                      string           `json:"id"`
	Mobile                  string           `json:"mobile"`
	Name                    string           `json:"name,omitempty"`
	Email                   string           `json:"email,omitempty"`
	ProfileImage            string           `json:"profileImage,omitempty"`
	DOB                     *time.Time       `json:"dob,omitempty"`
	MarriageAnniversaryDate *time.Time       `json:"marriageAnniversaryDate,omitempty"`
	Customers               []Customer       `json:"customers"`
	SubscribedPlans         []SubscribedPlan `json:"subscribedPlans"`
	MyBookings              []string         `json:"myBookings"`
	CreatedAt               time.Time        `json:"createdAt"`
	UpdatedAt               time.Time        `json:"updatedAt"`
}

// Customer is a contact record a user keeps for greeting purposes.
type Customer struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email,omitempty"`
	Mobile          string     `json:"mobile"`
	DOB             *time.Time `json:"dob,omitempty"`
	AnniversaryDate *time.Time `json:"anniversaryDate,omitempty"`
	Address         string     `json:"address,omitempty"`
	Gender          string     `json:"gender,omitempty"`
}

func NewUser(id, mobile, name, email string) (*User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{
		ID:              id,
		Mobile:          mobile,
		Name:            strings.TrimSpace(name),
		Email:           strings.ToLower(strings.TrimSpace(email)),
		Customers:       []Customer{},
		SubscribedPlans: []SubscribedPlan{},
		MyBookings:      []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func NewCustomer(name, mobile string) (*Customer, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(mobile) == "" {
		return nil, domain.ErrInvalidArgument
	}
	return &Customer{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(name),
		Mobile: strings.TrimSpace(mobile),
	}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }
func (u *User) Touch()       { u.UpdatedAt = time.Now() }

// DisplayName falls back to the mobile number for users who never set a name.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Mobile
}
