package repository

import (
	"context"
	"time"

	"poster-commerce/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	Create(ctx context.Context, tx Tx, u *model.User) error
	// Update writes the profile columns. Embedded lists are changed only
	// through the Append*/AddCustomer methods.
	Update(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	FindByMobile(ctx context.Context, tx Tx, mobile string) (*model.User, error)
	// ExistsByEmailOrMobile ignores the user with id excludeID ("" for none).
	ExistsByEmailOrMobile(ctx context.Context, tx Tx, email, mobile, excludeID string) (bool, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.User, error)
	ListWithPlans(ctx context.Context, tx Tx) ([]*model.User, error)

	AppendBooking(ctx context.Context, tx Tx, userID, orderID string) error
	AppendSubscribedPlan(ctx context.Context, tx Tx, userID string, sp model.SubscribedPlan) error
	AddCustomer(ctx context.Context, tx Tx, userID string, c model.Customer) error

	CountUsers(ctx context.Context, tx Tx) (int, error)
	CountSubscribed(ctx context.Context, tx Tx, at time.Time) (int, error)
}
