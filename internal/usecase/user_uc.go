package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/adapter"
	"poster-commerce/internal/domain/ports/repository"
	"poster-commerce/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
)

// Compile-time check
var _ UserUseCase = (*userUC)(nil)

// UserUseCase exposes account, profile and customer operations.
type UserUseCase interface {
	Register(ctx context.Context, name, email, mobile string) (*model.User, error)
	// Login returns the user owning mobile, creating it on first sight.
	Login(ctx context.Context, mobile string) (user *model.User, created bool, err error)
	Get(ctx context.Context, id string) (*model.User, error)
	Update(ctx context.Context, id string, p UserPatch) (*model.User, error)
	SetProfileImage(ctx context.Context, id string, up adapter.Upload) (*model.User, error)
	AddCustomer(ctx context.Context, userID string, in CustomerInput) (*model.Customer, error)
	ListCustomers(ctx context.Context, userID string) ([]model.Customer, error)
	IsBirthday(ctx context.Context, userID string) (bool, *model.User, error)
	ListAll(ctx context.Context) ([]*model.User, error)
	ListWithPlans(ctx context.Context) ([]*model.User, error)
}

// UserPatch carries optional profile changes; nil means unchanged.
type UserPatch struct {
	Name                    *string
	Email                   *string
	Mobile                  *string
	DOB                     *time.Time
	MarriageAnniversaryDate *time.Time
	ProfileImage            *adapter.Upload
}

type CustomerInput struct {
	Name            string
	Email           string
	Mobile          string
	DOB             *time.Time
	AnniversaryDate *time.Time
	Address         string
	Gender          string
}

type userUC struct {
	users repository.UserRepository
	files adapter.FileStorage
	tm    repository.TransactionManager
	loc   *time.Location
	log   *zerolog.Logger
}

func NewUserUseCase(users repository.UserRepository, files adapter.FileStorage, tm repository.TransactionManager, loc *time.Location, logger *zerolog.Logger) *userUC {
	if loc == nil {
		loc = time.UTC
	}
	return &userUC{
		users: users,
		files: files,
		tm:    tm,
		loc:   loc,
		log:   logger,
	}
}

func (u *userUC) Register(ctx context.Context, name, email, mobile string) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Register")()

	nu, err := model.NewUser("", mobile, name, email)
	if err != nil {
		return nil, err
	}
	if nu.Email == "" || nu.Name == "" {
		return nil, domain.ErrInvalidArgument
	}

	err = u.tm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context, tx repository.Tx) error {
		exists, err := u.users.ExistsByEmailOrMobile(ctx, tx, nu.Email, nu.Mobile, "")
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrAlreadyExists
		}
		return u.users.Create(ctx, tx, nu)
	})
	if err != nil {
		return nil, err
	}
	return nu, nil
}

func (u *userUC) Login(ctx context.Context, mobile string) (*model.User, bool, error) {
	defer logging.TraceDuration(u.log, "UserUC.Login")()

	mobile = strings.TrimSpace(mobile)
	if mobile == "" {
		return nil, false, domain.ErrInvalidArgument
	}

	var (
		user    *model.User
		created bool
	)
	txOpts := pgx.TxOptions{IsoLevel: pgx.Serializable}
	err := u.tm.WithTx(ctx, txOpts, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.users.FindByMobile(ctx, tx, mobile)
		if err == nil {
			user = usr
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		nu, err := model.NewUser("", mobile, "", "")
		if err != nil {
			return err
		}
		if err := u.users.Create(ctx, tx, nu); err != nil {
			u.log.Error().Err(err).Msg("Failed to create user on login")
			return err
		}
		user, created = nu, true
		return nil
	})
	return user, created, err
}

func (u *userUC) Get(ctx context.Context, id string) (*model.User, error) {
	return u.users.FindByID(ctx, repository.NoTX, id)
}

func (u *userUC) Update(ctx context.Context, id string, p UserPatch) (*model.User, error) {
	defer logging.TraceDuration(u.log, "UserUC.Update")()

	var imageURL string
	if p.ProfileImage != nil {
		url, err := u.files.Put(ctx, "profiles", *p.ProfileImage)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	var user *model.User
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		usr, err := u.users.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if p.Name != nil {
			usr.Name = strings.TrimSpace(*p.Name)
		}
		if p.Email != nil {
			usr.Email = strings.ToLower(strings.TrimSpace(*p.Email))
		}
		if p.Mobile != nil {
			m := strings.TrimSpace(*p.Mobile)
			if m == "" {
				return domain.ErrInvalidArgument
			}
			usr.Mobile = m
		}
		if p.DOB != nil {
			usr.DOB = p.DOB
		}
		if p.MarriageAnniversaryDate != nil {
			usr.MarriageAnniversaryDate = p.MarriageAnniversaryDate
		}
		if imageURL != "" {
			usr.ProfileImage = imageURL
		}

		if p.Email != nil || p.Mobile != nil {
			taken, err := u.users.ExistsByEmailOrMobile(ctx, tx, usr.Email, usr.Mobile, usr.ID)
			if err != nil {
				return err
			}
			if taken {
				return domain.ErrAlreadyExists
			}
		}
		usr.Touch()
		if err := u.users.Update(ctx, tx, usr); err != nil {
			return err
		}
		user = usr
		return nil
	})
	if err != nil {
		if imageURL != "" {
			_ = u.files.Delete(ctx, imageURL)
		}
		return nil, err
	}
	return user, nil
}

func (u *userUC) SetProfileImage(ctx context.Context, id string, up adapter.Upload) (*model.User, error) {
	return u.Update(ctx, id, UserPatch{ProfileImage: &up})
}

func (u *userUC) AddCustomer(ctx context.Context, userID string, in CustomerInput) (*model.Customer, error) {
	c, err := model.NewCustomer(in.Name, in.Mobile)
	if err != nil {
		return nil, err
	}
	c.Email = strings.TrimSpace(in.Email)
	c.DOB = in.DOB
	c.AnniversaryDate = in.AnniversaryDate
	c.Address = strings.TrimSpace(in.Address)
	c.Gender = strings.TrimSpace(in.Gender)

	if _, err := u.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if err := u.users.AddCustomer(ctx, repository.NoTX, userID, *c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *userUC) ListCustomers(ctx context.Context, userID string) ([]model.Customer, error) {
	usr, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	return usr.Customers, nil
}

func (u *userUC) IsBirthday(ctx context.Context, userID string) (bool, *model.User, error) {
	usr, err := u.users.FindByID(ctx, repository.NoTX, userID)
	if err != nil {
		return false, nil, err
	}
	return usr.IsBirthday(time.Now().In(u.loc)), usr, nil
}

func (u *userUC) ListAll(ctx context.Context) ([]*model.User, error) {
	users, err := u.users.ListAll(ctx, repository.NoTX)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, domain.ErrNotFound
	}
	return users, nil
}

func (u *userUC) ListWithPlans(ctx context.Context) ([]*model.User, error) {
	return u.users.ListWithPlans(ctx, repository.NoTX)
}
