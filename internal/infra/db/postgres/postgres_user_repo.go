package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `id, mobile, name, COALESCE(email, ''), profile_image, dob, marriage_anniversary_date,
       customers, subscribed_plans, my_bookings, created_at, updated_at`

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func (r *PostgresUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.User) error {
	customers, err := json.Marshal(nonNil(u.Customers))
	if err != nil {
		return err
	}
	plans, err := json.Marshal(nonNil(u.SubscribedPlans))
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (
  id, mobile, name, email, profile_image, dob, marriage_anniversary_date,
  customers, subscribed_plans, my_bookings, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8::jsonb,$9::jsonb,$10,$11,$12);`
	_, err = execSQL(ctx, r.pool, tx, q,
		u.ID, u.Mobile, u.Name, nullIfEmpty(u.Email), u.ProfileImage, u.DOB, u.MarriageAnniversaryDate,
		string(customers), string(plans), nonNil(u.MyBookings), u.CreatedAt, u.UpdatedAt,
	)
	return mapErr("create user", err)
}

func (r *PostgresUserRepo) Update(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
UPDATE users SET
  mobile=$2, name=$3, email=$4, profile_image=$5, dob=$6, marriage_anniversary_date=$7, updated_at=$8
WHERE id=$1;`
	ct, err := execSQL(ctx, r.pool, tx, q,
		u.ID, u.Mobile, u.Name, nullIfEmpty(u.Email), u.ProfileImage, u.DOB, u.MarriageAnniversaryDate, u.UpdatedAt,
	)
	if err != nil {
		return mapErr("update user", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE id=$1` + forUpdate(tx)
	return scanUser(pickRow(ctx, r.pool, tx, q, id))
}

func (r *PostgresUserRepo) FindByMobile(ctx context.Context, tx repository.Tx, mobile string) (*model.User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE mobile=$1` + forUpdate(tx)
	return scanUser(pickRow(ctx, r.pool, tx, q, mobile))
}

func (r *PostgresUserRepo) ExistsByEmailOrMobile(ctx context.Context, tx repository.Tx, email, mobile, excludeID string) (bool, error) {
	const q = `
SELECT EXISTS (
  SELECT 1 FROM users
   WHERE id <> $3
     AND (mobile = $2 OR ($1 <> '' AND email = $1))
);`
	var ok bool
	if err := pickRow(ctx, r.pool, tx, q, email, mobile, excludeID).Scan(&ok); err != nil {
		return false, mapErr("user exists", err)
	}
	return ok, nil
}

func (r *PostgresUserRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	return r.list(ctx, tx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC;`)
}

func (r *PostgresUserRepo) ListWithPlans(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	return r.list(ctx, tx, `SELECT `+userColumns+` FROM users
 WHERE jsonb_array_length(subscribed_plans) > 0
 ORDER BY created_at DESC;`)
}

func (r *PostgresUserRepo) list(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.User, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, mapErr("list users", err)
	}
	defer rows.Close()
	out := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr("list users", err)
	}
	return out, nil
}

func (r *PostgresUserRepo) AppendBooking(ctx context.Context, tx repository.Tx, userID, orderID string) error {
	const q = `UPDATE users SET my_bookings = array_append(my_bookings, $2), updated_at = NOW() WHERE id=$1;`
	return r.mustTouch(execSQL(ctx, r.pool, tx, q, userID, orderID))
}

func (r *PostgresUserRepo) AppendSubscribedPlan(ctx context.Context, tx repository.Tx, userID string, sp model.SubscribedPlan) error {
	b, err := json.Marshal([]model.SubscribedPlan{sp})
	if err != nil {
		return err
	}
	const q = `UPDATE users SET subscribed_plans = subscribed_plans || $2::jsonb, updated_at = NOW() WHERE id=$1;`
	return r.mustTouch(execSQL(ctx, r.pool, tx, q, userID, string(b)))
}

func (r *PostgresUserRepo) AddCustomer(ctx context.Context, tx repository.Tx, userID string, c model.Customer) error {
	b, err := json.Marshal([]model.Customer{c})
	if err != nil {
		return err
	}
	const q = `UPDATE users SET customers = customers || $2::jsonb, updated_at = NOW() WHERE id=$1;`
	return r.mustTouch(execSQL(ctx, r.pool, tx, q, userID, string(b)))
}

func (r *PostgresUserRepo) mustTouch(ct interface{ RowsAffected() int64 }, err error) error {
	if err != nil {
		return mapErr("update user lists", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PostgresUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	var n int
	if err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM users;`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// CountSubscribed counts users holding at least one snapshot active at `at`.
func (r *PostgresUserRepo) CountSubscribed(ctx context.Context, tx repository.Tx, at time.Time) (int, error) {
	const q = `
SELECT COUNT(*) FROM users u
 WHERE EXISTS (
   SELECT 1 FROM jsonb_array_elements(u.subscribed_plans) sp
    WHERE (sp->>'startDate')::timestamptz <= $1
      AND (sp->>'endDate')::timestamptz   >= $1
 );`
	var n int
	if err := pickRow(ctx, r.pool, tx, q, at).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscribed: %w", err)
	}
	return n, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u                model.User
		customers, plans []byte
	)
	if err := row.Scan(
		&u.ID, &u.Mobile, &u.Name, &u.Email, &u.ProfileImage, &u.DOB, &u.MarriageAnniversaryDate,
		&customers, &plans, &u.MyBookings, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, mapErr("scan user", err)
	}
	if err := json.Unmarshal(customers, &u.Customers); err != nil {
		return nil, fmt.Errorf("decode customers: %w", err)
	}
	if err := json.Unmarshal(plans, &u.SubscribedPlans); err != nil {
		return nil, fmt.Errorf("decode subscribed plans: %w", err)
	}
	u.Customers = nonNil(u.Customers)
	u.SubscribedPlans = nonNil(u.SubscribedPlans)
	u.MyBookings = nonNil(u.MyBookings)
	return &u, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
