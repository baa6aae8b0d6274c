package postgres

import (
	"context"
	"database/sql"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/shopspring/decimal"
)

var _ repository.OrderRepository = (*orderRepo)(nil)

type orderRepo struct {
	pool *pgxpool.Pool
}

func NewOrderRepo(pool *pgxpool.Pool) *orderRepo {
	return &orderRepo{pool: pool}
}

const orderColumns = `o.id, o.user_id, o.poster_id, o.business_poster_id, o.quantity, o.total_amount, o.status,
       o.order_date, o.payment_method, o.payment_upi_id, o.payment_date`

// orderViewSelect joins whichever catalog table the order points at plus the buyer.
const orderViewSelect = `SELECT ` + orderColumns + `,
       COALESCE(p.name, bp.name, ''), COALESCE(p.price, bp.price, 0),
       COALESCE(p.images[1], bp.images[1], ''), u.mobile, u.name
  FROM orders o
  JOIN users u ON u.id = o.user_id
  LEFT JOIN posters p ON p.id = o.poster_id
  LEFT JOIN business_posters bp ON bp.id = o.business_poster_id`

func itemColumns(ref model.ItemRef) (posterID, businessPosterID interface{}) {
	switch ref.Kind() {
	case model.ItemPoster:
		return ref.ID(), nil
	case model.ItemBusinessPoster:
		return nil, ref.ID()
	}
	return nil, nil
}

func (r *orderRepo) Create(ctx context.Context, tx repository.Tx, o *model.Order) error {
	pid, bpid := itemColumns(o.Item)
	var method, upi, paidAt interface{}
	if pd := o.PaymentDetails; pd != nil {
		method, upi, paidAt = pd.Method, nullIfEmpty(pd.UPIID), pd.PaymentDate
	}
	const q = `
INSERT INTO orders (id, user_id, poster_id, business_poster_id, quantity, total_amount, status, order_date,
                    payment_method, payment_upi_id, payment_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11);`
	_, err := execSQL(ctx, r.pool, tx, q,
		o.ID, o.UserID, pid, bpid, o.Quantity, o.TotalAmount, string(o.Status), o.OrderDate, method, upi, paidAt,
	)
	return mapErr("create order", err)
}

func (r *orderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id=$1` + forUpdate(tx)
	return scanOrder(pickRow(ctx, r.pool, tx, q, id))
}

func (r *orderRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.OrderView, error) {
	return r.views(ctx, tx, orderViewSelect+` WHERE o.user_id=$1 ORDER BY o.order_date DESC;`, userID)
}

func (r *orderRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.OrderView, error) {
	return r.views(ctx, tx, orderViewSelect+` ORDER BY o.order_date DESC;`)
}

func (r *orderRepo) views(ctx context.Context, tx repository.Tx, q string, args ...interface{}) ([]*model.OrderView, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, mapErr("list orders", err)
	}
	return collect(rows, "list orders", scanOrderView)
}

func (r *orderRepo) UpdateStatusIf(ctx context.Context, tx repository.Tx, id string, from, to model.OrderStatus, pd *model.PaymentDetails) error {
	var (
		ct  interface{ RowsAffected() int64 }
		err error
	)
	if pd == nil {
		const q = `UPDATE orders SET status=$3 WHERE id=$1 AND status=$2;`
		ct, err = execSQL(ctx, r.pool, tx, q, id, string(from), string(to))
	} else {
		const q = `
UPDATE orders SET status=$3, payment_method=$4, payment_upi_id=$5, payment_date=$6
 WHERE id=$1 AND status=$2;`
		ct, err = execSQL(ctx, r.pool, tx, q, id, string(from), string(to), pd.Method, nullIfEmpty(pd.UPIID), pd.PaymentDate)
	}
	if err != nil {
		return mapErr("update order status", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *orderRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.OrderStatus]int, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT status, COUNT(*) FROM orders GROUP BY status;`)
	if err != nil {
		return nil, mapErr("count orders", err)
	}
	defer rows.Close()
	out := map[model.OrderStatus]int{}
	for rows.Next() {
		var (
			s string
			n int
		)
		if err := rows.Scan(&s, &n); err != nil {
			return nil, mapErr("count orders", err)
		}
		out[model.OrderStatus(s)] = n
	}
	return out, mapErr("count orders", rows.Err())
}

func (r *orderRepo) Revenue(ctx context.Context, tx repository.Tx) (decimal.Decimal, error) {
	const q = `
SELECT COALESCE(SUM(total_amount), 0) FROM orders
 WHERE status IN ('Completed','Shipped','Delivered');`
	var sum decimal.Decimal
	if err := pickRow(ctx, r.pool, tx, q).Scan(&sum); err != nil {
		return decimal.Zero, mapErr("revenue", err)
	}
	return sum, nil
}

type orderScan struct {
	o           model.Order
	posterID    sql.NullString
	bPosterID   sql.NullString
	status      string
	method, upi sql.NullString
	paymentDate *time.Time
}

func (s *orderScan) targets() []interface{} {
	return []interface{}{
		&s.o.ID, &s.o.UserID, &s.posterID, &s.bPosterID, &s.o.Quantity, &s.o.TotalAmount, &s.status,
		&s.o.OrderDate, &s.method, &s.upi, &s.paymentDate,
	}
}

func (s *orderScan) order() (*model.Order, error) {
	ref, err := model.NewItemRef(s.posterID.String, s.bPosterID.String)
	if err != nil {
		return nil, err
	}
	s.o.Item = ref
	s.o.Status = model.OrderStatus(s.status)
	if s.method.Valid {
		pd := &model.PaymentDetails{Method: s.method.String, UPIID: s.upi.String}
		if s.paymentDate != nil {
			pd.PaymentDate = *s.paymentDate
		}
		s.o.PaymentDetails = pd
	}
	return &s.o, nil
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var s orderScan
	if err := row.Scan(s.targets()...); err != nil {
		return nil, mapErr("scan order", err)
	}
	return s.order()
}

func scanOrderView(row pgx.Row) (*model.OrderView, error) {
	var (
		s    orderScan
		view model.OrderView
	)
	dest := append(s.targets(),
		&view.ItemSummary.Name, &view.ItemSummary.Price, &view.ItemSummary.Image, &view.UserMobile, &view.UserName,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, mapErr("scan order view", err)
	}
	o, err := s.order()
	if err != nil {
		return nil, err
	}
	view.Order = *o
	view.ItemSummary.Kind = o.Item.Kind()
	view.ItemSummary.ID = o.Item.ID()
	return &view, nil
}
