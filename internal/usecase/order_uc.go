package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/repository"
	"poster-commerce/internal/infra/logging"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Compile-time check
var _ OrderUseCase = (*orderUC)(nil)

// OrderUseCase prices purchases against the buyer's subscriptions and settles them.
type OrderUseCase interface {
	// CreateOrder records a Pending order. It is free when the user holds an
	// active subscription; otherwise it costs price*quantity.
	CreateOrder(ctx context.Context, userID string, item model.ItemRef, quantity int) (*OrderResult, error)
	// Checkout completes a free order, or returns payment instructions for a
	// paid one without touching it.
	Checkout(ctx context.Context, userID, orderID, paymentMethod string) (*CheckoutResult, error)
	ListUserOrders(ctx context.Context, userID string) ([]*model.OrderView, error)
	ListAllOrders(ctx context.Context) ([]*model.OrderView, error)
	// UpdateStatus is the admin settlement path. method and upiID are stamped
	// into the payment details when a paid order moves to Completed.
	UpdateStatus(ctx context.Context, orderID string, to model.OrderStatus, method, upiID string) (*model.Order, error)
}

type OrderResult struct {
	Order *model.Order
	Free  bool
}

// PaymentInstruction tells the client how to pay a Pending order over UPI.
type PaymentInstruction struct {
	UPIApp  string          `json:"upiApp"`
	UPIID   string          `json:"upiId"`
	Amount  decimal.Decimal `json:"amount"`
	UPILink string          `json:"upiLink"`
	Note    string          `json:"note"`
}

// CheckoutResult carries exactly one of Order (settled for free) or Payment.
type CheckoutResult struct {
	Order   *model.Order
	Payment *PaymentInstruction
}

// UPIPayee is the receiving account shown in payment instructions.
type UPIPayee struct {
	ID   string
	Name string
}

type orderUC struct {
	users    repository.UserRepository
	posters  repository.PosterRepository
	bposters repository.BusinessPosterRepository
	orders   repository.OrderRepository
	tm       repository.TransactionManager
	payee    UPIPayee
	log      *zerolog.Logger
}

func NewOrderUseCase(
	users repository.UserRepository,
	posters repository.PosterRepository,
	bposters repository.BusinessPosterRepository,
	orders repository.OrderRepository,
	tm repository.TransactionManager,
	payee UPIPayee,
	logger *zerolog.Logger,
) *orderUC {
	return &orderUC{
		users:    users,
		posters:  posters,
		bposters: bposters,
		orders:   orders,
		tm:       tm,
		payee:    payee,
		log:      logger,
	}
}

func (uc *orderUC) CreateOrder(ctx context.Context, userID string, item model.ItemRef, quantity int) (*OrderResult, error) {
	defer logging.TraceDuration(uc.log, "OrderUC.CreateOrder")()

	if userID == "" || !item.Valid() || quantity <= 0 || quantity > model.MaxOrderQuantity {
		return nil, domain.ErrInvalidArgument
	}

	var res *OrderResult
	err := uc.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		// locks the user row until commit so the booking append cannot interleave
		user, err := uc.users.FindByID(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		price, inStock, err := uc.lookupItem(ctx, tx, item)
		if err != nil {
			return err
		}
		if !inStock {
			return domain.ErrOutOfStock
		}

		now := time.Now()
		total, free := model.OrderTotal(user.SubscribedPlans, price, quantity, now)
		order, err := model.NewOrder(user.ID, item, quantity, total, now)
		if err != nil {
			return err
		}
		if err := uc.orders.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := uc.users.AppendBooking(ctx, tx, user.ID, order.ID); err != nil {
			return fmt.Errorf("append booking: %w", err)
		}
		res = &OrderResult{Order: order, Free: free}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("order_id", res.Order.ID).
		Str("item_kind", string(item.Kind())).
		Bool("free", res.Free).
		Msg("order created")
	return res, nil
}

func (uc *orderUC) lookupItem(ctx context.Context, tx repository.Tx, item model.ItemRef) (decimal.Decimal, bool, error) {
	switch item.Kind() {
	case model.ItemPoster:
		p, err := uc.posters.FindByID(ctx, tx, item.ID())
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("find poster: %w", err)
		}
		return p.Price, p.InStock, nil
	case model.ItemBusinessPoster:
		p, err := uc.bposters.FindByID(ctx, tx, item.ID())
		if err != nil {
			return decimal.Zero, false, fmt.Errorf("find business poster: %w", err)
		}
		return p.Price, p.InStock, nil
	}
	return decimal.Zero, false, domain.ErrInvalidArgument
}

func (uc *orderUC) Checkout(ctx context.Context, userID, orderID, paymentMethod string) (*CheckoutResult, error) {
	defer logging.TraceDuration(uc.log, "OrderUC.Checkout")()

	if userID == "" || orderID == "" {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := uc.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	order, err := uc.orders.FindByID(ctx, repository.NoTX, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	// ownership wins over status
	if order.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if order.Status != model.OrderPending {
		return nil, domain.ErrInvalidState
	}

	if !order.IsFree() {
		method := strings.TrimSpace(paymentMethod)
		if method == "" {
			return nil, fmt.Errorf("payment method required: %w", domain.ErrInvalidArgument)
		}
		note := "Order " + order.ID
		return &CheckoutResult{Payment: &PaymentInstruction{
			UPIApp:  method,
			UPIID:   uc.payee.ID,
			Amount:  order.TotalAmount,
			UPILink: UPILink(method, uc.payee.ID, uc.payee.Name, order.TotalAmount, note),
			Note:    note,
		}}, nil
	}

	pd := &model.PaymentDetails{Method: model.PaymentMethodFree, PaymentDate: time.Now()}
	if err := uc.orders.UpdateStatusIf(ctx, repository.NoTX, order.ID, model.OrderPending, model.OrderCompleted, pd); err != nil {
		return nil, err
	}
	order.Status = model.OrderCompleted
	order.PaymentDetails = pd
	uc.log.Info().Str("order_id", order.ID).Msg("free order settled")
	return &CheckoutResult{Order: order}, nil
}

func (uc *orderUC) ListUserOrders(ctx context.Context, userID string) ([]*model.OrderView, error) {
	if _, err := uc.users.FindByID(ctx, repository.NoTX, userID); err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return uc.orders.ListByUser(ctx, repository.NoTX, userID)
}

func (uc *orderUC) ListAllOrders(ctx context.Context) ([]*model.OrderView, error) {
	return uc.orders.ListAll(ctx, repository.NoTX)
}

func (uc *orderUC) UpdateStatus(ctx context.Context, orderID string, to model.OrderStatus, method, upiID string) (*model.Order, error) {
	defer logging.TraceDuration(uc.log, "OrderUC.UpdateStatus")()

	order, err := uc.orders.FindByID(ctx, repository.NoTX, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}
	if !order.Status.CanTransition(to) {
		return nil, fmt.Errorf("%s -> %s: %w", order.Status, to, domain.ErrInvalidState)
	}

	var pd *model.PaymentDetails
	if to == model.OrderCompleted {
		if method == "" {
			method = "upi"
		}
		if order.IsFree() {
			method = model.PaymentMethodFree
		}
		pd = &model.PaymentDetails{Method: method, UPIID: upiID, PaymentDate: time.Now()}
	}
	if err := uc.orders.UpdateStatusIf(ctx, repository.NoTX, order.ID, order.Status, to, pd); err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", order.ID).Str("from", string(order.Status)).Str("to", string(to)).Msg("order status changed")

	order.Status = to
	if pd != nil {
		order.PaymentDetails = pd
	}
	return order, nil
}
