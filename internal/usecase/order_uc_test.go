//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/usecase"
)

type orderFixture struct {
	users    *memUserRepo
	posters  *memPosterRepo
	bposters *memBusinessPosterRepo
	orders   *memOrderRepo
	tm       *MockTxManager
	uc       usecase.OrderUseCase
}

func newOrderFixture() *orderFixture {
	f := &orderFixture{
		users:    newMemUserRepo(),
		posters:  newMemPosterRepo(),
		bposters: newMemBusinessPosterRepo(),
		orders:   newMemOrderRepo(),
	}
	f.tm = NewMockTxManager(f.users, f.orders)
	f.uc = usecase.NewOrderUseCase(f.users, f.posters, f.bposters, f.orders, f.tm,
		usecase.UPIPayee{ID: "shop@okaxis", Name: "Poster Shop"}, newLogger())
	return f
}

func (f *orderFixture) addUser(t *testing.T, mobile string, plans ...model.SubscribedPlan) *model.User {
	t.Helper()
	u, err := model.NewUser("", mobile, "user "+mobile, "")
	if err != nil {
		t.Fatalf("NewUser: %v", err)
	}
	u.SubscribedPlans = append(u.SubscribedPlans, plans...)
	f.users.put(u)
	return u
}

func (f *orderFixture) addPoster(t *testing.T, price int64, inStock bool) *model.Poster {
	t.Helper()
	p, err := model.NewPoster("Diwali", "festival", dec(price), "A4")
	if err != nil {
		t.Fatalf("NewPoster: %v", err)
	}
	p.InStock = inStock
	f.posters.byID[p.ID] = p
	return p
}

func activePlan() model.SubscribedPlan {
	now := time.Now()
	return model.SubscribedPlan{PlanID: "gold", Name: "Gold", StartDate: now.AddDate(0, 0, -1), EndDate: now.AddDate(0, 0, 30)}
}

func expiredPlan() model.SubscribedPlan {
	now := time.Now()
	return model.SubscribedPlan{PlanID: "old", Name: "Old", StartDate: now.AddDate(0, -2, 0), EndDate: now.AddDate(0, -1, 0)}
}

func TestCreateOrder_Pricing(t *testing.T) {
	ctx := context.Background()

	t.Run("active subscription makes the order free", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "900", expiredPlan(), activePlan())
		p := f.addPoster(t, 100, true)

		res, err := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 2)
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if !res.Free || !res.Order.TotalAmount.IsZero() {
			t.Fatalf("want free order, got total=%s free=%v", res.Order.TotalAmount, res.Free)
		}
		if res.Order.Status != model.OrderPending {
			t.Fatalf("want Pending, got %s", res.Order.Status)
		}
	})

	t.Run("no active subscription charges price times quantity", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "901", expiredPlan())
		p := f.addPoster(t, 50, true)

		res, err := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 3)
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if res.Free || !res.Order.TotalAmount.Equal(dec(150)) {
			t.Fatalf("want 150 paid, got total=%s free=%v", res.Order.TotalAmount, res.Free)
		}
	})

	t.Run("business poster refs resolve against business posters", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "902")
		bp, _ := model.NewBusinessPoster("Card", "salon", dec(75), dec(60), "")
		f.bposters.byID[bp.ID] = bp

		res, err := f.uc.CreateOrder(ctx, u.ID, model.BusinessPosterRef(bp.ID), 1)
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if res.Order.Item.Kind() != model.ItemBusinessPoster || !res.Order.TotalAmount.Equal(dec(75)) {
			t.Fatalf("unexpected order: %+v", res.Order)
		}

		// a poster ref must not find a business poster with the same id
		if _, err := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(bp.ID), 1); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("want ErrNotFound for kind mismatch, got %v", err)
		}
	})

	t.Run("booking reference is appended", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "903")
		p := f.addPoster(t, 10, true)

		res, err := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 1)
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		got, _ := f.users.FindByID(ctx, nil, u.ID)
		if len(got.MyBookings) != 1 || got.MyBookings[0] != res.Order.ID {
			t.Fatalf("bookings: %v", got.MyBookings)
		}
	})
}

func TestCreateOrder_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("out of stock persists nothing", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "910", activePlan())
		p := f.addPoster(t, 100, false)

		_, err := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 1)
		if !errors.Is(err, domain.ErrOutOfStock) {
			t.Fatalf("want ErrOutOfStock, got %v", err)
		}
		if len(f.orders.byID) != 0 {
			t.Fatalf("expected no orders, got %d", len(f.orders.byID))
		}
		got, _ := f.users.FindByID(ctx, nil, u.ID)
		if len(got.MyBookings) != 0 {
			t.Fatalf("expected no bookings, got %v", got.MyBookings)
		}
	})

	t.Run("missing user or item", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "911")
		p := f.addPoster(t, 100, true)

		if _, err := f.uc.CreateOrder(ctx, "ghost", model.PosterRef(p.ID), 1); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("missing user: want ErrNotFound, got %v", err)
		}
		if _, err := f.uc.CreateOrder(ctx, u.ID, model.PosterRef("ghost"), 1); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("missing poster: want ErrNotFound, got %v", err)
		}
	})

	t.Run("invalid input", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "912")
		p := f.addPoster(t, 100, true)

		for name, q := range map[string]int{"zero": 0, "negative": -2, "above cap": model.MaxOrderQuantity + 1, "int32 overflow": 1 << 31} {
			if _, err := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), q); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("%s quantity: want ErrInvalidArgument, got %v", name, err)
			}
		}
		if _, err := f.uc.CreateOrder(ctx, u.ID, model.ItemRef{}, 1); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("empty ref: want ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("failed booking append rolls the order back", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "913")
		p := f.addPoster(t, 100, true)
		f.users.errAppendBooking = errors.New("connection reset")

		if _, err := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 1); err == nil {
			t.Fatal("expected error")
		}
		if len(f.orders.byID) != 0 {
			t.Fatalf("order must not survive a failed booking append, found %d", len(f.orders.byID))
		}
	})
}

func TestCheckout(t *testing.T) {
	ctx := context.Background()

	t.Run("free order completes once", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "920", activePlan())
		p := f.addPoster(t, 100, true)
		res, _ := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 2)

		out, err := f.uc.Checkout(ctx, u.ID, res.Order.ID, "")
		if err != nil {
			t.Fatalf("first checkout: %v", err)
		}
		if out.Order == nil || out.Order.Status != model.OrderCompleted {
			t.Fatalf("want Completed order, got %+v", out)
		}
		if out.Order.PaymentDetails == nil || out.Order.PaymentDetails.Method != model.PaymentMethodFree {
			t.Fatalf("want free payment details, got %+v", out.Order.PaymentDetails)
		}

		if _, err := f.uc.Checkout(ctx, u.ID, res.Order.ID, ""); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("second checkout: want ErrInvalidState, got %v", err)
		}
	})

	t.Run("concurrent settle loses the conditional write", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "921", activePlan())
		p := f.addPoster(t, 100, true)
		res, _ := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 1)

		// another request settles the order between our read and our write
		f.orders.beforeUpdate = func() {
			f.orders.beforeUpdate = nil
			_ = f.orders.UpdateStatusIf(ctx, nil, res.Order.ID, model.OrderPending, model.OrderCompleted, nil)
		}
		if _, err := f.uc.Checkout(ctx, u.ID, res.Order.ID, ""); !errors.Is(err, domain.ErrInvalidState) {
			t.Fatalf("want ErrInvalidState, got %v", err)
		}
	})

	t.Run("paid order without method is rejected and stays pending", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "922")
		p := f.addPoster(t, 50, true)
		res, _ := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 3)

		if _, err := f.uc.Checkout(ctx, u.ID, res.Order.ID, "  "); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("want ErrInvalidArgument, got %v", err)
		}
		o, _ := f.orders.FindByID(ctx, nil, res.Order.ID)
		if o.Status != model.OrderPending {
			t.Fatalf("status changed to %s", o.Status)
		}
	})

	t.Run("paid order returns UPI instruction without settling", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "923")
		p := f.addPoster(t, 50, true)
		res, _ := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 3)

		out, err := f.uc.Checkout(ctx, u.ID, res.Order.ID, "gpay")
		if err != nil {
			t.Fatalf("Checkout: %v", err)
		}
		pay := out.Payment
		if pay == nil || out.Order != nil {
			t.Fatalf("want payment instruction only, got %+v", out)
		}
		if !pay.Amount.Equal(dec(150)) || pay.UPIID != "shop@okaxis" || pay.UPIApp != "gpay" {
			t.Fatalf("unexpected instruction: %+v", pay)
		}
		if !strings.HasPrefix(pay.UPILink, "tez://upi/pay?pa=shop%40okaxis&pn=Poster%20Shop&am=150.00&cu=INR&tn=Order%20") {
			t.Fatalf("unexpected link: %s", pay.UPILink)
		}
		o, _ := f.orders.FindByID(ctx, nil, res.Order.ID)
		if o.Status != model.OrderPending || o.PaymentDetails != nil {
			t.Fatalf("order mutated: %+v", o)
		}
	})

	t.Run("non-owner is forbidden regardless of state", func(t *testing.T) {
		f := newOrderFixture()
		owner := f.addUser(t, "924", activePlan())
		other := f.addUser(t, "925")
		p := f.addPoster(t, 100, true)
		res, _ := f.uc.CreateOrder(ctx, owner.ID, model.PosterRef(p.ID), 1)

		if _, err := f.uc.Checkout(ctx, other.ID, res.Order.ID, "gpay"); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("pending: want ErrForbidden, got %v", err)
		}
		if _, err := f.uc.Checkout(ctx, owner.ID, res.Order.ID, ""); err != nil {
			t.Fatalf("owner checkout: %v", err)
		}
		if _, err := f.uc.Checkout(ctx, other.ID, res.Order.ID, "gpay"); !errors.Is(err, domain.ErrForbidden) {
			t.Fatalf("completed: want ErrForbidden, got %v", err)
		}
	})

	t.Run("unknown user or order", func(t *testing.T) {
		f := newOrderFixture()
		u := f.addUser(t, "926")
		if _, err := f.uc.Checkout(ctx, u.ID, "missing", ""); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
		if _, err := f.uc.Checkout(ctx, "ghost", "missing", ""); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	u := f.addUser(t, "930")
	p := f.addPoster(t, 40, true)
	res, _ := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 1)
	id := res.Order.ID

	if _, err := f.uc.UpdateStatus(ctx, id, model.OrderShipped, "", ""); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("Pending -> Shipped: want ErrInvalidState, got %v", err)
	}
	o, err := f.uc.UpdateStatus(ctx, id, model.OrderCompleted, "upi", "buyer@oksbi")
	if err != nil {
		t.Fatalf("Pending -> Completed: %v", err)
	}
	if o.PaymentDetails == nil || o.PaymentDetails.UPIID != "buyer@oksbi" || o.PaymentDetails.Method != "upi" {
		t.Fatalf("payment details not stamped: %+v", o.PaymentDetails)
	}
	for _, to := range []model.OrderStatus{model.OrderShipped, model.OrderDelivered} {
		if _, err := f.uc.UpdateStatus(ctx, id, to, "", ""); err != nil {
			t.Fatalf("-> %s: %v", to, err)
		}
	}
	if _, err := f.uc.UpdateStatus(ctx, id, model.OrderCancelled, "", ""); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("Delivered -> Cancelled: want ErrInvalidState, got %v", err)
	}
}

func TestOrderListings(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture()
	a := f.addUser(t, "940")
	b := f.addUser(t, "941")
	p := f.addPoster(t, 10, true)
	for _, u := range []*model.User{a, a, b} {
		if _, err := f.uc.CreateOrder(ctx, u.ID, model.PosterRef(p.ID), 1); err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
	}

	mine, err := f.uc.ListUserOrders(ctx, a.ID)
	if err != nil || len(mine) != 2 {
		t.Fatalf("user orders: n=%d err=%v", len(mine), err)
	}
	all, err := f.uc.ListAllOrders(ctx)
	if err != nil || len(all) != 3 {
		t.Fatalf("all orders: n=%d err=%v", len(all), err)
	}
	if _, err := f.uc.ListUserOrders(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown user: want ErrNotFound, got %v", err)
	}
}

func TestUPILink(t *testing.T) {
	cases := map[string]string{
		"gpay":    "tez://upi/pay?",
		"PhonePe": "phonepe://pay?",
		"paytm":   "paytmmp://pay?",
		"bhim":    "upi://pay?",
		"":        "upi://pay?",
	}
	for app, prefix := range cases {
		link := usecase.UPILink(app, "a@b", "Shop & Co", dec(5), "Order 1")
		if !strings.HasPrefix(link, prefix) {
			t.Errorf("%q: want prefix %s, got %s", app, prefix, link)
		}
		if !strings.Contains(link, "pn=Shop%20%26%20Co&am=5.00&cu=INR&tn=Order%201") {
			t.Errorf("%q: bad query in %s", app, link)
		}
	}
}
