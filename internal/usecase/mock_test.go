//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"poster-commerce/internal/domain"
	"poster-commerce/internal/domain/model"
	"poster-commerce/internal/domain/ports/adapter"
	"poster-commerce/internal/domain/ports/repository"
)

// -----------------------------
// Utilities: tiny helpers
// -----------------------------

func newLogger() *zerolog.Logger { l := zerolog.Nop(); return &l }

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// snapshotter is implemented by every mem repo so the tx manager can roll back.
type snapshotter interface {
	snapshot() (restore func())
}

// ---- Mock TransactionManager ----

type noTx struct{}

// MockTxManager restores every registered repo when fn fails.
type MockTxManager struct {
	repos []snapshotter
	calls int
}

func NewMockTxManager(repos ...snapshotter) *MockTxManager { return &MockTxManager{repos: repos} }

func (m *MockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.calls++
	restores := make([]func(), 0, len(m.repos))
	for _, r := range m.repos {
		restores = append(restores, r.snapshot())
	}
	if err := fn(ctx, noTx{}); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

// =============================
// Repositories
// =============================

// ---- Users ----

type memUserRepo struct {
	mu   sync.Mutex
	byID map[string]*model.User

	errAppendBooking error
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{byID: map[string]*model.User{}} }

func cloneUser(u *model.User) *model.User {
	cp := *u
	cp.Customers = slices.Clone(u.Customers)
	cp.SubscribedPlans = slices.Clone(u.SubscribedPlans)
	cp.MyBookings = slices.Clone(u.MyBookings)
	return &cp
}

func (m *memUserRepo) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make(map[string]*model.User, len(m.byID))
	for k, v := range m.byID {
		saved[k] = cloneUser(v)
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.byID = saved
	}
}

func (m *memUserRepo) put(u *model.User) { m.byID[u.ID] = cloneUser(u) }

func (m *memUserRepo) Create(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.Mobile == u.Mobile || (u.Email != "" && e.Email == u.Email) {
			return domain.ErrAlreadyExists
		}
	}
	m.byID[u.ID] = cloneUser(u)
	return nil
}

func (m *memUserRepo) Update(ctx context.Context, tx repository.Tx, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byID[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cp := cloneUser(u)
	cp.Customers, cp.SubscribedPlans, cp.MyBookings = cur.Customers, cur.SubscribedPlans, cur.MyBookings
	m.byID[u.ID] = cp
	return nil
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *memUserRepo) FindByMobile(ctx context.Context, tx repository.Tx, mobile string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Mobile == mobile {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUserRepo) ExistsByEmailOrMobile(ctx context.Context, tx repository.Tx, email, mobile, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.ID == excludeID {
			continue
		}
		if u.Mobile == mobile || (email != "" && u.Email == email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUserRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.User, 0, len(m.byID))
	for _, k := range slices.Sorted(maps.Keys(m.byID)) {
		out = append(out, cloneUser(m.byID[k]))
	}
	return out, nil
}

func (m *memUserRepo) ListWithPlans(ctx context.Context, tx repository.Tx) ([]*model.User, error) {
	all, _ := m.ListAll(ctx, tx)
	out := all[:0]
	for _, u := range all {
		if len(u.SubscribedPlans) > 0 {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUserRepo) AppendBooking(ctx context.Context, tx repository.Tx, userID, orderID string) error {
	if m.errAppendBooking != nil {
		return m.errAppendBooking
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.MyBookings = append(u.MyBookings, orderID)
	return nil
}

func (m *memUserRepo) AppendSubscribedPlan(ctx context.Context, tx repository.Tx, userID string, sp model.SubscribedPlan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.SubscribedPlans = append(u.SubscribedPlans, sp)
	return nil
}

func (m *memUserRepo) AddCustomer(ctx context.Context, tx repository.Tx, userID string, c model.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Customers = append(u.Customers, c)
	return nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID), nil
}

func (m *memUserRepo) CountSubscribed(ctx context.Context, tx repository.Tx, at time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, u := range m.byID {
		if model.HasActiveSubscription(u.SubscribedPlans, at) {
			n++
		}
	}
	return n, nil
}

// ---- Posters ----

type memPosterRepo struct {
	byID map[string]*model.Poster
}

func newMemPosterRepo() *memPosterRepo { return &memPosterRepo{byID: map[string]*model.Poster{}} }

func (m *memPosterRepo) Save(ctx context.Context, tx repository.Tx, p *model.Poster) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPosterRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Poster, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPosterRepo) list(keep func(*model.Poster) bool) []*model.Poster {
	out := []*model.Poster{}
	for _, p := range m.byID {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memPosterRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Poster, error) {
	return m.list(func(*model.Poster) bool { return true }), nil
}

func (m *memPosterRepo) ListByCategory(ctx context.Context, tx repository.Tx, category string) ([]*model.Poster, error) {
	return m.list(func(p *model.Poster) bool { return strings.EqualFold(p.CategoryName, category) }), nil
}

func (m *memPosterRepo) ListByFestivalDate(ctx context.Context, tx repository.Tx, day time.Time) ([]*model.Poster, error) {
	y, mo, d := day.Date()
	return m.list(func(p *model.Poster) bool {
		if p.FestivalDate == nil {
			return false
		}
		py, pm, pd := p.FestivalDate.Date()
		return py == y && pm == mo && pd == d
	}), nil
}

func (m *memPosterRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	return len(m.byID), nil
}

type memBusinessPosterRepo struct {
	byID map[string]*model.BusinessPoster
}

func newMemBusinessPosterRepo() *memBusinessPosterRepo {
	return &memBusinessPosterRepo{byID: map[string]*model.BusinessPoster{}}
}

func (m *memBusinessPosterRepo) Save(ctx context.Context, tx repository.Tx, p *model.BusinessPoster) error {
	cp := *p
	m.byID[p.ID] = &cp
	return nil
}

func (m *memBusinessPosterRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.BusinessPoster, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memBusinessPosterRepo) List(ctx context.Context, tx repository.Tx) ([]*model.BusinessPoster, error) {
	out := []*model.BusinessPoster{}
	for _, p := range m.byID {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memBusinessPosterRepo) ListByCategory(ctx context.Context, tx repository.Tx, category string) ([]*model.BusinessPoster, error) {
	out := []*model.BusinessPoster{}
	for _, p := range m.byID {
		if strings.EqualFold(p.CategoryName, category) {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memBusinessPosterRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	return len(m.byID), nil
}

// ---- Orders ----

type memOrderRepo struct {
	mu   sync.Mutex
	byID map[string]*model.Order

	// beforeUpdate runs inside UpdateStatusIf before the status check, letting
	// tests interleave a competing writer.
	beforeUpdate func()
}

func newMemOrderRepo() *memOrderRepo { return &memOrderRepo{byID: map[string]*model.Order{}} }

func (m *memOrderRepo) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := maps.Clone(m.byID)
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.byID = saved
	}
}

func (m *memOrderRepo) Create(ctx context.Context, tx repository.Tx, o *model.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.byID[o.ID] = &cp
	return nil
}

func (m *memOrderRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (m *memOrderRepo) views(keep func(*model.Order) bool) []*model.OrderView {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*model.OrderView{}
	for _, o := range m.byID {
		if keep(o) {
			out = append(out, &model.OrderView{Order: *o, ItemSummary: model.ItemSummary{Kind: o.Item.Kind(), ID: o.Item.ID()}})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out
}

func (m *memOrderRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.OrderView, error) {
	return m.views(func(o *model.Order) bool { return o.UserID == userID }), nil
}

func (m *memOrderRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.OrderView, error) {
	return m.views(func(*model.Order) bool { return true }), nil
}

func (m *memOrderRepo) UpdateStatusIf(ctx context.Context, tx repository.Tx, id string, from, to model.OrderStatus, pd *model.PaymentDetails) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.byID[id]
	if !ok || o.Status != from {
		return domain.ErrInvalidState
	}
	o.Status = to
	if pd != nil {
		cp := *pd
		o.PaymentDetails = &cp
	}
	return nil
}

func (m *memOrderRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.OrderStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[model.OrderStatus]int{}
	for _, o := range m.byID {
		out[o.Status]++
	}
	return out, nil
}

func (m *memOrderRepo) Revenue(ctx context.Context, tx repository.Tx) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sum := decimal.Zero
	for _, o := range m.byID {
		switch o.Status {
		case model.OrderCompleted, model.OrderShipped, model.OrderDelivered:
			sum = sum.Add(o.TotalAmount)
		}
	}
	return sum, nil
}

// ---- Plans ----

type memPlanRepo struct {
	byID map[string]*model.Plan
}

func newMemPlanRepo() *memPlanRepo { return &memPlanRepo{byID: map[string]*model.Plan{}} }

func (m *memPlanRepo) Save(ctx context.Context, tx repository.Tx, p *model.Plan) error {
	cp := *p
	cp.Features = slices.Clone(p.Features)
	m.byID[p.ID] = &cp
	return nil
}

func (m *memPlanRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Plan, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	cp.Features = slices.Clone(p.Features)
	return &cp, nil
}

func (m *memPlanRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.Plan, error) {
	out := []*model.Plan{}
	for _, p := range m.byID {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memPlanRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// ---- Stories ----

type memStoryRepo struct {
	byID map[string]*model.Story
}

func newMemStoryRepo() *memStoryRepo { return &memStoryRepo{byID: map[string]*model.Story{}} }

func (m *memStoryRepo) Save(ctx context.Context, tx repository.Tx, s *model.Story) error {
	cp := *s
	m.byID[s.ID] = &cp
	return nil
}

func (m *memStoryRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Story, error) {
	s, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memStoryRepo) ListActive(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.Story, error) {
	out := []*model.Story{}
	for _, s := range m.byID {
		if !s.Expired(now) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStoryRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, now time.Time) ([]*model.Story, error) {
	all, _ := m.ListActive(ctx, tx, now)
	out := all[:0]
	for _, s := range all {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStoryRepo) Delete(ctx context.Context, tx repository.Tx, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memStoryRepo) DeleteExpired(ctx context.Context, tx repository.Tx, now time.Time) ([]*model.Story, error) {
	var gone []*model.Story
	for id, s := range m.byID {
		if s.Expired(now) {
			delete(m.byID, id)
			gone = append(gone, s)
		}
	}
	return gone, nil
}

func (m *memStoryRepo) CountActive(ctx context.Context, tx repository.Tx, now time.Time) (int, error) {
	all, _ := m.ListActive(ctx, tx, now)
	return len(all), nil
}

// ---- Content ----

type memContentRepo struct {
	pages    map[model.PageKind]*model.Page
	contacts []*model.ContactMessage
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{pages: map[model.PageKind]*model.Page{}}
}

func (m *memContentRepo) SavePage(ctx context.Context, tx repository.Tx, p *model.Page) error {
	cp := *p
	m.pages[p.Kind] = &cp
	return nil
}

func (m *memContentRepo) GetPage(ctx context.Context, tx repository.Tx, kind model.PageKind) (*model.Page, error) {
	p, ok := m.pages[kind]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memContentRepo) SaveContact(ctx context.Context, tx repository.Tx, c *model.ContactMessage) error {
	m.contacts = append(m.contacts, c)
	return nil
}

func (m *memContentRepo) ListContacts(ctx context.Context, tx repository.Tx) ([]*model.ContactMessage, error) {
	return m.contacts, nil
}

// =============================
// Adapters
// =============================

// ---- Mock SMSSender ----

type MockSMS struct {
	mu   sync.Mutex
	Sent []string // "to|body"

	// FailFor makes sends to these numbers fail.
	FailFor map[string]bool
}

var _ adapter.SMSSender = (*MockSMS)(nil)

func (m *MockSMS) Send(ctx context.Context, to, body string) (adapter.SMSResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailFor[to] {
		return adapter.SMSResult{}, errors.New("gateway rejected number")
	}
	m.Sent = append(m.Sent, to+"|"+body)
	return adapter.SMSResult{SID: fmt.Sprintf("SM%d", len(m.Sent)), Status: "queued"}, nil
}

// ---- Mock FileStorage ----

type MockFiles struct {
	Stored  map[string]bool
	Deleted []string
	Err     error
	n       int
}

var _ adapter.FileStorage = (*MockFiles)(nil)

func NewMockFiles() *MockFiles { return &MockFiles{Stored: map[string]bool{}} }

func (m *MockFiles) Put(ctx context.Context, folder string, up adapter.Upload) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	m.n++
	u := fmt.Sprintf("/uploads/%s/%d-%s", folder, m.n, up.Filename)
	m.Stored[u] = true
	return u, nil
}

func (m *MockFiles) Delete(ctx context.Context, url string) error {
	delete(m.Stored, url)
	m.Deleted = append(m.Deleted, url)
	return nil
}

// ---- Templater ----

type fmtTemplater map[string]string

func (t fmtTemplater) T(key string, args ...interface{}) string {
	if f, ok := t[key]; ok {
		return fmt.Sprintf(f, args...)
	}
	return key
}
