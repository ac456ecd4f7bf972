package test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/palmwine/internal/domain/errors"
	"github.com/polkiloo/palmwine/internal/domain/model"
	"github.com/polkiloo/palmwine/internal/domain/repository"
)

// MemoryStore is an in-memory implementation of every repository with the
// same conditional-update semantics as the PostgreSQL storage.
type MemoryStore struct {
	mu sync.Mutex

	orders    map[int64]*model.Order
	periods   map[int64]*model.StockPeriod
	discounts map[string]*model.DiscountCode
	invoices  map[int64]*model.Invoice
	nextID    int64

	// CreateOrderErrs are returned by successive order Create calls before any state change.
	CreateOrderErrs []error
	// Err, when set, fails every call.
	Err error

	Redeemed  []string
	Released  int
	MarkPaids int
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orders:    make(map[int64]*model.Order),
		periods:   make(map[int64]*model.StockPeriod),
		discounts: make(map[string]*model.DiscountCode),
		invoices:  make(map[int64]*model.Invoice),
	}
}

// Orders returns the order repository view.
func (s *MemoryStore) Orders() repository.OrderRepository { return memoryOrders{s} }

// Stock returns the stock repository view.
func (s *MemoryStore) Stock() repository.StockRepository { return memoryStock{s} }

// Discounts returns the discount repository view.
func (s *MemoryStore) Discounts() repository.DiscountRepository { return memoryDiscounts{s} }

// Invoices returns the invoice repository view.
func (s *MemoryStore) Invoices() repository.InvoiceRepository { return memoryInvoices{s} }

// SeedPeriod sets a stock period directly.
func (s *MemoryStore) SeedPeriod(period time.Time, total, sold int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.periods[period.Unix()] = &model.StockPeriod{PeriodStart: period, Total: total, Sold: sold}
}

// Period returns a copy of the stored period or nil.
func (s *MemoryStore) Period(period time.Time) *model.StockPeriod {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.periods[period.Unix()]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// SeedDiscount stores a discount code as is.
func (s *MemoryStore) SeedDiscount(d model.DiscountCode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	d.ID = s.nextID
	s.discounts[strings.ToUpper(d.Code)] = &d
}

// Discount returns a copy of the stored code or nil.
func (s *MemoryStore) Discount(code string) *model.DiscountCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.discounts[strings.ToUpper(code)]
	if !ok {
		return nil
	}
	cp := *d
	return &cp
}

// SeedOrder stores an order as is and returns its id.
func (s *MemoryStore) SeedOrder(o model.Order) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	o.ID = s.nextID
	s.orders[o.ID] = &o
	return o.ID
}

// OrderCount returns the number of stored orders.
func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *MemoryStore) orderByNumber(number string) *model.Order {
	for _, o := range s.orders {
		if o.Number == strings.ToUpper(number) {
			return o
		}
	}
	return nil
}

func copyOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.LineItem(nil), o.Items...)
	return &cp
}

func (s *MemoryStore) reserve(period time.Time, qty int) error {
	p, ok := s.periods[period.Unix()]
	if !ok || p.Total-p.Sold < qty {
		return domainErrors.ErrInsufficientStock
	}
	p.Sold += qty
	return nil
}

func (s *MemoryStore) release(period time.Time, qty int) {
	if p, ok := s.periods[period.Unix()]; ok {
		p.Sold -= qty
		if p.Sold < 0 {
			p.Sold = 0
		}
	}
	s.Released += qty
}

type memoryOrders struct{ s *MemoryStore }

func (r memoryOrders) Create(_ context.Context, order *model.Order) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if len(s.CreateOrderErrs) > 0 {
		err := s.CreateOrderErrs[0]
		s.CreateOrderErrs = s.CreateOrderErrs[1:]
		if err != nil {
			return err
		}
	}
	if s.orderByNumber(order.Number) != nil {
		return domainErrors.ErrAlreadyExists
	}
	if err := s.reserve(order.StockPeriod, order.Quantity()); err != nil {
		return err
	}
	s.nextID++
	order.ID = s.nextID
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	s.orders[order.ID] = copyOrder(order)
	return nil
}

func (r memoryOrders) GetByNumber(_ context.Context, number string) (*model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if o := s.orderByNumber(number); o != nil {
		return copyOrder(o), nil
	}
	return nil, domainErrors.ErrNotFound
}

func (r memoryOrders) GetByReference(_ context.Context, reference string) (*model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, o := range s.orders {
		if o.PaymentReference != nil && *o.PaymentReference == reference {
			return copyOrder(o), nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (r memoryOrders) List(_ context.Context, filter model.OrderFilter) ([]model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var result []model.Order
	for _, o := range s.orders {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		result = append(result, *copyOrder(o))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r memoryOrders) UpdateStatus(_ context.Context, number string, from, to model.OrderStatus) (*model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o := s.orderByNumber(number)
	if o == nil {
		return nil, domainErrors.ErrNotFound
	}
	if o.Status != from {
		return nil, domainErrors.ErrConcurrentUpdate
	}
	o.Status = to
	o.UpdatedAt = time.Now()
	return copyOrder(o), nil
}

func (r memoryOrders) Cancel(_ context.Context, number string, restoreDiscount bool) (*model.Order, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	o := s.orderByNumber(number)
	if o == nil {
		return nil, domainErrors.ErrNotFound
	}
	if o.Status == model.OrderStatusCancelled {
		return nil, domainErrors.ErrAlreadyCancelled
	}
	if !o.Status.Cancellable() {
		return nil, domainErrors.ErrInvalidTransition
	}
	o.Status = model.OrderStatusCancelled
	o.UpdatedAt = time.Now()
	s.release(o.StockPeriod, o.Quantity())
	if restoreDiscount && o.DiscountCode != nil {
		if d, ok := s.discounts[*o.DiscountCode]; ok && d.UsedCount > 0 {
			d.UsedCount--
		}
	}
	return copyOrder(o), nil
}

func (r memoryOrders) MarkPaid(_ context.Context, id int64) (*model.Order, bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, false, s.Err
	}
	o, ok := s.orders[id]
	if !ok {
		return nil, false, domainErrors.ErrNotFound
	}
	if o.PaymentStatus == model.PaymentStatusPaid {
		return copyOrder(o), false, nil
	}
	o.PaymentStatus = model.PaymentStatusPaid
	o.UpdatedAt = time.Now()
	s.MarkPaids++
	return copyOrder(o), true, nil
}

func (r memoryOrders) SetPaymentSession(_ context.Context, id int64, reference, authorizationURL string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	o, ok := s.orders[id]
	if !ok || o.PaymentReference != nil {
		return false, nil
	}
	o.PaymentReference = &reference
	o.AuthorizationURL = &authorizationURL
	return true, nil
}

type memoryStock struct{ s *MemoryStore }

func (r memoryStock) Reserve(_ context.Context, period time.Time, qty int) error {
	if qty <= 0 {
		return domainErrors.NewValidationError("quantity", "must be at least 1")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	return r.s.reserve(period, qty)
}

func (r memoryStock) Release(_ context.Context, period time.Time, qty int) error {
	if qty <= 0 {
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	r.s.release(period, qty)
	return nil
}

func (r memoryStock) ResetPeriod(_ context.Context, period time.Time, total int) (*model.StockPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p := &model.StockPeriod{PeriodStart: period, Total: total, UpdatedAt: time.Now()}
	r.s.periods[period.Unix()] = p
	cp := *p
	return &cp, nil
}

func (r memoryStock) Get(_ context.Context, period time.Time) (*model.StockPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	p, ok := r.s.periods[period.Unix()]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type memoryDiscounts struct{ s *MemoryStore }

func (r memoryDiscounts) Create(_ context.Context, d *model.DiscountCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	d.Code = strings.ToUpper(d.Code)
	if _, ok := r.s.discounts[d.Code]; ok {
		return domainErrors.ErrAlreadyExists
	}
	r.s.nextID++
	d.ID = r.s.nextID
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	r.s.discounts[d.Code] = &cp
	return nil
}

func (r memoryDiscounts) Update(_ context.Context, d *model.DiscountCode) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	existing, ok := r.s.discounts[strings.ToUpper(d.Code)]
	if !ok {
		return domainErrors.ErrNotFound
	}
	d.ID = existing.ID
	d.UsedCount = existing.UsedCount
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = time.Now()
	cp := *d
	r.s.discounts[existing.Code] = &cp
	return nil
}

func (r memoryDiscounts) Delete(_ context.Context, code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.discounts[strings.ToUpper(code)]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(r.s.discounts, strings.ToUpper(code))
	return nil
}

func (r memoryDiscounts) GetByCode(_ context.Context, code string) (*model.DiscountCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	d, ok := r.s.discounts[strings.ToUpper(code)]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r memoryDiscounts) List(_ context.Context) ([]model.DiscountCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	result := make([]model.DiscountCode, 0, len(r.s.discounts))
	for _, d := range r.s.discounts {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r memoryDiscounts) Redeem(_ context.Context, code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	d, ok := r.s.discounts[strings.ToUpper(code)]
	if !ok {
		return domainErrors.ErrNotFound
	}
	if d.MaxUses != nil && d.UsedCount >= *d.MaxUses {
		return domainErrors.ErrDiscountExhausted
	}
	d.UsedCount++
	r.s.Redeemed = append(r.s.Redeemed, d.Code)
	return nil
}

type memoryInvoices struct{ s *MemoryStore }

func (r memoryInvoices) Create(_ context.Context, inv *model.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, existing := range r.s.invoices {
		if existing.Number == inv.Number {
			return domainErrors.ErrAlreadyExists
		}
	}
	r.s.nextID++
	inv.ID = r.s.nextID
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r memoryInvoices) Update(_ context.Context, inv *model.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	existing, ok := r.s.invoices[inv.ID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	inv.Number = existing.Number
	inv.Status = existing.Status
	inv.CreatedAt = existing.CreatedAt
	inv.UpdatedAt = time.Now()
	cp := *inv
	r.s.invoices[inv.ID] = &cp
	return nil
}

func (r memoryInvoices) GetByID(_ context.Context, id int64) (*model.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (r memoryInvoices) List(_ context.Context) ([]model.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	result := make([]model.Invoice, 0, len(r.s.invoices))
	for _, inv := range r.s.invoices {
		result = append(result, *inv)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (r memoryInvoices) UpdateStatus(_ context.Context, id int64, from, to model.InvoiceStatus) (*model.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if inv.Status != from {
		return nil, domainErrors.ErrConcurrentUpdate
	}
	inv.Status = to
	inv.UpdatedAt = time.Now()
	cp := *inv
	return &cp, nil
}

var _ repository.Factory = (*MemoryStore)(nil)
