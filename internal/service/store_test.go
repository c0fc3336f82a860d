package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rookgm/marketplace/internal/models"
	"github.com/shopspring/decimal"
)

type memTxKey struct{}

// memStore keeps every repository in memory. Transactions are serialized and
// roll back all entity changes except notifications and locations.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	state         memState
	notifications []models.Notification
	locations     []models.LocationUpdate
	nextID        uint64
}

type memState struct {
	orders      map[uint64]models.Order
	items       map[uint64][]models.OrderItem
	settlements map[uint64]models.Settlement
	vendors     map[uint64]models.VendorAccount
	products    map[uint64]models.Product
	cart        []models.CartItem
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			orders:      map[uint64]models.Order{},
			items:       map[uint64][]models.OrderItem{},
			settlements: map[uint64]models.Settlement{},
			vendors:     map[uint64]models.VendorAccount{},
			products:    map[uint64]models.Product{},
		},
	}
}

func (s memState) clone() memState {
	c := memState{
		orders:      make(map[uint64]models.Order, len(s.orders)),
		items:       make(map[uint64][]models.OrderItem, len(s.items)),
		settlements: make(map[uint64]models.Settlement, len(s.settlements)),
		vendors:     make(map[uint64]models.VendorAccount, len(s.vendors)),
		products:    make(map[uint64]models.Product, len(s.products)),
		cart:        append([]models.CartItem(nil), s.cart...),
	}
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]models.OrderItem(nil), v...)
	}
	for k, v := range s.settlements {
		c.settlements[k] = v
	}
	for k, v := range s.vendors {
		c.vendors[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	return c
}

func (m *memStore) id() uint64 {
	m.nextID++
	return m.nextID
}

// WithinTx implements Transactor
func (m *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}

	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	saved := m.state.clone()
	m.mu.Unlock()

	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.mu.Lock()
		m.state = saved
		m.mu.Unlock()
		return err
	}
	return nil
}

// orders

func (m *memStore) CreateOrder(_ context.Context, order *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o := *order
	o.ID = m.id()
	o.IsActive = true
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt

	items := make([]models.OrderItem, 0, len(order.Items))
	for _, item := range order.Items {
		item.ID = m.id()
		item.OrderID = o.ID
		items = append(items, item)
	}
	o.Items = nil
	m.state.orders[o.ID] = o
	m.state.items[o.ID] = items

	o.Items = append([]models.OrderItem(nil), items...)
	return &o, nil
}

func (m *memStore) GetOrder(_ context.Context, id uint64) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.state.orders[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &o, nil
}

func (m *memStore) GetOrderForUpdate(ctx context.Context, id uint64) (*models.Order, error) {
	return m.GetOrder(ctx, id)
}

func (m *memStore) GetOrderItems(_ context.Context, orderID uint64) ([]models.OrderItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]models.OrderItem(nil), m.state.items[orderID]...), nil
}

func (m *memStore) GetOrdersByUserID(_ context.Context, userID uint64) ([]models.Order, error) {
	return m.filterOrders(func(o models.Order) bool { return o.UserID == userID && o.IsActive }), nil
}

func (m *memStore) filterOrders(match func(o models.Order) bool) []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	var orders []models.Order
	for _, o := range m.state.orders {
		if match(o) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID < orders[j].ID })
	return orders
}

func (m *memStore) findOrder(match func(o models.Order) bool) (*models.Order, error) {
	orders := m.filterOrders(match)
	if len(orders) == 0 {
		return nil, models.ErrDataNotFound
	}
	return &orders[0], nil
}

func (m *memStore) FindOrderByGatewayReference(_ context.Context, ref string) (*models.Order, error) {
	return m.findOrder(func(o models.Order) bool {
		return ref != "" && (o.GatewayOrderID == ref || o.PaymentLinkID == ref)
	})
}

func (m *memStore) FindOrderByPaymentID(_ context.Context, paymentID string) (*models.Order, error) {
	return m.findOrder(func(o models.Order) bool { return paymentID != "" && o.PaymentID == paymentID })
}

func (m *memStore) ListSettleableOrders(_ context.Context) ([]models.Order, error) {
	m.mu.Lock()
	vendors := make(map[uint64]models.VendorAccount, len(m.state.vendors))
	for k, v := range m.state.vendors {
		vendors[k] = v
	}
	m.mu.Unlock()

	return m.filterOrders(func(o models.Order) bool {
		if o.Status != models.OrderStatusDelivered || o.SettlementStatus != models.SettlementStatusPending || !o.IsActive {
			return false
		}
		if o.VendorID == nil {
			return false
		}
		v, ok := vendors[*o.VendorID]
		return ok && v.KYCVerified && v.AccountStatus == models.VendorStatusActive
	}), nil
}

func (m *memStore) updateOrder(id uint64, fn func(o *models.Order) bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.state.orders[id]
	if !ok {
		return false, models.ErrDataNotFound
	}
	if !fn(&o) {
		return false, nil
	}
	o.UpdatedAt = time.Now()
	m.state.orders[id] = o
	return true, nil
}

func (m *memStore) UpdateOrderSettlement(_ context.Context, order *models.Order) error {
	_, err := m.updateOrder(order.ID, func(o *models.Order) bool {
		o.CommissionAmount = order.CommissionAmount
		o.VendorSettlementAmount = order.VendorSettlementAmount
		o.SettlementStatus = order.SettlementStatus
		o.TransferID = order.TransferID
		o.SettlementID = order.SettlementID
		o.SettledAt = order.SettledAt
		return true
	})
	return err
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id uint64, from, to string) (bool, error) {
	return m.updateOrder(id, func(o *models.Order) bool {
		if o.Status != from {
			return false
		}
		o.Status = to
		return true
	})
}

func (m *memStore) MarkPaymentCaptured(_ context.Context, id uint64, paymentID, gatewayOrderID string) (bool, error) {
	return m.updateOrder(id, func(o *models.Order) bool {
		if o.Status != models.OrderStatusPending && o.Status != models.OrderStatusFailed {
			return false
		}
		o.Status = models.OrderStatusProcessing
		o.PaymentID = paymentID
		if gatewayOrderID != "" {
			o.GatewayOrderID = gatewayOrderID
		}
		return true
	})
}

func (m *memStore) MarkPaymentFailed(_ context.Context, id uint64) (bool, error) {
	return m.updateOrder(id, func(o *models.Order) bool {
		if o.Status != models.OrderStatusPending {
			return false
		}
		o.Status = models.OrderStatusFailed
		return true
	})
}

func (m *memStore) SetPaymentLink(_ context.Context, id uint64, linkID string) error {
	_, err := m.updateOrder(id, func(o *models.Order) bool {
		o.PaymentLinkID = linkID
		return true
	})
	return err
}

func (m *memStore) SetDeliveryPartner(_ context.Context, id, partnerID uint64) error {
	_, err := m.updateOrder(id, func(o *models.Order) bool {
		o.DeliveryPartnerID = &partnerID
		return true
	})
	return err
}

// settlements

func (m *memStore) CreateSettlement(_ context.Context, s *models.Settlement) (*models.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.state.settlements {
		if existing.OrderID == s.OrderID && existing.Status != models.SettlementReversed {
			return nil, models.ErrConflictData
		}
	}

	st := *s
	st.ID = m.id()
	st.UpdatedAt = time.Now()
	m.state.settlements[st.ID] = st
	return &st, nil
}

func (m *memStore) GetSettlement(_ context.Context, id uint64) (*models.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.state.settlements[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &st, nil
}

func (m *memStore) GetSettlementForUpdate(ctx context.Context, id uint64) (*models.Settlement, error) {
	return m.GetSettlement(ctx, id)
}

func (m *memStore) GetActiveSettlementByOrder(_ context.Context, orderID uint64) (*models.Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, st := range m.state.settlements {
		if st.OrderID == orderID && st.Status != models.SettlementReversed {
			return &st, nil
		}
	}
	return nil, models.ErrDataNotFound
}

func (m *memStore) UpdateSettlement(_ context.Context, s *models.Settlement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.settlements[s.ID]; !ok {
		return models.ErrDataNotFound
	}
	st := *s
	st.UpdatedAt = time.Now()
	m.state.settlements[s.ID] = st
	return nil
}

func (m *memStore) ListSettlements(_ context.Context, f models.SettlementFilter) ([]models.Settlement, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []models.Settlement{}
	for _, st := range m.state.settlements {
		if f.Status != "" && st.Status != f.Status {
			continue
		}
		if f.VendorID != nil && st.VendorID != *f.VendorID {
			continue
		}
		if f.AdminID != nil && m.state.vendors[st.VendorID].UserID != *f.AdminID {
			continue
		}
		matched = append(matched, st)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	count := len(matched)
	limit := f.Limit
	if limit <= 0 {
		limit = 20
	}
	if f.Offset >= len(matched) {
		return []models.Settlement{}, count, nil
	}
	matched = matched[f.Offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, count, nil
}

func (m *memStore) SummarizeSettlements(_ context.Context, vendorID uint64, start, end *time.Time) (*models.SettlementSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := &models.SettlementSummary{
		VendorID: vendorID,
		ByStatus: map[string]int{
			models.SettlementPending:    0,
			models.SettlementProcessing: 0,
			models.SettlementCompleted:  0,
			models.SettlementFailed:     0,
			models.SettlementReversed:   0,
		},
		StartDate: start,
		EndDate:   end,
	}
	for _, st := range m.state.settlements {
		if st.VendorID != vendorID {
			continue
		}
		if start != nil && st.InitiatedAt.Before(*start) {
			continue
		}
		if end != nil && !st.InitiatedAt.Before(*end) {
			continue
		}
		summary.ByStatus[st.Status]++
		summary.Count++
		summary.TotalSettled = summary.TotalSettled.Add(st.SettlementAmount)
		summary.TotalCommission = summary.TotalCommission.Add(st.CommissionAmount)
		summary.TotalOrders = summary.TotalOrders.Add(st.OrderAmount)
	}
	return summary, nil
}

// vendors

func (m *memStore) CreateVendor(_ context.Context, v *models.VendorAccount) (*models.VendorAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.state.vendors {
		if existing.UserID == v.UserID {
			return nil, models.ErrConflictData
		}
	}

	vendor := *v
	vendor.ID = m.id()
	vendor.CreatedAt = time.Now()
	m.state.vendors[vendor.ID] = vendor
	return &vendor, nil
}

func (m *memStore) GetVendor(_ context.Context, id uint64) (*models.VendorAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.state.vendors[id]
	if !ok {
		return nil, models.ErrDataNotFound
	}
	return &v, nil
}

func (m *memStore) GetVendorByUserID(_ context.Context, userID uint64) (*models.VendorAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, v := range m.state.vendors {
		if v.UserID == userID {
			return &v, nil
		}
	}
	return nil, models.ErrDataNotFound
}

func (m *memStore) UpdateVendor(_ context.Context, v *models.VendorAccount) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.state.vendors[v.ID]; !ok {
		return models.ErrDataNotFound
	}
	m.state.vendors[v.ID] = *v
	return nil
}

// products

func (m *memStore) moveStock(productID uint64, fn func(p *models.Product) bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.state.products[productID]
	if !ok || !fn(&p) {
		return models.ErrInsufficientStock
	}
	m.state.products[productID] = p
	return nil
}

func (m *memStore) ReserveStock(_ context.Context, productID uint64, qty int) error {
	return m.moveStock(productID, func(p *models.Product) bool {
		if p.Available() < qty {
			return false
		}
		p.Reserved += qty
		return true
	})
}

func (m *memStore) ReleaseStock(_ context.Context, productID uint64, qty int) error {
	return m.moveStock(productID, func(p *models.Product) bool {
		if p.Reserved < qty {
			return false
		}
		p.Reserved -= qty
		return true
	})
}

func (m *memStore) CommitStock(_ context.Context, productID uint64, qty int) error {
	return m.moveStock(productID, func(p *models.Product) bool {
		if p.Stock < qty || p.Reserved < qty {
			return false
		}
		p.Stock -= qty
		p.Reserved -= qty
		return true
	})
}

// cart

func (m *memStore) ListActiveCartItems(_ context.Context, userID uint64) ([]models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []models.CartItem
	for _, item := range m.state.cart {
		if item.UserID == userID && item.IsActive {
			items = append(items, item)
		}
	}
	return items, nil
}

func (m *memStore) DeactivateCartItems(_ context.Context, userID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for i := range m.state.cart {
		if m.state.cart[i].UserID == userID && m.state.cart[i].IsActive {
			m.state.cart[i].IsActive = false
			n++
		}
	}
	return n, nil
}

// notifications

func (m *memStore) CreateNotification(_ context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n.ID = m.id()
	n.CreatedAt = time.Now()
	m.notifications = append(m.notifications, *n)
	return nil
}

func (m *memStore) ListNotifications(_ context.Context, userID uint64, unreadOnly bool, limit int) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var list []models.Notification
	for i := len(m.notifications) - 1; i >= 0 && len(list) < limit; i-- {
		n := m.notifications[i]
		if n.UserID != nil && *n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		list = append(list, n)
	}
	return list, nil
}

func (m *memStore) MarkAllRead(_ context.Context, userID uint64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for i := range m.notifications {
		if m.notifications[i].IsRead {
			continue
		}
		if uid := m.notifications[i].UserID; uid == nil || *uid == userID {
			m.notifications[i].IsRead = true
			n++
		}
	}
	return n, nil
}

// locations

func (m *memStore) CreateLocation(_ context.Context, l *models.LocationUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	l.ID = m.id()
	l.CreatedAt = time.Now()
	m.locations = append(m.locations, *l)
	return nil
}

func (m *memStore) ListLocations(_ context.Context, orderID uint64, limit int) ([]models.LocationUpdate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var list []models.LocationUpdate
	for i := len(m.locations) - 1; i >= 0 && len(list) < limit; i-- {
		if m.locations[i].OrderID == orderID {
			list = append(list, m.locations[i])
		}
	}
	return list, nil
}

// test accessors

func (m *memStore) order(t *testing.T, id uint64) models.Order {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	o, ok := m.state.orders[id]
	if !ok {
		t.Fatalf("order %d not found", id)
	}
	return o
}

func (m *memStore) settlement(t *testing.T, id uint64) models.Settlement {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.state.settlements[id]
	if !ok {
		t.Fatalf("settlement %d not found", id)
	}
	return st
}

func (m *memStore) settlementsOf(orderID uint64) []models.Settlement {
	m.mu.Lock()
	defer m.mu.Unlock()

	var list []models.Settlement
	for _, st := range m.state.settlements {
		if st.OrderID == orderID {
			list = append(list, st)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (m *memStore) product(t *testing.T, id uint64) models.Product {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.state.products[id]
	if !ok {
		t.Fatalf("product %d not found", id)
	}
	return p
}

func (m *memStore) vendor(t *testing.T, id uint64) models.VendorAccount {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.state.vendors[id]
	if !ok {
		t.Fatalf("vendor %d not found", id)
	}
	return v
}

func (m *memStore) notificationsOf(eventType string) []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	var list []models.Notification
	for _, n := range m.notifications {
		if n.EventType == eventType {
			list = append(list, n)
		}
	}
	return list
}

func (m *memStore) activeCartItems(userID uint64) int {
	items, _ := m.ListActiveCartItems(context.Background(), userID)
	return len(items)
}

// fakeGateway records calls and answers from scripted results
type fakeGateway struct {
	mu sync.Mutex

	transfers []models.TransferRequest
	// failTransfers makes the next n transfers fail with transferErr
	failTransfers int
	transferErr   error
	// failAccounts fails every transfer to the listed accounts
	failAccounts map[string]error
	// when set, CreateTransfer signals started and waits for release
	started chan struct{}
	release chan struct{}

	reversals  []string
	reverseErr error

	links   []models.PaymentLinkRequest
	linkErr error

	payments map[string]*models.Payment

	accounts   []models.LinkedAccountRequest
	kyc        []models.KYCDetails
	accountErr error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		failAccounts: map[string]error{},
		payments:     map[string]*models.Payment{},
	}
}

func (g *fakeGateway) CreateTransfer(_ context.Context, tr models.TransferRequest) (*models.Transfer, error) {
	g.mu.Lock()
	g.transfers = append(g.transfers, tr)
	n := len(g.transfers)
	started, release := g.started, g.release
	var err error
	if g.failTransfers > 0 {
		g.failTransfers--
		err = g.transferErr
	} else if e, ok := g.failAccounts[tr.Account]; ok {
		err = e
	}
	g.mu.Unlock()

	if started != nil {
		started <- struct{}{}
		<-release
	}
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("trf_%d", n)
	return &models.Transfer{
		ID:        id,
		Recipient: tr.Account,
		Amount:    tr.Amount,
		Currency:  tr.Currency,
		Status:    "processed",
		Raw:       []byte(fmt.Sprintf(`{"id":%q,"recipient":%q}`, id, tr.Account)),
	}, nil
}

func (g *fakeGateway) ReverseTransfer(_ context.Context, transferID string, _ *decimal.Decimal) (*models.Reversal, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.reversals = append(g.reversals, transferID)
	if g.reverseErr != nil {
		return nil, g.reverseErr
	}
	id := fmt.Sprintf("rvrsl_%d", len(g.reversals))
	return &models.Reversal{
		ID:         id,
		TransferID: transferID,
		Raw:        []byte(fmt.Sprintf(`{"id":%q,"transfer_id":%q}`, id, transferID)),
	}, nil
}

func (g *fakeGateway) GetTransfer(_ context.Context, transferID string) (*models.Transfer, error) {
	return &models.Transfer{ID: transferID, Status: "processed"}, nil
}

func (g *fakeGateway) CreateLinkedAccount(_ context.Context, ar models.LinkedAccountRequest) (*models.LinkedAccount, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accountErr != nil {
		return nil, g.accountErr
	}
	g.accounts = append(g.accounts, ar)
	return &models.LinkedAccount{ID: fmt.Sprintf("acc_%d", len(g.accounts)), Status: "created"}, nil
}

func (g *fakeGateway) UpdateLinkedAccount(_ context.Context, accountID string, kyc models.KYCDetails) (*models.LinkedAccount, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.accountErr != nil {
		return nil, g.accountErr
	}
	g.kyc = append(g.kyc, kyc)
	return &models.LinkedAccount{ID: accountID, Status: "under_review"}, nil
}

func (g *fakeGateway) CreatePaymentLink(_ context.Context, pr models.PaymentLinkRequest) (*models.PaymentLink, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.links = append(g.links, pr)
	if g.linkErr != nil {
		return nil, g.linkErr
	}
	n := len(g.links)
	return &models.PaymentLink{
		ID:       fmt.Sprintf("plink_%d", n),
		ShortURL: fmt.Sprintf("https://rzp.io/i/%d", n),
		Status:   "created",
	}, nil
}

func (g *fakeGateway) GetPayment(_ context.Context, paymentID string) (*models.Payment, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, ok := g.payments[paymentID]
	if !ok {
		return nil, &models.GatewayError{StatusCode: 400, Code: "BAD_REQUEST_ERROR", Description: "The id provided does not exist"}
	}
	return p, nil
}

func (g *fakeGateway) transferCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.transfers)
}

// fixture wires services to one store and one gateway
type fixture struct {
	store         *memStore
	gateway       *fakeGateway
	notifications *NotificationService
	settlements   *SettlementService
	orders        *OrderService
	webhooks      *WebhookService
	vendors       *VendorService
	tracking      *TrackingService
}

const testWebhookSecret = "whsec_test"

func newFixture() *fixture {
	store := newMemStore()
	gw := newFakeGateway()
	ns := NewNotificationService(store)
	orders := NewOrderService(store, store, store, store, store, gw, ns, "INR", "https://shop.example/paid")

	return &fixture{
		store:         store,
		gateway:       gw,
		notifications: ns,
		settlements:   NewSettlementService(store, store, store, store, gw, ns, "INR"),
		orders:        orders,
		webhooks:      NewWebhookService(store, store, store, store, gw, ns, testWebhookSecret),
		vendors:       NewVendorService(store, gw, ns),
		tracking:      NewTrackingService(orders, store),
	}
}

// addVendor stores a vendor that can receive settlements
func (f *fixture) addVendor(mods ...func(v *models.VendorAccount)) models.VendorAccount {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	id := f.store.id()
	v := models.VendorAccount{
		ID:                   id,
		UserID:               1000 + id,
		BusinessName:         fmt.Sprintf("Vendor %d", id),
		BusinessType:         "proprietorship",
		LinkedAccountID:      fmt.Sprintf("acc_vendor_%d", id),
		KYCVerified:          true,
		PAN:                  "ABCDE1234F",
		AccountStatus:        models.VendorStatusActive,
		CommissionPercentage: decimal.NewFromInt(2),
		IsActive:             true,
	}
	for _, mod := range mods {
		mod(&v)
	}
	f.store.state.vendors[id] = v
	return v
}

// addOrder stores an order of vendor. Without mods it is delivered, paid and pending settlement.
func (f *fixture) addOrder(vendorID uint64, total string, mods ...func(o *models.Order)) models.Order {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	id := f.store.id()
	o := models.Order{
		ID:               id,
		UserID:           1,
		VendorID:         &vendorID,
		TotalPrice:       decimal.RequireFromString(total),
		Status:           models.OrderStatusDelivered,
		PaymentID:        fmt.Sprintf("pay_%d", id),
		SettlementStatus: models.SettlementStatusPending,
		IsActive:         true,
		CreatedAt:        time.Now(),
	}
	for _, mod := range mods {
		mod(&o)
	}
	f.store.state.orders[id] = o
	return o
}

func (f *fixture) addProduct(vendorID uint64, price string, stock int) models.Product {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	id := f.store.id()
	p := models.Product{
		ID:       id,
		VendorID: vendorID,
		Name:     fmt.Sprintf("Product %d", id),
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		IsActive: true,
	}
	f.store.state.products[id] = p
	return p
}

func (f *fixture) addCartItem(userID uint64, p models.Product, qty int) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()

	f.store.state.cart = append(f.store.state.cart, models.CartItem{
		ID:        f.store.id(),
		UserID:    userID,
		ProductID: p.ID,
		VendorID:  p.VendorID,
		Quantity:  qty,
		Price:     p.Price,
		IsActive:  true,
	})
}

func owner() *models.TokenPayload {
	return &models.TokenPayload{UserID: 1, Role: models.RoleOwner}
}
