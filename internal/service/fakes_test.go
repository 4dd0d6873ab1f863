package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/tabletap/api/internal/checkout"
	"github.com/tabletap/api/internal/database"
	"github.com/tabletap/api/internal/notify"
)

// --- In-memory database ---

// memDB is an in-memory stand-in for the orders schema. Writes apply
// immediately and are undone on rollback, which is enough to mirror the row
// level outcome of the conditional UPDATEs the service issues.
type memDB struct {
	mu sync.Mutex

	tokens map[string]database.TableToken
	menu   map[string]database.MenuItem
	orders map[uuid.UUID]database.Order
	items  map[uuid.UUID]database.OrderItem
	seq    []uuid.UUID // item insertion order
	bills  map[uuid.UUID]database.Bill

	commits   int
	rollbacks int

	beginErr        error
	commitErr       error
	failCreateItem  int // fail the n-th CreateOrderItem call (1-based)
	createItemCalls int
	beforeListItems func()
}

func newMemDB() *memDB {
	return &memDB{
		tokens: make(map[string]database.TableToken),
		menu:   make(map[string]database.MenuItem),
		orders: make(map[uuid.UUID]database.Order),
		items:  make(map[uuid.UUID]database.OrderItem),
		bills:  make(map[uuid.UUID]database.Bill),
	}
}

func (m *memDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if m.beginErr != nil {
		return nil, m.beginErr
	}
	return &memTx{db: m}, nil
}

func (m *memDB) addToken(tableID, token string, expiresAt time.Time) {
	m.tokens[tableID] = database.TableToken{TableID: tableID, Token: token, ExpiresAt: expiresAt}
}

func (m *memDB) addMenuItem(id, name string, priceCents int64, available bool) {
	m.menu[id] = database.MenuItem{ID: id, Name: name, PriceCents: priceCents, Available: available}
}

// addOrder inserts an order whose items have the given statuses, with the
// order status derived from them.
func (m *memDB) addOrder(tableID string, statuses ...database.OrderItemStatus) (database.Order, []database.OrderItem) {
	order := database.Order{
		ID:      uuid.New(),
		TableID: tableID,
		Status:  DeriveOrderStatus(statuses),
	}
	m.orders[order.ID] = order

	items := make([]database.OrderItem, len(statuses))
	for i, st := range statuses {
		items[i] = database.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			MenuItemID: "MENU001",
			Name:       "Margherita",
			PriceCents: 1250,
			Quantity:   1,
			Status:     st,
		}
		m.items[items[i].ID] = items[i]
		m.seq = append(m.seq, items[i].ID)
	}
	return order, items
}

func (m *memDB) setOrderStatus(id uuid.UUID, status database.OrderStatus) {
	o := m.orders[id]
	o.Status = status
	m.orders[id] = o
}

func (m *memDB) order(id uuid.UUID) database.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.orders[id]
}

func (m *memDB) item(id uuid.UUID) database.OrderItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id]
}

// --- Transaction ---

// memTx implements pgx.Tx. Only Commit and Rollback are used by the service;
// queries go through memStore.
type memTx struct {
	db   *memDB
	undo []func()
	done bool
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }

func (t *memTx) Commit(ctx context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	if t.db.commitErr != nil {
		t.rollbackLocked()
		return t.db.commitErr
	}
	t.db.commits++
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.rollbackLocked()
	return nil
}

func (t *memTx) rollbackLocked() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	t.db.rollbacks++
}

func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (t *memTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (t *memTx) Conn() *pgx.Conn { panic("not implemented") }

// --- Store ---

// memStore implements OrderStore over memDB within one memTx.
type memStore struct {
	db *memDB
	tx *memTx
}

func (s *memStore) GetTableToken(ctx context.Context, tableID string) (database.TableToken, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	tt, ok := s.db.tokens[tableID]
	if !ok {
		return database.TableToken{}, pgx.ErrNoRows
	}
	return tt, nil
}

func (s *memStore) GetMenuItem(ctx context.Context, id string) (database.MenuItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	mi, ok := s.db.menu[id]
	if !ok {
		return database.MenuItem{}, pgx.ErrNoRows
	}
	return mi, nil
}

func (s *memStore) CreateOrder(ctx context.Context, tableID string) (database.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o := database.Order{ID: uuid.New(), TableID: tableID, Status: database.OrderStatusPending}
	s.db.orders[o.ID] = o
	s.tx.undo = append(s.tx.undo, func() { delete(s.db.orders, o.ID) })
	return o, nil
}

func (s *memStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	s.db.createItemCalls++
	if s.db.failCreateItem != 0 && s.db.createItemCalls == s.db.failCreateItem {
		return database.OrderItem{}, errors.New("insert failed")
	}
	item := database.OrderItem{
		ID:         uuid.New(),
		OrderID:    arg.OrderID,
		MenuItemID: arg.MenuItemID,
		Name:       arg.Name,
		PriceCents: arg.PriceCents,
		Quantity:   arg.Quantity,
		Status:     database.OrderItemStatusPending,
	}
	s.db.items[item.ID] = item
	s.db.seq = append(s.db.seq, item.ID)
	s.tx.undo = append(s.tx.undo, func() { delete(s.db.items, item.ID) })
	return item, nil
}

func (s *memStore) GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[id]
	if !ok {
		return database.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (s *memStore) GetOrderItem(ctx context.Context, id uuid.UUID) (database.OrderItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	item, ok := s.db.items[id]
	if !ok {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	return item, nil
}

func (s *memStore) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItem, error) {
	if s.db.beforeListItems != nil {
		s.db.beforeListItems()
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	var out []database.OrderItem
	for _, id := range s.db.seq {
		if item, ok := s.db.items[id]; ok && item.OrderID == orderID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *memStore) UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	item, ok := s.db.items[arg.ID]
	if !ok || item.Status != arg.Status_2 {
		return database.OrderItem{}, pgx.ErrNoRows
	}
	prev := item
	item.Status = arg.Status
	s.db.items[item.ID] = item
	s.tx.undo = append(s.tx.undo, func() { s.db.items[prev.ID] = prev })
	return item, nil
}

func (s *memStore) UpdateOrderStatus(ctx context.Context, arg database.UpdateOrderStatusParams) (database.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[arg.ID]
	if !ok || o.Status != arg.Status_2 {
		return database.Order{}, pgx.ErrNoRows
	}
	return s.writeOrderLocked(o, arg.Status), nil
}

func (s *memStore) UpdateOrderDerivedStatus(ctx context.Context, arg database.UpdateOrderDerivedStatusParams) (database.Order, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	o, ok := s.db.orders[arg.ID]
	if !ok || o.Version != arg.Version || IsTerminal(o.Status) {
		return database.Order{}, pgx.ErrNoRows
	}
	return s.writeOrderLocked(o, arg.Status), nil
}

func (s *memStore) writeOrderLocked(o database.Order, status database.OrderStatus) database.Order {
	prev := o
	o.Status = status
	o.Version++
	s.db.orders[o.ID] = o
	s.tx.undo = append(s.tx.undo, func() { s.db.orders[prev.ID] = prev })
	return o
}

func (s *memStore) CreateBill(ctx context.Context, arg database.CreateBillParams) (database.Bill, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, exists := s.db.bills[arg.OrderID]; exists {
		return database.Bill{}, &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
	}
	b := database.Bill{
		ID:          uuid.New(),
		OrderID:     arg.OrderID,
		SessionID:   arg.SessionID,
		AmountCents: arg.AmountCents,
		Status:      database.BillStatusOpen,
		CheckoutUrl: arg.CheckoutUrl,
	}
	s.db.bills[b.OrderID] = b
	s.tx.undo = append(s.tx.undo, func() { delete(s.db.bills, b.OrderID) })
	return b, nil
}

func (s *memStore) GetBillByOrder(ctx context.Context, orderID uuid.UUID) (database.Bill, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	b, ok := s.db.bills[orderID]
	if !ok {
		return database.Bill{}, pgx.ErrNoRows
	}
	return b, nil
}

func (s *memStore) GetBillBySession(ctx context.Context, sessionID string) (database.Bill, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, b := range s.db.bills {
		if b.SessionID == sessionID {
			return b, nil
		}
	}
	return database.Bill{}, pgx.ErrNoRows
}

func (s *memStore) MarkBillPaid(ctx context.Context, sessionID string) (database.Bill, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, b := range s.db.bills {
		if b.SessionID != sessionID || b.Status != database.BillStatusOpen {
			continue
		}
		prev := b
		b.Status = database.BillStatusPaid
		b.PaidAt = pgtype.Timestamptz{Time: time.Now(), Valid: true}
		s.db.bills[b.OrderID] = b
		s.tx.undo = append(s.tx.undo, func() { s.db.bills[prev.OrderID] = prev })
		return b, nil
	}
	return database.Bill{}, pgx.ErrNoRows
}

// --- Publisher ---

type recordingPublisher struct {
	mu      sync.Mutex
	changes []notify.Change
}

func (p *recordingPublisher) Publish(c notify.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.changes = append(p.changes, c)
}

func (p *recordingPublisher) published() []notify.Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]notify.Change(nil), p.changes...)
}

// --- Checkout ---

type mockProvider struct {
	createSessionFn func(ctx context.Context, req checkout.Request) (checkout.Session, error)
}

func (m *mockProvider) CreateSession(ctx context.Context, req checkout.Request) (checkout.Session, error) {
	return m.createSessionFn(ctx, req)
}

// --- Test helpers ---

var testNow = time.Date(2026, 3, 14, 19, 30, 0, 0, time.UTC)

// newTestService wires an OrderService to a fresh memDB with table T1
// (token "tok-t1") and menu item MENU001 priced 1250.
func newTestService(t *testing.T) (*OrderService, *memDB, *recordingPublisher) {
	t.Helper()
	db := newMemDB()
	db.addToken("T1", "tok-t1", testNow.Add(time.Hour))
	db.addMenuItem("MENU001", "Margherita", 1250, true)

	pub := &recordingPublisher{}
	newStore := func(dbtx database.DBTX) OrderStore {
		return &memStore{db: db, tx: dbtx.(*memTx)}
	}
	svc := NewOrderService(db, newStore, pub, checkout.NewHostedLink("https://pay.example.test", "usd"), nil)
	svc.now = func() time.Time { return testNow }
	return svc, db, pub
}
