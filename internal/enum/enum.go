package enum

// ── Staff roles (CHECK constrained in DB via staff_role) ──

const (
	RoleKitchen = "KITCHEN"
	RoleWaiter  = "WAITER"
	RoleManager = "MANAGER"
)

// ── Change notifications ──

const (
	TableOrders     = "orders"
	TableOrderItems = "order_items"
)

const (
	ChangeInsert = "insert"
	ChangeUpdate = "update"
)

// ── Checkout provider events ──

const (
	EventCheckoutCompleted = "checkout.session.completed"
)

// ── Submission limits ──

const (
	MinItemQuantity = 1
	MaxItemQuantity = 10
)
