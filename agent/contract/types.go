package contract

// Intent is the closed set of response intents the agent may emit.
type Intent string

const (
	IntentOrderStatus    Intent = "order_status"
	IntentReturnGuidance Intent = "return_guidance"
	IntentFallback       Intent = "fallback"
	IntentClarification  Intent = "clarification"
)

// ValidIntent reports whether s is one of the four contract intents.
func ValidIntent(s string) bool {
	switch Intent(s) {
	case IntentOrderStatus, IntentReturnGuidance, IntentFallback, IntentClarification:
		return true
	}
	return false
}

// OrderStatus is the shipping state of an order.
type OrderStatus string

const (
	StatusProcessing     OrderStatus = "Processing"
	StatusInTransit      OrderStatus = "InTransit"
	StatusOutForDelivery OrderStatus = "OutForDelivery"
	StatusDelivered      OrderStatus = "Delivered"
	StatusDelayed        OrderStatus = "Delayed"
)

// ValidOrderStatus reports whether s is a known shipping state.
func ValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case StatusProcessing, StatusInTransit, StatusOutForDelivery, StatusDelivered, StatusDelayed:
		return true
	}
	return false
}

type OrderItem struct {
	SKU      string `json:"sku"`
	Name     string `json:"name,omitempty"`
	Quantity int    `json:"quantity"`
}

type Customer struct {
	Email string `json:"email,omitempty"`
}

// Order is a single shipment record. DeliveredAt is set exactly when
// Status is Delivered; ETA is only meaningful for undelivered orders.
// Dates use the YYYY-MM-DD layout.
type Order struct {
	TrackingID  string      `json:"tracking_id"`
	Status      OrderStatus `json:"status"`
	Carrier     string      `json:"carrier"`
	ETA         string      `json:"eta,omitempty"`
	DeliveredAt string      `json:"delivered_at,omitempty"`
	Customer    Customer    `json:"customer,omitempty"`
	Items       []OrderItem `json:"items"`
}

// Delivered reports whether the order has reached the customer.
func (o Order) Delivered() bool {
	return o.Status == StatusDelivered
}

type ProductCatalogEntry struct {
	SKU              string `json:"sku"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	Perishable       bool   `json:"perishable"`
	ReturnWindowDays int    `json:"return_window_days"`
	SealedException  bool   `json:"sealed_exception"`
}

// Chunk is one retrievable passage from the policy or FAQ corpus.
type Chunk struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Section string `json:"section,omitempty"`
	Text    string `json:"text"`
}

// ScoredChunk is a chunk ranked by similarity to a query.
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// EligibilityVerdict is the per-item outcome of the returns evaluator.
// DaysSinceDelivery is nil when the order has not been delivered.
type EligibilityVerdict struct {
	SKU                   string `json:"sku"`
	Eligible              bool   `json:"eligible"`
	DaysSinceDelivery     *int   `json:"daysSinceDelivery"`
	ApplicableWindowDays  int    `json:"applicableWindowDays"`
	Reason                string `json:"reason"`
}

// ResponseEnvelope is the only payload HandleTurn ever returns. Data is
// one of OrderStatusData, ReturnGuidanceData or an empty object,
// determined by Intent.
type ResponseEnvelope struct {
	Intent          Intent   `json:"intent"`
	Message         string   `json:"message"`
	Data            any      `json:"data"`
	GroundedSources []string `json:"groundedSources"`
}

// OrderStatusData is the envelope payload for order_status responses.
type OrderStatusData struct {
	TrackingID  string      `json:"trackingId"`
	Status      OrderStatus `json:"status"`
	Carrier     string      `json:"carrier"`
	ETA         string      `json:"eta,omitempty"`
	DeliveredAt string      `json:"deliveredAt,omitempty"`
	Items       []OrderItem `json:"items,omitempty"`
}

// ReturnGuidanceData is the envelope payload for return_guidance responses.
type ReturnGuidanceData struct {
	TrackingID  string               `json:"trackingId"`
	Verdicts    []EligibilityVerdict `json:"verdicts"`
	MaskedEmail string               `json:"maskedEmail,omitempty"`
}
