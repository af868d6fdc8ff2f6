package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	// Order statuses. The flow is strictly linear: an order enters at
	// "unpaid" (gateway payment) or "pending" (cash on delivery) and only
	// ever moves one step forward until "completed".
	OrderStatusUnpaid     OrderStatus = "unpaid"     // Awaiting gateway payment
	OrderStatusPending    OrderStatus = "pending"    // Paid or cash, awaiting restaurant confirmation
	OrderStatusConfirmed  OrderStatus = "confirmed"  // Restaurant accepted the order
	OrderStatusDelivering OrderStatus = "delivering" // Courier picked it up
	OrderStatusCompleted  OrderStatus = "completed"  // Terminal

	// Payment statuses. Terminal once paid or failed.
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
	PaymentStatusFailed PaymentStatus = "failed"
)

type Order struct {
	ID                    uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID                uint        `gorm:"not null;index" json:"user_id"`
	User                  User        `gorm:"foreignKey:UserID" json:"user"`
	RestaurantID          uint        `gorm:"not null;index" json:"restaurant_id"`
	OrderDate             time.Time   `gorm:"autoCreateTime" json:"order_date"`
	Subtotal              float64     `gorm:"not null" json:"subtotal"`
	ShippingFee           float64     `gorm:"default:0" json:"shipping_fee"`
	Discount              float64     `gorm:"default:0" json:"discount"`
	Total                 float64     `gorm:"not null" json:"total"`
	DeliveryAddress       string      `gorm:"size:255;not null" json:"delivery_address"`
	Note                  string      `gorm:"size:100" json:"note"`
	Status                OrderStatus `gorm:"column:order_status;type:VARCHAR(20);default:'pending';not null" json:"status"`
	EstimatedDeliveryTime *time.Time  `json:"estimated_delivery_time"`
	DeliveryMinutes       int         `json:"delivery_minutes"`

	Details  []OrderDetail `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"details"`
	Payments []Payment     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
	Vouchers []Voucher     `gorm:"many2many:order_vouchers" json:"vouchers,omitempty"`
}

// OrderDetail is a denormalized snapshot of one cart line at the moment the
// order was placed, so later menu edits never alter a placed order.
type OrderDetail struct {
	ID              uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         uint    `gorm:"not null;index" json:"order_id"`
	DishID          uint    `gorm:"not null;index" json:"dish_id"`
	DishName        string  `gorm:"size:255" json:"dish_name"`
	UnitPrice       float64 `gorm:"not null" json:"unit_price"`
	Quantity        int     `gorm:"not null" json:"quantity"`
	SelectedOptions string  `gorm:"type:text" json:"selected_options"`
	Note            string  `gorm:"size:100" json:"note"`
}

type Payment struct {
	ID             uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID        uint          `gorm:"not null;index" json:"order_id"`
	Amount         float64       `gorm:"not null" json:"amount"`
	Method         string        `gorm:"column:payment_method;size:20;not null" json:"payment_method"`
	Status         PaymentStatus `gorm:"column:payment_status;type:VARCHAR(20);default:'unpaid';not null" json:"payment_status"`
	PayURL         string        `gorm:"size:500" json:"pay_url"`
	GatewayOrderID string        `gorm:"size:255;index" json:"gateway_order_id"`
	CreatedDate    time.Time     `gorm:"autoCreateTime" json:"created_date"`
}
