package model

import "time"

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Qty       int     `json:"qty"`
}

type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type Order struct {
	ID            string      `json:"id"`
	Items         []OrderItem `json:"items"`
	Subtotal      float64     `json:"subtotal"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total"`
	CouponCode    string      `json:"coupon_code,omitempty"`
	Customer      Customer    `json:"customer"`
	PaymentMethod string      `json:"payment_method"`
	PaymentRef    string      `json:"payment_ref"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type Coupon struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"`
	Discount    int        `json:"discount"`
	Expiry      *time.Time `json:"expiry,omitempty"`
	Description string     `json:"description"`
	Active      bool       `json:"active"`
	TimesUsed   int        `json:"times_used"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Usable reports whether the coupon can be applied at the given moment.
func (c Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	return c.Expiry == nil || now.Before(*c.Expiry)
}

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type Review struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Stats struct {
	Products int `json:"products"`
	Orders   int `json:"orders"`
	Coupons  int `json:"coupons"`
	Reviews  int `json:"reviews"`
	Contacts int `json:"contacts"`
}
