package models

import "time"

const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PhoneNumber  string `gorm:"not null"                 json:"phoneNumber"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"      json:"id"`
	Token     string    `gorm:"unique;not null" json:"-"`
	JTI       string    `gorm:"uniqueIndex"     json:"jti"`
	UserID    uint      `gorm:"index;not null"  json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ExpiresAt int64     `gorm:"not null"        json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Categories are predefined rows, there is no API for managing them.
type Category struct {
	Name string `gorm:"primaryKey" json:"name"`
}

type Product struct {
	ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string   `gorm:"not null"                 json:"name"`
	Description  string   `gorm:"type:text;not null"       json:"description"`
	PriceUnit    float64  `gorm:"not null"                 json:"priceUnit"`
	WeightUnit   float64  `gorm:"not null"                 json:"weightUnit"`
	CategoryName string   `gorm:"not null"                 json:"category"`
	Category     Category `gorm:"foreignKey:CategoryName;constraint:OnDelete:CASCADE" json:"-"`
}

// OrderState rows are seeded at boot; the canonical transition ordering
// lives in the orderflow package.
type OrderState struct {
	Name string `gorm:"primaryKey" json:"name"`
}

type Order struct {
	ID             uint        `gorm:"primaryKey;autoIncrement" json:"id"`
	ApprovalDate   *time.Time  `json:"approvalDate"`
	Username       string      `gorm:"not null" json:"username"`
	Email          string      `gorm:"not null" json:"email"`
	PhoneNumber    string      `gorm:"not null" json:"phoneNumber"`
	OrderStateName string      `gorm:"not null" json:"-"`
	OrderState     OrderState  `gorm:"foreignKey:OrderStateName" json:"orderState"`
	Items          []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"orderItems"`
	Opinions       []Opinion   `gorm:"constraint:OnDelete:CASCADE" json:"opinions"`
}

// OrderItem is written once at order placement. UnitPrice is a snapshot of
// the product price at that moment, never recalculated from the catalog.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"  json:"id"`
	OrderID   uint     `gorm:"index;not null"            json:"order_id"`
	ProductID uint     `gorm:"not null"                  json:"product_id"`
	Product   Product  `json:"product"`
	Quantity  uint     `gorm:"not null;check:quantity>0" json:"quantity"`
	UnitPrice float64  `gorm:"not null"                  json:"unitPrice"`
	Discount  *float64 `json:"discount"`
}

// One opinion per order, enforced by the unique index on OrderID so a
// concurrent duplicate insert fails at the store.
type Opinion struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint      `gorm:"uniqueIndex;not null"     json:"order_id"`
	Rating    int       `gorm:"not null"                 json:"rating"`
	Content   string    `gorm:"type:text;not null"       json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
