package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID    uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name  string `gorm:"not null"                 json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type Product struct {
	ID              uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string          `gorm:"not null;index"           json:"name"`
	Description     string          `gorm:"not null"                 json:"description"`
	RichDescription string          `json:"richDescription"`
	Image           string          `json:"image"`
	Images          []string        `gorm:"serializer:json"          json:"images"`
	Brand           string          `json:"brand"`
	Price           decimal.Decimal `gorm:"type:numeric;not null"    json:"price"`
	CategoryID      uint            `gorm:"index;not null"           json:"categoryId"`
	Category        *Category       `json:"category,omitempty"`
	CountInStock    uint            `json:"countInStock"`
	Rating          float64         `json:"rating"`
	NumReviews      uint            `json:"numReviews"`
	IsFeatured      bool            `json:"isFeatured"`
	DateCreated     time.Time       `gorm:"autoCreateTime"           json:"dateCreated"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"not null"                 json:"name"`
	Email        string `gorm:"unique;not null"          json:"email"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Phone        string `json:"phone"`
	IsAdmin      bool   `gorm:"default:false"            json:"isAdmin"`
	IsVerified   bool   `gorm:"default:false"            json:"isVerified"`
	Street       string `json:"street"`
	Apartment    string `json:"apartment"`
	Zip          string `json:"zip"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

// OrderItem is a single product+quantity line. It is addressable on its own:
// OrderID stays 0 until a parent order claims the item. Position is the line
// index the client submitted, so the item sequence of an order is stable no
// matter in which order the rows were written.
type OrderItem struct {
	ID        uint     `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID   uint     `gorm:"index"                       json:"order_id"`
	ProductID uint     `gorm:"index;not null"              json:"product_id"`
	Product   *Product `json:"product,omitempty"`
	Quantity  uint     `gorm:"default:1;check:quantity>0"  json:"quantity"`
	Position  uint     `json:"-"`
}

// Order keeps TotalPrice as a snapshot taken at creation time. Later price
// changes on a product never touch totals of past orders.
type Order struct {
	ID               uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Items            []OrderItem     `gorm:"foreignKey:OrderID"       json:"orderItems"`
	ShippingAddress1 string          `gorm:"not null"                 json:"shippingAddress1"`
	ShippingAddress2 string          `json:"shippingAddress2"`
	City             string          `gorm:"not null"                 json:"city"`
	Zip              string          `gorm:"not null"                 json:"zip"`
	Country          string          `gorm:"not null"                 json:"country"`
	Phone            string          `gorm:"not null"                 json:"phone"`
	Status           string          `gorm:"not null;default:Pending" json:"status"`
	TotalPrice       decimal.Decimal `gorm:"type:numeric;not null"    json:"totalPrice"`
	UserID           uint            `gorm:"index;not null"           json:"user"`
	User             *User           `json:"userDetail,omitempty"`
	DateOrdered      time.Time       `gorm:"not null"                 json:"dateOrdered"`
}
