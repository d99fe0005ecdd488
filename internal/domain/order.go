package domain

import "time"

type OrderStatus string

// OrderStatusReceived is the only status this system ever assigns.
const OrderStatusReceived OrderStatus = "received"

func (s OrderStatus) String() string {
	return string(s)
}

// DeliveryInfo is collected by the first checkout step.
type DeliveryInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	District  string `json:"district"`
	ZipCode   string `json:"zipCode"`
}

// PaymentInfo is collected by the second checkout step. It is never persisted.
type PaymentInfo struct {
	CardNumber string `json:"cardNumber"`
	CardHolder string `json:"cardHolder"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

// Order is an immutable record of a completed checkout.
type Order struct {
	ID           string       `json:"id"`
	Items        []CartItem   `json:"items"`
	TotalPrice   float64      `json:"totalPrice"`
	DeliveryInfo DeliveryInfo `json:"deliveryInfo"`
	Date         time.Time    `json:"date"`
	Status       OrderStatus  `json:"status"`
}
