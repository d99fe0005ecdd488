package domain

// CartItem is a product together with the selected quantity.
// The product fields are flattened into the item on the wire.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns price * quantity as a float. Use cart totals for exact sums.
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// CartState is the persisted shape of the cart.
type CartState struct {
	Items       []CartItem `json:"items"`
	TotalItems  int        `json:"totalItems"`
	TotalAmount float64    `json:"totalAmount"`
}

// Clone returns a deep copy so callers cannot alias the item slice.
func (s CartState) Clone() CartState {
	items := make([]CartItem, len(s.Items))
	copy(items, s.Items)
	return CartState{
		Items:       items,
		TotalItems:  s.TotalItems,
		TotalAmount: s.TotalAmount,
	}
}

// IsEmpty reports whether the cart holds no items.
func (s CartState) IsEmpty() bool {
	return len(s.Items) == 0
}
