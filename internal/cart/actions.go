package cart

import "github.com/fjod/go_storefront/internal/domain"

type ActionType string

const (
	ActionAddToCart      ActionType = "cart/addToCart"
	ActionRemoveFromCart ActionType = "cart/removeFromCart"
	ActionUpdateQuantity ActionType = "cart/updateQuantity"
	ActionClearCart      ActionType = "cart/clearCart"
	ActionRemoveOrdered  ActionType = "cart/removeOrdered"
)

// Action is a request to mutate the cart. Only the fields relevant to Type are read.
type Action struct {
	Type      ActionType
	Product   domain.Product
	ProductID int64
	Quantity  int
	Items     []domain.CartItem
}

func AddToCart(product domain.Product) Action {
	return Action{Type: ActionAddToCart, Product: product}
}

func RemoveFromCart(productID int64) Action {
	return Action{Type: ActionRemoveFromCart, ProductID: productID}
}

// UpdateQuantity sets the quantity verbatim. Callers must reject quantity < 1.
func UpdateQuantity(productID int64, quantity int) Action {
	return Action{Type: ActionUpdateQuantity, ProductID: productID, Quantity: quantity}
}

func ClearCart() Action {
	return Action{Type: ActionClearCart}
}

// RemoveOrdered subtracts the quantities of items that were just ordered.
// Anything added after the order snapshot stays in the cart.
func RemoveOrdered(items []domain.CartItem) Action {
	return Action{Type: ActionRemoveOrdered, Items: items}
}

// reduce applies action to state in place and reports whether anything was applied.
func reduce(state *domain.CartState, action Action) bool {
	switch action.Type {
	case ActionAddToCart:
		if i := indexOf(state.Items, action.Product.ID); i >= 0 {
			state.Items[i].Quantity++
		} else {
			state.Items = append(state.Items, domain.CartItem{Product: action.Product, Quantity: 1})
		}
	case ActionRemoveFromCart:
		kept := state.Items[:0]
		for _, item := range state.Items {
			if item.ID != action.ProductID {
				kept = append(kept, item)
			}
		}
		state.Items = kept
	case ActionUpdateQuantity:
		i := indexOf(state.Items, action.ProductID)
		if i < 0 {
			return false
		}
		state.Items[i].Quantity = action.Quantity
	case ActionClearCart:
		state.Items = []domain.CartItem{}
	case ActionRemoveOrdered:
		for _, ordered := range action.Items {
			i := indexOf(state.Items, ordered.ID)
			if i < 0 {
				continue
			}
			state.Items[i].Quantity -= ordered.Quantity
			if state.Items[i].Quantity < 1 {
				state.Items = append(state.Items[:i], state.Items[i+1:]...)
			}
		}
	default:
		return false
	}
	recalculate(state)
	return true
}

func indexOf(items []domain.CartItem, productID int64) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}
