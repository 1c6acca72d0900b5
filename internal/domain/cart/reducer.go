package cart

import (
	"github.com/your-org/storefront/internal/domain/catalog"
	"github.com/your-org/storefront/internal/pkg/money"
)

// Action is a cart state transition
type Action interface {
	Kind() string
	apply(s State, rules PricingRules) State
}

// AddAction adds a product variant, merging into an existing line
type AddAction struct {
	Product  catalog.Product
	Size     string
	Color    string
	Quantity int
}

// UpdateAction sets a line's quantity; <= 0 removes the line
type UpdateAction struct {
	CartItemID string
	Quantity   int
}

// RemoveAction drops a line
type RemoveAction struct {
	CartItemID string
}

// ClearAction empties the cart
type ClearAction struct{}

// SetOpenAction shows or hides the cart
type SetOpenAction struct {
	Open bool
}

// ToggleAction flips cart visibility
type ToggleAction struct{}

func (AddAction) Kind() string     { return "add" }
func (UpdateAction) Kind() string  { return "update" }
func (RemoveAction) Kind() string  { return "remove" }
func (ClearAction) Kind() string   { return "clear" }
func (SetOpenAction) Kind() string { return "set_open" }
func (ToggleAction) Kind() string  { return "toggle" }

func (a AddAction) apply(s State, rules PricingRules) State {
	s.Items = AddItem(s.Items, &a.Product, a.Size, a.Color, a.Quantity, rules)
	return s
}

func (a UpdateAction) apply(s State, _ PricingRules) State {
	s.Items = SetQuantity(s.Items, a.CartItemID, a.Quantity)
	return s
}

func (a RemoveAction) apply(s State, _ PricingRules) State {
	s.Items = RemoveItem(s.Items, a.CartItemID)
	return s
}

func (ClearAction) apply(s State, _ PricingRules) State {
	s.Items = []LineItem{}
	return s
}

func (a SetOpenAction) apply(s State, _ PricingRules) State {
	s.IsOpen = a.Open
	return s
}

func (ToggleAction) apply(s State, _ PricingRules) State {
	s.IsOpen = !s.IsOpen
	return s
}

// Reduce returns the state after action. The input state is not modified.
func Reduce(s State, action Action, rules PricingRules) State {
	return action.apply(s.Clone(), rules)
}

// AvailableStock is the product's declared stock quantity, or the fallback
// cap. Products marked out of stock have none.
func AvailableStock(p *catalog.Product, rules PricingRules) int {
	if !p.IsInStock() {
		return 0
	}
	if stock, ok := p.DeclaredStock(); ok {
		return stock
	}
	return rules.FallbackMaxQuantity
}

// AddItem returns items with quantity units of the product variant added.
// Quantities below 1 count as 1. The result never exceeds available stock;
// a product with no stock leaves items unchanged.
func AddItem(items []LineItem, p *catalog.Product, size, color string, quantity int, rules PricingRules) []LineItem {
	stock := AvailableStock(p, rules)
	if stock <= 0 {
		return cloneItems(items)
	}
	quantity = max(quantity, 1)

	variant := ResolveVariant(p, size, color)
	id := ItemID(p.ID, variant.Size, variant.Color)

	out := cloneItems(items)
	if i := indexOf(out, id); i >= 0 {
		line := out[i]
		line.MaxQuantity = stock
		line.Quantity = min(line.Quantity+min(quantity, stock), stock)
		out[i] = reprice(line, p.IsInStock())
		return out
	}

	line := LineItem{
		CartItemID:    id,
		ProductID:     p.ID,
		Name:          p.Name,
		Brand:         p.Brand,
		Category:      p.Category,
		Image:         p.Image,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		SelectedSize:  variant.Size,
		SelectedColor: variant.Color,
		Quantity:      min(quantity, stock),
		MaxQuantity:   stock,
		Discount:      p.DiscountPercentage(),
		SKU:           p.SKU,
	}
	return append(out, reprice(line, p.IsInStock()))
}

// SetQuantity returns items with the line's quantity replaced. A quantity
// <= 0 removes the line, larger values are clamped to maxQuantity (at least
// one) and an unknown id changes nothing.
func SetQuantity(items []LineItem, cartItemID string, quantity int) []LineItem {
	if quantity <= 0 {
		return RemoveItem(items, cartItemID)
	}

	out := cloneItems(items)
	i := indexOf(out, cartItemID)
	if i < 0 {
		return out
	}

	line := out[i]
	line.Quantity = min(quantity, max(line.MaxQuantity, 1))
	out[i] = reprice(line, line.InStock)
	return out
}

// RemoveItem returns items without the line, if present
func RemoveItem(items []LineItem, cartItemID string) []LineItem {
	out := make([]LineItem, 0, len(items))
	for _, it := range items {
		if it.CartItemID != cartItemID {
			out = append(out, it)
		}
	}
	return out
}

func reprice(line LineItem, productInStock bool) LineItem {
	line.TotalPrice = money.LineTotal(line.Price, line.Quantity)
	line.InStock = line.Quantity > 0 && productInStock
	return line
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items), len(items)+1)
	copy(out, items)
	return out
}
