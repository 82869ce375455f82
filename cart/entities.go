package cart

// Item is one cart line. A cart holds at most one line per product.
type Item struct {
	ProductID    string `json:"product_id"`
	Name         string `json:"name"`
	PriceInCents int    `json:"price_in_cents"`
	Qty          int    `json:"qty"`
	ImageURL     string `json:"image_url,omitempty"`
}

// Subtotal is the line total in cents.
func (i Item) Subtotal() int {
	return i.PriceInCents * i.Qty
}
