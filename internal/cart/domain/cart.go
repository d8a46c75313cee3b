package domain

// Cart is one session's shopping cart. Items keep insertion order so a
// checkout walks its lines in the order the shopper added them; a product
// id appears at most once.
type Cart struct {
	Items []CartItem `json:"items"`
}

type CartItem struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// Add merges quantity into an existing line or appends a new one.
// Quantities below one are coerced to one, never rejected.
func (c *Cart) Add(productID int64, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: quantity})
}

// Remove drops a line. Removing an absent product is a no-op.
func (c *Cart) Remove(productID int64) {
	for i, item := range c.Items {
		if item.ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Items = nil
}

// SetSingle replaces the whole cart with one unit of the given product,
// the "buy now" shortcut.
func (c *Cart) SetSingle(productID int64) {
	c.Items = []CartItem{{ProductID: productID, Quantity: 1}}
}

// Count is the total unit count across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Wishlist is an ordered set of product ids.
type Wishlist struct {
	ProductIDs []int64 `json:"product_ids"`
}

// Add is an idempotent upsert.
func (w *Wishlist) Add(productID int64) {
	for _, id := range w.ProductIDs {
		if id == productID {
			return
		}
	}
	w.ProductIDs = append(w.ProductIDs, productID)
}

// Remove is idempotent; absent ids are a no-op.
func (w *Wishlist) Remove(productID int64) {
	for i, id := range w.ProductIDs {
		if id == productID {
			w.ProductIDs = append(w.ProductIDs[:i], w.ProductIDs[i+1:]...)
			return
		}
	}
}

func (w *Wishlist) Contains(productID int64) bool {
	for _, id := range w.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

func (w *Wishlist) Len() int {
	return len(w.ProductIDs)
}
