package domain

// Cart is the ordered list of books pending purchase, scoped to one
// session. It lives in the session cookie, never in the store.
type Cart struct {
	Items []Book `json:"items"`
}

func (c *Cart) Add(b Book) {
	c.Items = append(c.Items, b)
}

// RemoveAt drops the item at idx, preserving order. Out-of-range indexes
// are ignored.
func (c *Cart) RemoveAt(idx int) {
	if idx < 0 || idx >= len(c.Items) {
		return
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
}

func (c *Cart) Clear() {
	c.Items = nil
}

func (c *Cart) Len() int { return len(c.Items) }

// Total sums the carried prices; unpriced items count as zero until the
// order recorder materializes them.
func (c *Cart) Total() float64 {
	var t float64
	for _, b := range c.Items {
		if b.Price != nil {
			t += *b.Price
		}
	}
	return t
}
