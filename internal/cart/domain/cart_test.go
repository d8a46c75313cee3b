package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCart_Add_MergesBySummation(t *testing.T) {
	var c Cart
	c.Add(1, 2)
	c.Add(1, 3)

	assert.Len(t, c.Items, 1)
	assert.Equal(t, 5, c.Items[0].Quantity)
}

func TestCart_Add_CoercesNonPositiveQuantity(t *testing.T) {
	tests := []struct {
		name string
		qty  int
		want int
	}{
		{"zero", 0, 1},
		{"negative", -4, 1},
		{"one", 1, 1},
		{"many", 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Cart
			c.Add(1, tt.qty)
			assert.Equal(t, tt.want, c.Items[0].Quantity)
		})
	}
}

func TestCart_Add_PreservesInsertionOrder(t *testing.T) {
	var c Cart
	c.Add(3, 1)
	c.Add(1, 1)
	c.Add(2, 1)
	c.Add(3, 1) // merge, must not reorder

	ids := []int64{c.Items[0].ProductID, c.Items[1].ProductID, c.Items[2].ProductID}
	assert.Equal(t, []int64{3, 1, 2}, ids)
}

func TestCart_Remove_IsIdempotent(t *testing.T) {
	var c Cart
	c.Add(1, 2)
	c.Remove(1)
	c.Remove(1) // absent, no-op
	c.Remove(99)

	assert.True(t, c.IsEmpty())
}

func TestCart_SetSingle_OverwritesEverything(t *testing.T) {
	var c Cart
	c.Add(1, 5)
	c.Add(2, 3)
	c.SetSingle(7)

	assert.Len(t, c.Items, 1)
	assert.Equal(t, int64(7), c.Items[0].ProductID)
	assert.Equal(t, 1, c.Items[0].Quantity)
}

func TestCart_Count(t *testing.T) {
	var c Cart
	assert.Zero(t, c.Count())
	c.Add(1, 2)
	c.Add(2, 3)
	assert.Equal(t, 5, c.Count())
}

func TestWishlist_Add_IsIdempotent(t *testing.T) {
	var w Wishlist
	w.Add(1)
	w.Add(1)
	w.Add(2)

	assert.Equal(t, 2, w.Len())
	assert.True(t, w.Contains(1))
}

func TestWishlist_Remove_IsIdempotent(t *testing.T) {
	var w Wishlist
	w.Add(1)
	w.Remove(1)
	w.Remove(1)
	w.Remove(42)

	assert.Zero(t, w.Len())
	assert.False(t, w.Contains(1))
}
