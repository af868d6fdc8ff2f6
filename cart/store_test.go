package cart

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(dishID uint, qty int, optionIDs ...uint) Line {
	return Line{
		DishID:    dishID,
		DishName:  "dish",
		UnitPrice: 30000,
		Quantity:  qty,
		OptionIDs: optionIDs,
	}
}

func TestItemKeyOrderIndependent(t *testing.T) {
	assert.Equal(t, ItemKey(7, []uint{3, 1, 2}), ItemKey(7, []uint{1, 2, 3}))
	assert.NotEqual(t, ItemKey(7, []uint{1}), ItemKey(7, []uint{2}))
	assert.NotEqual(t, ItemKey(7, nil), ItemKey(8, nil))
}

func TestAddItemMergesQuantities(t *testing.T) {
	s := NewStore()
	s.AddItem("sess", 1, "Quan A", "", line(10, 2, 5, 6))
	snap := s.AddItem("sess", 1, "Quan A", "", line(10, 3, 6, 5))

	part := snap[1]
	require.NotNil(t, part)
	require.Len(t, part.Items, 1)
	assert.Equal(t, 5, part.Items[ItemKey(10, []uint{5, 6})].Quantity)
}

func TestAddItemDifferentOptionsKeepSeparateLines(t *testing.T) {
	s := NewStore()
	s.AddItem("sess", 1, "Quan A", "", line(10, 1, 5))
	snap := s.AddItem("sess", 1, "Quan A", "", line(10, 1, 6))

	require.Len(t, snap[1].Items, 2)
}

func TestAddItemReplacingRemovesEditedLine(t *testing.T) {
	s := NewStore()
	s.AddItem("sess", 1, "Quan A", "", line(10, 2, 5))
	editKey := ItemKey(10, []uint{5})

	// The edit changes the selected options, so the line lands on a new key.
	snap := s.AddItemReplacing("sess", 1, "Quan A", "", line(10, 2, 6), editKey)

	part := snap[1]
	require.Len(t, part.Items, 1)
	assert.Nil(t, part.Items[editKey])
	assert.Equal(t, 2, part.Items[ItemKey(10, []uint{6})].Quantity)
}

func TestUpdateQuantityZeroDeletesLineAndEmptyPartition(t *testing.T) {
	s := NewStore()
	s.AddItem("sess", 1, "Quan A", "", line(10, 2))

	snap, ok := s.UpdateQuantity("sess", 1, ItemKey(10, nil), 0)
	assert.True(t, ok)
	assert.Empty(t, snap)

	_, found := s.Partition("sess", 1)
	assert.False(t, found)
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	s := NewStore()
	s.AddItem("sess", 1, "Quan A", "", line(10, 2))

	_, ok := s.UpdateQuantity("sess", 1, "999", 3)
	assert.False(t, ok)
	_, ok = s.UpdateQuantity("sess", 2, ItemKey(10, nil), 3)
	assert.False(t, ok)
}

func TestRemoveItemKeepsOtherRestaurants(t *testing.T) {
	s := NewStore()
	s.AddItem("sess", 1, "Quan A", "", line(10, 1))
	s.AddItem("sess", 2, "Quan B", "", line(20, 1))

	snap, ok := s.RemoveItem("sess", 1, ItemKey(10, nil))
	assert.True(t, ok)
	assert.Nil(t, snap[1])
	require.NotNil(t, snap[2])
	assert.Len(t, snap[2].Items, 1)
}

func TestPartitionSubtotal(t *testing.T) {
	s := NewStore()
	l := line(10, 2)
	l.UnitPrice = 30000
	s.AddItem("sess", 1, "Quan A", "", l)

	part, ok := s.Partition("sess", 1)
	require.True(t, ok)
	assert.Equal(t, float64(60000), part.Subtotal())
	assert.Equal(t, 2, part.ItemCount())
}

func TestSnapshotIsDetached(t *testing.T) {
	s := NewStore()
	s.AddItem("sess", 1, "Quan A", "", line(10, 2))

	snap := s.Snapshot("sess")
	snap[1].Items[ItemKey(10, nil)].Quantity = 99

	part, _ := s.Partition("sess", 1)
	assert.Equal(t, 2, part.Items[ItemKey(10, nil)].Quantity)
}

func TestClearRemovesOnlyThatPartition(t *testing.T) {
	s := NewStore()
	s.AddItem("sess", 1, "Quan A", "", line(10, 1))
	s.AddItem("sess", 2, "Quan B", "", line(20, 1))

	s.Clear("sess", 1)

	_, ok := s.Partition("sess", 1)
	assert.False(t, ok)
	_, ok = s.Partition("sess", 2)
	assert.True(t, ok)
}

func TestConcurrentAdds(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem("sess", 1, "Quan A", "", line(10, 1))
		}()
	}
	wg.Wait()

	part, ok := s.Partition("sess", 1)
	require.True(t, ok)
	assert.Equal(t, 50, part.Items[ItemKey(10, nil)].Quantity)
}
