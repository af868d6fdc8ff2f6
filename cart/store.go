package cart

import (
	"sort"
	"strconv"
	"strings"
	"sync"
)

// OptionSnapshot captures one selected dish option at the price it had when
// the line was added.
type OptionSnapshot struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Line is one cart entry. UnitPrice already includes the selected options and
// is resolved server-side from the menu, never taken from the client.
type Line struct {
	DishID    uint             `json:"dish_id"`
	DishName  string           `json:"dish_name"`
	UnitPrice float64          `json:"unit_price"`
	Quantity  int              `json:"quantity"`
	OptionIDs []uint           `json:"option_ids"`
	Options   []OptionSnapshot `json:"options"`
	Note      string           `json:"note"`
}

// Partition is the portion of a session's cart belonging to one restaurant.
type Partition struct {
	RestaurantID   uint             `json:"restaurant_id"`
	RestaurantName string           `json:"restaurant_name"`
	Image          string           `json:"image"`
	Items          map[string]*Line `json:"items"`
}

func (p *Partition) Subtotal() float64 {
	var total float64
	for _, line := range p.Items {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

func (p *Partition) ItemCount() int {
	var n int
	for _, line := range p.Items {
		n += line.Quantity
	}
	return n
}

// Snapshot is a detached copy of a session's cart, safe to hand to handlers
// and encoders without holding the store lock.
type Snapshot map[uint]*Partition

// ItemKey derives the deterministic identity of a cart line from the dish id
// and the sorted selected option ids. Two additions with the same key merge
// into one line.
func ItemKey(dishID uint, optionIDs []uint) string {
	ids := make([]uint, len(optionIDs))
	copy(ids, optionIDs)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, 0, len(ids)+1)
	parts = append(parts, strconv.FormatUint(uint64(dishID), 10))
	for _, id := range ids {
		parts = append(parts, strconv.FormatUint(uint64(id), 10))
	}
	return strings.Join(parts, "-")
}

// Store holds every live session cart, keyed sessionID -> restaurantID ->
// partition. It is the only shared mutable state on the cart path and is
// guarded for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]map[uint]*Partition
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]map[uint]*Partition)}
}

// AddItem merges a line into the session's partition for the restaurant. If
// editKey is set, the line at that key is removed first so an edited line can
// land on a different key without duplicating. Quantities of identical lines
// are summed.
func (s *Store) AddItem(sessionID string, restaurantID uint, name, image string, line Line) Snapshot {
	return s.addItem(sessionID, restaurantID, name, image, line, "")
}

func (s *Store) AddItemReplacing(sessionID string, restaurantID uint, name, image string, line Line, editKey string) Snapshot {
	return s.addItem(sessionID, restaurantID, name, image, line, editKey)
}

func (s *Store) addItem(sessionID string, restaurantID uint, name, image string, line Line, editKey string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	partitions, ok := s.sessions[sessionID]
	if !ok {
		partitions = make(map[uint]*Partition)
		s.sessions[sessionID] = partitions
	}
	part, ok := partitions[restaurantID]
	if !ok {
		part = &Partition{
			RestaurantID:   restaurantID,
			RestaurantName: name,
			Image:          image,
			Items:          make(map[string]*Line),
		}
		partitions[restaurantID] = part
	}

	if editKey != "" {
		delete(part.Items, editKey)
	}

	key := ItemKey(line.DishID, line.OptionIDs)
	if existing, ok := part.Items[key]; ok {
		existing.Quantity += line.Quantity
		existing.Note = line.Note
	} else {
		added := line
		part.Items[key] = &added
	}
	return s.snapshotLocked(sessionID)
}

// UpdateQuantity sets the quantity of the line at itemKey. A quantity of zero
// or less deletes the line; a partition with no lines left is removed so no
// empty restaurant entry lingers. The second return is false when the line
// does not exist.
func (s *Store) UpdateQuantity(sessionID string, restaurantID uint, itemKey string, quantity int) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	part, ok := s.sessions[sessionID][restaurantID]
	if !ok {
		return s.snapshotLocked(sessionID), false
	}
	line, ok := part.Items[itemKey]
	if !ok {
		return s.snapshotLocked(sessionID), false
	}

	if quantity <= 0 {
		delete(part.Items, itemKey)
		s.dropIfEmpty(sessionID, restaurantID)
	} else {
		line.Quantity = quantity
	}
	return s.snapshotLocked(sessionID), true
}

// RemoveItem deletes the line at itemKey.
func (s *Store) RemoveItem(sessionID string, restaurantID uint, itemKey string) (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	part, ok := s.sessions[sessionID][restaurantID]
	if !ok {
		return s.snapshotLocked(sessionID), false
	}
	if _, ok := part.Items[itemKey]; !ok {
		return s.snapshotLocked(sessionID), false
	}
	delete(part.Items, itemKey)
	s.dropIfEmpty(sessionID, restaurantID)
	return s.snapshotLocked(sessionID), true
}

// Partition returns a detached copy of the session's partition for one
// restaurant, or false when the session has nothing for that restaurant.
func (s *Store) Partition(sessionID string, restaurantID uint) (*Partition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	part, ok := s.sessions[sessionID][restaurantID]
	if !ok || len(part.Items) == 0 {
		return nil, false
	}
	return copyPartition(part), true
}

// Snapshot returns a detached copy of the session's whole cart.
func (s *Store) Snapshot(sessionID string) Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked(sessionID)
}

// Clear removes the session's partition for one restaurant. Called only after
// that restaurant's order has been durably created.
func (s *Store) Clear(sessionID string, restaurantID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	partitions, ok := s.sessions[sessionID]
	if !ok {
		return
	}
	delete(partitions, restaurantID)
	if len(partitions) == 0 {
		delete(s.sessions, sessionID)
	}
}

func (s *Store) dropIfEmpty(sessionID string, restaurantID uint) {
	partitions := s.sessions[sessionID]
	if part, ok := partitions[restaurantID]; ok && len(part.Items) == 0 {
		delete(partitions, restaurantID)
	}
	if len(partitions) == 0 {
		delete(s.sessions, sessionID)
	}
}

func (s *Store) snapshotLocked(sessionID string) Snapshot {
	snap := make(Snapshot)
	for restaurantID, part := range s.sessions[sessionID] {
		snap[restaurantID] = copyPartition(part)
	}
	return snap
}

func copyPartition(part *Partition) *Partition {
	out := &Partition{
		RestaurantID:   part.RestaurantID,
		RestaurantName: part.RestaurantName,
		Image:          part.Image,
		Items:          make(map[string]*Line, len(part.Items)),
	}
	for key, line := range part.Items {
		copied := *line
		out.Items[key] = &copied
	}
	return out
}
