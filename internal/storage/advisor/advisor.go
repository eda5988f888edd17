// Package advisor recommends a storage slot for an order arriving at the
// office. It is a pure function of the order, the current order set (from
// which occupancy is derived) and the configured drawer list, so callers
// must re-fetch a fresh snapshot before committing a recommendation.
package advisor

import (
	"time"

	"entrepot/internal/domain"
)

const (
	ScoreClientCluster   = 100
	ScoreShipmentCluster = 80
	ScoreActiveDrawer    = 50
	ScoreEmptyDrawer     = 10
)

// activeDrawerThreshold: drawers at or above 90% fill are left for manual
// placement rather than recommended.
const activeDrawerThreshold = 0.9

type Suggestion struct {
	Location string
	Score    int
	Reasons  []string
}

// Found reports whether the advisor produced a recommendation. An empty
// suggestion is a normal outcome, not an error: the caller falls back to
// manual selection or the floor pseudo-location.
func (s Suggestion) Found() bool {
	return s.Location != ""
}

type Options struct {
	// StrictOccupancy refuses to recommend a slot that already holds an
	// order. The default (loose) mode reproduces the historical behavior
	// where client clustering may point at an occupied slot.
	StrictOccupancy bool
}

// Suggest runs the placement cascade with default options: cluster with
// the client's existing orders, then with the same shipment, then pick the
// least-fragmenting drawer.
func Suggest(order domain.Order, all []domain.Order, drawers []domain.StorageDrawer) Suggestion {
	return SuggestWithOptions(order, all, drawers, Options{})
}

// SuggestWithOptions is Suggest with explicit occupancy behavior.
func SuggestWithOptions(order domain.Order, all []domain.Order, drawers []domain.StorageDrawer, opts Options) Suggestion {
	occ := occupancy(order, all)
	byName := make(map[string]domain.StorageDrawer, len(drawers))
	for _, d := range drawers {
		byName[d.Name] = d
	}

	if s, ok := clientCluster(order, all, occ, byName, opts); ok {
		return s
	}
	if s, ok := shipmentCluster(order, all, occ, byName); ok {
		return s
	}
	if s, ok := bestDrawer(occ, drawers); ok {
		return s
	}
	return Suggestion{}
}

// occupancy tallies slot addresses referenced by currently stored orders,
// excluding the order being placed and the floor.
func occupancy(order domain.Order, all []domain.Order) map[string]int {
	occ := make(map[string]int)
	for _, o := range all {
		if o.ID == order.ID || o.Status != domain.StatusStored || o.StorageLocation == nil {
			continue
		}
		loc := *o.StorageLocation
		if loc == "" || loc == domain.FloorLocation {
			continue
		}
		occ[loc]++
	}
	return occ
}

func occupiedSlots(occ map[string]int, drawer string) int {
	n := 0
	for loc := range occ {
		if name, ok := domain.SlotDrawer(loc); ok && name == drawer {
			n++
		}
	}
	return n
}

func firstFreeSlot(occ map[string]int, d domain.StorageDrawer) (string, bool) {
	capacity := d.EffectiveCapacity()
	for i := 1; i <= capacity; i++ {
		loc := domain.SlotAddress(d.Name, i)
		if occ[loc] == 0 {
			return loc, true
		}
	}
	return "", false
}

// clientCluster finds the slot the client's stored orders use most often.
// Ties break toward the lexicographically smaller address so repeated
// calls stay deterministic. Capacity is deliberately not re-checked in
// loose mode: grouping a client's orders wins over slot bookkeeping.
func clientCluster(order domain.Order, all []domain.Order, occ map[string]int, byName map[string]domain.StorageDrawer, opts Options) (Suggestion, bool) {
	counts := make(map[string]int)
	for _, o := range all {
		if o.ID == order.ID || o.Status != domain.StatusStored || o.ClientID != order.ClientID || o.StorageLocation == nil {
			continue
		}
		loc := *o.StorageLocation
		if loc == "" || loc == domain.FloorLocation {
			continue
		}
		counts[loc]++
	}

	best := ""
	for loc, n := range counts {
		if best == "" || n > counts[best] || (n == counts[best] && loc < best) {
			best = loc
		}
	}
	if best == "" {
		return Suggestion{}, false
	}

	name, ok := domain.SlotDrawer(best)
	if !ok {
		return Suggestion{}, false
	}
	drawer, ok := byName[name]
	if !ok {
		// drawer was removed from the configuration since the orders were stored
		return Suggestion{}, false
	}

	if opts.StrictOccupancy {
		loc, free := firstFreeSlot(occ, drawer)
		if !free {
			return Suggestion{}, false
		}
		return Suggestion{
			Location: loc,
			Score:    ScoreClientCluster,
			Reasons:  []string{"cluster with client's existing orders", "first free slot in client's drawer"},
		}, true
	}

	return Suggestion{
		Location: best,
		Score:    ScoreClientCluster,
		Reasons:  []string{"cluster with client's existing orders"},
	}, true
}

// shipmentCluster targets the drawer holding the most recently touched
// stored order of the same shipment, provided that drawer still has room.
func shipmentCluster(order domain.Order, all []domain.Order, occ map[string]int, byName map[string]domain.StorageDrawer) (Suggestion, bool) {
	if order.ShipmentID == nil || *order.ShipmentID == "" {
		return Suggestion{}, false
	}

	var latest *domain.Order
	var latestAt time.Time
	for i := range all {
		o := &all[i]
		if o.ID == order.ID || o.Status != domain.StatusStored || o.ShipmentID == nil || *o.ShipmentID != *order.ShipmentID || o.StorageLocation == nil {
			continue
		}
		loc := *o.StorageLocation
		if loc == "" || loc == domain.FloorLocation {
			continue
		}
		at := o.UpdatedAt
		if at.IsZero() {
			at = o.CreatedAt
		}
		if latest == nil || at.After(latestAt) {
			latest = o
			latestAt = at
		}
	}
	if latest == nil {
		return Suggestion{}, false
	}

	name, ok := domain.SlotDrawer(*latest.StorageLocation)
	if !ok {
		return Suggestion{}, false
	}
	drawer, ok := byName[name]
	if !ok {
		return Suggestion{}, false
	}
	if occupiedSlots(occ, name) >= drawer.EffectiveCapacity() {
		return Suggestion{}, false
	}

	loc, free := firstFreeSlot(occ, drawer)
	if !free {
		return Suggestion{}, false
	}
	return Suggestion{
		Location: loc,
		Score:    ScoreShipmentCluster,
		Reasons:  []string{"cluster with same shipment", "empty slot in same drawer"},
	}, true
}

// bestDrawer scores every drawer with room left: partially filled drawers
// below the threshold win over empty ones, keeping fragmentation low.
// Ties break by drawer list order.
func bestDrawer(occ map[string]int, drawers []domain.StorageDrawer) (Suggestion, bool) {
	bestScore := 0
	var best domain.StorageDrawer
	for _, d := range drawers {
		capacity := d.EffectiveCapacity()
		if capacity <= 0 {
			continue
		}
		used := occupiedSlots(occ, d.Name)
		if used >= capacity {
			continue
		}
		ratio := float64(used) / float64(capacity)

		var score int
		switch {
		case ratio > 0 && ratio < activeDrawerThreshold:
			score = ScoreActiveDrawer
		case used == 0:
			score = ScoreEmptyDrawer
		default:
			continue
		}
		if score > bestScore {
			bestScore = score
			best = d
		}
	}
	if bestScore == 0 {
		return Suggestion{}, false
	}

	loc, free := firstFreeSlot(occ, best)
	if !free {
		return Suggestion{}, false
	}
	reason := "active drawer, optimize space"
	if bestScore == ScoreEmptyDrawer {
		reason = "first empty drawer available"
	}
	return Suggestion{Location: loc, Score: bestScore, Reasons: []string{reason}}, true
}
