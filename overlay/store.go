package overlay

import (
	"sort"

	"github.com/wudi/pdfview/coords"
)

// Store owns the overlay objects of one document and keeps them ordered
// by z-order (ascending, bottom to top). Ties are broken by insertion
// order. The store is not safe for concurrent use; callers on multiple
// goroutines must serialize access themselves.
type Store struct {
	objects []Object
	nextZ   int
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Add inserts an object. An object whose z-order is still the
// unassigned sentinel (zero) receives the store's next z value; objects
// carrying a z-order keep it.
func (s *Store) Add(obj Object) {
	if obj.ZOrder() == 0 {
		obj.SetZOrder(s.nextZ)
		s.nextZ++
	}
	s.objects = append(s.objects, obj)
	s.sortByZ()
}

// Remove deletes an object by identity and reports whether it was
// present. Remaining z-orders are untouched; gaps are permitted.
func (s *Store) Remove(obj Object) bool {
	for i, o := range s.objects {
		if o == obj {
			s.objects = append(s.objects[:i], s.objects[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every object and resets the z counter. Used when the
// document is closed.
func (s *Store) Clear() {
	s.objects = nil
	s.nextZ = 0
}

// Len returns the number of stored objects.
func (s *Store) Len() int { return len(s.objects) }

// All returns every object in ascending z-order. The returned slice is
// a copy; mutating it does not affect the store.
func (s *Store) All() []Object {
	out := make([]Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// ByPage returns the objects on the given page, preserving z-order.
func (s *Store) ByPage(page int) []Object {
	var out []Object
	for _, o := range s.objects {
		if o.Page() == page {
			out = append(out, o)
		}
	}
	return out
}

// TopmostAt returns the highest-z object on the page whose bounding box
// contains the point. The reverse scan is the tie-break for overlapping
// objects: highest z-order wins.
func (s *Store) TopmostAt(page int, p coords.Point) (Object, bool) {
	for i := len(s.objects) - 1; i >= 0; i-- {
		o := s.objects[i]
		if o.Page() == page && o.Contains(p) {
			return o, true
		}
	}
	return nil, false
}

// Selected returns all selected objects, across all pages.
func (s *Store) Selected() []Object {
	var out []Object
	for _, o := range s.objects {
		if o.Selected() {
			out = append(out, o)
		}
	}
	return out
}

// DeselectAll clears the selection flag on every object.
func (s *Store) DeselectAll() {
	for _, o := range s.objects {
		o.SetSelected(false)
	}
}

// BringForward swaps the object's z-order with the object exactly one
// level above it. No-op when the object is not in the store or no
// object sits at z+1.
func (s *Store) BringForward(obj Object) {
	if !s.Contains(obj) {
		return
	}
	z := obj.ZOrder()
	for _, other := range s.objects {
		if other != obj && other.ZOrder() == z+1 {
			other.SetZOrder(z)
			obj.SetZOrder(z + 1)
			s.sortByZ()
			return
		}
	}
}

// SendBackward swaps the object's z-order with the object exactly one
// level below it. No-op at the bottom or when no object sits at z-1.
func (s *Store) SendBackward(obj Object) {
	if !s.Contains(obj) {
		return
	}
	z := obj.ZOrder()
	if z == 0 {
		return
	}
	for _, other := range s.objects {
		if other != obj && other.ZOrder() == z-1 {
			other.SetZOrder(z)
			obj.SetZOrder(z - 1)
			s.sortByZ()
			return
		}
	}
}

// BringToFront makes the object strictly topmost by assigning the next
// z counter value. The counter never decreases.
func (s *Store) BringToFront(obj Object) {
	if !s.Contains(obj) {
		return
	}
	obj.SetZOrder(s.nextZ)
	s.nextZ++
	s.sortByZ()
}

// SendToBack makes the object strictly bottom-most: every other object
// shifts up one level and the target takes z-order zero. The z counter
// is bumped so future assignments stay above the shifted objects.
func (s *Store) SendToBack(obj Object) {
	if !s.Contains(obj) {
		return
	}
	for _, other := range s.objects {
		if other != obj {
			other.SetZOrder(other.ZOrder() + 1)
		}
	}
	obj.SetZOrder(0)
	s.nextZ++
	s.sortByZ()
}

// Contains reports whether obj is in the store, by identity.
func (s *Store) Contains(obj Object) bool {
	for _, o := range s.objects {
		if o == obj {
			return true
		}
	}
	return false
}

func (s *Store) sortByZ() {
	// Stable keeps insertion order among equal z-orders.
	sort.SliceStable(s.objects, func(i, j int) bool {
		return s.objects[i].ZOrder() < s.objects[j].ZOrder()
	})
}
