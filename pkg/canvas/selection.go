package canvas

import "slices"

// Selection is an insertion-ordered set of node ids. Order matters: the
// first selected node is the reference for alignment operations. The
// selection is transient and never persisted.
type Selection struct {
	ids []string
}

// Add appends an id to the selection if not already present.
func (s *Selection) Add(id string) {
	if !s.Contains(id) {
		s.ids = append(s.ids, id)
	}
}

// Remove deletes an id from the selection, keeping the order of the rest.
func (s *Selection) Remove(id string) {
	s.ids = slices.DeleteFunc(s.ids, func(x string) bool { return x == id })
}

// Toggle adds the id if absent, removes it if present.
func (s *Selection) Toggle(id string) {
	if s.Contains(id) {
		s.Remove(id)
	} else {
		s.Add(id)
	}
}

// Contains reports whether the id is selected.
func (s *Selection) Contains(id string) bool {
	return slices.Contains(s.ids, id)
}

// First returns the first-selected id, the alignment reference.
func (s *Selection) First() (string, bool) {
	if len(s.ids) == 0 {
		return "", false
	}
	return s.ids[0], true
}

// IDs returns the selected ids in insertion order. The slice is a copy.
func (s *Selection) IDs() []string { return slices.Clone(s.ids) }

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = s.ids[:0] }
