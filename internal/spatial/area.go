package spatial

import "strings"

// NormalizeArea validates a client-supplied area filter. It returns nil when
// the value is empty, malformed or coarser than MinArea, and clamps anything
// finer than MaxPublicArea to its ancestor at that resolution.
func NormalizeArea(raw string) *CellIndex {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	parsed, err := parseCell(CellIndex(raw))
	if err != nil {
		return nil
	}
	// re-render so padded or uppercase input compares equal to stored cells
	cell := CellIndex(parsed.String())
	res := Resolution(parsed.Resolution())
	if res < MinArea {
		return nil
	}

	if res > MaxPublicArea {
		parent, err := CellToParent(cell, MaxPublicArea)
		if err != nil {
			return nil
		}
		return &parent
	}
	return &cell
}

// Matches reports whether listingCell lies within areaCell. Cells at different
// resolutions are compared through the ancestor of the finer one; any lookup
// failure counts as a non-match.
func Matches(listingCell, areaCell CellIndex) bool {
	lr, err := ResolutionOf(listingCell)
	if err != nil {
		return false
	}
	ar, err := ResolutionOf(areaCell)
	if err != nil {
		return false
	}

	switch {
	case lr == ar:
		return listingCell == areaCell
	case ar < lr:
		parent, err := CellToParent(listingCell, ar)
		return err == nil && parent == areaCell
	default:
		parent, err := CellToParent(areaCell, lr)
		return err == nil && parent == listingCell
	}
}
