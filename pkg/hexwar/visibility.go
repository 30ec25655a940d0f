package hexwar

// VisibleRegions returns a redacted copy of the map for one viewer: regions
// the viewer neither owns nor borders have owner and troop count masked.
// This is a pure read-time projection; authoritative state is never
// filtered. Callers apply it per recipient when fog visibility is on.
func VisibleRegions(regions []*Region, viewerID string) []*Region {
	visible := make(map[string]bool)
	for _, r := range regions {
		if r.OwnerID != viewerID {
			continue
		}
		visible[r.ID] = true
		for _, nID := range r.Neighbors {
			visible[nID] = true
		}
	}

	out := CloneRegions(regions)
	for _, r := range out {
		if !visible[r.ID] {
			r.OwnerID = ""
			r.Troops = 0
		}
	}
	return out
}
