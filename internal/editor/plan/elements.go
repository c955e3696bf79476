package plan

// ============================================================
// Element Collections
// ============================================================

// Elements is the structured per-kind view of a plan, used both as
// the save payload and as the seed arrays on load.
type Elements struct {
	Doors    []*Door    `json:"doors"`
	Windows  []*Window  `json:"windows"`
	Walls    []*Wall    `json:"walls"`
	Robes    []*Robe    `json:"robes"`
	Kitchens []*Kitchen `json:"kitchens"`
}

func (e Elements) Count() int {
	return len(e.Doors) + len(e.Windows) + len(e.Walls) + len(e.Robes) + len(e.Kitchens)
}
