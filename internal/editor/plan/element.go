package plan

// ============================================================
// Element Kinds
// ============================================================

type Kind string

const (
	KindDoor    Kind = "door"
	KindWindow  Kind = "window"
	KindWall    Kind = "wall"
	KindRobe    Kind = "robe"
	KindKitchen Kind = "kitchen"
)

// Kinds lists every placeable kind in catalog order.
func Kinds() []Kind {
	return []Kind{KindDoor, KindWindow, KindWall, KindRobe, KindKitchen}
}

// ============================================================
// Geometry
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Midpoint of the segment p1-p2.
func Midpoint(p1, p2 Point) Point {
	return Point{X: (p1.X + p2.X) / 2, Y: (p1.Y + p2.Y) / 2}
}

// ============================================================
// Elements
// ============================================================

// Element is implemented by every placeable element. Coordinates are
// always in drawing-native units, never screen pixels.
type Element interface {
	ElementKind() Kind
	ElementID() int
}

type Door struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation int     `json:"rotation"`
	Flipped  bool    `json:"flipped"`
	Width    float64 `json:"width"`
}

type Window struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation int     `json:"rotation"`
	Flipped  bool    `json:"flipped"`
	Width    float64 `json:"width"`
}

// Wall is a drawn segment. Control is only meaningful while Curved is
// set; otherwise it mirrors the straight-line midpoint of P1-P2.
type Wall struct {
	ID      int   `json:"id"`
	P1      Point `json:"p1"`
	P2      Point `json:"p2"`
	Curved  bool  `json:"curved"`
	Control Point `json:"control"`
}

type Robe struct {
	ID       int     `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation int     `json:"rotation"`
	Width    float64 `json:"width"`
	Length   float64 `json:"length"`
}

type KitchenSubtype string

const (
	KitchenBench  KitchenSubtype = "bench"
	KitchenIsland KitchenSubtype = "island"
	KitchenSink   KitchenSubtype = "sink-run"
)

type Kitchen struct {
	ID       int            `json:"id"`
	X        float64        `json:"x"`
	Y        float64        `json:"y"`
	Rotation int            `json:"rotation"`
	Subtype  KitchenSubtype `json:"subtype"`
	Length   float64        `json:"length"`
	Depth    float64        `json:"depth"`
}

func (d *Door) ElementKind() Kind    { return KindDoor }
func (d *Door) ElementID() int       { return d.ID }
func (w *Window) ElementKind() Kind  { return KindWindow }
func (w *Window) ElementID() int     { return w.ID }
func (w *Wall) ElementKind() Kind    { return KindWall }
func (w *Wall) ElementID() int       { return w.ID }
func (r *Robe) ElementKind() Kind    { return KindRobe }
func (r *Robe) ElementID() int       { return r.ID }
func (k *Kitchen) ElementKind() Kind { return KindKitchen }
func (k *Kitchen) ElementID() int    { return k.ID }

// ============================================================
// References & History
// ============================================================

// Ref identifies one element across all kinds. The zero Ref means
// "nothing selected".
type Ref struct {
	Kind Kind `json:"kind"`
	ID   int  `json:"id"`
}

func (r Ref) IsZero() bool {
	return r.Kind == ""
}

// History is an append-only log of "element added" events, consumed
// LIFO by undo. Moves, rotations and deletes are not recorded.
type History struct {
	added []Ref
}

func (h *History) Push(ref Ref) {
	h.added = append(h.added, ref)
}

// Pop removes and returns the most recent addition.
func (h *History) Pop() (Ref, bool) {
	if len(h.added) == 0 {
		return Ref{}, false
	}
	ref := h.added[len(h.added)-1]
	h.added = h.added[:len(h.added)-1]
	return ref, true
}

func (h *History) Len() int {
	return len(h.added)
}
