package svgdoc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
)

// ============================================================
// Serializer
// ============================================================

// Generated layer groups carry this id prefix so a later save can
// find and strip them before inserting fresh ones.
const generatedPrefix = "layout-gen-"

var kindLayers = []struct {
	kind   plan.Kind
	suffix string
}{
	{plan.KindWall, "walls"},
	{plan.KindDoor, "doors"},
	{plan.KindWindow, "windows"},
	{plan.KindRobe, "robes"},
	{plan.KindKitchen, "kitchens"},
}

// Serialize regenerates the document: previously generated layer
// groups are stripped from the original, then one group per kind is
// inserted immediately before the closing svg tag. Saving twice with
// the same elements yields byte-identical output.
func Serialize(original string, els plan.Elements, wallStroke, wallClear float64) string {
	doc := StripGenerated(original)

	var layers strings.Builder
	for _, layer := range kindLayers {
		fragments := renderKind(layer.kind, els, wallStroke, wallClear)
		if len(fragments) == 0 {
			continue
		}
		layers.WriteString(fmt.Sprintf("<g id=\"%s%s\">\n", generatedPrefix, layer.suffix))
		for _, frag := range fragments {
			layers.WriteString("  ")
			layers.WriteString(frag)
			layers.WriteString("\n")
		}
		layers.WriteString("</g>\n")
	}

	closing := strings.LastIndex(doc, "</svg>")
	if closing < 0 {
		return doc + layers.String()
	}
	return doc[:closing] + layers.String() + doc[closing:]
}

// StripGenerated removes every generated layer group, leaving the
// rest of the document byte-identical.
func StripGenerated(doc string) string {
	marker := `<g id="` + generatedPrefix
	for {
		start := strings.Index(doc, marker)
		if start < 0 {
			return doc
		}
		end := groupEnd(doc, start)
		if end < 0 {
			return doc
		}
		// swallow one trailing newline so repeated saves do not
		// accumulate blank lines
		if end < len(doc) && doc[end] == '\n' {
			end++
		}
		doc = doc[:start] + doc[end:]
	}
}

// groupEnd returns the index just past the </g> matching the <g at
// start, tracking nested groups.
func groupEnd(doc string, start int) int {
	depth := 0
	i := start
	for i < len(doc) {
		open := strings.Index(doc[i:], "<g")
		close := strings.Index(doc[i:], "</g>")
		if close < 0 {
			return -1
		}
		if open >= 0 && open < close {
			if isGroupOpen(doc, i+open) {
				depth++
			}
			i += open + 2
			continue
		}
		depth--
		i += close + len("</g>")
		if depth == 0 {
			return i
		}
	}
	return -1
}

func isGroupOpen(doc string, at int) bool {
	next := at + 2
	if next >= len(doc) {
		return false
	}
	c := doc[next]
	return c == ' ' || c == '>' || c == '\t' || c == '\n'
}

// ============================================================
// Element fragments
// ============================================================

func renderKind(kind plan.Kind, els plan.Elements, wallStroke, wallClear float64) []string {
	var out []string
	switch kind {
	case plan.KindWall:
		for _, w := range els.Walls {
			out = append(out, wallFragment(w, wallStroke))
		}
	case plan.KindDoor:
		for _, d := range els.Doors {
			out = append(out, doorFragment(d, wallClear))
		}
	case plan.KindWindow:
		for _, w := range els.Windows {
			out = append(out, windowFragment(w, wallClear))
		}
	case plan.KindRobe:
		for _, r := range els.Robes {
			out = append(out, robeFragment(r))
		}
	case plan.KindKitchen:
		for _, k := range els.Kitchens {
			out = append(out, kitchenFragment(k))
		}
	}
	return out
}

// placedTransform wraps a local shape in translate+rotate(+mirror).
func placedTransform(x, y float64, rotation int, flipped bool) string {
	t := fmt.Sprintf("translate(%s %s)", fmtF(x), fmtF(y))
	if rotation != 0 {
		t += fmt.Sprintf(" rotate(%d)", rotation)
	}
	if flipped {
		t += " scale(-1 1)"
	}
	return t
}

func wallFragment(w *plan.Wall, stroke float64) string {
	var d string
	if w.Curved {
		d = fmt.Sprintf("M %s %s Q %s %s %s %s",
			fmtF(w.P1.X), fmtF(w.P1.Y), fmtF(w.Control.X), fmtF(w.Control.Y), fmtF(w.P2.X), fmtF(w.P2.Y))
	} else {
		d = fmt.Sprintf("M %s %s L %s %s",
			fmtF(w.P1.X), fmtF(w.P1.Y), fmtF(w.P2.X), fmtF(w.P2.Y))
	}
	return fmt.Sprintf(`<path id="wall-%d" d="%s" fill="none" stroke="#000" stroke-width="%s" stroke-linecap="round" />`,
		w.ID, d, fmtF(stroke))
}

func doorFragment(d *plan.Door, clear float64) string {
	half := d.Width / 2
	inner := []string{
		// clear gap in the underlying wall
		fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="#fff" />`,
			fmtF(-half), fmtF(-clear/2), fmtF(d.Width), fmtF(clear)),
		// leaf
		fmt.Sprintf(`<line x1="%s" y1="0" x2="%s" y2="%s" stroke="#000" stroke-width="1.5" />`,
			fmtF(-half), fmtF(-half), fmtF(-d.Width)),
		// swing arc
		fmt.Sprintf(`<path d="M %s %s A %s %s 0 0 1 %s 0" fill="none" stroke="#888" stroke-width="1" />`,
			fmtF(-half), fmtF(-d.Width), fmtF(d.Width), fmtF(d.Width), fmtF(half)),
	}
	return fmt.Sprintf(`<g id="door-%d" transform="%s">%s</g>`,
		d.ID, placedTransform(d.X, d.Y, d.Rotation, d.Flipped), strings.Join(inner, ""))
}

func windowFragment(w *plan.Window, clear float64) string {
	half := w.Width / 2
	inner := []string{
		fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="#fff" stroke="#000" stroke-width="1" />`,
			fmtF(-half), fmtF(-clear/2), fmtF(w.Width), fmtF(clear)),
		fmt.Sprintf(`<line x1="%s" y1="0" x2="%s" y2="0" stroke="#000" stroke-width="1" />`,
			fmtF(-half), fmtF(half)),
	}
	return fmt.Sprintf(`<g id="window-%d" transform="%s">%s</g>`,
		w.ID, placedTransform(w.X, w.Y, w.Rotation, w.Flipped), strings.Join(inner, ""))
}

func robeFragment(r *plan.Robe) string {
	halfW := r.Width / 2
	halfL := r.Length / 2
	inner := []string{
		fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#000" stroke-width="1.5" />`,
			fmtF(-halfL), fmtF(-halfW), fmtF(r.Length), fmtF(r.Width)),
		// hanging rail
		fmt.Sprintf(`<line x1="%s" y1="0" x2="%s" y2="0" stroke="#000" stroke-width="1" stroke-dasharray="4 3" />`,
			fmtF(-halfL), fmtF(halfL)),
	}
	return fmt.Sprintf(`<g id="robe-%d" transform="%s">%s</g>`,
		r.ID, placedTransform(r.X, r.Y, r.Rotation, false), strings.Join(inner, ""))
}

func kitchenFragment(k *plan.Kitchen) string {
	halfL := k.Length / 2
	halfD := k.Depth / 2
	inner := []string{
		fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#000" stroke-width="1.5" />`,
			fmtF(-halfL), fmtF(-halfD), fmtF(k.Length), fmtF(k.Depth)),
		// benchtop front edge
		fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="#000" stroke-width="1" />`,
			fmtF(-halfL), fmtF(halfD-4), fmtF(halfL), fmtF(halfD-4)),
	}
	return fmt.Sprintf(`<g id="kitchen-%d" data-subtype="%s" transform="%s">%s</g>`,
		k.ID, k.Subtype, placedTransform(k.X, k.Y, k.Rotation, false), strings.Join(inner, ""))
}

func fmtF(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
