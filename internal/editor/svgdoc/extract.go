package svgdoc

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

// ============================================================
// Document
// ============================================================

// Document is a parsed view over a plan SVG. Raw keeps the original
// text untouched; the editor treats it as immutable for the session.
type Document struct {
	Width  float64
	Height float64
	Rects  []RectNode
	Texts  []TextNode
	Paths  []PathNode
	Raw    string
}

type RectNode struct {
	ID     string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Fill   string
}

type TextNode struct {
	X       float64
	Y       float64
	Content string
}

type PathNode struct {
	ID   string
	D    string
	Fill string
}

// ============================================================
// Parser
// ============================================================

// Parse walks the whole document, collecting rects, paths and text
// nodes wherever they are nested. Groups and transforms are ignored;
// generated plans keep element coordinates absolute.
func Parse(data []byte) (*Document, error) {
	doc := &Document{Raw: string(data)}

	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = false

	textDepth := 0
	var textX, textY float64
	var textBuf strings.Builder

	for {
		tok, err := decoder.Token()
		if tok == nil {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if textDepth > 0 {
				textDepth++
				continue
			}
			switch t.Name.Local {
			case "svg":
				doc.Width, doc.Height = svgSize(t.Attr)
			case "rect":
				doc.Rects = append(doc.Rects, rectFromAttrs(t.Attr))
			case "path":
				doc.Paths = append(doc.Paths, pathFromAttrs(t.Attr))
			case "text":
				textDepth = 1
				textX = attrFloat(t.Attr, "x")
				textY = attrFloat(t.Attr, "y")
				textBuf.Reset()
			}
		case xml.CharData:
			if textDepth > 0 {
				textBuf.Write(t)
			}
		case xml.EndElement:
			if textDepth > 0 {
				textDepth--
				if textDepth == 0 {
					content := strings.TrimSpace(textBuf.String())
					if content != "" {
						doc.Texts = append(doc.Texts, TextNode{X: textX, Y: textY, Content: content})
					}
				}
			}
		}
	}

	return doc, nil
}

// ============================================================
// Attribute helpers
// ============================================================

func svgSize(attrs []xml.Attr) (float64, float64) {
	w := attrFloat(attrs, "width")
	h := attrFloat(attrs, "height")
	if w > 0 && h > 0 {
		return w, h
	}

	// Fall back to viewBox: "minX minY width height".
	for _, a := range attrs {
		if a.Name.Local != "viewBox" {
			continue
		}
		fields := strings.Fields(strings.ReplaceAll(a.Value, ",", " "))
		if len(fields) == 4 {
			vw, err1 := strconv.ParseFloat(fields[2], 64)
			vh, err2 := strconv.ParseFloat(fields[3], 64)
			if err1 == nil && err2 == nil {
				return vw, vh
			}
		}
	}
	return 0, 0
}

func rectFromAttrs(attrs []xml.Attr) RectNode {
	return RectNode{
		ID:     attrString(attrs, "id"),
		X:      attrFloat(attrs, "x"),
		Y:      attrFloat(attrs, "y"),
		Width:  attrFloat(attrs, "width"),
		Height: attrFloat(attrs, "height"),
		Fill:   fillFromAttrs(attrs),
	}
}

func pathFromAttrs(attrs []xml.Attr) PathNode {
	return PathNode{
		ID:   attrString(attrs, "id"),
		D:    attrString(attrs, "d"),
		Fill: fillFromAttrs(attrs),
	}
}

func fillFromAttrs(attrs []xml.Attr) string {
	if fill := attrString(attrs, "fill"); fill != "" {
		return fill
	}
	// style="fill:#000;..." form
	style := attrString(attrs, "style")
	for _, part := range strings.Split(style, ";") {
		k, v, ok := strings.Cut(part, ":")
		if ok && strings.TrimSpace(k) == "fill" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func attrString(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrFloat(attrs []xml.Attr, name string) float64 {
	raw := attrString(attrs, name)
	if raw == "" {
		return 0
	}
	raw = strings.TrimSuffix(strings.TrimSpace(raw), "px")
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return val
}
