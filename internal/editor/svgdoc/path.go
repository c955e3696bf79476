package svgdoc

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/admin-layout-ai/layout-ai-sub000/internal/editor/plan"
)

// ============================================================
// Path Parser
// ============================================================

var pathLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Command", Pattern: `[MmLlHhVvZzCcSsQqTtAa]`},
	{Name: "Number", Pattern: `[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Comma", Pattern: `,`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type pathData struct {
	Commands []pathCommand `parser:"@@*"`
}

type pathCommand struct {
	Cmd  string    `parser:"@Command"`
	Args []float64 `parser:"@Number*"`
}

var pathParser = participle.MustBuild[pathData](
	participle.Lexer(pathLexer),
	participle.Elide("Whitespace", "Comma"),
)

// ParsePath flattens path data into the points it visits. Curve
// commands contribute their endpoints only; that is enough for
// bounding boxes and wall-candidate detection.
func ParsePath(d string) ([]plan.Point, error) {
	parsed, err := pathParser.ParseString("", d)
	if err != nil {
		return nil, fmt.Errorf("parse path data: %w", err)
	}

	var points []plan.Point
	var cur plan.Point
	var start plan.Point

	push := func(p plan.Point) {
		cur = p
		points = append(points, p)
	}

	for _, cmd := range parsed.Commands {
		args := cmd.Args
		switch cmd.Cmd {
		case "M", "L":
			for i := 0; i+1 < len(args); i += 2 {
				push(plan.Point{X: args[i], Y: args[i+1]})
				if cmd.Cmd == "M" && i == 0 {
					start = cur
				}
			}
		case "m", "l":
			for i := 0; i+1 < len(args); i += 2 {
				push(plan.Point{X: cur.X + args[i], Y: cur.Y + args[i+1]})
				if cmd.Cmd == "m" && i == 0 {
					start = cur
				}
			}
		case "H":
			for _, x := range args {
				push(plan.Point{X: x, Y: cur.Y})
			}
		case "h":
			for _, dx := range args {
				push(plan.Point{X: cur.X + dx, Y: cur.Y})
			}
		case "V":
			for _, y := range args {
				push(plan.Point{X: cur.X, Y: y})
			}
		case "v":
			for _, dy := range args {
				push(plan.Point{X: cur.X, Y: cur.Y + dy})
			}
		case "C", "S", "Q", "T", "A":
			if len(args) >= 2 {
				push(plan.Point{X: args[len(args)-2], Y: args[len(args)-1]})
			}
		case "c", "s", "q", "t", "a":
			if len(args) >= 2 {
				push(plan.Point{X: cur.X + args[len(args)-2], Y: cur.Y + args[len(args)-1]})
			}
		case "Z", "z":
			if len(points) > 0 {
				push(start)
			}
		}
	}

	return points, nil
}

// PathBounds returns the axis-aligned bounding box of path data.
func PathBounds(d string) (minX, minY, maxX, maxY float64, err error) {
	points, err := ParsePath(d)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	if len(points) == 0 {
		return 0, 0, 0, 0, fmt.Errorf("empty path")
	}

	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX, maxY, nil
}
