package engine

// Shape is a static piece template: relative (dx, dy) offsets from the piece
// origin, with dy growing upward like board coordinates.
type Shape struct {
	Name    string
	Offsets []Pos
}

// Size returns the number of units the shape spawns.
func (s Shape) Size() int {
	return len(s.Offsets)
}

// Width returns the horizontal extent of the shape.
func (s Shape) Width() int {
	minX, maxX := s.extentX()
	return maxX - minX + 1
}

func (s Shape) extentX() (int, int) {
	if len(s.Offsets) == 0 {
		return 0, 0
	}
	minX, maxX := s.Offsets[0].X, s.Offsets[0].X
	for _, o := range s.Offsets[1:] {
		if o.X < minX {
			minX = o.X
		}
		if o.X > maxX {
			maxX = o.X
		}
	}
	return minX, maxX
}

// Shape names.
const (
	ShapeSingle = "single"
	ShapeLine2  = "line2"
	ShapeLine3  = "line3"
	ShapeLine4  = "line4"
	ShapeL3     = "l3"
	ShapeL4     = "l4"
	ShapeSquare = "square"
	ShapeT      = "t"
)

var shapeTable = []Shape{
	{Name: ShapeSingle, Offsets: []Pos{{0, 0}}},
	{Name: ShapeLine2, Offsets: []Pos{{0, 0}, {1, 0}}},
	{Name: ShapeLine3, Offsets: []Pos{{0, 0}, {1, 0}, {2, 0}}},
	{Name: ShapeLine4, Offsets: []Pos{{0, 0}, {1, 0}, {2, 0}, {3, 0}}},
	{Name: ShapeL3, Offsets: []Pos{{0, 0}, {1, 0}, {0, 1}}},
	{Name: ShapeL4, Offsets: []Pos{{0, 0}, {1, 0}, {0, 1}, {0, 2}}},
	{Name: ShapeSquare, Offsets: []Pos{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	{Name: ShapeT, Offsets: []Pos{{0, 0}, {1, 0}, {2, 0}, {1, 1}}},
}

// Shapes returns a copy of the standard 8-shape table.
func Shapes() []Shape {
	out := make([]Shape, len(shapeTable))
	for i, s := range shapeTable {
		offs := make([]Pos, len(s.Offsets))
		copy(offs, s.Offsets)
		out[i] = Shape{Name: s.Name, Offsets: offs}
	}
	return out
}

// ShapeByName looks up a shape in the standard table.
func ShapeByName(name string) (Shape, bool) {
	for _, s := range Shapes() {
		if s.Name == name {
			return s, true
		}
	}
	return Shape{}, false
}
