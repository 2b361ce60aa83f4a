package hmst

// Layout decides where operator children land on the canvas. The document
// format requires a position on every node even though nothing in the
// conversion depends on it.
type Layout interface {
	ChildPosition(index int) (x, y int)
}

// GridLayout spreads operator children on a single row below their parent.
type GridLayout struct {
	SpacingX int
	BaseY    int
}

func (g GridLayout) ChildPosition(index int) (int, int) {
	return index * g.SpacingX, g.BaseY
}

// DefaultLayout is the grid used when the caller does not care.
func DefaultLayout() Layout {
	return GridLayout{SpacingX: 200, BaseY: 200}
}
