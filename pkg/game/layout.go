package game

import "math"

// Layout maps pointer coordinates onto cells. The macro board's top-left
// corner is at (OffsetX, OffsetY); each macro cell is MacroSize wide.
type Layout struct {
    OffsetX, OffsetY float32
    MacroSize        float32
}

// DefaultLayout matches a 700px window with a 600px board.
var DefaultLayout = Layout{OffsetX: 50, OffsetY: 50, MacroSize: 200}

// Bounds is the pointer area covered by the board.
func (l Layout) Bounds() (minX, minY, maxX, maxY float32) {
    return l.OffsetX, l.OffsetY, l.OffsetX + 3*l.MacroSize, l.OffsetY + 3*l.MacroSize
}

// CellAt returns the cell under (x, y). Points on or outside the outer edge
// report ok=false.
func (l Layout) CellAt(x, y float32) (macro, micro int, ok bool) {
    minX, minY, maxX, maxY := l.Bounds()
    if x <= minX || x >= maxX || y <= minY || y >= maxY { return 0, 0, false }
    mx := int(math.Floor(float64((x - l.OffsetX) / l.MacroSize)))
    my := int(math.Floor(float64((y - l.OffsetY) / l.MacroSize)))
    microSize := l.MacroSize / 3
    ux := clamp(int(math.Floor(float64((x-l.OffsetX-float32(mx)*l.MacroSize)/microSize))), 0, 2)
    uy := clamp(int(math.Floor(float64((y-l.OffsetY-float32(my)*l.MacroSize)/microSize))), 0, 2)
    return my*3 + mx, uy*3 + ux, true
}

func clamp(v, lo, hi int) int {
    if v < lo { return lo }
    if v > hi { return hi }
    return v
}
