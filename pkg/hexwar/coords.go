package hexwar

// HexCoord addresses a cell in axial coordinates.
// See https://www.redblobgames.com/grids/hexagons/ for the scheme.
type HexCoord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// hexDirections are the six axial unit offsets, clockwise from east.
var hexDirections = [6]HexCoord{
	{Q: 1, R: 0}, {Q: 1, R: -1}, {Q: 0, R: -1},
	{Q: -1, R: 0}, {Q: -1, R: 1}, {Q: 0, R: 1},
}

// Distance returns the hex metric distance between two cells.
func Distance(a, b HexCoord) int {
	return (abs(a.Q-b.Q) + abs(a.Q+a.R-b.Q-b.R) + abs(a.R-b.R)) / 2
}

// AdjacentCoords returns the six cells adjacent to c. Callers filter out
// coordinates that fall outside the generated grid.
func AdjacentCoords(c HexCoord) [6]HexCoord {
	var out [6]HexCoord
	for i, d := range hexDirections {
		out[i] = HexCoord{Q: c.Q + d.Q, R: c.R + d.R}
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
