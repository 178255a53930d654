package engine

// The slide routine only knows how to move tiles to the left. Every other
// direction is handled by turning the grid so that the direction of travel
// points left, sliding, and turning it back.

// newGrid allocates an n x n grid of zero values
func newGrid[T any](n int) [][]T {
	grid := make([][]T, n)
	for i := range grid {
		grid[i] = make([]T, n)
	}
	return grid
}

// cloneGrid returns a deep copy of a grid
func cloneGrid[T any](grid [][]T) [][]T {
	out := make([][]T, len(grid))
	for i, row := range grid {
		out[i] = append([]T(nil), row...)
	}
	return out
}

// rotateClockwise turns the grid a quarter turn to the right
func rotateClockwise[T any](grid [][]T) [][]T {
	n := len(grid)
	out := newGrid[T](n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out[r][c] = grid[n-1-c][r]
		}
	}
	return out
}

// rotateCounterClockwise turns the grid a quarter turn to the left
func rotateCounterClockwise[T any](grid [][]T) [][]T {
	n := len(grid)
	out := newGrid[T](n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			out[r][c] = grid[c][n-1-r]
		}
	}
	return out
}

// reflectRows mirrors every row left to right
func reflectRows[T any](grid [][]T) [][]T {
	out := cloneGrid(grid)
	for _, row := range out {
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
	return out
}

// orient turns the grid so that sliding in direction d becomes a left slide
func orient[T any](grid [][]T, d Direction) [][]T {
	switch d {
	case Right:
		return reflectRows(grid)
	case Up:
		return rotateCounterClockwise(grid)
	case Down:
		return rotateClockwise(grid)
	default:
		return cloneGrid(grid)
	}
}

// restore undoes orient
func restore[T any](grid [][]T, d Direction) [][]T {
	switch d {
	case Right:
		return reflectRows(grid)
	case Up:
		return rotateClockwise(grid)
	case Down:
		return rotateCounterClockwise(grid)
	default:
		return cloneGrid(grid)
	}
}

// slideLine compacts a line toward index 0 and merges equal neighbours.
// It returns the new line, the points gained, and the indexes in the new line
// that hold a merged tile. A merged tile never merges again in the same call.
func slideLine(line []int) ([]int, int, []int) {
	tiles := make([]int, 0, len(line))
	for _, v := range line {
		if v != 0 {
			tiles = append(tiles, v)
		}
	}

	out := make([]int, 0, len(line))
	gained := 0
	var merged []int
	for i := 0; i < len(tiles); i++ {
		if i+1 < len(tiles) && tiles[i] == tiles[i+1] {
			value := tiles[i] * 2
			merged = append(merged, len(out))
			out = append(out, value)
			gained += value
			i++
			continue
		}
		out = append(out, tiles[i])
	}

	for len(out) < len(line) {
		out = append(out, 0)
	}
	return out, gained, merged
}

// slideResult holds the outcome of sliding a whole grid
type slideResult struct {
	grid   [][]int
	moved  bool
	gained int
	merged []Position
}

// slideGrid applies one move to a copy of grid. The input is left untouched.
func slideGrid(grid [][]int, d Direction) slideResult {
	work := orient(grid, d)
	marks := newGrid[bool](len(work))

	res := slideResult{}
	for r, line := range work {
		out, gained, merged := slideLine(line)
		if !equalLine(line, out) {
			res.moved = true
		}
		res.gained += gained
		for _, c := range merged {
			marks[r][c] = true
		}
		work[r] = out
	}

	res.grid = restore(work, d)
	marks = restore(marks, d)
	for r, row := range marks {
		for c, hit := range row {
			if hit {
				res.merged = append(res.merged, Position{Row: r, Col: c})
			}
		}
	}
	return res
}

func equalLine(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// emptyCells lists the empty positions in row-major order
func emptyCells(grid [][]int) []Position {
	var cells []Position
	for r, row := range grid {
		for c, v := range row {
			if v == 0 {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// hasAdjacentPair reports whether any two horizontally or vertically
// neighbouring cells hold the same value. Every cell is visited.
func hasAdjacentPair(grid [][]int) bool {
	n := len(grid)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if c+1 < n && grid[r][c] == grid[r][c+1] {
				return true
			}
			if r+1 < n && grid[r][c] == grid[r+1][c] {
				return true
			}
		}
	}
	return false
}
