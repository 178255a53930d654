package engine

import (
	"fmt"
	"sort"
	"strings"
)

// IsPowerOfTwo reports whether v is a positive power of two
func IsPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// MaxTile returns the largest value on the grid
func MaxTile(grid [][]int) int {
	max := 0
	for _, row := range grid {
		for _, v := range row {
			if v > max {
				max = v
			}
		}
	}
	return max
}

// CountEmptyCells counts the cells holding zero
func CountEmptyCells(grid [][]int) int {
	return len(emptyCells(grid))
}

// CountTiles counts the nonzero cells
func CountTiles(grid [][]int) int {
	count := 0
	for _, row := range grid {
		for _, v := range row {
			if v != 0 {
				count++
			}
		}
	}
	return count
}

// TileValues returns the nonzero values on the grid in ascending order
func TileValues(grid [][]int) []int {
	var values []int
	for _, row := range grid {
		for _, v := range row {
			if v != 0 {
				values = append(values, v)
			}
		}
	}
	sort.Ints(values)
	return values
}

// ParseDirection maps user input to a direction. It accepts the direction
// names, their first letters and browser arrow key names, in any case.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u", "arrowup":
		return Up, nil
	case "down", "d", "arrowdown":
		return Down, nil
	case "left", "l", "arrowleft":
		return Left, nil
	case "right", "r", "arrowright":
		return Right, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// FormatGrid renders a grid as right-aligned columns, one row per line, with
// empty cells shown as dots
func FormatGrid(grid [][]int) string {
	width := 1
	for _, row := range grid {
		for _, v := range row {
			if w := len(fmt.Sprint(v)); w > width {
				width = w
			}
		}
	}

	var b strings.Builder
	for _, row := range grid {
		for c, v := range row {
			if c > 0 {
				b.WriteString(" ")
			}
			cell := "."
			if v != 0 {
				cell = fmt.Sprint(v)
			}
			b.WriteString(strings.Repeat(" ", width-len(cell)))
			b.WriteString(cell)
		}
		b.WriteString("\n")
	}
	return b.String()
}
