package engine

import (
	"errors"
	"testing"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		input string
		want  Direction
	}{
		{"up", Up},
		{"UP", Up},
		{" u ", Up},
		{"ArrowUp", Up},
		{"down", Down},
		{"d", Down},
		{"left", Left},
		{"arrowleft", Left},
		{"Right", Right},
		{"r", Right},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got, err := ParseDirection(test.input)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != test.want {
				t.Errorf("Expected %s, got %s", test.want, got)
			}
		})
	}

	for _, bad := range []string{"", "north", "upp", "x"} {
		if _, err := ParseDirection(bad); !errors.Is(err, ErrInvalidDirection) {
			t.Errorf("Input %q: expected ErrInvalidDirection, got %v", bad, err)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	for _, v := range []int{1, 2, 4, 1024, 65536} {
		if !IsPowerOfTwo(v) {
			t.Errorf("Expected %d to be a power of two", v)
		}
	}
	for _, v := range []int{0, -2, 3, 6, 1000} {
		if IsPowerOfTwo(v) {
			t.Errorf("Expected %d not to be a power of two", v)
		}
	}
}

func TestFormatGrid(t *testing.T) {
	grid := [][]int{
		{2, 0},
		{128, 4},
	}
	want := "  2   .\n128   4\n"
	if got := FormatGrid(grid); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if InProgress.IsTerminal() {
		t.Error("in_progress should not be terminal")
	}
	if !Won.IsTerminal() || !Lost.IsTerminal() {
		t.Error("won and lost should be terminal")
	}
}
