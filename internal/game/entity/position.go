package entity

import (
	"fmt"
	"sort"
)

// Position 是六边形轴坐标。
type Position struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

// 六个相邻方向
var hexDirections = [6]Position{
	{1, 0}, {0, 1}, {1, 1}, {-1, 0}, {0, -1}, {-1, -1},
}

// ringOrder 是绕一圈的方向顺序，相邻两项互为邻格。
var ringOrder = [6]Position{
	{1, 0}, {1, 1}, {0, 1}, {-1, 0}, {-1, -1}, {0, -1},
}

// Distance 是两格之间的六边形步数。
func Distance(a, b Position) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if (dx >= 0) == (dy >= 0) {
		return max(abs(dx), abs(dy))
	}
	return abs(dx) + abs(dy)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// PositionSet 是坐标集合（例如某阵营的可见格）。
type PositionSet map[Position]struct{}

func (s PositionSet) Add(p Position) {
	s[p] = struct{}{}
}

func (s PositionSet) Has(p Position) bool {
	_, ok := s[p]
	return ok
}

// Sorted 按 Y、X 排序返回，保证遍历顺序稳定。
func (s PositionSet) Sorted() []Position {
	out := make([]Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

func (s PositionSet) Clone() PositionSet {
	if s == nil {
		return nil
	}
	out := make(PositionSet, len(s))
	for p := range s {
		out[p] = struct{}{}
	}
	return out
}
