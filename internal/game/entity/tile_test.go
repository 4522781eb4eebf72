package entity

import (
	"errors"
	"testing"

	"Hegemony/internal/shared/gameconfig/ruleset"
)

func TestNewHexMap_格子数(t *testing.T) {
	for radius, want := range map[int]int{0: 1, 1: 7, 2: 19, 4: 61} {
		if got := len(NewHexMap(radius, "Plains").Tiles); got != want {
			t.Fatalf("半径 %d 期望 %d 格, got=%d", radius, want, got)
		}
	}
}

func TestNeighbors_距离都为1(t *testing.T) {
	m := NewHexMap(3, "Plains")
	origin := Position{}
	ns := m.Neighbors(origin)
	if len(ns) != 6 {
		t.Fatalf("期望中心格有 6 个相邻格, got=%d", len(ns))
	}
	for _, n := range ns {
		if Distance(origin, n.Position) != 1 {
			t.Fatalf("期望相邻格距离为 1, got=%v", n.Position)
		}
	}
	if got := len(m.Neighbors(Position{X: 3, Y: 3})); got != 3 {
		t.Fatalf("期望角上的格子只有 3 个相邻格, got=%d", got)
	}
}

func TestPlaceUnitNearTile_占满后向外找(t *testing.T) {
	m := NewHexMap(1, "Plains")
	warrior := ruleset.Unit{Name: "Warrior", Movement: 2}
	origin := Position{}

	first := m.PlaceUnitNearTile(origin, warrior, "Rome")
	if m.Tile(origin).MilitaryUnit != first {
		t.Fatalf("期望空格直接放在目标格")
	}
	// 平民单位和军事单位各占一个槽位
	worker := m.PlaceUnitNearTile(origin, ruleset.Unit{Name: "Worker", Civilian: true}, "Rome")
	if m.Tile(origin).CivilianUnit != worker {
		t.Fatalf("期望平民单位和军事单位可以同格")
	}
	for i := 0; i < 6; i++ {
		if m.PlaceUnitNearTile(origin, warrior, "Rome") == nil {
			t.Fatalf("期望第 %d 个单位放在相邻格", i+2)
		}
	}
	if m.PlaceUnitNearTile(origin, warrior, "Rome") != nil {
		t.Fatalf("期望全部占满时返回 nil")
	}
}

func TestTileMapSetTransients_未知阵营(t *testing.T) {
	g := newGame(t)
	g.TileMap.Tiles[3].Owner = "Atlantis"
	if err := g.TileMap.SetTransients(g); !errors.Is(err, ErrUnknownCivilization) {
		t.Fatalf("期望 ErrUnknownCivilization, got=%v", err)
	}
}

func TestTileMapSetTransients_重复坐标(t *testing.T) {
	g := newGame(t)
	g.TileMap.Tiles[1].Position = g.TileMap.Tiles[0].Position
	if err := g.TileMap.SetTransients(g); !errors.Is(err, ErrDuplicateTile) {
		t.Fatalf("期望 ErrDuplicateTile, got=%v", err)
	}
}

func TestTile_重复坐标时不留下残缺索引(t *testing.T) {
	m := NewHexMap(2, "Plains")
	m.Tiles[1].Position = m.Tiles[0].Position
	m.index = nil

	last := m.Tiles[len(m.Tiles)-1]
	if got := m.Tile(last.Position); got != last {
		t.Fatalf("期望重复坐标之后的格子仍能查到, got=%v", got)
	}
	if got := m.Tile(m.Tiles[0].Position); got != m.Tiles[0] {
		t.Fatalf("期望重复坐标取第一个格子")
	}
	if m.index != nil {
		t.Fatalf("期望索引建不出来时保持为空")
	}
}

func TestTileMapClone_索引指向拷贝(t *testing.T) {
	m := NewHexMap(2, "Plains")
	c := m.Clone()
	for _, tile := range c.Tiles {
		if c.Tile(tile.Position) != tile {
			t.Fatalf("期望拷贝的索引指向拷贝自己的格子, pos=%v", tile.Position)
		}
		if m.Tile(tile.Position) == tile {
			t.Fatalf("期望拷贝不和原地图共享格子")
		}
	}
}

func TestPositionSet_Sorted(t *testing.T) {
	s := PositionSet{}
	s.Add(Position{X: 1, Y: 1})
	s.Add(Position{X: -1, Y: 1})
	s.Add(Position{X: 5, Y: -2})
	got := s.Sorted()
	want := []Position{{X: 5, Y: -2}, {X: -1, Y: 1}, {X: 1, Y: 1}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("期望按 Y、X 排序 %v, got=%v", want, got)
		}
	}
}
