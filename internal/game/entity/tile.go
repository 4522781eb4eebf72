package entity

import (
	"fmt"

	"Hegemony/internal/shared/gameconfig/ruleset"
)

// Tile 是地图上的一格。Owner 为空表示无主；军事单位和平民单位各至多一个。
type Tile struct {
	Position     Position `json:"position"`
	Terrain      string   `json:"terrain"`
	Owner        string   `json:"owner,omitempty"`
	MilitaryUnit *MapUnit `json:"militaryUnit,omitempty"`
	CivilianUnit *MapUnit `json:"civilianUnit,omitempty"`
}

func (t *Tile) Occupied() bool {
	return t.MilitaryUnit != nil || t.CivilianUnit != nil
}

// Units 返回格子上的单位（先军事后平民）。
func (t *Tile) Units() []*MapUnit {
	out := make([]*MapUnit, 0, 2)
	if t.MilitaryUnit != nil {
		out = append(out, t.MilitaryUnit)
	}
	if t.CivilianUnit != nil {
		out = append(out, t.CivilianUnit)
	}
	return out
}

func (t *Tile) Clone() *Tile {
	if t == nil {
		return nil
	}
	c := *t
	c.MilitaryUnit = t.MilitaryUnit.Clone()
	c.CivilianUnit = t.CivilianUnit.Clone()
	return &c
}

// TileMap 持有全部格子。Tiles 的顺序即地图遍历顺序；index 是加载后重建的坐标索引。
type TileMap struct {
	Radius int     `json:"radius"`
	Tiles  []*Tile `json:"tiles"`

	index map[Position]*Tile
}

// NewHexMap 生成半径为 radius 的六边形地图，按 Y、X 顺序排列。
func NewHexMap(radius int, terrain string) *TileMap {
	m := &TileMap{Radius: radius}
	origin := Position{}
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			p := Position{X: x, Y: y}
			if Distance(origin, p) > radius {
				continue
			}
			m.Tiles = append(m.Tiles, &Tile{Position: p, Terrain: terrain})
		}
	}
	_ = m.rebuildIndex() // 生成的坐标互不重复
	return m
}

// rebuildIndex 只在全部格子校验通过后才替换索引，失败时索引为空。
func (m *TileMap) rebuildIndex() error {
	m.index = nil
	idx := make(map[Position]*Tile, len(m.Tiles))
	for _, t := range m.Tiles {
		if t == nil {
			return fmt.Errorf("%w: nil tile", ErrTileOutOfRange)
		}
		if _, dup := idx[t.Position]; dup {
			return fmt.Errorf("%w: %v", ErrDuplicateTile, t.Position)
		}
		idx[t.Position] = t
	}
	m.index = idx
	return nil
}

// SetTransients 重建坐标索引，并校验格子和单位上的阵营引用都能在 g 中解析。
func (m *TileMap) SetTransients(g *GameInfo) error {
	if err := m.rebuildIndex(); err != nil {
		return err
	}
	known := make(map[string]struct{}, len(g.Civilizations))
	for _, c := range g.Civilizations {
		known[c.Name] = struct{}{}
	}
	for _, t := range m.Tiles {
		if t.Owner != "" {
			if _, ok := known[t.Owner]; !ok {
				return fmt.Errorf("%w: tile %v owner %q", ErrUnknownCivilization, t.Position, t.Owner)
			}
		}
		for _, u := range t.Units() {
			if _, ok := known[u.Owner]; !ok {
				return fmt.Errorf("%w: unit %s at %v owner %q", ErrUnknownCivilization, u.Name, t.Position, u.Owner)
			}
		}
	}
	return nil
}

// Tile 按坐标取格子，不存在返回 nil。
// 格子重复的地图建不出索引，退回按顺序查找第一个匹配；这种地图加载时已经报损坏。
func (m *TileMap) Tile(p Position) *Tile {
	if m.index == nil && m.rebuildIndex() != nil {
		for _, t := range m.Tiles {
			if t != nil && t.Position == p {
				return t
			}
		}
		return nil
	}
	return m.index[p]
}

func (m *TileMap) Contains(p Position) bool {
	return m.Tile(p) != nil
}

// Neighbors 返回地图内存在的相邻格。
func (m *TileMap) Neighbors(p Position) []*Tile {
	out := make([]*Tile, 0, len(hexDirections))
	for _, d := range hexDirections {
		if t := m.Tile(p.Add(d)); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// TilesInDistance 返回与 p 距离不超过 dist 的格子：按距离由近到远，同距离按地图顺序。
func (m *TileMap) TilesInDistance(p Position, dist int) []*Tile {
	rings := make([][]*Tile, dist+1)
	for _, t := range m.Tiles {
		if d := Distance(p, t.Position); d <= dist {
			rings[d] = append(rings[d], t)
		}
	}
	var out []*Tile
	for _, r := range rings {
		out = append(out, r...)
	}
	return out
}

// PlaceUnitNearTile 把单位放在 p 或附近（最远 2 格）第一个空出对应槽位的格子上。
// 放不下返回 nil。
func (m *TileMap) PlaceUnitNearTile(p Position, unit ruleset.Unit, owner string) *MapUnit {
	for _, t := range m.TilesInDistance(p, 2) {
		u := &MapUnit{
			Name:            unit.Name,
			Owner:           owner,
			Civilian:        unit.Civilian,
			CurrentMovement: unit.Movement,
		}
		switch {
		case unit.Civilian && t.CivilianUnit == nil:
			t.CivilianUnit = u
			return u
		case !unit.Civilian && t.MilitaryUnit == nil:
			t.MilitaryUnit = u
			return u
		}
	}
	return nil
}

// UnitsOf 返回属于 owner 的全部单位及其所在格，按地图顺序。
func (m *TileMap) UnitsOf(owner string) []UnitAt {
	var out []UnitAt
	for _, t := range m.Tiles {
		for _, u := range t.Units() {
			if u.Owner == owner {
				out = append(out, UnitAt{Unit: u, Tile: t})
			}
		}
	}
	return out
}

type UnitAt struct {
	Unit *MapUnit
	Tile *Tile
}

func (m *TileMap) Clone() *TileMap {
	if m == nil {
		return nil
	}
	c := &TileMap{Radius: m.Radius, Tiles: make([]*Tile, len(m.Tiles))}
	for i, t := range m.Tiles {
		c.Tiles[i] = t.Clone()
	}
	// 原索引建成说明格子没有重复，按坐标对应到拷贝上即可
	if m.index != nil {
		c.index = make(map[Position]*Tile, len(c.Tiles))
		for _, t := range c.Tiles {
			c.index[t.Position] = t
		}
	}
	return c
}
