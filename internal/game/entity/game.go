package entity

import (
	"fmt"
	"slices"

	"Hegemony/internal/shared/gameconfig/ruleset"
)

// GameParameters 是开局时确定、之后不再修改的参数。
type GameParameters struct {
	Difficulty   string   `json:"difficulty"`
	CivNames     []string `json:"civNames,omitempty"`
	HumanCiv     string   `json:"humanCiv,omitempty"`
	MapRadius    int      `json:"mapRadius"`
	Seed         int64    `json:"seed"`
	BarbarianCiv string   `json:"barbarianCiv,omitempty"`
}

func (p GameParameters) clone() GameParameters {
	p.CivNames = slices.Clone(p.CivNames)
	return p
}

// GameInfo 是对局聚合根：阵营、地图、回合数和全局配置。
// 阵营按存储顺序推进；CurrentPlayer 以阵营名弱引用当前玩家。
type GameInfo struct {
	Civilizations   []*Civilization `json:"civilizations"`
	Difficulty      string          `json:"difficulty"`
	TileMap         *TileMap        `json:"tileMap"`
	GameParameters  GameParameters  `json:"gameParameters"`
	Turns           int             `json:"turns"`
	OneMoreTurnMode bool            `json:"oneMoreTurnMode"`
	CurrentPlayer   string          `json:"currentPlayer"`

	ruleset  *ruleset.Ruleset
	civIndex map[string]int
	dirty    bool
}

// BarbarianCivName 是新开局时野蛮人阵营的默认名字。
const BarbarianCivName = "Barbarians"

// NewGame 按参数开一局新游戏：六边形地图，每个阵营一座首都，外加野蛮人阵营。
func NewGame(params GameParameters, rs *ruleset.Ruleset) (*GameInfo, error) {
	if len(params.CivNames) == 0 {
		return nil, fmt.Errorf("%w: no civilizations", ErrUnknownCivilization)
	}
	if params.MapRadius <= 0 {
		params.MapRadius = 10
	}
	if params.BarbarianCiv == "" {
		params.BarbarianCiv = BarbarianCivName
	}
	g := &GameInfo{
		Difficulty:     params.Difficulty,
		TileMap:        NewHexMap(params.MapRadius, "Grassland"),
		GameParameters: params.clone(),
	}
	if g.Difficulty == "" {
		g.Difficulty = ruleset.DefaultDifficulty
	}

	capitals := capitalPositions(params.MapRadius, len(params.CivNames))
	for i, name := range params.CivNames {
		pt := PlayerAI
		if name == params.HumanCiv {
			pt = PlayerHuman
		}
		civ := NewCivilization(name, pt)
		civ.Difficulty = g.Difficulty
		city := &City{Name: name + " Capital", Location: capitals[i], Population: 1}
		civ.Cities = append(civ.Cities, city)
		civ.CitiesCreated = 1
		for _, t := range g.TileMap.TilesInDistance(city.Location, 1) {
			t.Owner = name
		}
		g.Civilizations = append(g.Civilizations, civ)
	}
	barbarian := NewCivilization(params.BarbarianCiv, PlayerAI)
	barbarian.Barbarian = true
	g.Civilizations = append(g.Civilizations, barbarian)

	g.CurrentPlayer = params.HumanCiv
	if g.CurrentPlayer == "" {
		g.CurrentPlayer = params.CivNames[0]
	}
	g.SetRuleset(rs)
	if err := g.RebuildCivIndex(); err != nil {
		return nil, err
	}
	for _, civ := range g.Civilizations {
		civ.UpdateViewableTiles(g)
		for _, city := range civ.Cities {
			city.ChooseNextConstruction(rs, civ)
			if err := city.UpdateStats(rs, civ); err != nil {
				return nil, err
			}
		}
	}
	g.dirty = true
	return g, nil
}

// capitalPositions 沿半径一半的圆环走一圈，把首都等间距摆上去。
func capitalPositions(radius, n int) []Position {
	ringDist := max(1, radius/2)
	ring := make([]Position, 0, 6*ringDist)
	p := Position{X: ringDist}
	for side := 0; side < 6; side++ {
		step := ringOrder[(side+2)%6]
		for i := 0; i < ringDist; i++ {
			ring = append(ring, p)
			p = p.Add(step)
		}
	}
	out := make([]Position, n)
	for i := range out {
		out[i] = ring[(i*len(ring)/n)%len(ring)]
	}
	return out
}

func (g *GameInfo) Ruleset() *ruleset.Ruleset {
	return g.ruleset
}

// SetRuleset 关联只读规则表；规则表不属于存档内容。
func (g *GameInfo) SetRuleset(rs *ruleset.Ruleset) {
	g.ruleset = rs
}

// RebuildCivIndex 重建阵营名索引，重名返回错误。
func (g *GameInfo) RebuildCivIndex() error {
	idx := make(map[string]int, len(g.Civilizations))
	for i, c := range g.Civilizations {
		if c == nil {
			return fmt.Errorf("%w: nil civilization at %d", ErrUnknownCivilization, i)
		}
		if _, dup := idx[c.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateCivilization, c.Name)
		}
		idx[c.Name] = i
	}
	g.civIndex = idx
	return nil
}

// Civilization 按名字解析阵营。
func (g *GameInfo) Civilization(name string) (*Civilization, bool) {
	if g.civIndex != nil {
		if i, ok := g.civIndex[name]; ok && i < len(g.Civilizations) && g.Civilizations[i].Name == name {
			return g.Civilizations[i], true
		}
	}
	for _, c := range g.Civilizations {
		if c != nil && c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (g *GameInfo) CurrentPlayerCivilization() (*Civilization, bool) {
	return g.Civilization(g.CurrentPlayer)
}

// BarbarianCivilization 返回唯一的野蛮人阵营；不存在或多于一个时 ok=false。
func (g *GameInfo) BarbarianCivilization() (*Civilization, bool) {
	var found *Civilization
	for _, c := range g.Civilizations {
		if !c.Barbarian {
			continue
		}
		if found != nil {
			return nil, false
		}
		found = c
	}
	return found, found != nil
}

// DifficultyInfo 返回全局难度对应的规则表条目。
func (g *GameInfo) DifficultyInfo() (ruleset.Difficulty, bool) {
	if g.ruleset == nil {
		return ruleset.Difficulty{}, false
	}
	return g.ruleset.Difficulty(g.Difficulty)
}

// researchCost：人类玩家按难度调整科技花费。
func (g *GameInfo) researchCost(civ *Civilization, tech string) int {
	t, ok := g.ruleset.Technology(tech)
	if !ok {
		return 0
	}
	cost := t.Cost
	if civ.IsPlayerCivilization() {
		if d, ok := g.DifficultyInfo(); ok && d.ResearchCostPercent > 0 {
			cost = cost * d.ResearchCostPercent / 100
		}
	}
	return max(1, cost)
}

func (g *GameInfo) MarkDirty() {
	g.dirty = true
}

func (g *GameInfo) Dirty() bool {
	return g != nil && g.dirty
}

func (g *GameInfo) ClearDirty() {
	g.dirty = false
}

// GamePersistSnapshot 是交给存档写入方的一份独立拷贝。
type GamePersistSnapshot struct {
	Version uint64
	GameID  string
	State   *GameInfo
}

// BuildPersistSnapshot 在有未落库修改时克隆一份状态，之后双方互不影响。
func (g *GameInfo) BuildPersistSnapshot(gameID string, version uint64) (*GamePersistSnapshot, bool) {
	if g == nil || !g.Dirty() {
		return nil, false
	}
	return &GamePersistSnapshot{
		Version: version,
		GameID:  gameID,
		State:   g.Clone(),
	}, true
}
