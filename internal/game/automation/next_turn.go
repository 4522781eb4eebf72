// Package automation 是 AI 阵营每回合的自动决策。
// 战术算法不在引擎范围内，这里只保证 AI 城市有建造项、军事单位会动起来。
package automation

import (
	"math/rand"

	"Hegemony/internal/game/entity"
)

// Automation 替一个阵营走完它的回合。由回合调度按固定顺序逐个同步调用。
type Automation interface {
	AutomateCivMoves(g *entity.GameInfo, civ *entity.Civilization)
}

type NextTurnAutomation struct {
	rng *rand.Rand
}

func NewNextTurnAutomation(rng *rand.Rand) *NextTurnAutomation {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &NextTurnAutomation{rng: rng}
}

func (a *NextTurnAutomation) AutomateCivMoves(g *entity.GameInfo, civ *entity.Civilization) {
	rs := g.Ruleset()
	for _, city := range civ.Cities {
		if city.Constructions.Current == "" {
			city.ChooseNextConstruction(rs, civ)
		}
	}
	if g.TileMap == nil {
		return
	}
	for _, ua := range g.TileMap.UnitsOf(civ.Name) {
		if ua.Unit.Civilian {
			continue
		}
		a.wander(g, ua)
	}
}

// wander 把军事单位移到一个随机的空相邻格。
func (a *NextTurnAutomation) wander(g *entity.GameInfo, ua entity.UnitAt) {
	if ua.Unit.CurrentMovement <= 0 {
		return
	}
	var free []*entity.Tile
	for _, n := range g.TileMap.Neighbors(ua.Tile.Position) {
		if n.MilitaryUnit == nil {
			free = append(free, n)
		}
	}
	if len(free) == 0 {
		return
	}
	to := free[a.rng.Intn(len(free))]
	to.MilitaryUnit = ua.Unit
	ua.Tile.MilitaryUnit = nil
	ua.Unit.CurrentMovement--
}
