package service

import (
	"context"
	"testing"

	"Hegemony/internal/game/entity"
	"Hegemony/internal/shared/gameconfig/ruleset"
)

var (
	romeCapital   = entity.Position{X: -3, Y: 0}
	greeceCapital = entity.Position{X: 3, Y: 0}
	egyptCapital  = entity.Position{X: 0, Y: 3}
)

// newSave 构造一份“刚反序列化”的存档：三个阵营各一座首都，外加野蛮人。派生数据都还没建。
func newSave() *entity.GameInfo {
	tm := entity.NewHexMap(4, "Grassland")
	civs := []*entity.Civilization{
		entity.NewCivilization("Rome", entity.PlayerHuman),
		entity.NewCivilization("Greece", entity.PlayerAI),
		entity.NewCivilization("Egypt", entity.PlayerAI),
	}
	for i, loc := range []entity.Position{romeCapital, greeceCapital, egyptCapital} {
		civ := civs[i]
		civ.Cities = []*entity.City{{Name: civ.Name + " Capital", Location: loc, Population: 1}}
		civ.CitiesCreated = 1
		for _, t := range tm.TilesInDistance(loc, 1) {
			t.Owner = civ.Name
		}
	}
	barbarians := entity.NewCivilization(entity.BarbarianCivName, entity.PlayerAI)
	barbarians.Barbarian = true
	civs = append(civs, barbarians)

	return &entity.GameInfo{
		Civilizations: civs,
		Difficulty:    "Prince",
		TileMap:       tm,
		CurrentPlayer: "Rome",
	}
}

// newTestGame 返回已经跑完加载流水线、可以直接推进回合的对局。
func newTestGame(t *testing.T, turns int) *entity.GameInfo {
	t.Helper()
	g := newSave()
	g.Turns = turns
	if err := NewRehydrator(ruleset.Default(), nil).Run(context.Background(), g); err != nil {
		t.Fatalf("期望测试存档可以正常加载, err=%v", err)
	}
	return g
}

func mustCiv(t *testing.T, g *entity.GameInfo, name string) *entity.Civilization {
	t.Helper()
	civ, ok := g.Civilization(name)
	if !ok {
		t.Fatalf("期望阵营 %s 存在", name)
	}
	return civ
}

// recorder 按调用顺序记录钩子和自动决策。
type recorder struct {
	events []string
}

type recordingHooks struct {
	rec *recorder
}

func (h recordingHooks) StartTurn(g *entity.GameInfo, civ *entity.Civilization) {
	h.rec.events = append(h.rec.events, "start:"+civ.Name)
	civ.StartTurn(g)
}

func (h recordingHooks) EndTurn(g *entity.GameInfo, civ *entity.Civilization) {
	h.rec.events = append(h.rec.events, "end:"+civ.Name)
	civ.EndTurn(g)
}

type recordingAutomation struct {
	rec *recorder
}

func (a recordingAutomation) AutomateCivMoves(_ *entity.GameInfo, civ *entity.Civilization) {
	a.rec.events = append(a.rec.events, "auto:"+civ.Name)
}

type countingPlacer struct {
	calls int
}

func (p *countingPlacer) Place(_ *entity.GameInfo, _ *entity.Tile) (*entity.MapUnit, error) {
	p.calls++
	return nil, nil
}
