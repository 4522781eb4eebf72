package entity

import (
	"errors"
	"testing"

	"Hegemony/internal/shared/gameconfig/ruleset"
)

func TestNewGame_开局状态(t *testing.T) {
	g := newGame(t)
	if len(g.Civilizations) != 4 {
		t.Fatalf("期望三个阵营加野蛮人, got=%d", len(g.Civilizations))
	}
	barbarian, ok := g.BarbarianCivilization()
	if !ok || barbarian.Name != BarbarianCivName {
		t.Fatalf("期望唯一的野蛮人阵营, got=%v ok=%v", barbarian, ok)
	}
	current, ok := g.CurrentPlayerCivilization()
	if !ok || current.Name != "Rome" || !current.IsPlayerCivilization() {
		t.Fatalf("期望当前玩家是人类 Rome, got=%+v", current)
	}
	for _, civ := range g.Civilizations[:3] {
		city := civ.Cities[0]
		if g.TileMap.Tile(city.Location).Owner != civ.Name {
			t.Fatalf("期望 %s 首都格属于自己", civ.Name)
		}
		if city.Constructions.Current == "" {
			t.Fatalf("期望 %s 首都已选好建造项", civ.Name)
		}
		if !civ.ViewableTiles.Has(city.Location) {
			t.Fatalf("期望 %s 看得见自己的首都", civ.Name)
		}
	}
	if d, ok := g.DifficultyInfo(); !ok || d.Name != "Prince" {
		t.Fatalf("期望难度 Prince, got=%+v", d)
	}
}

func TestNewGame_没有阵营报错(t *testing.T) {
	_, err := NewGame(GameParameters{}, ruleset.Default())
	if !errors.Is(err, ErrUnknownCivilization) {
		t.Fatalf("期望 ErrUnknownCivilization, got=%v", err)
	}
}

func TestBarbarianCivilization_多个时不唯一(t *testing.T) {
	g := newGame(t)
	g.Civilizations[0].Barbarian = true
	if _, ok := g.BarbarianCivilization(); ok {
		t.Fatalf("期望多个野蛮人阵营时 ok=false")
	}
}

func TestRebuildCivIndex_重名报错(t *testing.T) {
	g := newGame(t)
	g.Civilizations = append(g.Civilizations, NewCivilization("Rome", PlayerAI))
	if err := g.RebuildCivIndex(); !errors.Is(err, ErrDuplicateCivilization) {
		t.Fatalf("期望 ErrDuplicateCivilization, got=%v", err)
	}
}

func TestIsAtWarWith(t *testing.T) {
	g := newGame(t)
	rome, _ := g.Civilization("Rome")
	greece, _ := g.Civilization("Greece")
	barbarian, _ := g.BarbarianCivilization()

	if rome.IsAtWarWith(greece) {
		t.Fatalf("期望默认和平")
	}
	if !rome.IsAtWarWith(barbarian) || !barbarian.IsAtWarWith(greece) {
		t.Fatalf("期望野蛮人和所有人交战")
	}
	rome.DeclareWar(greece)
	if !rome.IsAtWarWith(greece) || !greece.IsAtWarWith(rome) {
		t.Fatalf("期望宣战是双向的")
	}
	rome.MakePeace(greece)
	if rome.IsAtWarWith(greece) {
		t.Fatalf("期望议和后不再交战")
	}
}

func TestIsDefeated(t *testing.T) {
	g := newGame(t)
	rome, _ := g.Civilization("Rome")
	if rome.IsDefeated(g) {
		t.Fatalf("期望有城市时没有灭亡")
	}
	rome.Cities = nil
	if !rome.IsDefeated(g) {
		t.Fatalf("期望建过城且失去所有城市时灭亡")
	}

	nomad := NewCivilization("Huns", PlayerAI)
	g.Civilizations = append(g.Civilizations, nomad)
	_ = g.RebuildCivIndex()
	if !nomad.IsDefeated(g) {
		t.Fatalf("期望没建过城且没有单位时灭亡")
	}
	g.TileMap.PlaceUnitNearTile(Position{}, ruleset.Unit{Name: "Settler", Civilian: true}, "Huns")
	if nomad.IsDefeated(g) {
		t.Fatalf("期望还有单位时没有灭亡")
	}
}
