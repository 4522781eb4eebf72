package service

import (
	"math/rand"

	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/errs"
	"Hegemony/internal/shared/gameconfig/ruleset"
	"Hegemony/modules/kit/logx"

	"go.uber.org/zap"
)

// BarbarianPlacer 在地图上放一个野蛮人单位；tile 为 nil 时由实现挑选位置。
// 没有可放的位置返回 (nil, nil)。
type BarbarianPlacer interface {
	Place(g *entity.GameInfo, tile *entity.Tile) (*entity.MapUnit, error)
}

type BarbarianSpawner struct {
	rng *rand.Rand
	log logx.Logger
}

// NewBarbarianSpawner 的 rng 决定随机选格；测试里传固定种子。
func NewBarbarianSpawner(rng *rand.Rand, log logx.Logger) *BarbarianSpawner {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if log == nil {
		log = logx.Nop()
	}
	return &BarbarianSpawner{rng: rng, log: log}
}

func (s *BarbarianSpawner) Place(g *entity.GameInfo, tile *entity.Tile) (*entity.MapUnit, error) {
	barbarian, ok := g.BarbarianCivilization()
	if !ok {
		return nil, errs.Invariant(errs.ReasonBarbarianMissing, nil)
	}
	unit, err := barbarianUnit(g)
	if err != nil {
		return nil, err
	}
	if tile == nil {
		eligible := EligibleSpawnTiles(g)
		if len(eligible) == 0 {
			s.log.Debug("no tile left for barbarians", zap.Int("turns", g.Turns))
			return nil, nil
		}
		tile = eligible[s.rng.Intn(len(eligible))]
	}
	placed := g.TileMap.PlaceUnitNearTile(tile.Position, unit, barbarian.Name)
	if placed != nil {
		g.MarkDirty()
		s.log.Debug("barbarian spawned",
			zap.String("unit", placed.Name),
			zap.Stringer("near", tile.Position),
		)
	}
	return placed, nil
}

// EligibleSpawnTiles：全部格子，去掉任一非野蛮人阵营可见的格子和已有单位的格子，按地图顺序。
func EligibleSpawnTiles(g *entity.GameInfo) []*entity.Tile {
	if g.TileMap == nil {
		return nil
	}
	seen := entity.PositionSet{}
	for _, civ := range g.Civilizations {
		if civ.IsBarbarianCivilization() {
			continue
		}
		for p := range civ.ViewableTiles {
			seen.Add(p)
		}
	}
	var out []*entity.Tile
	for _, t := range g.TileMap.Tiles {
		if seen.Has(t.Position) || t.Occupied() {
			continue
		}
		out = append(out, t)
	}
	return out
}

func barbarianUnit(g *entity.GameInfo) (ruleset.Unit, error) {
	rs := g.Ruleset()
	if rs == nil {
		return ruleset.Unit{}, errs.ErrInvariantViolation.WithData("reason", "ruleset not attached").Capture()
	}
	u, ok := rs.Unit(ruleset.BarbarianUnit)
	if !ok {
		return ruleset.Unit{}, errs.ErrInvariantViolation.WithData("unit", ruleset.BarbarianUnit).Capture()
	}
	if g.TileMap == nil {
		return ruleset.Unit{}, errs.Invariant(errs.ReasonMapMissing, nil)
	}
	return u, nil
}
