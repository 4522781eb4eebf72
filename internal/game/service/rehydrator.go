package service

import (
	"context"
	"fmt"

	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/errs"
	"Hegemony/internal/shared/gameconfig/ruleset"
	"Hegemony/modules/kit/logx"

	"go.uber.org/zap"
)

// DeprecatedHydroPlant 是规则表里已经删掉、旧存档里仍可能存在的建筑。
const DeprecatedHydroPlant = "Hydro Plant"

// Step 是加载流水线里的一步。When 为 nil 表示总是执行；
// 迁移步骤用 When 判断存档是否需要迁移，所以重复执行是无操作。
type Step struct {
	Name  string
	When  func(g *entity.GameInfo) bool
	Apply func(g *entity.GameInfo) error
}

// Rehydrator 把刚反序列化的对局恢复成可推进的状态：重建派生索引、执行旧存档迁移、重算派生数据。
type Rehydrator struct {
	steps []Step
	log   logx.Logger
}

func NewRehydrator(rs *ruleset.Ruleset, log logx.Logger) *Rehydrator {
	if log == nil {
		log = logx.Nop()
	}
	return &Rehydrator{steps: DefaultSteps(rs), log: log}
}

// DefaultSteps 返回固定顺序的步骤：后面的步骤依赖前面建立的关联。
func DefaultSteps(rs *ruleset.Ruleset) []Step {
	return []Step{
		{Name: "link-map", Apply: LinkMap},
		{Name: "default-current-player", When: NeedsCurrentPlayer, Apply: DefaultCurrentPlayer},
		{Name: "link-civilizations", Apply: func(g *entity.GameInfo) error { return LinkCivilizations(g, rs) }},
		{Name: "player-type", When: NeedsHumanPlayer, Apply: MigratePlayerType},
		{Name: "difficulty", When: NeedsDifficultyMigration, Apply: MigrateDifficulty},
		{Name: "civ-transients", Apply: CivTransients},
		{Name: "remove-hydro-plant", When: HasHydroPlant, Apply: RemoveHydroPlant},
		{Name: "city-stats", Apply: UpdateAllCityStats},
	}
}

func (r *Rehydrator) Steps() []Step {
	return r.steps
}

// Run 按顺序执行全部步骤；任一步失败返回 CORRUPT_SAVE_DATA，调用方必须丢弃这份状态。
func (r *Rehydrator) Run(ctx context.Context, g *entity.GameInfo) error {
	if g == nil {
		return errs.Corrupt("load", fmt.Errorf("nil game"))
	}
	log := r.log.WithContext(ctx)
	for _, step := range r.steps {
		if step.When != nil && !step.When(g) {
			continue
		}
		if err := step.Apply(g); err != nil {
			return errs.Corrupt(step.Name, err)
		}
		log.Debug("rehydrate step applied", zap.String("step", step.Name))
	}
	return nil
}

func LinkMap(g *entity.GameInfo) error {
	if g.TileMap == nil || len(g.TileMap.Tiles) == 0 {
		return entity.ErrMapMissing
	}
	return g.TileMap.SetTransients(g)
}

func NeedsCurrentPlayer(g *entity.GameInfo) bool {
	return g.CurrentPlayer == ""
}

// DefaultCurrentPlayer：很早的存档没有当前玩家字段，取第一个阵营。
func DefaultCurrentPlayer(g *entity.GameInfo) error {
	if len(g.Civilizations) == 0 {
		return fmt.Errorf("%w: save has no civilizations", entity.ErrUnknownCivilization)
	}
	g.CurrentPlayer = g.Civilizations[0].Name
	return nil
}

func LinkCivilizations(g *entity.GameInfo, rs *ruleset.Ruleset) error {
	if rs == nil {
		return entity.ErrRulesetMissing
	}
	if err := g.RebuildCivIndex(); err != nil {
		return err
	}
	g.SetRuleset(rs)
	if _, ok := g.CurrentPlayerCivilization(); !ok {
		return fmt.Errorf("%w: current player %q", entity.ErrUnknownCivilization, g.CurrentPlayer)
	}
	// 野蛮人阵营必须恰好一个。
	if _, ok := g.BarbarianCivilization(); !ok {
		return fmt.Errorf("%w: want exactly one barbarian civilization, got %d", entity.ErrUnknownCivilization, countBarbarians(g))
	}
	return nil
}

func countBarbarians(g *entity.GameInfo) int {
	n := 0
	for _, c := range g.Civilizations {
		if c.Barbarian {
			n++
		}
	}
	return n
}

// NeedsHumanPlayer：旧存档没有玩家类型字段，全部读成 AI（空值同样视为 AI）。
func NeedsHumanPlayer(g *entity.GameInfo) bool {
	for _, civ := range g.Civilizations {
		if civ.PlayerType == entity.PlayerHuman {
			return false
		}
	}
	return true
}

func MigratePlayerType(g *entity.GameInfo) error {
	for _, civ := range g.Civilizations {
		if civ.PlayerType == "" {
			civ.PlayerType = entity.PlayerAI
		}
	}
	current, ok := g.CurrentPlayerCivilization()
	if !ok {
		return fmt.Errorf("%w: current player %q", entity.ErrUnknownCivilization, g.CurrentPlayer)
	}
	current.PlayerType = entity.PlayerHuman
	return nil
}

// NeedsDifficultyMigration：难度曾经按阵营存储，当前玩家上的非默认值说明是旧存档。
func NeedsDifficultyMigration(g *entity.GameInfo) bool {
	current, ok := g.CurrentPlayerCivilization()
	if !ok {
		return false
	}
	return current.Difficulty != ruleset.DefaultDifficulty && current.Difficulty != "" && current.Difficulty != g.Difficulty
}

func MigrateDifficulty(g *entity.GameInfo) error {
	current, ok := g.CurrentPlayerCivilization()
	if !ok {
		return fmt.Errorf("%w: current player %q", entity.ErrUnknownCivilization, g.CurrentPlayer)
	}
	g.Difficulty = current.Difficulty
	return nil
}

func CivTransients(g *entity.GameInfo) error {
	for _, civ := range g.Civilizations {
		if err := civ.SetTransients(g); err != nil {
			return err
		}
	}
	return nil
}

func HasHydroPlant(g *entity.GameInfo) bool {
	for _, civ := range g.Civilizations {
		for _, city := range civ.Cities {
			if city.Constructions.IsBuilt(DeprecatedHydroPlant) || city.Constructions.Current == DeprecatedHydroPlant {
				return true
			}
		}
	}
	return false
}

// RemoveHydroPlant 处理完所有城市之后才会进入产出重算，
// 否则某座城的奇观加成遍历到兄弟城市里残留的旧建筑会失败。
func RemoveHydroPlant(g *entity.GameInfo) error {
	rs := g.Ruleset()
	for _, civ := range g.Civilizations {
		for _, city := range civ.Cities {
			for city.Constructions.RemoveBuilt(DeprecatedHydroPlant) {
			}
			if city.Constructions.Current == DeprecatedHydroPlant {
				city.Constructions.Current = ""
				delete(city.Constructions.Progress, DeprecatedHydroPlant)
				city.ChooseNextConstruction(rs, civ)
			}
		}
	}
	return nil
}

func UpdateAllCityStats(g *entity.GameInfo) error {
	rs := g.Ruleset()
	for _, civ := range g.Civilizations {
		for _, city := range civ.Cities {
			if err := city.UpdateStats(rs, civ); err != nil {
				return err
			}
		}
	}
	return nil
}
