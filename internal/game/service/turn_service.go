package service

import (
	"context"
	"fmt"

	"Hegemony/internal/game/automation"
	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/errs"
	"Hegemony/modules/kit/logx"

	"go.uber.org/zap"
)

// BarbarianSpawnInterval：回合数（推进前）是它的倍数时尝试刷一个野蛮人。
const BarbarianSpawnInterval = 10

type TurnService struct {
	hooks      TurnHooks
	automation automation.Automation
	spawner    BarbarianPlacer
	log        logx.Logger
}

func NewTurnService(hooks TurnHooks, auto automation.Automation, spawner BarbarianPlacer, log logx.Logger) *TurnService {
	if hooks == nil {
		hooks = DefaultHooks{}
	}
	if log == nil {
		log = logx.Nop()
	}
	return &TurnService{
		hooks:      hooks,
		automation: auto,
		spawner:    spawner,
		log:        log,
	}
}

// turnPlan 是修改状态之前解析/校验好的全部前置条件。
type turnPlan struct {
	currentPlayer *entity.Civilization
	// 研究队列为空的阵营 -> 本回合要入队的科技
	research map[string]string
	spawnDue bool
}

// NextTurn 推进一个回合，原地修改 g。
//
// 阶段顺序固定：
//  1. 每个阵营：研究队列为空则入队最便宜的可研究科技，然后结束回合
//  2. 所有阵营结束回合之后，统一重算城市产出（一个阵营的奇观会影响其他城市）
//  3. 除当前玩家和已灭亡的非野蛮人阵营外：开始回合，然后自动决策
//  4. 回合数是 10 的倍数时尝试刷一个野蛮人
//  5. 当前玩家开始回合（在交还控制权之前，AI 本回合的行动对玩家可见）
//  6. 扫描当前玩家可见格里的敌方军事单位，在己方领土内/旁边的发通知
//  7. 回合数 +1
//
// 前置条件在任何修改之前校验；返回错误时 g 保持原样。
func (s *TurnService) NextTurn(ctx context.Context, g *entity.GameInfo) error {
	plan, err := s.plan(g)
	if err != nil {
		return err
	}
	log := s.log.WithContext(ctx).With(zap.Int("turns", g.Turns))

	for _, civ := range g.Civilizations {
		if tech, ok := plan.research[civ.Name]; ok {
			civ.Tech.ToResearch = append(civ.Tech.ToResearch, tech)
		}
		s.hooks.EndTurn(g, civ)
	}
	log.Debug("end turn done", zap.Int("civs", len(g.Civilizations)))

	s.updateCityStats(g, log)

	automated := automatedCivs(g, plan.currentPlayer)
	for _, civ := range automated {
		s.hooks.StartTurn(g, civ)
		if s.automation != nil {
			s.automation.AutomateCivMoves(g, civ)
		}
	}
	log.Debug("automated civs done", zap.Int("civs", len(automated)))

	if plan.spawnDue && s.spawner != nil {
		if _, err := s.spawner.Place(g, nil); err != nil {
			// 前置校验已经保证野蛮人阵营存在，这里出错只记录，不中断已经开始的回合
			logx.ReportSysErrorWithLoggerContext(ctx, s.log, logx.NewSysLog("place_barbarian", err))
		}
	}

	s.hooks.StartTurn(g, plan.currentPlayer)
	s.warnEnemiesNearTerritory(g, plan.currentPlayer)

	g.Turns++
	g.MarkDirty()
	log.Info("turn advanced", zap.String("current_player", plan.currentPlayer.Name), zap.Int("next_turns", g.Turns))
	return nil
}

func (s *TurnService) plan(g *entity.GameInfo) (*turnPlan, error) {
	current, ok := g.CurrentPlayerCivilization()
	if !ok {
		return nil, errs.Invariant(errs.ReasonCurrentPlayerMissing, map[string]any{"current_player": g.CurrentPlayer})
	}
	rs := g.Ruleset()
	if rs == nil {
		return nil, errs.ErrInvariantViolation.WithData("reason", "ruleset not attached").Capture()
	}

	plan := &turnPlan{
		currentPlayer: current,
		research:      make(map[string]string),
		spawnDue:      g.Turns%BarbarianSpawnInterval == 0,
	}
	for _, civ := range g.Civilizations {
		if civ.Tech == nil {
			return nil, errs.ErrInvariantViolation.WithData("civ", civ.Name).WithData("reason", "tech manager missing").Capture()
		}
		if len(civ.Tech.ToResearch) == 0 {
			if len(rs.Technologies) == 0 {
				return nil, errs.Invariant(errs.ReasonTechCatalogEmpty, map[string]any{"civ": civ.Name})
			}
			// 全部研究完时没有可选项，跳过
			if tech, ok := civ.Tech.CheapestResearchable(rs); ok {
				plan.research[civ.Name] = tech.Name
			}
		}
		for _, city := range civ.Cities {
			if err := city.ValidateBuildings(rs); err != nil {
				return nil, errs.Invariant(errs.ReasonUnknownBuilding, map[string]any{"civ": civ.Name, "city": city.Name}).WithCause(err)
			}
		}
	}
	if plan.spawnDue {
		if _, ok := g.BarbarianCivilization(); !ok {
			return nil, errs.Invariant(errs.ReasonBarbarianMissing, map[string]any{"turns": g.Turns})
		}
	}
	return plan, nil
}

// automatedCivs 在回合结算之后取名单，自动决策循环里的修改不影响名单。
func automatedCivs(g *entity.GameInfo, current *entity.Civilization) []*entity.Civilization {
	var out []*entity.Civilization
	for _, civ := range g.Civilizations {
		if civ == current || (civ.IsDefeated(g) && !civ.IsBarbarianCivilization()) {
			continue
		}
		out = append(out, civ)
	}
	return out
}

func (s *TurnService) updateCityStats(g *entity.GameInfo, log logx.Logger) {
	rs := g.Ruleset()
	for _, civ := range g.Civilizations {
		for _, city := range civ.Cities {
			if err := city.UpdateStats(rs, civ); err != nil {
				// 只有回合钩子写入了未知建筑才会走到这里
				log.Error("update city stats failed", zap.String("civ", civ.Name), zap.String("city", city.Name), zap.Error(err))
			}
		}
	}
}

func (s *TurnService) warnEnemiesNearTerritory(g *entity.GameInfo, current *entity.Civilization) {
	for _, tile := range EnemyUnitsNearTerritory(g, current) {
		inOrNear := "near"
		if tile.Owner == current.Name {
			inOrNear = "in"
		}
		pos := tile.Position
		current.AddNotification(
			fmt.Sprintf("An enemy [%s] was spotted %s our territory", tile.MilitaryUnit.Name, inOrNear),
			&pos,
			entity.ColorRed,
		)
	}
}

// EnemyUnitsNearTerritory 返回 civ 可见格中停着交战阵营军事单位、且本格或相邻格属于 civ 的格子。
func EnemyUnitsNearTerritory(g *entity.GameInfo, civ *entity.Civilization) []*entity.Tile {
	var out []*entity.Tile
	for _, tile := range civ.ViewableTileList(g) {
		unit := tile.MilitaryUnit
		if unit == nil || unit.Owner == civ.Name {
			continue
		}
		enemy, ok := g.Civilization(unit.Owner)
		if !ok || !civ.IsAtWarWith(enemy) {
			continue
		}
		if tile.Owner == civ.Name || ownsNeighbor(g, tile, civ.Name) {
			out = append(out, tile)
		}
	}
	return out
}

func ownsNeighbor(g *entity.GameInfo, tile *entity.Tile, owner string) bool {
	for _, n := range g.TileMap.Neighbors(tile.Position) {
		if n.Owner == owner {
			return true
		}
	}
	return false
}
