package service

import "Hegemony/internal/game/entity"

// TurnHooks 是阵营的回合开始/结束钩子。
type TurnHooks interface {
	StartTurn(g *entity.GameInfo, civ *entity.Civilization)
	EndTurn(g *entity.GameInfo, civ *entity.Civilization)
}

// DefaultHooks 直接委托给阵营自身的回合逻辑。
type DefaultHooks struct{}

func (DefaultHooks) StartTurn(g *entity.GameInfo, civ *entity.Civilization) {
	civ.StartTurn(g)
}

func (DefaultHooks) EndTurn(g *entity.GameInfo, civ *entity.Civilization) {
	civ.EndTurn(g)
}
