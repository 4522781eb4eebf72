package entity

// Clone 深拷贝整个对局：地图、阵营及其城市/单位/科研队列；标量和开局参数按值拷贝。
// 只读的规则表指针共享。克隆后修改任一方都不会影响另一方。
func (g *GameInfo) Clone() *GameInfo {
	if g == nil {
		return nil
	}
	out := &GameInfo{
		Difficulty:      g.Difficulty,
		TileMap:         g.TileMap.Clone(),
		GameParameters:  g.GameParameters.clone(),
		Turns:           g.Turns,
		OneMoreTurnMode: g.OneMoreTurnMode,
		CurrentPlayer:   g.CurrentPlayer,
		ruleset:         g.ruleset,
		dirty:           g.dirty,
	}
	if g.Civilizations != nil {
		out.Civilizations = make([]*Civilization, len(g.Civilizations))
		for i, c := range g.Civilizations {
			out.Civilizations[i] = c.Clone()
		}
	}
	if g.civIndex != nil {
		out.civIndex = make(map[string]int, len(g.civIndex))
		for k, v := range g.civIndex {
			out.civIndex[k] = v
		}
	}
	return out
}
