package entity

import (
	"fmt"
	"slices"

	"Hegemony/internal/shared/gameconfig/ruleset"
)

type City struct {
	Name          string            `json:"name"`
	Location      Position          `json:"location"`
	Population    int               `json:"population"`
	FoodStored    int               `json:"foodStored"`
	Constructions CityConstructions `json:"cityConstructions"`
	// Stats 是派生数据，加载后和每回合结束后重算
	Stats ruleset.Stats `json:"-"`
}

// CityConstructions 记录已建成建筑、当前建造项和各建造项的累计产能。
type CityConstructions struct {
	Built    []string       `json:"builtBuildings"`
	Current  string         `json:"currentConstruction"`
	Progress map[string]int `json:"inProgressConstructions,omitempty"`
}

func (c *CityConstructions) IsBuilt(name string) bool {
	return slices.Contains(c.Built, name)
}

// RemoveBuilt 从已建成集合移除 name，返回是否存在过。
func (c *CityConstructions) RemoveBuilt(name string) bool {
	i := slices.Index(c.Built, name)
	if i < 0 {
		return false
	}
	c.Built = slices.Delete(c.Built, i, i+1)
	return true
}

func (c CityConstructions) clone() CityConstructions {
	out := CityConstructions{
		Built:   slices.Clone(c.Built),
		Current: c.Current,
	}
	if c.Progress != nil {
		out.Progress = make(map[string]int, len(c.Progress))
		for k, v := range c.Progress {
			out.Progress[k] = v
		}
	}
	return out
}

func (c *City) Clone() *City {
	if c == nil {
		return nil
	}
	out := *c
	out.Constructions = c.Constructions.clone()
	return &out
}

// baseStats 是人口和城市中心格带来的产出。
func (c *City) baseStats() ruleset.Stats {
	return ruleset.Stats{
		Food:       2 + 2*c.Population,
		Production: 1 + c.Population,
		Gold:       c.Population,
		Science:    c.Population,
		Culture:    1,
	}
}

// UpdateStats 重算派生产出：自身建筑 + 同阵营所有城市的奇观加成。
// 需要读取兄弟城市的建筑集合，所以任一城市里有规则表中不存在的建筑都会报错。
func (c *City) UpdateStats(rs *ruleset.Ruleset, owner *Civilization) error {
	if rs == nil {
		return ErrRulesetMissing
	}
	stats := c.baseStats()
	for _, name := range c.Constructions.Built {
		b, ok := rs.Building(name)
		if !ok {
			return fmt.Errorf("%w: %q in %s", ErrUnknownBuilding, name, c.Name)
		}
		stats = stats.Add(b.Stats)
	}
	if owner != nil {
		for _, sibling := range owner.Cities {
			for _, name := range sibling.Constructions.Built {
				b, ok := rs.Building(name)
				if !ok {
					return fmt.Errorf("%w: %q in %s", ErrUnknownBuilding, name, sibling.Name)
				}
				if b.CivWide != nil {
					stats = stats.Add(*b.CivWide)
				}
			}
		}
	}
	c.Stats = stats
	return nil
}

// ValidateBuildings 只检查建筑名，不修改任何状态。
func (c *City) ValidateBuildings(rs *ruleset.Ruleset) error {
	for _, name := range c.Constructions.Built {
		if _, ok := rs.Building(name); !ok {
			return fmt.Errorf("%w: %q in %s", ErrUnknownBuilding, name, c.Name)
		}
	}
	return nil
}

// ChooseNextConstruction 选花费最小的可建建筑（科技已满足、本城未建、奇观全阵营未建），
// 同价按规则表顺序；没有可建建筑时造第一个可用的军事单位。
func (c *City) ChooseNextConstruction(rs *ruleset.Ruleset, owner *Civilization) {
	if rs == nil || owner == nil {
		return
	}
	var (
		best  ruleset.Building
		found bool
	)
	for _, b := range rs.Buildings {
		if c.Constructions.IsBuilt(b.Name) || !owner.hasTech(b.RequiredTech) {
			continue
		}
		if b.IsWonder && owner.HasBuilding(b.Name) {
			continue
		}
		if !found || b.Cost < best.Cost {
			best, found = b, true
		}
	}
	if found {
		c.Constructions.Current = best.Name
		return
	}
	for _, u := range rs.Units {
		if !u.Civilian && owner.hasTech(u.RequiredTech) {
			c.Constructions.Current = u.Name
			return
		}
	}
	c.Constructions.Current = ""
}

// constructionCost 返回建造项花费；未知建造项返回 0。
func constructionCost(rs *ruleset.Ruleset, name string) (cost int, unit *ruleset.Unit) {
	if b, ok := rs.Building(name); ok {
		return b.Cost, nil
	}
	if u, ok := rs.Unit(name); ok {
		return u.Cost, &u
	}
	return 0, nil
}
