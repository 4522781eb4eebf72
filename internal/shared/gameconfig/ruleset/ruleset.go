// Package ruleset 是科技/建筑/单位/难度的内容表。
// 加载后只读，多个对局（包括克隆出来的存档快照）共享同一份。
package ruleset

import (
	"fmt"

	"Hegemony/internal/shared/config"
)

type Technology struct {
	Name          string   `json:"name" mapstructure:"name"`
	Cost          int      `json:"cost" mapstructure:"cost"`
	Prerequisites []string `json:"prerequisites" mapstructure:"prerequisites"`
}

// Stats 是城市产出的一组数值。
type Stats struct {
	Food       int `json:"food" mapstructure:"food"`
	Production int `json:"production" mapstructure:"production"`
	Gold       int `json:"gold" mapstructure:"gold"`
	Science    int `json:"science" mapstructure:"science"`
	Culture    int `json:"culture" mapstructure:"culture"`
}

func (s Stats) Add(o Stats) Stats {
	return Stats{
		Food:       s.Food + o.Food,
		Production: s.Production + o.Production,
		Gold:       s.Gold + o.Gold,
		Science:    s.Science + o.Science,
		Culture:    s.Culture + o.Culture,
	}
}

type Building struct {
	Name         string `json:"name" mapstructure:"name"`
	Cost         int    `json:"cost" mapstructure:"cost"`
	RequiredTech string `json:"required_tech" mapstructure:"required_tech"`
	IsWonder     bool   `json:"is_wonder" mapstructure:"is_wonder"`
	Stats        Stats  `json:"stats" mapstructure:"stats"`
	// CivWide 非空时，建成后对同阵营所有城市生效（奇观）
	CivWide *Stats `json:"civ_wide,omitempty" mapstructure:"civ_wide"`
}

type Unit struct {
	Name         string `json:"name" mapstructure:"name"`
	Cost         int    `json:"cost" mapstructure:"cost"`
	Movement     int    `json:"movement" mapstructure:"movement"`
	Civilian     bool   `json:"civilian" mapstructure:"civilian"`
	RequiredTech string `json:"required_tech" mapstructure:"required_tech"`
}

type Difficulty struct {
	Name string `json:"name" mapstructure:"name"`
	// ResearchCostPercent 作用于人类玩家的科技花费，100 为原价
	ResearchCostPercent int `json:"research_cost_percent" mapstructure:"research_cost_percent"`
}

type Ruleset struct {
	Technologies []Technology `json:"technologies" mapstructure:"technologies"`
	Buildings    []Building   `json:"buildings" mapstructure:"buildings"`
	Units        []Unit       `json:"units" mapstructure:"units"`
	Difficulties []Difficulty `json:"difficulties" mapstructure:"difficulties"`

	techs        map[string]int
	buildings    map[string]int
	units        map[string]int
	difficulties map[string]int
}

// Load 从 json/yml 文件读取规则表。
func Load(path string) (*Ruleset, error) {
	rs := &Ruleset{}
	if err := config.Read(path, rs); err != nil {
		return nil, err
	}
	if err := rs.Index(); err != nil {
		return nil, fmt.Errorf("ruleset %s: %w", path, err)
	}
	return rs, nil
}

// Index 建立按名字的索引，并检查重名和前置科技引用。
func (r *Ruleset) Index() error {
	r.techs = make(map[string]int, len(r.Technologies))
	for i, t := range r.Technologies {
		if _, dup := r.techs[t.Name]; dup {
			return fmt.Errorf("duplicate technology %q", t.Name)
		}
		r.techs[t.Name] = i
	}
	for _, t := range r.Technologies {
		for _, p := range t.Prerequisites {
			if _, ok := r.techs[p]; !ok {
				return fmt.Errorf("technology %q requires unknown %q", t.Name, p)
			}
		}
	}
	r.buildings = make(map[string]int, len(r.Buildings))
	for i, b := range r.Buildings {
		if _, dup := r.buildings[b.Name]; dup {
			return fmt.Errorf("duplicate building %q", b.Name)
		}
		r.buildings[b.Name] = i
	}
	r.units = make(map[string]int, len(r.Units))
	for i, u := range r.Units {
		if _, dup := r.units[u.Name]; dup {
			return fmt.Errorf("duplicate unit %q", u.Name)
		}
		r.units[u.Name] = i
	}
	r.difficulties = make(map[string]int, len(r.Difficulties))
	for i, d := range r.Difficulties {
		r.difficulties[d.Name] = i
	}
	return nil
}

func (r *Ruleset) Technology(name string) (Technology, bool) {
	i, ok := r.techs[name]
	if !ok {
		return Technology{}, false
	}
	return r.Technologies[i], true
}

func (r *Ruleset) Building(name string) (Building, bool) {
	i, ok := r.buildings[name]
	if !ok {
		return Building{}, false
	}
	return r.Buildings[i], true
}

func (r *Ruleset) Unit(name string) (Unit, bool) {
	i, ok := r.units[name]
	if !ok {
		return Unit{}, false
	}
	return r.Units[i], true
}

func (r *Ruleset) Difficulty(name string) (Difficulty, bool) {
	i, ok := r.difficulties[name]
	if !ok {
		return Difficulty{}, false
	}
	return r.Difficulties[i], true
}
