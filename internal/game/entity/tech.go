package entity

import (
	"fmt"
	"slices"

	"Hegemony/internal/shared/gameconfig/ruleset"
)

// TechManager 是阵营的科研状态：已研究集合、待研究队列和每项科技的累计进度。
type TechManager struct {
	Researched []string       `json:"researched"`
	ToResearch []string       `json:"toResearch"`
	Progress   map[string]int `json:"progress,omitempty"`
}

func NewTechManager() *TechManager {
	return &TechManager{Progress: map[string]int{}}
}

func (t *TechManager) IsResearched(name string) bool {
	return slices.Contains(t.Researched, name)
}

// CanBeResearched 表示前置科技都已研究完成。
func (t *TechManager) CanBeResearched(tech ruleset.Technology) bool {
	for _, p := range tech.Prerequisites {
		if !t.IsResearched(p) {
			return false
		}
	}
	return true
}

// CheapestResearchable 在未研究且前置满足的科技中选花费最小的，同价按规则表顺序。
func (t *TechManager) CheapestResearchable(rs *ruleset.Ruleset) (ruleset.Technology, bool) {
	var (
		best  ruleset.Technology
		found bool
	)
	for _, tech := range rs.Technologies {
		if t.IsResearched(tech.Name) || !t.CanBeResearched(tech) {
			continue
		}
		if !found || tech.Cost < best.Cost {
			best, found = tech, true
		}
	}
	return best, found
}

func (t *TechManager) CurrentResearch() (string, bool) {
	if len(t.ToResearch) == 0 {
		return "", false
	}
	return t.ToResearch[0], true
}

// AddScience 给队首科技累加研究点，达到 cost 时完成并返回科技名。
func (t *TechManager) AddScience(science int, cost func(name string) int) (string, bool) {
	current, ok := t.CurrentResearch()
	if !ok || science <= 0 {
		return "", false
	}
	if t.Progress == nil {
		t.Progress = map[string]int{}
	}
	t.Progress[current] += science
	if t.Progress[current] < cost(current) {
		return "", false
	}
	delete(t.Progress, current)
	t.ToResearch = t.ToResearch[1:]
	if !t.IsResearched(current) {
		t.Researched = append(t.Researched, current)
	}
	return current, true
}

// Validate 检查已研究/待研究/进度里的科技名都在规则表中。
func (t *TechManager) Validate(rs *ruleset.Ruleset) error {
	check := func(name string) error {
		if _, ok := rs.Technology(name); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownTechnology, name)
		}
		return nil
	}
	for _, n := range t.Researched {
		if err := check(n); err != nil {
			return err
		}
	}
	for _, n := range t.ToResearch {
		if err := check(n); err != nil {
			return err
		}
	}
	for n := range t.Progress {
		if err := check(n); err != nil {
			return err
		}
	}
	return nil
}

func (t *TechManager) Clone() *TechManager {
	if t == nil {
		return nil
	}
	c := &TechManager{
		Researched: slices.Clone(t.Researched),
		ToResearch: slices.Clone(t.ToResearch),
	}
	if t.Progress != nil {
		c.Progress = make(map[string]int, len(t.Progress))
		for k, v := range t.Progress {
			c.Progress[k] = v
		}
	}
	return c
}
