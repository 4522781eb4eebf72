package ruleset

// DefaultDifficulty 是旧存档里每个阵营 difficulty 字段的占位默认值。
const DefaultDifficulty = "Chieftain"

// BarbarianUnit 是野蛮人刷新时放置的默认单位。
const BarbarianUnit = "Warrior"

// Default 返回内置规则表（没有配置 ruleset 文件时使用）。
func Default() *Ruleset {
	rs := &Ruleset{
		Technologies: []Technology{
			{Name: "Agriculture", Cost: 20},
			{Name: "Pottery", Cost: 35, Prerequisites: []string{"Agriculture"}},
			{Name: "Animal Husbandry", Cost: 35, Prerequisites: []string{"Agriculture"}},
			{Name: "Archery", Cost: 35, Prerequisites: []string{"Agriculture"}},
			{Name: "Mining", Cost: 35, Prerequisites: []string{"Agriculture"}},
			{Name: "Writing", Cost: 55, Prerequisites: []string{"Pottery"}},
			{Name: "Bronze Working", Cost: 55, Prerequisites: []string{"Mining"}},
			{Name: "Mathematics", Cost: 80, Prerequisites: []string{"Writing", "Archery"}},
		},
		Buildings: []Building{
			{Name: "Monument", Cost: 40, Stats: Stats{Culture: 2}},
			{Name: "Granary", Cost: 100, RequiredTech: "Pottery", Stats: Stats{Food: 2}},
			{Name: "Library", Cost: 90, RequiredTech: "Writing", Stats: Stats{Science: 2}},
			{Name: "Walls", Cost: 100, RequiredTech: "Bronze Working"},
			{Name: "Temple of Artemis", Cost: 185, RequiredTech: "Archery", IsWonder: true,
				Stats: Stats{Culture: 1}, CivWide: &Stats{Food: 1}},
			{Name: "Great Library", Cost: 185, RequiredTech: "Writing", IsWonder: true,
				Stats: Stats{Culture: 1}, CivWide: &Stats{Science: 1}},
		},
		Units: []Unit{
			{Name: "Warrior", Cost: 40, Movement: 2},
			{Name: "Archer", Cost: 40, Movement: 2, RequiredTech: "Archery"},
			{Name: "Scout", Cost: 25, Movement: 2},
			{Name: "Worker", Cost: 70, Movement: 2, Civilian: true},
			{Name: "Settler", Cost: 106, Movement: 2, Civilian: true, RequiredTech: "Pottery"},
		},
		Difficulties: []Difficulty{
			{Name: "Settler", ResearchCostPercent: 60},
			{Name: "Chieftain", ResearchCostPercent: 80},
			{Name: "Warlord", ResearchCostPercent: 90},
			{Name: "Prince", ResearchCostPercent: 100},
			{Name: "King", ResearchCostPercent: 110},
		},
	}
	if err := rs.Index(); err != nil {
		panic(err)
	}
	return rs
}
