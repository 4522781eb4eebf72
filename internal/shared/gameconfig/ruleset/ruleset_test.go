package ruleset

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_索引可用(t *testing.T) {
	rs := Default()
	if _, ok := rs.Technology("Writing"); !ok {
		t.Fatalf("期望内置表包含 Writing")
	}
	if _, ok := rs.Unit(BarbarianUnit); !ok {
		t.Fatalf("期望内置表包含野蛮人默认单位 %s", BarbarianUnit)
	}
	if _, ok := rs.Difficulty(DefaultDifficulty); !ok {
		t.Fatalf("期望内置表包含默认难度 %s", DefaultDifficulty)
	}
	if _, ok := rs.Building("Hydro Plant"); ok {
		t.Fatalf("Hydro Plant 已废弃，不应出现在内置表")
	}
}

func TestIndex_未知前置科技报错(t *testing.T) {
	rs := &Ruleset{Technologies: []Technology{{Name: "Writing", Cost: 1, Prerequisites: []string{"Pottery"}}}}
	if err := rs.Index(); err == nil {
		t.Fatalf("期望未知前置科技报错")
	}
}

func TestLoad_读取json(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ruleset.json")
	raw := `{
  "technologies": [{"name": "Agriculture", "cost": 20}, {"name": "Pottery", "cost": 35, "prerequisites": ["Agriculture"]}],
  "buildings": [{"name": "Monument", "cost": 40, "stats": {"culture": 2}}],
  "units": [{"name": "Warrior", "cost": 40, "movement": 2}],
  "difficulties": [{"name": "Chieftain", "research_cost_percent": 80}]
}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	rs, err := Load(path)
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	tech, ok := rs.Technology("Pottery")
	if !ok || tech.Cost != 35 || len(tech.Prerequisites) != 1 {
		t.Fatalf("期望读出 Pottery, got=%+v ok=%v", tech, ok)
	}
	b, _ := rs.Building("Monument")
	if b.Stats.Culture != 2 {
		t.Fatalf("期望读出嵌套 stats, got=%+v", b)
	}
}
