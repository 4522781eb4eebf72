package serverconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_补默认值(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yml")
	yml := `
log:
  level: debug
  dev: true
game:
  civ_names: ["Rome", "Greece"]
  human_civ: Rome
  seed: 9
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatalf("写配置失败: %v", err)
	}

	LoadFrom(path)

	g := Conf.Game
	if g.GameID != "default" || g.SaveBackend != SaveBackendMemory || g.FlushEveryMS != 3000 || g.MapRadius != 10 {
		t.Fatalf("期望缺省字段补上默认值, got=%+v", g)
	}
	if len(g.CivNames) != 2 || g.HumanCiv != "Rome" || g.Seed != 9 {
		t.Fatalf("期望读到开局参数, got=%+v", g)
	}
	if Conf.Log.Level != "debug" || !Conf.Log.Dev {
		t.Fatalf("期望读到日志配置, got=%+v", Conf.Log)
	}
}

func TestLoadFrom_仓库自带配置可以读取(t *testing.T) {
	LoadFrom(filepath.Join("..", "..", "..", "configs", "conf.yml"))
	if Conf.Game.SaveBackend == "" || len(Conf.Game.CivNames) == 0 {
		t.Fatalf("期望自带配置可以解码, got=%+v", Conf.Game)
	}
	if Conf.MongoDB.Database == "" || Conf.MySQL.DBName == "" {
		t.Fatalf("期望读到存储配置, mongo=%+v mysql=%+v", Conf.MongoDB, Conf.MySQL)
	}
}
