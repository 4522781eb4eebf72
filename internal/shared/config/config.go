package config

import (
	"os"
	"path/filepath"
)

const defaultConfigRelPath = "configs/conf.yml"

// Load 加载配置到 target，失败直接 panic（进程启动阶段使用）。
//
// 约定：
// 1) 传入 cfgName（相对/绝对路径）则优先使用；
// 2) 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string, target any) {
	curDir, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	path := ""
	switch {
	case cfgName != "" && filepath.IsAbs(cfgName):
		path = cfgName
	case cfgName != "":
		path = filepath.Join(curDir, cfgName)
	default:
		path = findConfigUpward(curDir)
	}
	if err := Watch(path, target); err != nil {
		panic(err)
	}
}

func findConfigUpward(startDir string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, defaultConfigRelPath)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not exist, searched configs/conf.yml from: " + startDir)
		}
		dir = parent
	}
}
