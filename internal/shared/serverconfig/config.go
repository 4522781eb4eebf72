package serverconfig

import (
	"Hegemony/internal/shared/config"
)

const defaultConfigRelPath = "configs/conf.yml"

var Conf Config

func Load() {
	LoadFrom(defaultConfigRelPath)
}

func LoadFrom(path string) {
	config.Load(path, &Conf)
	Conf.Game.applyDefaults()
}

func (g *GameConfig) applyDefaults() {
	if g.GameID == "" {
		g.GameID = "default"
	}
	if g.SaveBackend == "" {
		g.SaveBackend = SaveBackendMemory
	}
	if g.FlushEveryMS <= 0 {
		g.FlushEveryMS = 3000
	}
	if g.MapRadius <= 0 {
		g.MapRadius = 10
	}
}
