package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// decodeHook 允许用 "3s" 写时长、用 "Rome,Greece" 写字符串列表（环境变量覆盖时常用）。
var decodeHook = viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
))

// Read 一次性读取配置文件（yml/json 由扩展名决定）并解码到 target。
func Read(configPath string, target any) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}
	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", configPath, err)
	}
	if err := v.Unmarshal(target, decodeHook); err != nil {
		return fmt.Errorf("unmarshal config %s: %w", configPath, err)
	}
	return nil
}

// Watch 读取配置并监听文件变更，变更后重新解码到 target。
func Watch(configPath string, target any) error {
	if !fileExist(configPath) {
		return fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := newViper(configPath)
	// todo 热更新和读取方之间没有加锁，目前只有 log.level 这类字段允许热更新
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Println("配置文件变更", e.Name)
		if err := v.Unmarshal(target, decodeHook); err != nil {
			log.Println("配置文件变更后解码失败", err)
		}
	})
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", configPath, err)
	}
	if err := v.Unmarshal(target, decodeHook); err != nil {
		return fmt.Errorf("unmarshal config %s: %w", configPath, err)
	}
	v.WatchConfig()
	return nil
}

// newViper 文件里出现过的键都可以用 HEGEMONY_ 前缀的环境变量覆盖，例如 HEGEMONY_GAME_SAVE_BACKEND。
func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("HEGEMONY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
