package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"
	"time"

	gameactor "Hegemony/internal/game/actor"
	"Hegemony/internal/game/actors"
	"Hegemony/internal/game/app/port"
	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/infra/persistence/memory"
	gamemongo "Hegemony/internal/game/infra/persistence/mongodb"
	gamemysql "Hegemony/internal/game/infra/persistence/mysql"
	"Hegemony/internal/shared/gameconfig/ruleset"
	"Hegemony/internal/shared/infrastructure/db"
	sharedmongo "Hegemony/internal/shared/infrastructure/mongo"
	"Hegemony/internal/shared/logs"
	"Hegemony/internal/shared/serverconfig"

	"go.uber.org/zap"
)

func main() {
	confPath := flag.String("conf", "", "配置文件路径，默认向上查找 configs/conf.yml")
	turns := flag.Int("turns", 0, "启动后自动推进的回合数")
	flag.Parse()

	serverconfig.LoadFrom(*confPath)
	if err := logs.Init("game", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	defer func() { _ = logs.Sync() }()
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))

	gc := serverconfig.Conf.Game
	rs := ruleset.Default()
	if gc.Ruleset != "" {
		loaded, err := ruleset.Load(gc.Ruleset)
		if err != nil {
			logs.Fatal("load ruleset failed", zap.String("path", gc.Ruleset), zap.Error(err))
		}
		rs = loaded
	}

	repo, closeRepo := openRepository(gc.SaveBackend)
	defer closeRepo()

	runtime := gameactor.NewRuntime(actors.Deps{
		Repo:       repo,
		Ruleset:    rs,
		FlushEvery: time.Duration(gc.FlushEveryMS) * time.Millisecond,
		Log:        logs.Kit(),
		NewGame: entity.GameParameters{
			Difficulty: gc.Difficulty,
			CivNames:   gc.CivNames,
			HumanCiv:   gc.HumanCiv,
			MapRadius:  gc.MapRadius,
			Seed:       gc.Seed,
		},
	}, 0)
	defer runtime.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for i := 0; i < *turns && ctx.Err() == nil; i++ {
		resp, err := runtime.NextTurn(ctx, gc.GameID)
		if err != nil {
			logs.Error("next turn failed", zap.String("code", string(gameactor.CodeFromError(err))), zap.Error(err))
			break
		}
		for _, n := range resp.Notifications {
			logs.Info("notification", zap.String("civ", resp.CurrentPlayer), zap.String("text", n.Text))
		}
		logs.Info("turn done", zap.Int("turns", resp.Turns), zap.String("current_player", resp.CurrentPlayer))
	}
	if _, err := runtime.Save(ctx, gc.GameID); err != nil {
		logs.Error("save failed", zap.Error(err))
	}

	logs.Info("game host running", zap.String("game_id", gc.GameID), zap.String("backend", string(gc.SaveBackend)))
	<-ctx.Done()
	logs.Info("收到退出信号，准备优雅退出")
}

func openRepository(backend serverconfig.SaveBackend) (port.GameRepository, func()) {
	switch backend {
	case serverconfig.SaveBackendMongoDB:
		client, err := sharedmongo.Open(serverconfig.Conf.MongoDB, logs.Logger())
		if err != nil {
			logs.Fatal("open mongodb failed", zap.Error(err))
		}
		database := client.Database(serverconfig.Conf.MongoDB.Database)
		repo := gamemongo.NewGameRepository(database, serverconfig.Conf.MongoDB.Collection)
		return repo, func() { _ = client.Disconnect(context.Background()) }
	case serverconfig.SaveBackendMySQL:
		gormDB, err := db.Open(serverconfig.Conf.MySQL)
		if err != nil {
			logs.Fatal("open db failed", zap.Error(err))
		}
		repo := gamemysql.NewGameRepository(gormDB)
		if err := repo.AutoMigrate(); err != nil {
			logs.Fatal("migrate game_saves failed", zap.Error(err))
		}
		return repo, func() {
			if sqlDB, err := gormDB.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	default:
		logs.Warn("save backend is memory, saves are lost on exit")
		return memory.NewGameRepository(), func() {}
	}
}
