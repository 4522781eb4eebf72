package actors

import (
	"time"

	"Hegemony/internal/game/app/port"
	"Hegemony/internal/game/entity"
	"Hegemony/internal/shared/actor/messages"
	"Hegemony/internal/shared/gameconfig/ruleset"
	"Hegemony/modules/kit/logx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

// Deps 是每个对局 actor 共用的依赖。
type Deps struct {
	Repo       port.GameRepository
	Ruleset    *ruleset.Ruleset
	FlushEvery time.Duration
	Log        logx.Logger
	// NewGame 是没有存档时的开局参数
	NewGame entity.GameParameters
}

type ManagerActor struct {
	deps  Deps
	games map[string]*actor.PID
}

func NewManagerActor(deps Deps) *ManagerActor {
	if deps.Log == nil {
		deps.Log = logx.Nop()
	}
	return &ManagerActor{
		deps:  deps,
		games: make(map[string]*actor.PID),
	}
}

func (m *ManagerActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Terminated:
		m.forget(msg.Who)
		return
	case messages.GameMessage:
		if msg == nil {
			return
		}
		ctx.Forward(m.getOrSpawn(ctx, msg.GameID()))
	default:
		return
	}
}

func (m *ManagerActor) getOrSpawn(ctx actor.Context, gameID string) *actor.PID {
	if pid, ok := m.games[gameID]; ok && pid != nil {
		return pid
	}

	props := actor.PropsFromProducer(func() actor.Actor {
		return NewGameActor(gameID, m.deps)
	})
	pid := ctx.Spawn(props)
	ctx.Watch(pid)
	m.games[gameID] = pid
	m.deps.Log.Debug("game actor spawned", zap.String("game_id", gameID))
	return pid
}

// forget 对局 actor 停掉后移除，下一次请求会重新加载存档。
func (m *ManagerActor) forget(pid *actor.PID) {
	if pid == nil {
		return
	}
	for id, p := range m.games {
		if p != nil && p.Id == pid.Id {
			delete(m.games, id)
			return
		}
	}
}
