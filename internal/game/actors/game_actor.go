package actors

import (
	"context"
	"math/rand"
	"time"

	"Hegemony/internal/game/automation"
	"Hegemony/internal/game/dc"
	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/errs"
	"Hegemony/internal/game/service"
	"Hegemony/internal/shared/actor/messages"
	"Hegemony/modules/kit/logx"
	"Hegemony/modules/kit/tracex"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type State int

const (
	None State = iota
	Init
	Online
	Offline
	Stopping
)

// GameActor 独占一局的状态：回合推进、刷野蛮人、取快照都在它的邮箱里串行执行。
type GameActor struct {
	state      State
	gameID     string
	deps       Deps
	log        logx.Logger
	dc         *dc.GameDC
	entity     *entity.GameInfo
	turns      *service.TurnService
	spawner    *service.BarbarianSpawner
	dispatcher *Dispatcher
	flushStop  chan struct{}
	loadErr    error
}

type flushTick struct{}

func (flushTick) NotInfluenceReceiveTimeout() {}

func NewGameActor(gameID string, deps Deps) *GameActor {
	if deps.Log == nil {
		deps.Log = logx.Nop()
	}
	log := deps.Log.With(zap.String("game_id", gameID))
	return &GameActor{
		state:      None,
		gameID:     gameID,
		deps:       deps,
		log:        log,
		dc:         dc.NewGameDC(gameID, deps.Repo, service.NewRehydrator(deps.Ruleset, log), deps.FlushEvery, log),
		dispatcher: NewDispatcher(),
	}
}

func (p *GameActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		p.state = Init
		p.init(ctx)
		return
	case *actor.Stopping:
		p.stopFlushLoop()
		closeCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := p.dc.Close(closeCtx); err != nil {
			p.log.Error("game dc close failed", zap.Error(err))
		}
		p.state = Stopping
		return
	case *actor.Stopped:
		p.stopFlushLoop()
		p.state = Offline
		return
	case *actor.Restarting:
		p.stopFlushLoop()
		p.state = Init
		return
	case flushTick:
		if p.state != Online {
			return
		}
		if err := p.dc.Flush(context.TODO()); err != nil {
			p.log.Error("game periodic flush failed", zap.Error(err))
		}
		return
	case messages.GameMessage:
		if msg == nil {
			ctx.Respond(&messages.FailResp{Code: string(errs.CodeReqParam), Message: "nil request"})
			return
		}
		if p.state != Online {
			p.respondOffline(ctx)
			return
		}
		p.dispatcher.Dispatch(ctx, p, msg)
	default:
		return
	}
}

func (p *GameActor) init(ctx actor.Context) {
	g, err := p.dc.LoadOrCreate(context.TODO(), p.newGame)
	if err != nil {
		p.loadErr = err
		p.state = Offline
		logx.ReportSysErrorWithLoggerContext(context.TODO(), p.log, logx.NewSysLog("load_game", err))
		return
	}
	p.entity = g
	p.wire(g)
	p.state = Online
	p.startFlushLoop(ctx)
	p.log.Info("game online", zap.Int("turns", g.Turns), zap.String("current_player", g.CurrentPlayer))
}

// respondOffline 加载失败时回一次错误然后退出，下一次请求由管理者重新拉起并重新加载。
func (p *GameActor) respondOffline(ctx actor.Context) {
	if p.loadErr == nil {
		ctx.Respond(&messages.FailResp{Code: string(errs.CodeUnavailable), Message: "game not online"})
		return
	}
	ctx.Respond(fail(p.loadErr))
	ctx.Stop(ctx.Self())
}

func (p *GameActor) newGame() (*entity.GameInfo, error) {
	return entity.NewGame(p.deps.NewGame, p.deps.Ruleset)
}

// wire 随机数种子取自开局参数和当前回合，同一份存档每次加载后的随机序列一致。
func (p *GameActor) wire(g *entity.GameInfo) {
	seed := g.GameParameters.Seed ^ int64(g.Turns)
	p.spawner = service.NewBarbarianSpawner(rand.New(rand.NewSource(seed)), p.log)
	p.turns = service.NewTurnService(
		service.DefaultHooks{},
		automation.NewNextTurnAutomation(rand.New(rand.NewSource(seed+1))),
		p.spawner,
		p.log,
	)
}

// requestContext 每条请求一个 trace_id，日志里带上推进前的回合数。
func (p *GameActor) requestContext() context.Context {
	ctx := tracex.WithTraceID(context.Background(), tracex.NewTraceID())
	if p.entity != nil {
		ctx = tracex.WithTurn(ctx, p.entity.Turns)
	}
	return ctx
}

func (p *GameActor) GameID() string {
	return p.gameID
}

func (p *GameActor) Entity() *entity.GameInfo {
	return p.entity
}

func (p *GameActor) DC() *dc.GameDC {
	return p.dc
}

func (p *GameActor) startFlushLoop(ctx actor.Context) {
	if p.flushStop != nil {
		return
	}
	interval := p.dc.FlushEvery()
	if interval <= 0 {
		return
	}
	p.flushStop = make(chan struct{})
	self := ctx.Self()
	root := ctx.ActorSystem().Root

	go func(stop <-chan struct{}, every time.Duration) {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				root.Send(self, flushTick{})
			case <-stop:
				return
			}
		}
	}(p.flushStop, interval)
}

func (p *GameActor) stopFlushLoop() {
	if p.flushStop == nil {
		return
	}
	close(p.flushStop)
	p.flushStop = nil
}
