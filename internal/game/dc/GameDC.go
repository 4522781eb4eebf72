package dc

import (
	"context"
	"errors"
	"sync"
	"time"

	"Hegemony/internal/game/app/port"
	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/errs"
	"Hegemony/internal/game/service"
	"Hegemony/modules/kit/logx"

	"go.uber.org/zap"
)

const defaultFlushEvery = 3000 * time.Millisecond

// GameDC 持有一局的内存状态并负责落库。
// 状态只由所属 actor 修改；落库在单独的写协程里进行，拿到的是克隆出来的快照，
// 待写快照只保留版本最高的一份。
type GameDC struct {
	gameID     string
	repo       port.GameRepository
	rehydrator *service.Rehydrator
	log        logx.Logger
	entity     *entity.GameInfo
	flushEvery time.Duration
	retryDelay time.Duration

	mu      sync.Mutex
	pending *entity.GamePersistSnapshot
	version uint64
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

func NewGameDC(gameID string, repo port.GameRepository, rehydrator *service.Rehydrator, flushEvery time.Duration, log logx.Logger) *GameDC {
	if flushEvery <= 0 {
		flushEvery = defaultFlushEvery
	}
	if log == nil {
		log = logx.Nop()
	}
	d := &GameDC{
		gameID:     gameID,
		repo:       repo,
		rehydrator: rehydrator,
		log:        log.With(zap.String("game_id", gameID)),
		flushEvery: flushEvery,
		retryDelay: 200 * time.Millisecond,
		wake:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	go d.writerLoop()
	return d
}

// Load 读存档并跑加载流水线；流水线失败时丢弃读到的状态。
func (d *GameDC) Load(ctx context.Context) (*entity.GameInfo, error) {
	if d.repo == nil {
		return nil, errs.ErrUnavailable.WithCause(errors.New("game repository is nil"))
	}
	g, err := d.repo.LoadGame(ctx, d.gameID)
	if err != nil {
		return nil, err
	}
	if d.rehydrator != nil {
		if err := d.rehydrator.Run(ctx, g); err != nil {
			return nil, err
		}
	}
	d.entity = g
	return g, nil
}

// LoadOrCreate 没有存档时用 create 开一局新游戏，并立即安排一次落库。
func (d *GameDC) LoadOrCreate(ctx context.Context, create func() (*entity.GameInfo, error)) (*entity.GameInfo, error) {
	g, err := d.Load(ctx)
	if err == nil || !errors.Is(err, errs.ErrSaveNotFound) || create == nil {
		return g, err
	}
	g, err = create()
	if err != nil {
		return nil, err
	}
	g.MarkDirty()
	d.entity = g
	d.log.Info("new game created", zap.Int("civs", len(g.Civilizations)))
	return g, d.Flush(ctx)
}

func (d *GameDC) Flush(ctx context.Context) error {
	_ = ctx
	if !d.IsDirty() {
		return nil
	}
	if d.repo == nil {
		return errs.ErrUnavailable.WithCause(errors.New("game repository is nil"))
	}
	s, ok := d.buildNextSnapshot()
	if !ok {
		return nil
	}
	d.enqueueLatest(s)
	return nil
}

func (d *GameDC) IsDirty() bool {
	if d.entity == nil {
		return false
	}
	return d.entity.Dirty()
}

func (d *GameDC) Entity() *entity.GameInfo {
	return d.entity
}

func (d *GameDC) GameID() string {
	return d.gameID
}

func (d *GameDC) FlushEvery() time.Duration {
	return d.flushEvery
}

// Version 是最近一次生成的快照版本。
func (d *GameDC) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

func (d *GameDC) Close(ctx context.Context) error {
	_ = d.Flush(ctx)

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.stop)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *GameDC) buildNextSnapshot() (*entity.GamePersistSnapshot, bool) {
	if d.entity == nil {
		return nil, false
	}
	d.mu.Lock()
	d.version++
	version := d.version
	d.mu.Unlock()

	s, ok := d.entity.BuildPersistSnapshot(d.gameID, version)
	if !ok {
		return nil, false
	}
	d.entity.ClearDirty()
	return s, true
}

func (d *GameDC) enqueueLatest(s *entity.GamePersistSnapshot) {
	if s == nil {
		return
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	d.signal()
}

func (d *GameDC) popPending() *entity.GamePersistSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.pending
	d.pending = nil
	return s
}

// requeueOnError 关闭之后也要重排，writerLoop 退出前会把它写完或放弃。
func (d *GameDC) requeueOnError(s *entity.GamePersistSnapshot) {
	d.mu.Lock()
	if d.pending == nil || d.pending.Version < s.Version {
		d.pending = s
	}
	d.mu.Unlock()

	d.signal()
}

func (d *GameDC) signal() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

func (d *GameDC) writerLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.wake:
			d.consumePending(false)
		case <-d.stop:
			d.consumePending(true)
			return
		}
	}
}

// consumePending 写完所有待写快照。final 为 true 时是关闭前最后一轮，失败只重试有限次。
func (d *GameDC) consumePending(final bool) {
	failures := 0
	for {
		s := d.popPending()
		if s == nil {
			return
		}
		err := d.repo.Save(context.Background(), s)
		if err == nil {
			d.log.Debug("game saved", zap.Uint64("version", s.Version), zap.Int("turns", s.State.Turns))
			failures = 0
			continue
		}
		failures++
		logx.ReportSysErrorWithLoggerContext(context.Background(), d.log, logx.NewSysLog("save_game", err))
		if final && failures >= 3 {
			d.log.Error("give up saving game on close", zap.Uint64("version", s.Version))
			return
		}
		// 写库失败时重排当前快照；若已有更新快照，会被更高 version 覆盖。
		d.requeueOnError(s)
		time.Sleep(d.retryDelay)
	}
}
