package actor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Hegemony/internal/game/actors"
	"Hegemony/internal/game/entity"
	"Hegemony/internal/shared/actor/messages"
	"Hegemony/modules/kit/errx"

	protoactor "github.com/asynkron/protoactor-go/actor"
)

const defaultAskTimeout = 3 * time.Second

// RuntimeError 是经过 actor 往返后的错误。Code 保留对局 actor 回的 errx 错误码。
type RuntimeError struct {
	Code    errx.Code
	Message string
	Cause   error
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

type Runtime struct {
	system  *protoactor.ActorSystem
	root    *protoactor.RootContext
	manager *protoactor.PID
	timeout time.Duration
}

func NewRuntime(deps actors.Deps, askTimeout time.Duration) *Runtime {
	if askTimeout <= 0 {
		askTimeout = defaultAskTimeout
	}

	system := protoactor.NewActorSystem()
	root := system.Root
	managerProps := protoactor.PropsFromProducer(func() protoactor.Actor {
		return actors.NewManagerActor(deps)
	})
	manager := root.Spawn(managerProps)

	return &Runtime{
		system:  system,
		root:    root,
		manager: manager,
		timeout: askTimeout,
	}
}

// Shutdown 停掉管理者及其下所有对局 actor，对局 actor 停止前会把未落库的修改写出去。
func (r *Runtime) Shutdown() {
	if r == nil {
		return
	}
	if r.root != nil && r.manager != nil {
		_ = r.root.StopFuture(r.manager).Wait()
	}
	if r.system != nil {
		r.system.Shutdown()
	}
}

func (r *Runtime) NextTurn(ctx context.Context, gameID string) (*messages.NextTurnResp, error) {
	return ask[*messages.NextTurnResp](r, ctx, &messages.NextTurnReq{GameBaseMessage: base(gameID)})
}

// PlaceBarbarian at 为空时由对局随机挑选格子。没有可用格子时 Placed 为 false，不算错误。
func (r *Runtime) PlaceBarbarian(ctx context.Context, gameID string, at *entity.Position) (*messages.PlaceBarbarianResp, error) {
	req := &messages.PlaceBarbarianReq{GameBaseMessage: base(gameID)}
	if at != nil {
		req.At = &messages.TilePos{X: at.X, Y: at.Y}
	}
	return ask[*messages.PlaceBarbarianResp](r, ctx, req)
}

// Snapshot 返回对局当前状态的深拷贝。
func (r *Runtime) Snapshot(ctx context.Context, gameID string) (*messages.SnapshotResp, error) {
	return ask[*messages.SnapshotResp](r, ctx, &messages.SnapshotReq{GameBaseMessage: base(gameID)})
}

func (r *Runtime) Save(ctx context.Context, gameID string) (*messages.SaveResp, error) {
	return ask[*messages.SaveResp](r, ctx, &messages.SaveReq{GameBaseMessage: base(gameID)})
}

func base(gameID string) messages.GameBaseMessage {
	return messages.GameBaseMessage{GameId: gameID}
}

func ask[Resp any](r *Runtime, ctx context.Context, msg messages.GameMessage) (Resp, error) {
	var zero Resp
	if r == nil {
		return zero, &RuntimeError{Code: errx.CodeInternal, Message: "actor runtime 未初始化"}
	}
	res, err := r.request(r.manager, msg, r.timeoutFromContext(ctx))
	if err != nil {
		return zero, err
	}
	switch v := res.(type) {
	case Resp:
		return v, nil
	case *messages.FailResp:
		return zero, &RuntimeError{Code: errx.Code(v.Code), Message: v.Message}
	default:
		return zero, &RuntimeError{Code: errx.CodeInternal, Message: fmt.Sprintf("unexpected reply %T", res)}
	}
}

func (r *Runtime) request(pid *protoactor.PID, msg any, timeout time.Duration) (any, error) {
	if r == nil || r.root == nil {
		return nil, &RuntimeError{Code: errx.CodeInternal, Message: "actor runtime 未初始化"}
	}
	if pid == nil {
		return nil, &RuntimeError{Code: errx.CodeInternal, Message: "actor pid 为空"}
	}

	future := r.root.RequestFuture(pid, msg, timeout)
	res, err := future.Result()
	if err != nil {
		code := errx.CodeInternal
		if errors.Is(err, protoactor.ErrTimeout) {
			code = errx.CodeTimeout
		}
		return nil, &RuntimeError{
			Code:    code,
			Message: "actor 请求失败",
			Cause:   err,
		}
	}
	return res, nil
}

func (r *Runtime) timeoutFromContext(ctx context.Context) time.Duration {
	if r == nil || r.timeout <= 0 {
		return defaultAskTimeout
	}
	if ctx == nil {
		return r.timeout
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return r.timeout
	}
	remain := time.Until(deadline)
	if remain <= 0 {
		return time.Millisecond
	}
	if remain < r.timeout {
		return remain
	}
	return r.timeout
}

// CodeFromError 取错误码；非 RuntimeError 一律算内部错误。
func CodeFromError(err error) errx.Code {
	if err == nil {
		return ""
	}
	var re *RuntimeError
	if errors.As(err, &re) && re != nil && re.Code != "" {
		return re.Code
	}
	return errx.CodeInternal
}
