package actors

import (
	"context"
	"errors"

	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/errs"
	"Hegemony/internal/shared/actor/messages"
	"Hegemony/modules/kit/errx"

	"github.com/asynkron/protoactor-go/actor"
	"go.uber.org/zap"
)

type GameHandler struct{}

var GH = &GameHandler{}

// HandleNextTurn 推进成功后立即安排一次落库；失败时状态没有改动，直接回错误。
func (h *GameHandler) HandleNextTurn(ctx actor.Context, p *GameActor, req *messages.NextTurnReq) {
	if req == nil {
		ctx.Respond(fail(errs.ErrReqParam))
		return
	}
	g := p.entity
	reqCtx := p.requestContext()
	if err := p.turns.NextTurn(reqCtx, g); err != nil {
		ctx.Respond(fail(err))
		return
	}
	if err := p.dc.Flush(reqCtx); err != nil {
		p.log.Error("flush after next turn failed", zap.Error(err))
	}

	resp := &messages.NextTurnResp{Turns: g.Turns, CurrentPlayer: g.CurrentPlayer}
	if civ, ok := g.CurrentPlayerCivilization(); ok && len(civ.Notifications) > 0 {
		resp.Notifications = append([]entity.Notification(nil), civ.Notifications...)
	}
	ctx.Respond(resp)
}

func (h *GameHandler) HandlePlaceBarbarian(ctx actor.Context, p *GameActor, req *messages.PlaceBarbarianReq) {
	if req == nil {
		ctx.Respond(fail(errs.ErrReqParam))
		return
	}
	g := p.entity
	var tile *entity.Tile
	if req.At != nil {
		pos := entity.Position{X: req.At.X, Y: req.At.Y}
		if g.TileMap == nil || !g.TileMap.Contains(pos) {
			ctx.Respond(fail(errs.ErrReqParam.WithDataMap(map[string]any{"x": pos.X, "y": pos.Y})))
			return
		}
		tile = g.TileMap.Tile(pos)
	}

	unit, err := p.spawner.Place(g, tile)
	if err != nil {
		ctx.Respond(fail(err))
		return
	}
	if unit == nil {
		ctx.Respond(&messages.PlaceBarbarianResp{Placed: false})
		return
	}
	resp := &messages.PlaceBarbarianResp{Placed: true, Unit: unit.Name}
	for _, ua := range g.TileMap.UnitsOf(unit.Owner) {
		if ua.Unit == unit {
			resp.At = messages.TilePos{X: ua.Tile.Position.X, Y: ua.Tile.Position.Y}
			break
		}
	}
	ctx.Respond(resp)
}

func (h *GameHandler) HandleSnapshot(ctx actor.Context, p *GameActor, req *messages.SnapshotReq) {
	if req == nil {
		ctx.Respond(fail(errs.ErrReqParam))
		return
	}
	ctx.Respond(&messages.SnapshotResp{Version: p.dc.Version(), Game: p.entity.Clone()})
}

func (h *GameHandler) HandleSave(ctx actor.Context, p *GameActor, req *messages.SaveReq) {
	if req == nil {
		ctx.Respond(fail(errs.ErrReqParam))
		return
	}
	if err := p.dc.Flush(context.TODO()); err != nil {
		ctx.Respond(fail(err))
		return
	}
	ctx.Respond(&messages.SaveResp{Version: p.dc.Version()})
}

func fail(err error) *messages.FailResp {
	if err == nil {
		err = errors.New("unknown error")
	}
	if e, ok := errs.As(err); ok {
		return &messages.FailResp{Code: e.CodeText(), Message: err.Error()}
	}
	code := errx.CodeInternal
	if errors.Is(err, context.DeadlineExceeded) {
		code = errx.CodeTimeout
	}
	return &messages.FailResp{Code: string(code), Message: err.Error()}
}
