package actors

import (
	"reflect"

	"Hegemony/internal/game/errs"
	"Hegemony/internal/shared/actor/messages"

	"github.com/asynkron/protoactor-go/actor"
)

type Dispatcher struct {
	handlers map[reflect.Type]Handler
}

type Handler struct {
	fn      reflect.Value
	reqType reflect.Type
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		handlers: make(map[reflect.Type]Handler),
	}
	d.registerAll()
	return d
}

func (d *Dispatcher) registerAll() {
	register(d, GH.HandleNextTurn)
	register(d, GH.HandlePlaceBarbarian)
	register(d, GH.HandleSnapshot)
	register(d, GH.HandleSave)
}

func register[Req any](
	d *Dispatcher,
	fn func(ctx actor.Context, p *GameActor, req Req),
) {
	reqType := reflect.TypeOf((*Req)(nil)).Elem()
	if reqType == nil {
		panic("dispatcher req type cannot be nil")
	}

	d.handlers[reqType] = Handler{
		fn:      reflect.ValueOf(fn),
		reqType: reqType,
	}
}

func (d *Dispatcher) Dispatch(ctx actor.Context, p *GameActor, req messages.GameMessage) {
	if req == nil {
		ctx.Respond(fail(errs.ErrReqParam.WithData("reason", "nil req")))
		return
	}

	bodyType := reflect.TypeOf(req)
	handler, ok := d.handlers[bodyType]
	if !ok {
		ctx.Respond(fail(errs.ErrReqParam.WithData("reason", "no handler for "+bodyType.String())))
		return
	}

	handler.fn.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(p),
		reflect.ValueOf(req),
	})
}
