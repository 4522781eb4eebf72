// Package tracex 在 context 里透传一次请求（一次回合推进、一次存档加载）的追踪信息。
package tracex

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

type traceIDKey struct{}
type gameIDKey struct{}
type turnKey struct{}

func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

func TraceIDFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(traceIDKey{}).(string)
	return s, ok && s != ""
}

func WithGameID(ctx context.Context, gameID string) context.Context {
	return context.WithValue(ctx, gameIDKey{}, gameID)
}

func GameIDFrom(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(gameIDKey{}).(string)
	return s, ok && s != ""
}

// WithTurn 记录正在推进的回合数（推进前的值）。
func WithTurn(ctx context.Context, turn int) context.Context {
	return context.WithValue(ctx, turnKey{}, turn)
}

func TurnFrom(ctx context.Context) (int, bool) {
	n, ok := ctx.Value(turnKey{}).(int)
	return n, ok
}

// NewTraceID 生成 16 字节随机 trace_id（hex）。
func NewTraceID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return ""
	}
	return hex.EncodeToString(b[:])
}
