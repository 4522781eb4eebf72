package logx

import (
	"context"

	"go.uber.org/zap"
)

// Logger 是引擎各层共用的最小日志接口。
//
// 约束：
// - 只承载结构化字段 + ctx 透传（trace_id/game_id/turn）
// - 领域包只依赖这个接口，测试里用 Nop 替换
type Logger interface {
	Info(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	With(fields ...zap.Field) Logger
	WithContext(ctx context.Context) Logger
}

// Nop 返回什么都不输出的 Logger。
func Nop() Logger {
	return NewZapLogger(nil)
}
