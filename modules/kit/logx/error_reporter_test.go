package logx

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"Hegemony/modules/kit/errx"
	"Hegemony/modules/kit/tracex"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBuildErrorLog_能提取语义与栈(t *testing.T) {
	e := errx.NewSys("CORRUPT_SAVE_DATA", "存档损坏").
		WithData("civ", "Rome").
		WithCause(errors.New("unknown tile"))

	meta := BuildErrorLog(e)
	if meta.Error == "" || meta.Code == "" || meta.Msg == "" {
		t.Fatalf("期望 Error/Code/Msg 非空, got=%+v", meta)
	}
	if meta.Data == nil || meta.Data["civ"] != "Rome" {
		t.Fatalf("期望 meta.Data 包含 civ=Rome, got=%v", meta.Data)
	}
	if len(meta.CauseChain) == 0 {
		t.Fatalf("期望 meta.CauseChain 非空")
	}
	if meta.Origin == "" || meta.Stack == "" {
		t.Fatalf("期望 meta.Origin/meta.Stack 非空 origin=%q stack=%q", meta.Origin, meta.Stack)
	}
}

func TestBuildErrorLog_外层fmt包装也能找到栈(t *testing.T) {
	inner := errx.NewSys("INVARIANT_VIOLATION", "x").Capture()
	meta := BuildErrorLog(fmt.Errorf("next turn: %w", inner))
	if meta.Stack == "" {
		t.Fatalf("期望沿 cause 链找到下层栈")
	}
	if meta.Code != "INVARIANT_VIOLATION" {
		t.Fatalf("期望提取到下层错误码, got=%q", meta.Code)
	}
}

func TestReportSysError_带上下文字段(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLogger(zap.New(core))

	ctx := tracex.WithTurn(tracex.WithGameID(context.Background(), "g-1"), 9)
	err := errx.NewSys("INVARIANT_VIOLATION", "当前玩家不存在").Capture()
	ReportSysErrorWithLoggerContext(ctx, l, NewSysLog("next_turn", err))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("期望输出一条日志, got=%d", len(entries))
	}
	got := entries[0]
	if got.Level != zapcore.ErrorLevel {
		t.Fatalf("期望 ERROR 级别, got=%v", got.Level)
	}
	if !strings.HasPrefix(got.Message, "next_turn") {
		t.Fatalf("期望消息以 action 开头, got=%q", got.Message)
	}
	fields := got.ContextMap()
	if fields["game_id"] != "g-1" || fields["turn"] != int64(9) {
		t.Fatalf("期望带上 game_id/turn, got=%v", fields)
	}
	if fields["error_code"] != "INVARIANT_VIOLATION" {
		t.Fatalf("期望带上 error_code, got=%v", fields["error_code"])
	}
}

func TestReportSysError_nil错误不输出(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ReportSysErrorWithLoggerContext(context.Background(), NewZapLogger(zap.New(core)), NewSysLog("x", nil))
	if logs.Len() != 0 {
		t.Fatalf("期望 nil 错误不输出日志, got=%d", logs.Len())
	}
}
