package tracex

import (
	"context"
	"testing"
)

func TestTraceID_RoundTrip(t *testing.T) {
	ctx := WithTraceID(context.Background(), "t-1")
	if got, ok := TraceIDFrom(ctx); !ok || got != "t-1" {
		t.Fatalf("期望 TraceIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
	if _, ok := TraceIDFrom(context.Background()); ok {
		t.Fatalf("期望空 context 取不到 trace_id")
	}
}

func TestGameIDAndTurn_RoundTrip(t *testing.T) {
	ctx := WithTurn(WithGameID(context.Background(), "g-1"), 0)
	if got, ok := GameIDFrom(ctx); !ok || got != "g-1" {
		t.Fatalf("期望 GameIDFrom round-trip 成功，got=%q ok=%v", got, ok)
	}
	if got, ok := TurnFrom(ctx); !ok || got != 0 {
		t.Fatalf("期望第 0 回合也能取到，got=%d ok=%v", got, ok)
	}
}

func TestNewTraceID_长度(t *testing.T) {
	if got := NewTraceID(); len(got) != 32 {
		t.Fatalf("期望 32 位 hex trace_id, got=%q", got)
	}
}
