package service

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"slices"
	"strings"
	"testing"

	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/errs"
	"Hegemony/internal/shared/gameconfig/ruleset"
)

func TestNextTurn_回合数恰好加一(t *testing.T) {
	g := newTestGame(t, 3)
	svc := NewTurnService(nil, nil, &countingPlacer{}, nil)

	for want := 4; want <= 6; want++ {
		if err := svc.NextTurn(context.Background(), g); err != nil {
			t.Fatalf("期望推进成功, err=%v", err)
		}
		if g.Turns != want {
			t.Fatalf("期望 turns=%d, got=%d", want, g.Turns)
		}
	}
	if !g.Dirty() {
		t.Fatalf("期望推进后标记为有未落库修改")
	}
}

func TestNextTurn_回合数是10的倍数时刷一次野蛮人(t *testing.T) {
	cases := []struct {
		turns     int
		wantCalls int
	}{
		{turns: 9, wantCalls: 0},
		{turns: 10, wantCalls: 1},
		{turns: 11, wantCalls: 0},
		{turns: 0, wantCalls: 1},
		{turns: 20, wantCalls: 1},
	}
	for _, tc := range cases {
		g := newTestGame(t, tc.turns)
		placer := &countingPlacer{}
		if err := NewTurnService(nil, nil, placer, nil).NextTurn(context.Background(), g); err != nil {
			t.Fatalf("turns=%d 期望推进成功, err=%v", tc.turns, err)
		}
		if placer.calls != tc.wantCalls {
			t.Fatalf("turns=%d 期望刷新尝试 %d 次, got=%d", tc.turns, tc.wantCalls, placer.calls)
		}
	}
}

func TestNextTurn_连续推进_10到11刷一次_11到12不刷(t *testing.T) {
	g := newTestGame(t, 10)
	placer := &countingPlacer{}
	svc := NewTurnService(nil, nil, placer, nil)

	if err := svc.NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}
	if g.Turns != 11 || placer.calls != 1 {
		t.Fatalf("期望 turns=11 且刷新 1 次, got turns=%d calls=%d", g.Turns, placer.calls)
	}
	if err := svc.NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}
	if g.Turns != 12 || placer.calls != 1 {
		t.Fatalf("期望 turns=12 且没有新的刷新, got turns=%d calls=%d", g.Turns, placer.calls)
	}
}

func TestNextTurn_真实刷新器放在不可见的空格上(t *testing.T) {
	g := newTestGame(t, 10)
	spawner := NewBarbarianSpawner(rand.New(rand.NewSource(7)), nil)
	if err := NewTurnService(nil, nil, spawner, nil).NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}

	units := g.TileMap.UnitsOf(entity.BarbarianCivName)
	if len(units) != 1 {
		t.Fatalf("期望恰好一个野蛮人单位, got=%d", len(units))
	}
	pos := units[0].Tile.Position
	for _, name := range []string{"Rome", "Greece", "Egypt"} {
		if mustCiv(t, g, name).ViewableTiles.Has(pos) {
			t.Fatalf("期望野蛮人不刷在 %s 可见的格子上, pos=%v", name, pos)
		}
	}
	if units[0].Unit.Name != ruleset.BarbarianUnit {
		t.Fatalf("期望刷出默认单位 %s, got=%s", ruleset.BarbarianUnit, units[0].Unit.Name)
	}
}

func TestNextTurn_阶段顺序(t *testing.T) {
	g := newTestGame(t, 1)
	rec := &recorder{}
	svc := NewTurnService(recordingHooks{rec: rec}, recordingAutomation{rec: rec}, &countingPlacer{}, nil)
	if err := svc.NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}

	want := []string{
		"end:Rome", "end:Greece", "end:Egypt", "end:Barbarians",
		"start:Greece", "auto:Greece",
		"start:Egypt", "auto:Egypt",
		"start:Barbarians", "auto:Barbarians",
		"start:Rome",
	}
	if !slices.Equal(rec.events, want) {
		t.Fatalf("期望阶段顺序\n%v\ngot\n%v", want, rec.events)
	}
}

func TestNextTurn_已灭亡的非野蛮人阵营不自动决策(t *testing.T) {
	g := newTestGame(t, 1)
	egypt := mustCiv(t, g, "Egypt")
	egypt.Cities = nil // 建过城但已经没有城市

	rec := &recorder{}
	svc := NewTurnService(recordingHooks{rec: rec}, recordingAutomation{rec: rec}, &countingPlacer{}, nil)
	if err := svc.NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}
	if slices.Contains(rec.events, "auto:Egypt") || slices.Contains(rec.events, "start:Egypt") {
		t.Fatalf("期望已灭亡的 Egypt 被跳过, events=%v", rec.events)
	}
	if !slices.Contains(rec.events, "auto:Barbarians") {
		t.Fatalf("期望野蛮人即使没有城市也照常自动决策, events=%v", rec.events)
	}
}

// 在自动决策里灭掉下一个阵营，不影响本回合已经确定的名单。
type killingAutomation struct {
	rec    *recorder
	victim string
}

func (a killingAutomation) AutomateCivMoves(g *entity.GameInfo, civ *entity.Civilization) {
	a.rec.events = append(a.rec.events, "auto:"+civ.Name)
	if victim, ok := g.Civilization(a.victim); ok && civ.Name != a.victim {
		victim.Cities = nil
	}
}

func TestNextTurn_自动决策名单在阶段开始前确定(t *testing.T) {
	g := newTestGame(t, 1)
	rec := &recorder{}
	svc := NewTurnService(nil, killingAutomation{rec: rec, victim: "Egypt"}, &countingPlacer{}, nil)
	if err := svc.NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}
	if !slices.Contains(rec.events, "auto:Egypt") {
		t.Fatalf("期望 Egypt 仍在本回合名单里, events=%v", rec.events)
	}
}

// 回合结算时丢掉最后一座城。
type defeatingHooks struct {
	recordingHooks
	victim string
}

func (h defeatingHooks) EndTurn(g *entity.GameInfo, civ *entity.Civilization) {
	h.recordingHooks.EndTurn(g, civ)
	if civ.Name == h.victim {
		civ.Cities = nil
	}
}

func TestNextTurn_回合结算中灭亡的阵营本回合不再自动决策(t *testing.T) {
	g := newTestGame(t, 1)
	rec := &recorder{}
	hooks := defeatingHooks{recordingHooks: recordingHooks{rec: rec}, victim: "Egypt"}
	svc := NewTurnService(hooks, recordingAutomation{rec: rec}, &countingPlacer{}, nil)
	if err := svc.NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}
	if !slices.Contains(rec.events, "end:Egypt") {
		t.Fatalf("期望 Egypt 照常结算, events=%v", rec.events)
	}
	if slices.Contains(rec.events, "auto:Egypt") || slices.Contains(rec.events, "start:Egypt") {
		t.Fatalf("期望按结算后的状态判定灭亡, events=%v", rec.events)
	}
}

func TestNextTurn_研究队列为空时选最便宜的科技(t *testing.T) {
	g := newTestGame(t, 1)
	rome := mustCiv(t, g, "Rome")
	greece := mustCiv(t, g, "Greece")
	// Pottery / Animal Husbandry / Archery / Mining 同价，按规则表顺序取 Pottery
	greece.Tech.Researched = []string{"Agriculture"}

	if err := NewTurnService(nil, nil, &countingPlacer{}, nil).NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}
	if got, _ := rome.Tech.CurrentResearch(); got != "Agriculture" {
		t.Fatalf("期望 Rome 入队 Agriculture, got=%q", got)
	}
	if got, _ := greece.Tech.CurrentResearch(); got != "Pottery" {
		t.Fatalf("期望同价时按规则表顺序选 Pottery, got=%q", got)
	}
}

func TestNextTurn_全部科技研究完时不入队(t *testing.T) {
	g := newTestGame(t, 1)
	rome := mustCiv(t, g, "Rome")
	for _, tech := range g.Ruleset().Technologies {
		rome.Tech.Researched = append(rome.Tech.Researched, tech.Name)
	}
	if err := NewTurnService(nil, nil, &countingPlacer{}, nil).NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望没有可研究科技时照常推进, err=%v", err)
	}
	if len(rome.Tech.ToResearch) != 0 {
		t.Fatalf("期望队列保持为空, got=%v", rome.Tech.ToResearch)
	}
}

func TestNextTurn_敌方单位在己方领土内发in通知(t *testing.T) {
	g := newTestGame(t, 1)
	rome := mustCiv(t, g, "Rome")
	greece := mustCiv(t, g, "Greece")
	rome.DeclareWar(greece)

	inside := g.TileMap.Tile(entity.Position{X: -2, Y: 0})
	if inside.Owner != "Rome" {
		t.Fatalf("测试前提：(-2,0) 属于 Rome, got=%q", inside.Owner)
	}
	inside.MilitaryUnit = &entity.MapUnit{Name: "Warrior", Owner: "Greece", CurrentMovement: 2}

	if err := NewTurnService(nil, nil, &countingPlacer{}, nil).NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}
	got := spottedNotifications(rome)
	if len(got) != 1 {
		t.Fatalf("期望恰好一条敌军通知, got=%v", got)
	}
	if got[0].Text != "An enemy [Warrior] was spotted in our territory" {
		t.Fatalf("期望 in 通知, got=%q", got[0].Text)
	}
	if got[0].Location == nil || *got[0].Location != inside.Position || got[0].Color != entity.ColorRed {
		t.Fatalf("期望通知指向 %v 且为红色, got=%+v", inside.Position, got[0])
	}
}

func TestNextTurn_敌方单位在领土旁边发near通知_和平阵营不发(t *testing.T) {
	g := newTestGame(t, 1)
	rome := mustCiv(t, g, "Rome")
	rome.DeclareWar(mustCiv(t, g, "Greece"))

	near := g.TileMap.Tile(entity.Position{X: -1, Y: 0})
	if near.Owner != "" {
		t.Fatalf("测试前提：(-1,0) 无主, got=%q", near.Owner)
	}
	near.MilitaryUnit = &entity.MapUnit{Name: "Archer", Owner: "Greece"}
	// Egypt 与 Rome 和平，不算敌军
	g.TileMap.Tile(entity.Position{X: -3, Y: 1}).MilitaryUnit = &entity.MapUnit{Name: "Warrior", Owner: "Egypt"}
	// 平民单位不算
	g.TileMap.Tile(entity.Position{X: -3, Y: -1}).CivilianUnit = &entity.MapUnit{Name: "Worker", Owner: "Greece", Civilian: true}

	if err := NewTurnService(nil, nil, &countingPlacer{}, nil).NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}
	got := spottedNotifications(rome)
	if len(got) != 1 || got[0].Text != "An enemy [Archer] was spotted near our territory" {
		t.Fatalf("期望恰好一条 near 通知, got=%v", got)
	}
}

func spottedNotifications(civ *entity.Civilization) []entity.Notification {
	var out []entity.Notification
	for _, n := range civ.Notifications {
		if strings.HasPrefix(n.Text, "An enemy") {
			out = append(out, n)
		}
	}
	return out
}

func TestNextTurn_前置条件失败时不修改状态(t *testing.T) {
	cases := []struct {
		name       string
		mutate     func(g *entity.GameInfo)
		wantReason string
	}{
		{
			name:       "当前玩家无法解析",
			mutate:     func(g *entity.GameInfo) { g.CurrentPlayer = "Atlantis" },
			wantReason: errs.ReasonCurrentPlayerMissing.Code,
		},
		{
			name: "城市里有未知建筑",
			mutate: func(g *entity.GameInfo) {
				city := g.Civilizations[1].Cities[0]
				city.Constructions.Built = append(city.Constructions.Built, "Hydro Plant")
			},
			wantReason: errs.ReasonUnknownBuilding.Code,
		},
		{
			name:       "需要刷野蛮人但没有野蛮人阵营",
			mutate:     func(g *entity.GameInfo) { g.Turns = 10; g.Civilizations[3].Barbarian = false },
			wantReason: errs.ReasonBarbarianMissing.Code,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGame(t, 1)
			tc.mutate(g)
			before := g.Clone()
			placer := &countingPlacer{}

			err := NewTurnService(nil, nil, placer, nil).NextTurn(context.Background(), g)
			if !errors.Is(err, errs.ErrInvariantViolation) {
				t.Fatalf("期望 INVARIANT_VIOLATION, got=%v", err)
			}
			if e, ok := errs.As(err); !ok || e.Reason() != tc.wantReason {
				t.Fatalf("期望 reason=%s, got=%v", tc.wantReason, err)
			}
			if !reflect.DeepEqual(before, g) {
				t.Fatalf("期望失败时状态保持原样")
			}
			if placer.calls != 0 {
				t.Fatalf("期望失败时不尝试刷新")
			}
		})
	}
}

func TestNextTurn_科技表为空且队列为空时报不变量错误(t *testing.T) {
	rs := &ruleset.Ruleset{Units: []ruleset.Unit{{Name: "Warrior", Cost: 40, Movement: 2}}}
	if err := rs.Index(); err != nil {
		t.Fatalf("期望空科技表也能建索引, err=%v", err)
	}
	g := newSave()
	g.Turns = 1
	if err := NewRehydrator(rs, nil).Run(context.Background(), g); err != nil {
		t.Fatalf("期望加载成功, err=%v", err)
	}
	before := g.Clone()

	err := NewTurnService(nil, nil, &countingPlacer{}, nil).NextTurn(context.Background(), g)
	if !errors.Is(err, errs.ErrInvariantViolation) {
		t.Fatalf("期望 INVARIANT_VIOLATION, got=%v", err)
	}
	if e, _ := errs.As(err); e.Reason() != errs.ReasonTechCatalogEmpty.Code {
		t.Fatalf("期望 reason=%s, got=%s", errs.ReasonTechCatalogEmpty.Code, e.Reason())
	}
	if !reflect.DeepEqual(before, g) {
		t.Fatalf("期望失败时状态保持原样")
	}
}

func TestNextTurn_奇观加成在所有阵营结束回合后对兄弟城市生效(t *testing.T) {
	g := newTestGame(t, 1)
	rome := mustCiv(t, g, "Rome")
	second := &entity.City{Name: "Antium", Location: entity.Position{X: -4, Y: -2}, Population: 1}
	rome.Cities = append(rome.Cities, second)

	capital := rome.Cities[0]
	capital.Constructions.Current = "Great Library"
	capital.Constructions.Progress = map[string]int{"Great Library": 10_000}
	rome.Tech.Researched = []string{"Agriculture", "Pottery", "Writing"}

	if err := NewTurnService(nil, nil, &countingPlacer{}, nil).NextTurn(context.Background(), g); err != nil {
		t.Fatalf("期望推进成功, err=%v", err)
	}
	if !capital.Constructions.IsBuilt("Great Library") {
		t.Fatalf("期望奇观在回合结束时建成, built=%v", capital.Constructions.Built)
	}
	// 人口 1 的基础科研是 1，奇观给全阵营每座城 +1
	if second.Stats.Science != 2 {
		t.Fatalf("期望兄弟城市拿到奇观加成 science=2, got=%d", second.Stats.Science)
	}
}
