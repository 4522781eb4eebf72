package messages

import "Hegemony/internal/game/entity"

type GameMessage interface {
	GameID() string
}

type GameBaseMessage struct {
	GameId string
}

func (g GameBaseMessage) GameID() string {
	return g.GameId
}

type NextTurnReq struct {
	GameBaseMessage
}

type NextTurnResp struct {
	Turns         int
	CurrentPlayer string
	// Notifications 是当前玩家本回合收到的通知
	Notifications []entity.Notification
}

// PlaceBarbarianReq 的 At 为空时随机选一个没人看得见的格子。
type PlaceBarbarianReq struct {
	GameBaseMessage
	At *TilePos
}

type PlaceBarbarianResp struct {
	Placed bool
	Unit   string
	At     TilePos
}

type SnapshotReq struct {
	GameBaseMessage
}

// SnapshotResp.Game 是独立的深拷贝，持有方可以随意修改。
type SnapshotResp struct {
	Version uint64
	Game    *entity.GameInfo
}

type SaveReq struct {
	GameBaseMessage
}

type SaveResp struct {
	Version uint64
}
