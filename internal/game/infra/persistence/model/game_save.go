package model

import (
	"time"
)

// GameSave 是 mysql 里的存档行，整份 GameDoc 以 json 存在 payload 里。
type GameSave struct {
	GameID    string    `gorm:"column:game_id;type:varchar(64);comment:对局id;primaryKey;not null;" json:"game_id"`
	Version   uint64    `gorm:"column:version;type:bigint UNSIGNED;comment:快照版本;not null;default:0;" json:"version"`
	Turns     int       `gorm:"column:turns;type:int UNSIGNED;comment:回合数;not null;default:0;" json:"turns"`
	Payload   []byte    `gorm:"column:payload;type:longblob;comment:存档json;not null;" json:"payload"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;not null;default:CURRENT_TIMESTAMP;" json:"updated_at"`
}

func (m *GameSave) TableName() string {
	return "game_saves"
}
