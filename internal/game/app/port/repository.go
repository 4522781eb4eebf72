package port

import (
	"context"

	"Hegemony/internal/game/entity"
)

// GameRepository 读写存档。LoadGame 返回的是刚反序列化的状态，派生数据由加载流水线重建。
// 找不到存档返回 errs.ErrSaveNotFound。
type GameRepository interface {
	LoadGame(ctx context.Context, id string) (*entity.GameInfo, error)
	Save(ctx context.Context, s *entity.GamePersistSnapshot) error
}
