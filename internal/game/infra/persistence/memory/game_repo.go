package memory

import (
	"context"
	"encoding/json"
	"sync"

	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/errs"
	"Hegemony/internal/game/infra/persistence/model"
)

// GameRepository 把存档 json 放在进程内存里，单机试玩和测试用。
// 和数据库实现走同一份 GameDoc 编解码，加载出来的同样是未重建派生数据的状态。
type GameRepository struct {
	mu    sync.RWMutex
	saves map[string][]byte
	vers  map[string]uint64
}

func NewGameRepository() *GameRepository {
	return &GameRepository{
		saves: make(map[string][]byte),
		vers:  make(map[string]uint64),
	}
}

func (r *GameRepository) LoadGame(ctx context.Context, id string) (*entity.GameInfo, error) {
	_ = ctx
	r.mu.RLock()
	raw, ok := r.saves[id]
	r.mu.RUnlock()
	if !ok {
		return nil, errs.ErrSaveNotFound.WithData("game_id", id)
	}
	return Decode(raw)
}

// Save 同一局只接受更高版本的快照。
func (r *GameRepository) Save(ctx context.Context, s *entity.GamePersistSnapshot) error {
	_ = ctx
	if s == nil || s.State == nil {
		return nil
	}
	raw, err := json.Marshal(model.GameStateToDoc(s))
	if err != nil {
		return errs.ErrInvariantViolation.WithData("game_id", s.GameID).WithCause(err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.vers[s.GameID]; ok && v >= s.Version {
		return nil
	}
	r.saves[s.GameID] = raw
	r.vers[s.GameID] = s.Version
	return nil
}

// Put 直接写入一份原始存档 json，用于导入旧存档。
func (r *GameRepository) Put(id string, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves[id] = append([]byte(nil), raw...)
	delete(r.vers, id)
}

func (r *GameRepository) Version(id string) (uint64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vers[id]
	return v, ok
}

// Decode 把存档 json 解成状态；json 本身坏掉算存档损坏。
func Decode(raw []byte) (*entity.GameInfo, error) {
	var doc model.GameDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, errs.Corrupt("decode", err)
	}
	return model.GameDocToState(doc), nil
}
