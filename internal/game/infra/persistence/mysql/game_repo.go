package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/errs"
	"Hegemony/internal/game/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	OpLoadGame = "repo.game.LoadGame"
	OpSaveGame = "repo.game.Save"
)

type GameRepository struct {
	db *gorm.DB
}

func NewGameRepository(db *gorm.DB) *GameRepository {
	return &GameRepository{db: db}
}

// AutoMigrate 建表，启动时调用一次。
func (r *GameRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&model.GameSave{})
}

func (r *GameRepository) WithTx(tx *gorm.DB) *GameRepository {
	return &GameRepository{db: tx}
}

func (r *GameRepository) LoadGame(ctx context.Context, id string) (*entity.GameInfo, error) {
	var m model.GameSave
	err := r.db.WithContext(ctx).Where("game_id = ?", id).First(&m).Error

	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errs.ErrSaveNotFound.WithData("game_id", id)
	default:
		return nil, errs.ErrUnavailable.WithDataMap(map[string]any{"op": OpLoadGame, "game_id": id}).WithCause(err)
	}

	var doc model.GameDoc
	if err := json.Unmarshal(m.Payload, &doc); err != nil {
		return nil, errs.Corrupt("decode", err)
	}
	return model.GameDocToState(doc), nil
}

// Save 在事务里读当前版本，只有更新的快照才写入。
func (r *GameRepository) Save(ctx context.Context, s *entity.GamePersistSnapshot) error {
	if s == nil || s.State == nil {
		return nil
	}
	payload, err := json.Marshal(model.GameStateToDoc(s))
	if err != nil {
		return errs.ErrInvariantViolation.WithData("game_id", s.GameID).WithCause(err)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.GameSave
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("game_id = ?", s.GameID).First(&cur).Error
		switch {
		case err == nil:
			if cur.Version >= s.Version {
				return nil
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}
		return tx.Save(&model.GameSave{
			GameID:    s.GameID,
			Version:   s.Version,
			Turns:     s.State.Turns,
			Payload:   payload,
			UpdatedAt: time.Now(),
		}).Error
	})
	if err != nil {
		return errs.ErrUnavailable.WithDataMap(map[string]any{"op": OpSaveGame, "game_id": s.GameID}).WithCause(err)
	}
	return nil
}
