package mongodb

import (
	"context"
	"errors"

	"Hegemony/internal/game/entity"
	"Hegemony/internal/game/errs"
	"Hegemony/internal/game/infra/persistence/model"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultCollectionName = "game"

const (
	OpLoadGame = "repo.game.LoadGame"
	OpSaveGame = "repo.game.Save"
)

type GameRepository struct {
	coll *mongo.Collection
}

func NewGameRepository(db *mongo.Database, collection string) *GameRepository {
	if db == nil {
		return &GameRepository{}
	}
	if collection == "" {
		collection = defaultCollectionName
	}
	return &GameRepository{coll: db.Collection(collection)}
}

func (r *GameRepository) LoadGame(ctx context.Context, id string) (*entity.GameInfo, error) {
	if r == nil || r.coll == nil {
		return nil, errs.ErrUnavailable.WithData("op", OpLoadGame).WithCause(errors.New("mongodb game collection is nil"))
	}

	var doc model.GameDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	switch {
	case err == nil:
		return model.GameDocToState(doc), nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, errs.ErrSaveNotFound.WithData("game_id", id)
	default:
		return nil, errs.ErrUnavailable.WithDataMap(map[string]any{"op": OpLoadGame, "game_id": id}).WithCause(err)
	}
}

// Save 按 _id 整体替换；filter 带上版本条件，旧快照不会覆盖新快照。
func (r *GameRepository) Save(ctx context.Context, s *entity.GamePersistSnapshot) error {
	if s == nil || s.State == nil {
		return nil
	}
	if r == nil || r.coll == nil {
		return errs.ErrUnavailable.WithData("op", OpSaveGame).WithCause(errors.New("mongodb game collection is nil"))
	}

	doc := model.GameStateToDoc(s)
	_, err := r.coll.ReplaceOne(
		ctx,
		bson.M{"_id": doc.GameID, "version": bson.M{"$lt": doc.Version}},
		doc,
		options.Replace().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		// 库里已经是更新的版本：过滤条件没命中，upsert 撞了主键
		return nil
	}
	if err != nil {
		return errs.ErrUnavailable.WithDataMap(map[string]any{"op": OpSaveGame, "game_id": doc.GameID}).WithCause(err)
	}
	return nil
}
