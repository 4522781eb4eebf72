package model

import (
	"time"

	"Hegemony/internal/game/entity"
)

// GameDoc 是存档的落库结构，mongodb 直接存文档，mysql/内存存它的 json。
// 旧版本存档可能缺 currentPlayer、playerType，并且 difficulty 存在每个阵营上。
type GameDoc struct {
	GameID          string        `bson:"_id" json:"gameId"`
	Version         uint64        `bson:"version" json:"version"`
	SavedAt         time.Time     `bson:"savedAt" json:"savedAt"`
	Civilizations   []CivDoc      `bson:"civilizations" json:"civilizations"`
	Difficulty      string        `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	TileMap         TileMapDoc    `bson:"tileMap" json:"tileMap"`
	GameParameters  ParametersDoc `bson:"gameParameters" json:"gameParameters"`
	Turns           int           `bson:"turns" json:"turns"`
	OneMoreTurnMode bool          `bson:"oneMoreTurnMode,omitempty" json:"oneMoreTurnMode,omitempty"`
	CurrentPlayer   string        `bson:"currentPlayer,omitempty" json:"currentPlayer,omitempty"`
}

type ParametersDoc struct {
	Difficulty   string   `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	CivNames     []string `bson:"civNames,omitempty" json:"civNames,omitempty"`
	HumanCiv     string   `bson:"humanCiv,omitempty" json:"humanCiv,omitempty"`
	MapRadius    int      `bson:"mapRadius" json:"mapRadius"`
	Seed         int64    `bson:"seed" json:"seed"`
	BarbarianCiv string   `bson:"barbarianCiv,omitempty" json:"barbarianCiv,omitempty"`
}

type CivDoc struct {
	Name          string            `bson:"civName" json:"civName"`
	PlayerType    string            `bson:"playerType,omitempty" json:"playerType,omitempty"`
	Barbarian     bool              `bson:"barbarian,omitempty" json:"barbarian,omitempty"`
	Difficulty    string            `bson:"difficulty,omitempty" json:"difficulty,omitempty"`
	Gold          int               `bson:"gold" json:"gold"`
	CitiesCreated int               `bson:"citiesCreated" json:"citiesCreated"`
	Cities        []CityDoc         `bson:"cities" json:"cities"`
	Tech          TechDoc           `bson:"tech" json:"tech"`
	Diplomacy     map[string]string `bson:"diplomacy,omitempty" json:"diplomacy,omitempty"`
	Notifications []NotificationDoc `bson:"notifications,omitempty" json:"notifications,omitempty"`
}

type CityDoc struct {
	Name       string          `bson:"name" json:"name"`
	Location   entity.Position `bson:"location" json:"location"`
	Population int             `bson:"population" json:"population"`
	FoodStored int             `bson:"foodStored" json:"foodStored"`
	Built      []string        `bson:"builtBuildings,omitempty" json:"builtBuildings,omitempty"`
	Current    string          `bson:"currentConstruction,omitempty" json:"currentConstruction,omitempty"`
	InProgress map[string]int  `bson:"inProgressConstructions,omitempty" json:"inProgressConstructions,omitempty"`
}

type TechDoc struct {
	Researched []string       `bson:"researched,omitempty" json:"researched,omitempty"`
	ToResearch []string       `bson:"toResearch,omitempty" json:"toResearch,omitempty"`
	Progress   map[string]int `bson:"progress,omitempty" json:"progress,omitempty"`
}

type NotificationDoc struct {
	Text     string           `bson:"text" json:"text"`
	Location *entity.Position `bson:"location,omitempty" json:"location,omitempty"`
	Color    string           `bson:"color,omitempty" json:"color,omitempty"`
}

type TileMapDoc struct {
	Radius int       `bson:"radius" json:"radius"`
	Tiles  []TileDoc `bson:"tiles" json:"tiles"`
}

type TileDoc struct {
	Position     entity.Position `bson:"position" json:"position"`
	Terrain      string          `bson:"terrain" json:"terrain"`
	Owner        string          `bson:"owner,omitempty" json:"owner,omitempty"`
	MilitaryUnit *UnitDoc        `bson:"militaryUnit,omitempty" json:"militaryUnit,omitempty"`
	CivilianUnit *UnitDoc        `bson:"civilianUnit,omitempty" json:"civilianUnit,omitempty"`
}

type UnitDoc struct {
	Name            string `bson:"name" json:"name"`
	Owner           string `bson:"owner" json:"owner"`
	Civilian        bool   `bson:"civilian,omitempty" json:"civilian,omitempty"`
	CurrentMovement int    `bson:"currentMovement" json:"currentMovement"`
}
