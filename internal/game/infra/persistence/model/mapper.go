package model

import (
	"maps"
	"slices"
	"time"

	"Hegemony/internal/game/entity"
)

// GameStateToDoc 只拷贝持久化字段；视野、城市产出等派生数据不落库。
func GameStateToDoc(s *entity.GamePersistSnapshot) GameDoc {
	g := s.State
	doc := GameDoc{
		GameID:          s.GameID,
		Version:         s.Version,
		SavedAt:         time.Now(),
		Difficulty:      g.Difficulty,
		Turns:           g.Turns,
		OneMoreTurnMode: g.OneMoreTurnMode,
		CurrentPlayer:   g.CurrentPlayer,
		GameParameters: ParametersDoc{
			Difficulty:   g.GameParameters.Difficulty,
			CivNames:     slices.Clone(g.GameParameters.CivNames),
			HumanCiv:     g.GameParameters.HumanCiv,
			MapRadius:    g.GameParameters.MapRadius,
			Seed:         g.GameParameters.Seed,
			BarbarianCiv: g.GameParameters.BarbarianCiv,
		},
	}
	for _, c := range g.Civilizations {
		doc.Civilizations = append(doc.Civilizations, civToDoc(c))
	}
	if g.TileMap != nil {
		doc.TileMap.Radius = g.TileMap.Radius
		for _, t := range g.TileMap.Tiles {
			doc.TileMap.Tiles = append(doc.TileMap.Tiles, TileDoc{
				Position:     t.Position,
				Terrain:      t.Terrain,
				Owner:        t.Owner,
				MilitaryUnit: unitToDoc(t.MilitaryUnit),
				CivilianUnit: unitToDoc(t.CivilianUnit),
			})
		}
	}
	return doc
}

func civToDoc(c *entity.Civilization) CivDoc {
	d := CivDoc{
		Name:          c.Name,
		PlayerType:    string(c.PlayerType),
		Barbarian:     c.Barbarian,
		Difficulty:    c.Difficulty,
		Gold:          c.Gold,
		CitiesCreated: c.CitiesCreated,
	}
	if c.Tech != nil {
		d.Tech = TechDoc{
			Researched: slices.Clone(c.Tech.Researched),
			ToResearch: slices.Clone(c.Tech.ToResearch),
			Progress:   maps.Clone(c.Tech.Progress),
		}
	}
	if len(c.Diplomacy) > 0 {
		d.Diplomacy = make(map[string]string, len(c.Diplomacy))
		for k, v := range c.Diplomacy {
			d.Diplomacy[k] = string(v)
		}
	}
	for _, city := range c.Cities {
		d.Cities = append(d.Cities, CityDoc{
			Name:       city.Name,
			Location:   city.Location,
			Population: city.Population,
			FoodStored: city.FoodStored,
			Built:      slices.Clone(city.Constructions.Built),
			Current:    city.Constructions.Current,
			InProgress: maps.Clone(city.Constructions.Progress),
		})
	}
	for _, n := range c.Notifications {
		nd := NotificationDoc{Text: n.Text, Color: string(n.Color)}
		if n.Location != nil {
			p := *n.Location
			nd.Location = &p
		}
		d.Notifications = append(d.Notifications, nd)
	}
	return d
}

func unitToDoc(u *entity.MapUnit) *UnitDoc {
	if u == nil {
		return nil
	}
	return &UnitDoc{Name: u.Name, Owner: u.Owner, Civilian: u.Civilian, CurrentMovement: u.CurrentMovement}
}

// GameDocToState 还原出“刚反序列化”的状态，缺失字段保持零值，交给加载流水线迁移。
func GameDocToState(doc GameDoc) *entity.GameInfo {
	g := &entity.GameInfo{
		Difficulty:      doc.Difficulty,
		Turns:           doc.Turns,
		OneMoreTurnMode: doc.OneMoreTurnMode,
		CurrentPlayer:   doc.CurrentPlayer,
		GameParameters: entity.GameParameters{
			Difficulty:   doc.GameParameters.Difficulty,
			CivNames:     slices.Clone(doc.GameParameters.CivNames),
			HumanCiv:     doc.GameParameters.HumanCiv,
			MapRadius:    doc.GameParameters.MapRadius,
			Seed:         doc.GameParameters.Seed,
			BarbarianCiv: doc.GameParameters.BarbarianCiv,
		},
	}
	// 没有格子的存档保持 TileMap 为空，由加载流水线报缺地图。
	if len(doc.TileMap.Tiles) > 0 {
		g.TileMap = &entity.TileMap{Radius: doc.TileMap.Radius}
	}
	for _, t := range doc.TileMap.Tiles {
		g.TileMap.Tiles = append(g.TileMap.Tiles, &entity.Tile{
			Position:     t.Position,
			Terrain:      t.Terrain,
			Owner:        t.Owner,
			MilitaryUnit: docToUnit(t.MilitaryUnit),
			CivilianUnit: docToUnit(t.CivilianUnit),
		})
	}
	for _, cd := range doc.Civilizations {
		g.Civilizations = append(g.Civilizations, docToCiv(cd))
	}
	return g
}

func docToCiv(d CivDoc) *entity.Civilization {
	c := &entity.Civilization{
		Name:          d.Name,
		PlayerType:    entity.PlayerType(d.PlayerType),
		Barbarian:     d.Barbarian,
		Difficulty:    d.Difficulty,
		Gold:          d.Gold,
		CitiesCreated: d.CitiesCreated,
		Tech: &entity.TechManager{
			Researched: slices.Clone(d.Tech.Researched),
			ToResearch: slices.Clone(d.Tech.ToResearch),
			Progress:   maps.Clone(d.Tech.Progress),
		},
		Diplomacy:     make(map[string]entity.DiplomacyStatus, len(d.Diplomacy)),
		ViewableTiles: entity.PositionSet{},
	}
	if c.Tech.Progress == nil {
		c.Tech.Progress = map[string]int{}
	}
	for k, v := range d.Diplomacy {
		c.Diplomacy[k] = entity.DiplomacyStatus(v)
	}
	for _, cd := range d.Cities {
		c.Cities = append(c.Cities, &entity.City{
			Name:       cd.Name,
			Location:   cd.Location,
			Population: cd.Population,
			FoodStored: cd.FoodStored,
			Constructions: entity.CityConstructions{
				Built:    slices.Clone(cd.Built),
				Current:  cd.Current,
				Progress: maps.Clone(cd.InProgress),
			},
		})
	}
	for _, n := range d.Notifications {
		var loc *entity.Position
		if n.Location != nil {
			p := *n.Location
			loc = &p
		}
		c.Notifications = append(c.Notifications, entity.Notification{Text: n.Text, Location: loc, Color: entity.Color(n.Color)})
	}
	return c
}

func docToUnit(u *UnitDoc) *entity.MapUnit {
	if u == nil {
		return nil
	}
	return &entity.MapUnit{Name: u.Name, Owner: u.Owner, Civilian: u.Civilian, CurrentMovement: u.CurrentMovement}
}
