package entity

import (
	"fmt"

	"Hegemony/internal/shared/gameconfig/ruleset"
)

type PlayerType string

const (
	PlayerAI    PlayerType = "AI"
	PlayerHuman PlayerType = "Human"
)

type DiplomacyStatus string

const (
	DiplomacyPeace DiplomacyStatus = "Peace"
	DiplomacyWar   DiplomacyStatus = "War"
)

type Color string

const (
	ColorRed   Color = "red"
	ColorGreen Color = "green"
	ColorBlue  Color = "blue"
	ColorGold  Color = "gold"
)

type Notification struct {
	Text     string    `json:"text"`
	Location *Position `json:"location,omitempty"`
	Color    Color     `json:"color"`
}

const (
	unitSightRadius = 2
	citySightRadius = 3
)

// Civilization 是一个阵营：人类、AI 或唯一的野蛮人阵营。
// 对其他实体只持有名字/坐标形式的弱引用，需要对局状态的方法显式接收 *GameInfo。
type Civilization struct {
	Name          string                     `json:"civName"`
	PlayerType    PlayerType                 `json:"playerType"`
	Barbarian     bool                       `json:"barbarian,omitempty"`
	Difficulty    string                     `json:"difficulty,omitempty"` // 旧存档字段，已被 GameInfo.Difficulty 取代
	Gold          int                        `json:"gold"`
	CitiesCreated int                        `json:"citiesCreated"`
	Cities        []*City                    `json:"cities"`
	Tech          *TechManager               `json:"tech"`
	Diplomacy     map[string]DiplomacyStatus `json:"diplomacy,omitempty"`
	Notifications []Notification             `json:"notifications,omitempty"`

	// ViewableTiles 每回合开始和加载时重算，不落库
	ViewableTiles PositionSet `json:"-"`
}

func NewCivilization(name string, playerType PlayerType) *Civilization {
	return &Civilization{
		Name:          name,
		PlayerType:    playerType,
		Difficulty:    ruleset.DefaultDifficulty,
		Tech:          NewTechManager(),
		Diplomacy:     map[string]DiplomacyStatus{},
		ViewableTiles: PositionSet{},
	}
}

func (c *Civilization) IsBarbarianCivilization() bool {
	return c.Barbarian
}

func (c *Civilization) IsPlayerCivilization() bool {
	return c.PlayerType == PlayerHuman
}

// IsDefeated：没有城市，并且曾经建过城或者已经没有单位。
func (c *Civilization) IsDefeated(g *GameInfo) bool {
	if len(c.Cities) > 0 {
		return false
	}
	if c.CitiesCreated > 0 {
		return true
	}
	return g.TileMap == nil || len(g.TileMap.UnitsOf(c.Name)) == 0
}

// IsAtWarWith：野蛮人和所有人交战，其余按外交状态。
func (c *Civilization) IsAtWarWith(other *Civilization) bool {
	if other == nil || other.Name == c.Name {
		return false
	}
	if c.Barbarian || other.Barbarian {
		return true
	}
	return c.Diplomacy[other.Name] == DiplomacyWar
}

// DeclareWar 双向设置交战状态。
func (c *Civilization) DeclareWar(other *Civilization) {
	c.setDiplomacy(other.Name, DiplomacyWar)
	other.setDiplomacy(c.Name, DiplomacyWar)
}

func (c *Civilization) MakePeace(other *Civilization) {
	c.setDiplomacy(other.Name, DiplomacyPeace)
	other.setDiplomacy(c.Name, DiplomacyPeace)
}

func (c *Civilization) setDiplomacy(name string, status DiplomacyStatus) {
	if c.Diplomacy == nil {
		c.Diplomacy = map[string]DiplomacyStatus{}
	}
	c.Diplomacy[name] = status
}

func (c *Civilization) AddNotification(text string, location *Position, color Color) {
	var loc *Position
	if location != nil {
		p := *location
		loc = &p
	}
	c.Notifications = append(c.Notifications, Notification{Text: text, Location: loc, Color: color})
}

func (c *Civilization) hasTech(name string) bool {
	return name == "" || (c.Tech != nil && c.Tech.IsResearched(name))
}

// HasBuilding 表示阵营内任一城市已建成 name。
func (c *Civilization) HasBuilding(name string) bool {
	for _, city := range c.Cities {
		if city.Constructions.IsBuilt(name) {
			return true
		}
	}
	return false
}

// UpdateViewableTiles 按己方单位（视野 2）和城市（视野 3）重算可见格。
func (c *Civilization) UpdateViewableTiles(g *GameInfo) {
	seen := PositionSet{}
	if g.TileMap != nil {
		for _, ua := range g.TileMap.UnitsOf(c.Name) {
			for _, t := range g.TileMap.TilesInDistance(ua.Tile.Position, unitSightRadius) {
				seen.Add(t.Position)
			}
		}
		for _, city := range c.Cities {
			for _, t := range g.TileMap.TilesInDistance(city.Location, citySightRadius) {
				seen.Add(t.Position)
			}
		}
	}
	c.ViewableTiles = seen
}

// ViewableTileList 按稳定顺序返回可见格。
func (c *Civilization) ViewableTileList(g *GameInfo) []*Tile {
	out := make([]*Tile, 0, len(c.ViewableTiles))
	for _, p := range c.ViewableTiles.Sorted() {
		if t := g.TileMap.Tile(p); t != nil {
			out = append(out, t)
		}
	}
	return out
}

// StartTurn 单位恢复移动力，刷新视野。
func (c *Civilization) StartTurn(g *GameInfo) {
	rs := g.Ruleset()
	if g.TileMap != nil && rs != nil {
		for _, ua := range g.TileMap.UnitsOf(c.Name) {
			if u, ok := rs.Unit(ua.Unit.Name); ok {
				ua.Unit.CurrentMovement = u.Movement
			}
		}
	}
	c.UpdateViewableTiles(g)
}

// EndTurn 清掉上回合的通知，结算金币、科研和城市生产。
// 城市派生产出不在这里重算：要等所有阵营都结束回合之后统一重算。
func (c *Civilization) EndTurn(g *GameInfo) {
	c.Notifications = nil
	rs := g.Ruleset()
	if rs == nil {
		return
	}

	science := 0
	for _, city := range c.Cities {
		c.Gold += city.Stats.Gold
		science += city.Stats.Science
	}
	if done, ok := c.Tech.AddScience(science, func(name string) int { return g.researchCost(c, name) }); ok {
		c.AddNotification(fmt.Sprintf("Research of [%s] has completed!", done), nil, ColorBlue)
	}

	for _, city := range c.Cities {
		c.endCityTurn(g, rs, city)
	}
}

func (c *Civilization) endCityTurn(g *GameInfo, rs *ruleset.Ruleset, city *City) {
	// 人口增长
	city.FoodStored += city.Stats.Food - 2*city.Population
	switch growAt := 15 + 6*city.Population; {
	case city.FoodStored >= growAt:
		city.FoodStored -= growAt
		city.Population++
		c.AddNotification(fmt.Sprintf("[%s] has grown!", city.Name), &city.Location, ColorGreen)
	case city.FoodStored < 0 && city.Population > 1:
		city.FoodStored = 0
		city.Population--
		c.AddNotification(fmt.Sprintf("[%s] is starving!", city.Name), &city.Location, ColorRed)
	case city.FoodStored < 0:
		city.FoodStored = 0
	}

	current := city.Constructions.Current
	if current == "" {
		city.ChooseNextConstruction(rs, c)
		return
	}
	cost, unit := constructionCost(rs, current)
	if cost == 0 {
		city.Constructions.Current = ""
		city.ChooseNextConstruction(rs, c)
		return
	}
	if city.Constructions.Progress == nil {
		city.Constructions.Progress = map[string]int{}
	}
	city.Constructions.Progress[current] += city.Stats.Production
	if city.Constructions.Progress[current] < cost {
		return
	}

	if unit != nil {
		if g.TileMap == nil || g.TileMap.PlaceUnitNearTile(city.Location, *unit, c.Name) == nil {
			// 周围放不下就留着进度，下回合再试
			return
		}
	} else {
		city.Constructions.Built = append(city.Constructions.Built, current)
	}
	delete(city.Constructions.Progress, current)
	city.Constructions.Current = ""
	c.AddNotification(fmt.Sprintf("[%s] has been built in [%s]", current, city.Name), &city.Location, ColorGold)
	city.ChooseNextConstruction(rs, c)
}

// SetTransients 是加载后的第二遍重建：校验城市坐标、外交对象和科技名，并重算视野。
// 依赖所有阵营与对局的关联已经建立。
func (c *Civilization) SetTransients(g *GameInfo) error {
	if c.Tech == nil {
		c.Tech = NewTechManager()
	}
	if g.TileMap == nil {
		return fmt.Errorf("%w: civilization %s has no map", ErrTileOutOfRange, c.Name)
	}
	for _, city := range c.Cities {
		if !g.TileMap.Contains(city.Location) {
			return fmt.Errorf("%w: city %s at %v", ErrTileOutOfRange, city.Name, city.Location)
		}
	}
	for name := range c.Diplomacy {
		if _, ok := g.Civilization(name); !ok {
			return fmt.Errorf("%w: %s diplomacy with %q", ErrUnknownCivilization, c.Name, name)
		}
	}
	if rs := g.Ruleset(); rs != nil {
		if err := c.Tech.Validate(rs); err != nil {
			return fmt.Errorf("civilization %s: %w", c.Name, err)
		}
	}
	if c.ViewableTiles == nil {
		c.ViewableTiles = PositionSet{}
	}
	c.UpdateViewableTiles(g)
	return nil
}

func (c *Civilization) Clone() *Civilization {
	if c == nil {
		return nil
	}
	out := *c
	out.Tech = c.Tech.Clone()
	if c.Cities != nil {
		out.Cities = make([]*City, len(c.Cities))
		for i, city := range c.Cities {
			out.Cities[i] = city.Clone()
		}
	}
	if c.Diplomacy != nil {
		out.Diplomacy = make(map[string]DiplomacyStatus, len(c.Diplomacy))
		for k, v := range c.Diplomacy {
			out.Diplomacy[k] = v
		}
	}
	if c.Notifications != nil {
		out.Notifications = make([]Notification, len(c.Notifications))
		for i, n := range c.Notifications {
			out.Notifications[i] = n
			if n.Location != nil {
				p := *n.Location
				out.Notifications[i].Location = &p
			}
		}
	}
	out.ViewableTiles = c.ViewableTiles.Clone()
	return &out
}
