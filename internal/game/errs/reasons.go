package errs

type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

var (
	ReasonCurrentPlayerMissing = NewReason("CURRENT_PLAYER_MISSING", "当前玩家无法解析")
	ReasonTechCatalogEmpty     = NewReason("TECH_CATALOG_EMPTY", "科技表为空但有阵营没有研究队列")
	ReasonBarbarianMissing     = NewReason("BARBARIAN_MISSING", "野蛮人阵营不存在或不唯一")
	ReasonUnknownBuilding      = NewReason("UNKNOWN_BUILDING", "城市建筑不在规则表中")
	ReasonMapMissing           = NewReason("MAP_MISSING", "地图为空")
)
