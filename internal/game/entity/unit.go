package entity

// MapUnit 是地图上的一个单位。Owner 是阵营名（弱引用）。
type MapUnit struct {
	Name            string `json:"name"`
	Owner           string `json:"owner"`
	Civilian        bool   `json:"civilian"`
	CurrentMovement int    `json:"currentMovement"`
}

func (u *MapUnit) Clone() *MapUnit {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
