package entity

import (
	"errors"
)

// 引用无法解析时返回的错误，由上层包装成 CORRUPT_SAVE_DATA / INVARIANT_VIOLATION。
var (
	ErrUnknownCivilization   = errors.New("unknown civilization")
	ErrDuplicateCivilization = errors.New("duplicate civilization")
	ErrTileOutOfRange        = errors.New("tile out of range")
	ErrDuplicateTile         = errors.New("duplicate tile")
	ErrUnknownBuilding       = errors.New("unknown building")
	ErrUnknownTechnology     = errors.New("unknown technology")
	ErrUnknownUnit           = errors.New("unknown unit")
	ErrRulesetMissing        = errors.New("ruleset not attached")
	ErrMapMissing            = errors.New("map missing")
)
