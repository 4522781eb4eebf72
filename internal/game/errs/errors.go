package errs

import "Hegemony/modules/kit/errx"

// Code 表示回合引擎的错误码。
//
// 约定：
// - INVARIANT_VIOLATION / CORRUPT_SAVE_DATA 是系统类错误：整次调用中止，不提交任何修改
// - 没有可刷野蛮人的格子不是错误，不在这里定义
type Code = errx.Code

const (
	CodeInvariantViolation Code = "INVARIANT_VIOLATION"
	CodeCorruptSaveData    Code = "CORRUPT_SAVE_DATA"
	CodeSaveNotFound       Code = "SAVE_NOT_FOUND"
	// CodeUnavailable / CodeReqParam 复用 kit 的统一码。
	CodeUnavailable Code = errx.CodeUnavailable
	CodeReqParam    Code = errx.CodeReqParamError
)

type Error = errx.Error

var (
	ErrInvariantViolation = errx.NewSys(CodeInvariantViolation, "回合不变量被破坏")
	ErrCorruptSaveData    = errx.NewSys(CodeCorruptSaveData, "存档数据损坏")
	ErrSaveNotFound       = errx.NewBiz(CodeSaveNotFound, "存档不存在")
	ErrUnavailable        = errx.ErrUnavailable
	ErrReqParam           = errx.ErrReqParamERR
)

// Invariant 构造带发生处栈的不变量错误。
func Invariant(reason Reason, data map[string]any) *Error {
	return ErrInvariantViolation.WithReason(reason).WithDataMap(data).Capture()
}

// Corrupt 构造存档损坏错误，cause 为具体无法解析的引用。
func Corrupt(step string, cause error) *Error {
	return ErrCorruptSaveData.WithData("step", step).WithCause(cause)
}

// As 取出错误链上的 *Error。
func As(err error) (*Error, bool) {
	return errx.As(err)
}
