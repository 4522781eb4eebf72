package messages

// FailResp 是所有请求共用的失败应答。Code 取自 errx 错误码。
type FailResp struct {
	Code    string
	Message string
}

func (f *FailResp) Error() string {
	if f == nil {
		return "<nil>"
	}
	return f.Code + ": " + f.Message
}

type TilePos struct {
	X, Y int
}
