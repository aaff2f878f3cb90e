package service

import (
	"errors"

	"watchparty/internal/db"
)

// handler 通过 errors.Is 把这些错误映射成 HTTP 状态码。
var (
	ErrAuthRequired = errors.New("authentication required")
	ErrValidation   = errors.New("validation failed")
	ErrStorage      = db.ErrStorage
)
