package domain

import "errors"

var (
	ErrBadRequest    = errors.New("Введите текст запроса")
	ErrConfiguration = errors.New("server configuration error")
	ErrUpstreamLLM   = errors.New("upstream LLM failure")
	ErrUpstreamImage = errors.New("upstream image failure")
)
