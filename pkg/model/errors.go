package model

import "errors"

var (
	ErrDuplicateNode = errors.New("duplicate node name")
	ErrInvalidEdge   = errors.New("invalid edge")
)
