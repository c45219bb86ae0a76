package conversation

import "errors"

var (
	ErrInvalidKey = errors.New("conversation key requires tenant and visitor ids")
)
