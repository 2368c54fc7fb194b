package textgen

import (
	"errors"
	"fmt"
)

var (
	errMissingKey    = errors.New("textgen API key not configured")
	errEmptyResponse = errors.New("textgen returned no usable text")
)

type errHTTPStatus int

func (e errHTTPStatus) Error() string {
	return fmt.Sprintf("textgen http %d", int(e))
}
