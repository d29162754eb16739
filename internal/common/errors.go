package common

import "errors"

// ErrorNotFound is returned by local repositories when a key is absent.
var ErrorNotFound = errors.New("not found")
