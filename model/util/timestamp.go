package model

import (
	"time"
)

func init() {
	time.Local = time.UTC
}

var (
	NEW_LONG_TIMESTAMP = func() string { return time.Now().UTC().Format(time.RFC3339) }
)
