// Package source reads int64 values from external inputs and hands them to an
// Observer.
package source

import (
	"context"
	"strconv"
	"strings"
)

// Observer receives parsed values and parse failures, labelled by source.
type Observer interface {
	Observe(source string, value int64)
	ParseFailure(source string)
}

// Source runs until its input is exhausted or ctx is cancelled.
type Source interface {
	Run(ctx context.Context, obs Observer) error
}

func parseValue(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}
