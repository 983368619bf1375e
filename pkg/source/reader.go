package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/phuslu/log"
)

// LineSource reads one value per line. Blank lines are skipped.
type LineSource struct {
	name string
	r    io.Reader
}

func NewLineSource(name string, r io.Reader) *LineSource {
	return &LineSource{name: name, r: r}
}

func (s *LineSource) Run(ctx context.Context, obs Observer) error {
	scanner := bufio.NewScanner(s.r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		value, err := parseValue(line)
		if err != nil {
			log.Debug().Err(err).Str("source", s.name).Msg("skipping unparsable line")
			obs.ParseFailure(s.name)
			continue
		}
		obs.Observe(s.name, value)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", s.name, err)
	}
	return nil
}
