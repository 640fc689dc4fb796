// Package sink persists generated leads.
package sink

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// Sink appends leads to a persistent destination. AppendRows succeeds only
// when every lead was written.
type Sink interface {
	Name() string
	AppendRows(ctx context.Context, leads []model.Lead) error
}

// Nop discards leads. It reports every write as failed so callers never
// claim persistence that did not happen.
type Nop struct{}

// ErrNotConfigured is returned by Nop.
var ErrNotConfigured = eris.New("sink: not configured")

// Name implements Sink.
func (Nop) Name() string { return "none" }

// AppendRows implements Sink.
func (Nop) AppendRows(context.Context, []model.Lead) error { return ErrNotConfigured }

// Multi writes to several sinks and fails if any of them fails.
type Multi []Sink

// Name implements Sink.
func (m Multi) Name() string {
	name := "multi("
	for i, s := range m {
		if i > 0 {
			name += ","
		}
		name += s.Name()
	}
	return name + ")"
}

// AppendRows implements Sink. Every sink is attempted.
func (m Multi) AppendRows(ctx context.Context, leads []model.Lead) error {
	var errs []error
	for _, s := range m {
		if err := s.AppendRows(ctx, leads); err != nil {
			errs = append(errs, eris.Wrapf(err, "sink %s", s.Name()))
		}
	}
	return errors.Join(errs...)
}

// Clearer is a sink whose stored leads can be removed.
type Clearer interface {
	Clear(ctx context.Context) error
}

// Lister is a sink that can read back stored leads.
type Lister interface {
	List(ctx context.Context, limit int) ([]model.Lead, error)
}

// ErrUnsupported is returned when no configured sink supports an operation.
var ErrUnsupported = eris.New("sink: operation not supported")

// members flattens nested Multi sinks.
func members(s Sink) []Sink {
	m, ok := s.(Multi)
	if !ok {
		return []Sink{s}
	}
	var out []Sink
	for _, inner := range m {
		out = append(out, members(inner)...)
	}
	return out
}

// Clear clears every sink in s that supports it and returns the names of the
// cleared sinks. Sinks without Clear are skipped.
func Clear(ctx context.Context, s Sink) ([]string, error) {
	var cleared []string
	for _, m := range members(s) {
		c, ok := m.(Clearer)
		if !ok {
			continue
		}
		if err := c.Clear(ctx); err != nil {
			return cleared, eris.Wrapf(err, "sink %s: clear", m.Name())
		}
		cleared = append(cleared, m.Name())
	}
	if len(cleared) == 0 {
		return nil, eris.Wrapf(ErrUnsupported, "clear on %s", s.Name())
	}
	return cleared, nil
}

// List reads up to limit leads from the first sink in s that supports it.
func List(ctx context.Context, s Sink, limit int) ([]model.Lead, error) {
	for _, m := range members(s) {
		if l, ok := m.(Lister); ok {
			leads, err := l.List(ctx, limit)
			return leads, eris.Wrapf(err, "sink %s: list", m.Name())
		}
	}
	return nil, eris.Wrapf(ErrUnsupported, "list on %s", s.Name())
}
