// Package diag holds run scoped accumulator for translation side output:
// human readable warnings and references to external icon resources.
package diag

import (
	"fmt"

	"go.uber.org/zap"
)

// Collector accumulates warnings and icons of a single conversion run. It is
// passed by pointer through the translation call tree and must not be shared
// between runs.
type Collector struct {
	log      *zap.Logger
	warnings []string
	icons    []string
	seen     map[string]struct{}
}

// New creates empty collector. Every warning is echoed to log at debug level.
func New(log *zap.Logger) *Collector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Collector{
		log:  log,
		seen: make(map[string]struct{}),
	}
}

// Warn appends formatted warning.
func (c *Collector) Warn(format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	c.warnings = append(c.warnings, msg)
	c.log.Debug("Translation degraded", zap.String("warning", msg))
}

// Warnings returns copy of accumulated warnings in order of appearance.
func (c *Collector) Warnings() []string {
	out := make([]string, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// Count returns number of warnings so far.
func (c *Collector) Count() int {
	return len(c.warnings)
}

// AddIcon registers referenced image path. Duplicates are ignored.
func (c *Collector) AddIcon(path string) {
	if path == "" {
		return
	}
	if _, ok := c.seen[path]; ok {
		return
	}
	c.seen[path] = struct{}{}
	c.icons = append(c.icons, path)
}

// Icons returns registered image paths in first seen order.
func (c *Collector) Icons() []string {
	out := make([]string, len(c.icons))
	copy(out, c.icons)
	return out
}
