package hooking

import (
	"fmt"
	"log"
)

// A LogHook writes one line per hook invocation.
type LogHook struct {
	*log.Logger

	positions map[*HookPos]bool
}

// NewLogHook creates a LogHook that writes to logger. If positions are given,
// only invocations at those positions are logged.
func NewLogHook(logger *log.Logger, positions ...*HookPos) *LogHook {
	h := &LogHook{
		Logger:    logger,
		positions: make(map[*HookPos]bool),
	}

	for _, p := range positions {
		h.positions[p] = true
	}

	return h
}

// Func logs the position and the item of the invocation.
func (h *LogHook) Func(ctx HookCtx) {
	if len(h.positions) > 0 && !h.positions[ctx.Pos] {
		return
	}

	line := fmt.Sprintf("%s: %+v", ctx.Pos.Name, ctx.Item)
	if ctx.Detail != nil {
		line += fmt.Sprintf(" (%+v)", ctx.Detail)
	}

	h.Println(line)
}
