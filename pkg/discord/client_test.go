package discord

import (
	"fmt"
	"testing"

	volleyerr "github.com/VolleyStudios/VolleyBotGo/pkg/errors"
)

// dispatchedContext builds a command interaction context whose initial
// response is already consumed, so dispatch paths that would talk to
// Discord stay local.
func dispatchedContext(t *testing.T, c *ExtendedClient, name string) *CommandContext {
	t.Helper()

	ctx := contextWithOptions(t, name, nil)
	ctx.Client = c
	ctx.markResponded()
	return ctx
}

// TestHandleCommandCountsFailures verifies that failing and panicking
// handlers feed the shared error counter that drives the shutdown guard
func TestHandleCommandCountsFailures(t *testing.T) {
	h := volleyerr.Init("", nil)

	c := &ExtendedClient{Commands: NewCommandCollection()}
	c.Commands.Set("fallar", NewCommand("fallar", "Siempre falla", "test", func(ctx *CommandContext) error {
		return fmt.Errorf("sin conexión")
	}))
	c.Commands.Set("explotar", NewCommand("explotar", "Siempre entra en pánico", "test", func(ctx *CommandContext) error {
		panic("sin memoria")
	}))

	before := h.ErrorCount()

	c.handleCommand(dispatchedContext(t, c, "fallar"))
	if got := h.ErrorCount(); got != before+1 {
		t.Errorf("after failing command: ErrorCount() = %d, want %d", got, before+1)
	}

	c.handleCommand(dispatchedContext(t, c, "explotar"))
	if got := h.ErrorCount(); got != before+2 {
		t.Errorf("after panicking command: ErrorCount() = %d, want %d", got, before+2)
	}
}
