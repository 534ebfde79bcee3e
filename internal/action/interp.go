package action

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"deckswitch/internal/platform"
)

// Run executes tree's commands strictly in order against exec. A failing
// command is logged and does not stop the remaining commands; whatever
// side effects already happened stay in place. Run returns early only
// when ctx is cancelled.
func Run(ctx context.Context, tree Tree, exec platform.Executor) {
	for i, cmd := range tree {
		if ctx.Err() != nil {
			return
		}
		if err := runCommand(ctx, cmd, exec); err != nil {
			log.Printf("Action: step %d (%s) failed: %v", i, cmd.Type, err)
		}
	}
}

func runCommand(ctx context.Context, cmd Command, exec platform.Executor) error {
	switch cmd.Type {
	case KindHotkey:
		return exec.SendHotkey(ctx, cmd.Value)
	case KindText:
		return exec.TypeText(ctx, cmd.Value)
	case KindURL, KindRun:
		return exec.Open(ctx, cmd.Value)
	case KindDelay:
		return sleep(ctx, cmd.Value)
	default:
		log.Printf("Action: unknown command type %q ignored", cmd.Type)
		return nil
	}
}

func sleep(ctx context.Context, value string) error {
	ms, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || ms <= 0 {
		// A malformed delay is a no-op step, not an error.
		return nil
	}
	select {
	case <-time.After(time.Duration(ms) * time.Millisecond):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
