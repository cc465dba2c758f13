package collect

import (
	"bytes"
	"context"
	"os/exec"
	"time"

	"github.com/rs/zerolog/log"
)

// commandTimeout bounds every external process invocation. A timeout or
// non-zero exit is treated as "no data", never a hard failure.
const commandTimeout = 30 * time.Second

// runCommand executes an external command with the collection timeout and
// returns its stdout. Any failure yields the empty string so callers degrade
// to empty records.
func runCommand(ctx context.Context, name string, args ...string) string {
	cctx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		log.Debug().Err(err).Str("command", name).Msg("collection command failed")
		return ""
	}
	return out.String()
}
