package output

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/ethanhanderson/church-presenter-sub001/internal/livesync"
)

// IntentSender relays operator intent upstream.
type IntentSender interface {
	SendIntent(livesync.EventType) error
}

// ReadKeyboard is the redundant local control surface on an output: raw
// keyboard input from the display host, relayed upstream as intent commands,
// never applied as local state. Runs until the reader or context ends.
func ReadKeyboard(ctx context.Context, r io.Reader, sender IntentSender, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		var intent livesync.EventType
		switch strings.TrimSpace(strings.ToLower(scanner.Text())) {
		case "", "n", "j", "right", "space", "pagedown":
			intent = livesync.EventAdvance
		case "p", "k", "left", "pageup":
			intent = livesync.EventRetreat
		default:
			continue
		}
		if err := sender.SendIntent(intent); err != nil {
			logger.Warn("intent relay failed", "intent", intent, "err", err)
		}
	}
}
