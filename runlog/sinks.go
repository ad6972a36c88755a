package runlog

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Zap returns a Func that writes messages to a zap logger at the matching
// level. Success messages are logged at info level with status=success.
func Zap(logger *zap.Logger) Func {
	return func(message string) {
		level, text := ParseLevel(message)
		switch level {
		case LevelError:
			logger.Error(text)
		case LevelWarning:
			logger.Warn(text)
		case LevelSuccess:
			logger.Info(text, zap.String("status", "success"))
		default:
			logger.Info(text)
		}
	}
}

// Terminal returns a Func that writes one coloured line per message to w:
// red for errors, yellow for warnings and green for successes. Colour is
// dropped when w is not a terminal.
func Terminal(w io.Writer) Func {
	r := lipgloss.NewRenderer(w)
	styles := map[Level]lipgloss.Style{
		LevelInfo:    r.NewStyle(),
		LevelSuccess: r.NewStyle().Foreground(lipgloss.Color("10")),
		LevelWarning: r.NewStyle().Foreground(lipgloss.Color("11")),
		LevelError:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
	var mu sync.Mutex
	return func(message string) {
		level, _ := ParseLevel(message)
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintln(w, styles[level].Render(message))
	}
}
