package message

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// RunScript applies one message per line of r. Blank lines and lines
// starting with # are skipped. A line that fails to parse or apply is
// logged and skipped, leaving the previous configuration in force.
// It returns the number of messages applied.
func RunScript(r io.Reader, t Target) (int, error) {
	sc := bufio.NewScanner(r)
	applied := 0
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m, err := Parse(line)
		if err != nil {
			slog.Warn("rejected message", "line", lineNo, "error", err)
			continue
		}
		if err := m.Apply(t); err != nil {
			slog.Warn("message not applied", "line", lineNo, "message", m.Name, "error", err)
			continue
		}
		applied++
	}
	if err := sc.Err(); err != nil {
		return applied, fmt.Errorf("reading script: %w", err)
	}
	return applied, nil
}
