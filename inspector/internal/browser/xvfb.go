// CLAUDE:SUMMARY Runs the Xvfb virtual display behind headful inspection and waits for its X socket.
package browser

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

const (
	xvfbScreen  = "1920x1080x24"
	xvfbReady   = 3 * time.Second
	xvfbPollGap = 50 * time.Millisecond
)

// displaySocket maps ":99" to the X11 unix socket path for that display.
func displaySocket(display string) string {
	n := strings.TrimPrefix(display, ":")
	if i := strings.IndexByte(n, '.'); i >= 0 {
		n = n[:i]
	}
	return "/tmp/.X11-unix/X" + n
}

// startXvfb brings up the display used by headful sessions. It returns once
// the display socket exists or the readiness window elapses.
func (m *Manager) startXvfb() error {
	if m.xvfb != nil {
		return nil
	}
	display := m.cfg.XvfbDisplay
	proc := exec.Command("Xvfb", display, "-screen", "0", xvfbScreen, "-ac", "-nolisten", "tcp")
	if err := proc.Start(); err != nil {
		return fmt.Errorf("start xvfb on %s: %w", display, err)
	}
	m.xvfb = proc

	sock := displaySocket(display)
	deadline := time.Now().Add(xvfbReady)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(sock); err == nil {
			break
		}
		time.Sleep(xvfbPollGap)
	}

	m.cfg.Logger.Info("browser: display up", "display", display, "pid", proc.Process.Pid)
	return nil
}

// stopXvfb kills the display if this manager started one.
func (m *Manager) stopXvfb() {
	proc := m.xvfb
	m.xvfb = nil
	if proc == nil || proc.Process == nil {
		return
	}
	_ = proc.Process.Kill()
	_ = proc.Wait()
	m.cfg.Logger.Info("browser: display down", "display", m.cfg.XvfbDisplay)
}
