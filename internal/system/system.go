// Package system shells out for the two OS-level actions the assistant
// performs: opening a URL in the default browser and nudging the master
// volume.
package system

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Desktop implements the assistant's Launcher and VolumeControl contracts
// against the local desktop environment.
type Desktop struct{}

func (Desktop) OpenURL(target string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", target)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", target)
	default:
		cmd = exec.Command("xdg-open", target)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open %s: %w", target, err)
	}
	// Browsers daemonize themselves; reap the launcher without blocking.
	go cmd.Wait()
	return nil
}

// Volume adjusts the OS master volume. Direction is "up", "down" or "mute".
func (Desktop) Volume(direction string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		switch direction {
		case "up":
			cmd = exec.Command("osascript", "-e", "set volume output volume (output volume of (get volume settings) + 10)")
		case "down":
			cmd = exec.Command("osascript", "-e", "set volume output volume (output volume of (get volume settings) - 10)")
		case "mute":
			cmd = exec.Command("osascript", "-e", "set volume with output muted")
		}
	case "windows":
		key := map[string]string{"up": "175", "down": "174", "mute": "173"}[direction]
		if key != "" {
			cmd = exec.Command("powershell", "-c", "(New-Object -ComObject WScript.Shell).SendKeys([char]"+key+")")
		}
	default:
		switch direction {
		case "up":
			cmd = exec.Command("amixer", "-D", "pulse", "sset", "Master", "10%+")
		case "down":
			cmd = exec.Command("amixer", "-D", "pulse", "sset", "Master", "10%-")
		case "mute":
			cmd = exec.Command("amixer", "-D", "pulse", "sset", "Master", "mute")
		}
	}
	if cmd == nil {
		return fmt.Errorf("unsupported volume direction %q", direction)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("volume %s: %w", direction, err)
	}
	return nil
}
