package watcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
)

// Notifier delivers alerts. Every alert is written to Out; with Desktop set
// it is also raised as a desktop notification where the platform has one.
type Notifier struct {
	Out     io.Writer
	Desktop bool
}

// Notify delivers one alert.
func (n Notifier) Notify(alert Alert) error {
	out := n.Out
	if out == nil {
		out = os.Stderr
	}
	if _, err := fmt.Fprintln(out, FormatAlert(alert)); err != nil {
		return err
	}
	if !n.Desktop {
		return nil
	}
	switch runtime.GOOS {
	case "darwin":
		return notifyMacOS(alert)
	case "linux":
		return notifyLinux(alert)
	default:
		return nil
	}
}

// FormatAlert renders an alert as one terminal line.
func FormatAlert(alert Alert) string {
	ts := ""
	if !alert.Time.IsZero() {
		ts = alert.Time.Format("15:04:05") + " "
	}
	return fmt.Sprintf("%s[%s] %s: %s", ts, alert.Level, alert.Title, alert.Message)
}

func notifyMacOS(alert Alert) error {
	script := fmt.Sprintf(
		`display notification %q with title "usermanual" subtitle %q`,
		alert.Message, alert.Title,
	)
	return exec.Command("osascript", "-e", script).Run()
}

// notifyLinux is a no-op when notify-send is not installed.
func notifyLinux(alert Alert) error {
	if _, err := exec.LookPath("notify-send"); err != nil {
		return nil
	}
	urgency := "normal"
	if alert.Level == "critical" {
		urgency = "critical"
	}
	return exec.Command("notify-send", "-u", urgency, "usermanual: "+alert.Title, alert.Message).Run()
}
