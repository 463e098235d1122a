//go:build windows

package shutdown

import (
	"os"
	"os/signal"
)

func Notify(ch chan os.Signal) {
	signal.Notify(ch, os.Interrupt)
}

// NotifyReload is a no-op: there is no SIGHUP on Windows, settings
// reload happens through the in-app keys instead.
func NotifyReload(ch chan os.Signal) {}
