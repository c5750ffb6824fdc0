package daemon

import (
	"time"

	sd "github.com/coreos/go-systemd/v22/daemon"
)

// States sent to the service manager.
const (
	StateReady    = sd.SdNotifyReady
	StateStopping = sd.SdNotifyStopping
	StateWatchdog = sd.SdNotifyWatchdog
)

// Notifier reports lifecycle state to a service manager.
type Notifier interface {
	// Notify sends state. It returns false, nil when no manager listens.
	Notify(state string) (bool, error)
	// WatchdogInterval returns the liveness interval the manager expects,
	// or zero when the watchdog is off.
	WatchdogInterval() (time.Duration, error)
}

// SystemdNotifier talks to systemd through $NOTIFY_SOCKET and
// $WATCHDOG_USEC. Outside systemd every call is a no-op.
type SystemdNotifier struct{}

func (SystemdNotifier) Notify(state string) (bool, error) {
	return sd.SdNotify(false, state)
}

func (SystemdNotifier) WatchdogInterval() (time.Duration, error) {
	return sd.SdWatchdogEnabled(false)
}
