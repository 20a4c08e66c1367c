package event

import "fmt"

// Command is an inbound request to the core. The concrete types are
// StartInspection, StopInspection, RunColorScan and ClearStorage.
type Command interface {
	Name() string
	isCommand()
}

// StartInspection starts a session; a no-op while one is active.
type StartInspection struct{}

// StopInspection ends the active session; a no-op while idle.
type StopInspection struct{}

// RunColorScan scans the whole document once.
type RunColorScan struct{}

// ClearStorage clears site data. Empty Targets means all of them.
type ClearStorage struct {
	Targets []StorageTarget `json:"targets,omitempty"`
}

func (StartInspection) Name() string { return "start-inspection" }
func (StopInspection) Name() string  { return "stop-inspection" }
func (RunColorScan) Name() string    { return "run-color-scan" }
func (ClearStorage) Name() string    { return "clear-storage" }

func (StartInspection) isCommand() {}
func (StopInspection) isCommand()  {}
func (RunColorScan) isCommand()    {}
func (ClearStorage) isCommand()    {}

// AllStorageTargets lists every clearable kind of site data.
var AllStorageTargets = []StorageTarget{StorageCookies, StorageSession, StorageLocal}

// ParseCommand maps a command name to its value. ClearStorage is returned
// with every target.
func ParseCommand(name string) (Command, error) {
	switch name {
	case "start-inspection":
		return StartInspection{}, nil
	case "stop-inspection":
		return StopInspection{}, nil
	case "run-color-scan":
		return RunColorScan{}, nil
	case "clear-storage":
		return ClearStorage{Targets: AllStorageTargets}, nil
	}
	return nil, fmt.Errorf("%w: command %q", ErrUnknownType, name)
}

// ParseStorageTargets validates target names. An empty list selects every
// target.
func ParseStorageTargets(names []string) ([]StorageTarget, error) {
	if len(names) == 0 {
		return AllStorageTargets, nil
	}
	out := make([]StorageTarget, 0, len(names))
	for _, n := range names {
		switch t := StorageTarget(n); t {
		case StorageCookies, StorageSession, StorageLocal:
			out = append(out, t)
		default:
			return nil, fmt.Errorf("%w: storage target %q", ErrUnknownType, n)
		}
	}
	return out, nil
}
