package instance

import (
	"fmt"
	"time"

	. "quill/internal/logger"
)

type Outcome int

const (
	BecomePrimary Outcome = iota
	ForwardAndExit
)

func (o Outcome) String() string {
	if o == ForwardAndExit { return "forward and exit" }
	return "become primary"
}

const (
	DefaultRetries    = 5
	DefaultRetryDelay = 100 * time.Millisecond
)

// Arbiter decides whether this process runs the editor or hands its files to the one already running.
//
// Two processes started at the same moment can both end up primary: the second one sees the lock
// taken but finds nobody listening yet, gives up after the retries and runs on its own.
type Arbiter struct {
	Name       string
	Channel    Channel
	Retries    int
	RetryDelay time.Duration

	Acquire func(name string) (func(), bool, error)
	Sleep   func(time.Duration)

	acquired bool
	isFirst  bool
	release  func()
}

func NewArbiter(name string, channel Channel) *Arbiter {
	return &Arbiter{
		Name:       name,
		Channel:    channel,
		Retries:    DefaultRetries,
		RetryDelay: DefaultRetryDelay,
		Acquire:    Acquire,
		Sleep:      time.Sleep,
	}
}

// AcquireInstance takes the named lock once and reports whether this is the first instance.
// A lock that cannot be taken for other reasons counts as first: running twice beats not running.
func (a *Arbiter) AcquireInstance() bool {
	if a.acquired { return a.isFirst }
	a.acquired = true

	release, first, err := a.Acquire(a.Name)
	if err != nil {
		Log.Error("instance lock:", err.Error())
		a.isFirst = true
		return true
	}
	a.release = release
	a.isFirst = first
	Log.Info("instance lock", a.Name, "first:", fmt.Sprint(first))
	return first
}

func (a *Arbiter) IsFirst() bool { return a.acquired && a.isFirst }

// Release drops the lock, if this process took it. Safe to call more than once.
func (a *Arbiter) Release() {
	if a.release != nil { a.release(); a.release = nil }
}

func (a *Arbiter) Decide(isMultiInst bool, payload Payload) Outcome {
	first := a.AcquireInstance()
	if isMultiInst || first {
		Log.Info("becoming primary, multi instance:", fmt.Sprint(isMultiInst), "first:", fmt.Sprint(first))
		return BecomePrimary
	}

	handle, found := a.findRunningInstance()
	if !found {
		Log.Info("running instance not reachable, becoming primary")
		return BecomePrimary
	}

	if err := a.Channel.Activate(handle); err != nil {
		Log.Error("activate running instance:", err.Error())
		return BecomePrimary
	}

	if payload.FileNames != "" {
		if err := a.Channel.SendPayload(handle, payload); err != nil {
			Log.Error("forward files:", err.Error())
			return BecomePrimary
		}
		Log.Info("forwarded", payload.FileNames, "to", handle.Address)
	}
	return ForwardAndExit
}

// the other process may hold the lock before its endpoint is up
func (a *Arbiter) findRunningInstance() (Handle, bool) {
	handle, found := a.Channel.FindRunningInstance()
	for i := 0; !found && i < a.Retries; i++ {
		a.Sleep(a.RetryDelay)
		handle, found = a.Channel.FindRunningInstance()
	}
	return handle, found
}
