// Package session drives one decode-and-share session from process start to
// process exit. All state lives in a single run loop; timers, the share call
// and window events from the shell are delivered as events and handled one at
// a time, so no transition ever races another.
package session

import (
	"errors"
	"time"

	"github.com/quickshare/sharesheet-go/failure"
	"github.com/quickshare/sharesheet-go/tool"
	"github.com/quickshare/sharesheet-go/types"
)

// State enumerates the controller lifecycle.
type State string

const (
	StateIdle         State = "idle"
	StateDecoding     State = "decoding"
	StateDecodeFailed State = "decode_failed"
	StateSharing      State = "sharing"
	StateShareFailed  State = "share_failed"
	StateMonitoring   State = "monitoring"
	StateClosing      State = "closing"
	StateTerminated   State = "terminated"
)

// Decoder parses the raw launch argument into share entities.
type Decoder func(raw string) ([]types.ShareFile, error)

// Sharer hands a decoded batch to the native share facility.
type Sharer interface {
	ShareFiles(files []types.ShareFile) error
}

// Notifier pushes session notifications to the window shell.
type Notifier interface {
	Notify(n *types.Notification)
}

// WindowHost is the external window collaborator.
type WindowHost interface {
	Show()
	RequestFocus()
}

// Outcome is the decode result the UI binds its action control to.
type Outcome struct {
	Files   []types.ShareFile
	Failure failure.Failure
}

// OK reports whether the decode succeeded.
func (o Outcome) OK() bool { return o.Failure == nil }

type eventKind int

const (
	evStart eventKind = iota
	evSettleFired
	evShareDone
	evWindowFocus
	evWindowBlur
	evCloseRequest
	evDismiss
	evAutoCloseFired
	evQuery
)

type event struct {
	kind     eventKind
	raw      string        // evStart
	gen      uint64        // evSettleFired / evAutoCloseFired
	shareErr error         // evShareDone
	reply    chan snapshot // evQuery
}

type snapshot struct {
	state   State
	outcome Outcome
}

// Deps are the controller's collaborators and tunables.
type Deps struct {
	Decoder     Decoder
	Sharer      Sharer
	Notifier    Notifier
	Host        WindowHost
	Clock       Clock
	Exit        func() // called once after Terminated; nil is allowed
	SettleDelay time.Duration
	AutoClose   time.Duration
	SessionID   string
}

// Controller is the session state machine. All fields below events are owned
// by the run loop goroutine.
type Controller struct {
	deps   Deps
	events chan event
	done   chan struct{}

	state      State
	outcome    Outcome
	monitoring bool
	lostFocus  bool

	// generation guards: a timer event from a superseded generation is stale
	// and ignored, which makes cancel-after-fire a no-op.
	settleGen    uint64
	settleCancel func()
	closeGen     uint64
	closeCancel  func()
}

// DefaultSettleDelay gives the host window time to finish its own focus
// transition before the native dialog opens.
const DefaultSettleDelay = 250 * time.Millisecond

// DefaultAutoClose bounds how long a failed or idle session stays on screen.
const DefaultAutoClose = 30 * time.Second

func New(deps Deps) *Controller {
	if deps.Clock == nil {
		deps.Clock = NewRealClock()
	}
	if deps.SettleDelay <= 0 {
		deps.SettleDelay = DefaultSettleDelay
	}
	if deps.AutoClose <= 0 {
		deps.AutoClose = DefaultAutoClose
	}
	return &Controller{
		deps:   deps,
		events: make(chan event, 64),
		done:   make(chan struct{}),
		state:  StateIdle,
	}
}

// Start begins the session with the raw launch argument and returns once the
// run loop is going. The process ends when the loop reaches Terminated.
func (c *Controller) Start(raw string) {
	go c.run()
	c.post(event{kind: evStart, raw: raw})
}

// Done is closed when the controller reaches Terminated.
func (c *Controller) Done() <-chan struct{} { return c.done }

// HandleWindowFocus reports that the host window gained focus.
func (c *Controller) HandleWindowFocus() { c.post(event{kind: evWindowFocus}) }

// HandleWindowBlur reports that the host window lost focus.
func (c *Controller) HandleWindowBlur() { c.post(event{kind: evWindowBlur}) }

// RequestClose terminates the session immediately, bypassing all timers.
func (c *Controller) RequestClose() { c.post(event{kind: evCloseRequest}) }

// DismissNotice closes the failure notice. It never shortens the fallback
// auto-close timer.
func (c *Controller) DismissNotice() { c.post(event{kind: evDismiss}) }

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.snapshot().state }

// DecodeOutcome returns the decode result for the UI's action control.
func (c *Controller) DecodeOutcome() Outcome { return c.snapshot().outcome }

func (c *Controller) snapshot() snapshot {
	reply := make(chan snapshot, 1)
	select {
	case c.events <- event{kind: evQuery, reply: reply}:
		select {
		case s := <-reply:
			return s
		case <-c.done:
		}
	case <-c.done:
	}
	// loop already exited; outcome was published before done closed
	return snapshot{state: StateTerminated, outcome: c.outcome}
}

func (c *Controller) post(ev event) {
	select {
	case c.events <- ev:
	case <-c.done:
	}
}

func (c *Controller) run() {
	for {
		select {
		case ev := <-c.events:
			c.handle(ev)
			if c.state == StateTerminated {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Controller) handle(ev event) {
	switch ev.kind {
	case evStart:
		c.handleStart(ev.raw)
	case evSettleFired:
		c.handleSettleFired(ev.gen)
	case evShareDone:
		c.handleShareDone(ev.shareErr)
	case evWindowBlur:
		if c.monitoring {
			tool.DefaultLogger.Debug("Window lost focus while monitoring")
			c.lostFocus = true
		}
	case evWindowFocus:
		if c.monitoring && c.lostFocus {
			tool.DefaultLogger.Info("Share dialog dismissed (focus regained), terminating")
			c.terminate()
		}
	case evCloseRequest:
		tool.DefaultLogger.Info("Explicit close requested")
		c.terminate()
	case evDismiss:
		c.notify(&types.Notification{Type: types.NotifyTypeNoticeDismiss})
	case evAutoCloseFired:
		// fires in Closing, or in Sharing when the facility call never
		// came back; a stale generation means the timer was cancelled
		if ev.gen == c.closeGen && c.closeCancel != nil &&
			(c.state == StateClosing || c.state == StateSharing) {
			tool.DefaultLogger.Info("Auto-close timer elapsed, terminating")
			c.terminate()
		}
	case evQuery:
		ev.reply <- snapshot{state: c.state, outcome: c.outcome}
	}
}

func (c *Controller) handleStart(raw string) {
	if c.state != StateIdle {
		return
	}
	if c.deps.Host != nil {
		c.deps.Host.Show()
		c.deps.Host.RequestFocus()
	}
	c.setState(StateDecoding)

	files, err := c.deps.Decoder(raw)
	if err != nil {
		var f failure.Failure
		if !errors.As(err, &f) {
			f = failure.WrapDecodeError(err)
		}
		c.outcome = Outcome{Failure: f}
		c.setState(StateDecodeFailed)
		c.surfaceFailure(f)
		c.enterClosing()
		return
	}

	c.outcome = Outcome{Files: files}
	c.notify(&types.Notification{
		Type: types.NotifyTypeDecodeResult,
		Data: map[string]any{"fileCount": len(files), "canShare": len(files) > 0},
	})
	c.setState(StateSharing)
	// guarantee eventual termination even if the share call never returns
	c.armAutoClose()
	c.armSettle()
}

func (c *Controller) handleSettleFired(gen uint64) {
	if gen != c.settleGen || c.settleCancel == nil || c.state != StateSharing {
		return
	}
	c.settleCancel = nil
	files := c.outcome.Files
	// the facility call may block on IPC; run it off-loop and deliver the
	// result as an event. An in-flight call is abandoned at termination.
	go func() {
		err := c.deps.Sharer.ShareFiles(files)
		c.post(event{kind: evShareDone, shareErr: err})
	}()
}

func (c *Controller) handleShareDone(err error) {
	if c.state != StateSharing {
		return
	}
	if err != nil {
		var f failure.Failure
		if !errors.As(err, &f) {
			f = failure.WrapShareError(err)
		}
		c.outcome.Failure = f
		c.setState(StateShareFailed)
		c.surfaceFailure(f)
		c.enterClosing()
		return
	}
	// the native dialog is up and will steal focus; watch for the
	// blur-then-focus pair instead of running the clock
	c.cancelAutoClose()
	c.monitoring = true
	c.lostFocus = false
	c.setState(StateMonitoring)
}

// enterClosing arms (or re-arms) the fallback auto-close timer.
func (c *Controller) enterClosing() {
	c.armAutoClose()
	c.setState(StateClosing)
}

func (c *Controller) armSettle() {
	c.settleGen++
	gen := c.settleGen
	c.settleCancel = c.deps.Clock.AfterFunc(c.deps.SettleDelay, func() {
		c.post(event{kind: evSettleFired, gen: gen})
	})
}

func (c *Controller) armAutoClose() {
	c.cancelAutoClose()
	c.closeGen++
	gen := c.closeGen
	c.closeCancel = c.deps.Clock.AfterFunc(c.deps.AutoClose, func() {
		c.post(event{kind: evAutoCloseFired, gen: gen})
	})
}

func (c *Controller) cancelAutoClose() {
	if c.closeCancel != nil {
		c.closeCancel()
		c.closeCancel = nil
	}
	c.closeGen++
}

func (c *Controller) surfaceFailure(f failure.Failure) {
	tool.DefaultLogger.Warnf("Session failure (%s): %s", f.Kind(), f.Message())
	c.notify(&types.Notification{
		Type:    types.NotifyTypeFailure,
		Title:   "Share failed",
		Message: f.Message(),
		Data:    map[string]any{"kind": string(f.Kind())},
	})
}

func (c *Controller) setState(s State) {
	c.state = s
	tool.DefaultLogger.Debugf("Session state: %s", s)
	c.notify(&types.Notification{
		Type: types.NotifyTypeStateChanged,
		Data: map[string]any{"state": string(s)},
	})
}

func (c *Controller) notify(n *types.Notification) {
	if c.deps.Notifier == nil {
		return
	}
	n.SessionID = c.deps.SessionID
	c.deps.Notifier.Notify(n)
}

// terminate is idempotent and cancels every outstanding timer before closing
// done, so nothing fires after exit.
func (c *Controller) terminate() {
	if c.state == StateTerminated {
		return
	}
	if c.settleCancel != nil {
		c.settleCancel()
		c.settleCancel = nil
	}
	c.settleGen++
	c.cancelAutoClose()
	c.monitoring = false
	c.state = StateTerminated
	c.notify(&types.Notification{
		Type: types.NotifyTypeStateChanged,
		Data: map[string]any{"state": string(StateTerminated)},
	})
	c.notify(&types.Notification{Type: types.NotifyTypeTerminate})
	close(c.done)
	if c.deps.Exit != nil {
		c.deps.Exit()
	}
}
