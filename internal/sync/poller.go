package sync

import (
	"context"
	gosync "sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hdnguyen/focusdeck/internal/engine"
	"github.com/hdnguyen/focusdeck/internal/model"
	"github.com/hdnguyen/focusdeck/internal/store"
)

// EvalState represents the current state of the evaluation loop.
type EvalState int

const (
	EvalIdle EvalState = iota
	EvalRunning
	EvalError
)

// EvalStatus holds the state of the background evaluation loop.
type EvalStatus struct {
	State    EvalState
	LastEval time.Time
	Error    error
}

// EvalResultMsg is a tea.Msg sent when an evaluation cycle completes.
type EvalResultMsg struct {
	// Emitted holds notifications newly created by this cycle.
	Emitted []model.Notification

	// BlockedFor lists schedules whose missed state just activated
	// website blocking.
	BlockedFor []string

	// Warning is a standing banner message (e.g. missing privileges);
	// empty when clear.
	Warning string

	// Released reports that website blocking was lifted this cycle.
	Released bool

	// UnreadCount is the unread notification total after the cycle.
	UnreadCount int

	Error error
}

// evalTimeout is the maximum time allowed for a single evaluation cycle.
const evalTimeout = 30 * time.Second

// Poller runs the notification evaluator and auto-block trigger on a
// ticker off the UI goroutine, delivering results to the Bubble Tea
// runtime through a channel subscription.
type Poller struct {
	store     store.Store
	evaluator *engine.Evaluator
	trigger   *engine.Trigger
	interval  time.Duration
	status    EvalStatus
	resultCh  chan EvalResultMsg
	triggerCh chan struct{}
	stopCh    chan struct{}
	mu        gosync.Mutex
	running   bool
}

// New creates a Poller that evaluates every interval.
func New(s store.Store, ev *engine.Evaluator, tr *engine.Trigger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Poller{
		store:     s,
		evaluator: ev,
		trigger:   tr,
		interval:  interval,
		resultCh:  make(chan EvalResultMsg, 16),
		triggerCh: make(chan struct{}, 16),
		stopCh:    make(chan struct{}),
	}
}

// Start returns a tea.Cmd that starts the evaluation goroutine and
// subscribes to results. The returned command waits on the result
// channel and returns EvalResultMsg messages to the Bubble Tea runtime.
func (p *Poller) Start() tea.Cmd {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	go p.loop()

	return p.waitForResult()
}

// Stop halts the evaluation goroutine.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	close(p.stopCh)
	p.running = false
}

// Refresh triggers an immediate evaluation cycle.
func (p *Poller) Refresh() tea.Cmd {
	select {
	case p.triggerCh <- struct{}{}:
	default:
		// Channel full; a cycle is already pending.
	}
	return nil
}

// Status returns the current state of the evaluation loop.
func (p *Poller) Status() EvalStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// loop runs evaluation cycles until stopped.
func (p *Poller) loop() {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	// Do an initial cycle immediately.
	p.runCycle()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.runCycle()
		case <-p.triggerCh:
			p.runCycle()
		}
	}
}

// runCycle performs a single evaluate + auto-block pass and sends the
// result on the result channel.
func (p *Poller) runCycle() {
	p.setStatus(EvalRunning, nil)

	ctx, cancel := context.WithTimeout(context.Background(), evalTimeout)
	defer cancel()

	msg := p.RunOnce(ctx)
	if msg.Error != nil {
		p.setStatus(EvalError, msg.Error)
	} else {
		p.setStatus(EvalIdle, nil)
	}
	p.sendResult(msg)
}

// RunOnce executes one evaluation + trigger pass synchronously and
// returns its result. Exposed so the standalone notifier and tests can
// drive cycles without the goroutine machinery.
func (p *Poller) RunOnce(ctx context.Context) EvalResultMsg {
	var msg EvalResultMsg

	emitted, err := p.evaluator.Evaluate(ctx)
	if err != nil {
		msg.Error = err
		return msg
	}
	msg.Emitted = emitted

	if p.trigger != nil {
		outcome, err := p.trigger.Apply(ctx)
		if outcome != nil {
			msg.BlockedFor = outcome.BlockedFor
			msg.Warning = outcome.Warning
			msg.Released = outcome.Released
		}
		if err != nil {
			msg.Error = err
			return msg
		}
	}

	count, err := p.store.UnreadNotificationCount(ctx)
	if err != nil {
		msg.Error = err
		return msg
	}
	msg.UnreadCount = count
	return msg
}

// setStatus updates the evaluation loop status.
func (p *Poller) setStatus(state EvalState, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.status.State = state
	p.status.Error = err
	if state == EvalIdle && err == nil {
		p.status.LastEval = time.Now()
	}
}

// sendResult sends an EvalResultMsg on the result channel without
// blocking.
func (p *Poller) sendResult(msg EvalResultMsg) {
	select {
	case p.resultCh <- msg:
	default:
		// Drop if channel is full to avoid blocking the poller.
	}
}

// waitForResult returns a tea.Cmd that waits for the next result from
// the result channel.
func (p *Poller) waitForResult() tea.Cmd {
	return func() tea.Msg {
		result, ok := <-p.resultCh
		if !ok {
			return nil
		}
		return result
	}
}

// WaitForNextResult returns a tea.Cmd that waits for the next evaluation
// result. This should be called after processing an EvalResultMsg to
// continue listening for future results.
func (p *Poller) WaitForNextResult() tea.Cmd {
	return p.waitForResult()
}
