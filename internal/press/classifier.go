// Package press implements the short-vs-hold classification state machine
// for one deck button instance.
package press

import (
	"log"
	"sync"
	"time"

	"deckswitch/internal/action"
)

// DefaultHoldDelay is how long a press must be sustained before it counts
// as a hold instead of a short press.
const DefaultHoldDelay = 1000 * time.Millisecond

// Classifier drives the press/release cycle for a single control.
//
// A press-down captures the control's toggle state and arms a hold timer.
// If the release arrives first, the short-press tree for the captured
// state runs and the toggle flips. If the timer fires first, the hold
// tree runs once and the following release writes the captured state back
// to the host, undoing any auto-toggle the host applied on its own.
//
// The timer callback and the release handler serialize on mu, and the
// callback re-checks armed under the lock, so exactly one of the two
// paths resolves each press.
type Classifier struct {
	holdDelay time.Duration
	runTree   func(action.Tree)
	setState  func(int)

	mu        sync.Mutex
	armed     bool // press-down seen, release pending
	longPress bool // hold timer fired for the current press
	captured  int  // toggle state at press-down
	timer     *time.Timer
	settings  action.Settings

	// runMu serializes tree execution and the trailing state write so
	// back-to-back presses on this control resolve in order.
	runMu sync.Mutex
}

// New creates a classifier. runTree executes a resolved action tree and
// setState writes a toggle value through to the host; both are called
// without the classifier lock held, never on the goroutine that called
// HandleDown or HandleUp. A zero holdDelay means DefaultHoldDelay.
func New(holdDelay time.Duration, runTree func(action.Tree), setState func(int)) *Classifier {
	if holdDelay <= 0 {
		holdDelay = DefaultHoldDelay
	}
	return &Classifier{
		holdDelay: holdDelay,
		runTree:   runTree,
		setState:  setState,
	}
}

// HandleDown starts a press cycle. state is the control's toggle value at
// press time and settings the trees currently configured for it. A second
// press-down while one is outstanding is dropped; the host contract is
// one press per control at a time.
func (c *Classifier) HandleDown(state int, settings action.Settings) {
	if state != 0 {
		state = 1
	}

	c.mu.Lock()
	if c.armed {
		c.mu.Unlock()
		log.Printf("Press: press-down while a press is outstanding, ignored")
		return
	}
	c.armed = true
	c.longPress = false
	c.captured = state
	c.settings = settings
	c.timer = time.AfterFunc(c.holdDelay, c.holdElapsed)
	c.mu.Unlock()
}

func (c *Classifier) holdElapsed() {
	c.mu.Lock()
	if !c.armed {
		// The release won the race and resolved this press already.
		c.mu.Unlock()
		return
	}
	c.longPress = true
	tree := c.settings.TreeHold
	c.mu.Unlock()

	c.runMu.Lock()
	defer c.runMu.Unlock()
	c.runTree(tree)
}

// HandleUp resolves the press cycle. On a short press the tree selected
// by the captured state runs and the complement state is written through;
// after a hold the captured state is restored instead.
func (c *Classifier) HandleUp() {
	c.mu.Lock()
	if !c.armed {
		c.mu.Unlock()
		log.Printf("Press: release without matching press-down, ignored")
		return
	}
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.armed = false

	if c.longPress {
		c.longPress = false
		restore := c.captured
		c.mu.Unlock()
		// runMu orders the restore write after the hold tree, which may
		// still be running on the timer goroutine.
		go func() {
			c.runMu.Lock()
			defer c.runMu.Unlock()
			c.setState(restore)
		}()
		return
	}

	// Short press: state 0 runs tree1, state 1 runs tree0, then the
	// toggle flips.
	tree := c.settings.Tree0
	if c.captured == 0 {
		tree = c.settings.Tree1
	}
	next := 1 - c.captured
	c.mu.Unlock()

	// Trees can sleep on delay steps. Run them off the event-delivery
	// goroutine so presses on other controls keep classifying in real
	// time while this one executes.
	go func() {
		c.runMu.Lock()
		defer c.runMu.Unlock()
		c.runTree(tree)
		c.setState(next)
	}()
}

// Cancel abandons the current cycle, if any, without running a tree. Used
// when the control disappears from the deck mid-press.
func (c *Classifier) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.armed = false
	c.longPress = false
}
