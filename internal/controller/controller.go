// Package controller routes deck host events to per-control press
// classifiers and answers configuration UI requests.
package controller

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"deckswitch/internal/action"
	"deckswitch/internal/network"
	"deckswitch/internal/platform"
	"deckswitch/internal/press"
	"deckswitch/internal/protocol"
)

// HostWriter is the subset of the host connection the controller writes
// to.
type HostWriter interface {
	SetState(contextID string, state int)
	SendToPropertyInspector(contextID string, payload interface{})
}

// Controller owns one press classifier per visible control, keyed by the
// opaque context the host assigns to each button instance.
type Controller struct {
	host HostWriter
	exec platform.Executor

	holdDelay time.Duration

	mu       sync.Mutex
	controls map[string]*press.Classifier
}

// New creates a controller executing trees against exec and writing state
// changes through host.
func New(host HostWriter, exec platform.Executor) *Controller {
	return &Controller{
		host:      host,
		exec:      exec,
		holdDelay: press.DefaultHoldDelay,
		controls:  make(map[string]*press.Classifier),
	}
}

// Bind attaches the controller's handlers to a host client.
func (c *Controller) Bind(client *network.HostClient) {
	client.OnKeyDown = c.HandleKeyDown
	client.OnKeyUp = c.HandleKeyUp
	client.OnWillAppear = c.HandleWillAppear
	client.OnWillDisappear = c.HandleWillDisappear
	client.OnSendToPlugin = c.HandleSendToPlugin
}

func (c *Controller) classifierFor(contextID string) *press.Classifier {
	c.mu.Lock()
	defer c.mu.Unlock()

	cl, ok := c.controls[contextID]
	if !ok {
		runTree := func(tree action.Tree) {
			action.Run(context.Background(), tree, c.exec)
		}
		setState := func(state int) {
			c.host.SetState(contextID, state)
		}
		cl = press.New(c.holdDelay, runTree, setState)
		c.controls[contextID] = cl
	}
	return cl
}

// HandleWillAppear registers the control so its classifier exists before
// the first press.
func (c *Controller) HandleWillAppear(ev protocol.Event) {
	c.classifierFor(ev.Context)
}

// HandleWillDisappear abandons any in-flight press for the control and
// drops its classifier.
func (c *Controller) HandleWillDisappear(ev protocol.Event) {
	c.mu.Lock()
	cl, ok := c.controls[ev.Context]
	delete(c.controls, ev.Context)
	c.mu.Unlock()

	if ok {
		cl.Cancel()
	}
}

// HandleKeyDown starts a press cycle with the toggle state and settings
// the host delivered with the event.
func (c *Controller) HandleKeyDown(ev protocol.Event) {
	var p protocol.KeyPayload
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		log.Printf("Controller: bad keyDown payload for %s: %v", ev.Context, err)
	}
	c.classifierFor(ev.Context).HandleDown(p.State, action.ParseSettings(p.Settings))
}

// HandleKeyUp resolves the press cycle started by the matching keyDown.
func (c *Controller) HandleKeyUp(ev protocol.Event) {
	c.classifierFor(ev.Context).HandleUp()
}

// HandleSendToPlugin dispatches messages from the configuration UI. The
// payload is a tagged union on its event field; unknown variants are
// logged and dropped.
func (c *Controller) HandleSendToPlugin(ev protocol.Event) {
	var msg protocol.InspectorEvent
	if err := json.Unmarshal(ev.Payload, &msg); err != nil {
		log.Printf("Controller: bad inspector payload for %s: %v", ev.Context, err)
		return
	}

	switch msg.Event {
	case protocol.InspectorBrowseFile:
		// The native dialog blocks, keep it off the read pump.
		go c.browseFile(ev.Context, msg)
	default:
		log.Printf("Controller: ignoring inspector event %q", msg.Event)
	}
}

func (c *Controller) browseFile(contextID string, msg protocol.InspectorEvent) {
	path, err := c.exec.BrowseFile(context.Background())
	if err != nil {
		// Dialog errors surface to the UI as an empty selection.
		log.Printf("Controller: file dialog error: %v", err)
		path = ""
	}
	c.host.SendToPropertyInspector(contextID, protocol.FilePicked{
		Event: protocol.InspectorFilePicked,
		Payload: protocol.FilePickedResult{
			FilePath: path,
			Index:    msg.Index,
			Tree:     msg.Tree,
		},
	})
}
