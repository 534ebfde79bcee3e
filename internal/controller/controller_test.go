package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckswitch/internal/protocol"
)

type fakeHost struct {
	mu        sync.Mutex
	states    []string
	inspector []interface{}
}

func (h *fakeHost) SetState(contextID string, state int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.states = append(h.states, fmt.Sprintf("%s=%d", contextID, state))
}

func (h *fakeHost) SendToPropertyInspector(contextID string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.inspector = append(h.inspector, payload)
}

func (h *fakeHost) stateLog() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.states...)
}

func (h *fakeHost) inspectorLog() []interface{} {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]interface{}(nil), h.inspector...)
}

type fakeExec struct {
	mu         sync.Mutex
	ops        []string
	browsePath string
}

func (f *fakeExec) note(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ops = append(f.ops, op)
	return nil
}

func (f *fakeExec) SendHotkey(ctx context.Context, spec string) error {
	return f.note("hotkey:" + spec)
}
func (f *fakeExec) TypeText(ctx context.Context, text string) error { return f.note("text:" + text) }
func (f *fakeExec) Open(ctx context.Context, target string) error   { return f.note("open:" + target) }

func (f *fakeExec) BrowseFile(ctx context.Context) (string, error) {
	f.note("browse")
	return f.browsePath, nil
}

func (f *fakeExec) opLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ops...)
}

func newTestController(holdDelay time.Duration) (*Controller, *fakeHost, *fakeExec) {
	host := &fakeHost{}
	exec := &fakeExec{}
	c := New(host, exec)
	c.holdDelay = holdDelay
	return c, host, exec
}

func keyEvent(event, contextID string, state int, settings string) protocol.Event {
	payload := fmt.Sprintf(`{"state":%d,"settings":%s}`, state, settings)
	return protocol.Event{
		Event:   event,
		Context: contextID,
		Payload: json.RawMessage(payload),
	}
}

const toggleSettings = `{
	"tree0": [{"type":"text","value":"state-zero"}],
	"tree1": [{"type":"text","value":"state-one"}],
	"treeHold": [{"type":"hotkey","value":"Ctrl+H"}]
}`

func TestShortPressRunsTreeAndFlipsState(t *testing.T) {
	c, host, exec := newTestController(time.Second)

	c.HandleKeyDown(keyEvent(protocol.EventKeyDown, "ctx-1", 0, toggleSettings))
	c.HandleKeyUp(keyEvent(protocol.EventKeyUp, "ctx-1", 0, toggleSettings))

	require.Eventually(t, func() bool {
		return len(host.stateLog()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"text:state-one"}, exec.opLog())
	assert.Equal(t, []string{"ctx-1=1"}, host.stateLog())
}

func TestHoldRunsHoldTreeAndRestoresState(t *testing.T) {
	c, host, exec := newTestController(30 * time.Millisecond)

	c.HandleKeyDown(keyEvent(protocol.EventKeyDown, "ctx-1", 1, toggleSettings))
	require.Eventually(t, func() bool {
		return len(exec.opLog()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"hotkey:Ctrl+H"}, exec.opLog())

	c.HandleKeyUp(keyEvent(protocol.EventKeyUp, "ctx-1", 0, toggleSettings))

	require.Eventually(t, func() bool {
		return len(host.stateLog()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"ctx-1=1"}, host.stateLog())
	assert.Equal(t, []string{"hotkey:Ctrl+H"}, exec.opLog())
}

func TestControlsAreIndependent(t *testing.T) {
	c, host, exec := newTestController(time.Second)

	c.HandleKeyDown(keyEvent(protocol.EventKeyDown, "ctx-a", 0, toggleSettings))
	c.HandleKeyDown(keyEvent(protocol.EventKeyDown, "ctx-b", 1, toggleSettings))
	c.HandleKeyUp(keyEvent(protocol.EventKeyUp, "ctx-a", 0, toggleSettings))
	c.HandleKeyUp(keyEvent(protocol.EventKeyUp, "ctx-b", 1, toggleSettings))

	// The two controls resolve on their own goroutines, so only the set
	// is deterministic.
	require.Eventually(t, func() bool {
		return len(host.stateLog()) == 2
	}, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{"text:state-one", "text:state-zero"}, exec.opLog())
	assert.ElementsMatch(t, []string{"ctx-a=1", "ctx-b=0"}, host.stateLog())
}

func TestWillDisappearAbandonsPress(t *testing.T) {
	c, host, exec := newTestController(30 * time.Millisecond)

	c.HandleKeyDown(keyEvent(protocol.EventKeyDown, "ctx-1", 0, toggleSettings))
	c.HandleWillDisappear(protocol.Event{Event: protocol.EventWillDisappear, Context: "ctx-1"})
	time.Sleep(80 * time.Millisecond)

	assert.Empty(t, exec.opLog())
	assert.Empty(t, host.stateLog())
}

func TestBrowseFileRepliesToInspector(t *testing.T) {
	c, host, exec := newTestController(time.Second)
	exec.browsePath = "/home/u/clip.wav"

	c.HandleSendToPlugin(protocol.Event{
		Event:   protocol.EventSendToPlugin,
		Context: "ctx-1",
		Payload: json.RawMessage(`{"event":"browseFile","index":2,"tree":"tree1"}`),
	})

	require.Eventually(t, func() bool {
		return len(host.inspectorLog()) == 1
	}, time.Second, 5*time.Millisecond)

	reply, ok := host.inspectorLog()[0].(protocol.FilePicked)
	require.True(t, ok)
	assert.Equal(t, protocol.InspectorFilePicked, reply.Event)
	assert.Equal(t, "/home/u/clip.wav", reply.Payload.FilePath)
	assert.Equal(t, 2, reply.Payload.Index)
	assert.Equal(t, "tree1", reply.Payload.Tree)
}

func TestBrowseFileCancelSendsEmptyPath(t *testing.T) {
	c, host, _ := newTestController(time.Second)

	c.HandleSendToPlugin(protocol.Event{
		Event:   protocol.EventSendToPlugin,
		Context: "ctx-1",
		Payload: json.RawMessage(`{"event":"browseFile","index":0,"tree":"tree0"}`),
	})

	require.Eventually(t, func() bool {
		return len(host.inspectorLog()) == 1
	}, time.Second, 5*time.Millisecond)

	reply := host.inspectorLog()[0].(protocol.FilePicked)
	assert.Equal(t, "", reply.Payload.FilePath)
}

func TestUnknownInspectorEventIgnored(t *testing.T) {
	c, host, exec := newTestController(time.Second)

	c.HandleSendToPlugin(protocol.Event{
		Event:   protocol.EventSendToPlugin,
		Context: "ctx-1",
		Payload: json.RawMessage(`{"event":"calibrateFluxCapacitor"}`),
	})
	time.Sleep(30 * time.Millisecond)

	assert.Empty(t, host.inspectorLog())
	assert.Empty(t, exec.opLog())
}

func TestMalformedKeyPayloadStillResolves(t *testing.T) {
	c, host, exec := newTestController(time.Second)

	c.HandleKeyDown(protocol.Event{
		Event:   protocol.EventKeyDown,
		Context: "ctx-1",
		Payload: json.RawMessage(`{broken`),
	})
	c.HandleKeyUp(protocol.Event{Event: protocol.EventKeyUp, Context: "ctx-1"})

	// Zero-value payload: state 0 with empty trees. The press cycle still
	// completes and the toggle still flips.
	require.Eventually(t, func() bool {
		return len(host.stateLog()) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, exec.opLog())
	assert.Equal(t, []string{"ctx-1=1"}, host.stateLog())
}

func TestHoldClassifiesWhileAnotherControlsTreeSleeps(t *testing.T) {
	c, host, exec := newTestController(40 * time.Millisecond)

	delaySettings := `{
		"tree1": [{"type":"delay","value":"200"},{"type":"text","value":"after-delay"}]
	}`

	// ctx-a resolves short and starts a tree that sleeps for 200ms.
	c.HandleKeyDown(keyEvent(protocol.EventKeyDown, "ctx-a", 0, delaySettings))
	c.HandleKeyUp(keyEvent(protocol.EventKeyUp, "ctx-a", 0, delaySettings))

	// ctx-b is held past the threshold while ctx-a's tree is still
	// sleeping. It must classify as a hold in real time, not queue behind
	// the sleep and resolve as a short press.
	c.HandleKeyDown(keyEvent(protocol.EventKeyDown, "ctx-b", 1, toggleSettings))
	time.Sleep(100 * time.Millisecond)
	c.HandleKeyUp(keyEvent(protocol.EventKeyUp, "ctx-b", 1, toggleSettings))

	require.Eventually(t, func() bool {
		return len(exec.opLog()) == 2 && len(host.stateLog()) == 2
	}, 2*time.Second, 5*time.Millisecond)

	// The hold tree fired before the sleeping tree finished.
	assert.Equal(t, []string{"hotkey:Ctrl+H", "text:after-delay"}, exec.opLog())
	// ctx-b restored its captured state instead of flipping.
	assert.ElementsMatch(t, []string{"ctx-b=1", "ctx-a=1"}, host.stateLog())
}
