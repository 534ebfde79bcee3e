package action

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op    string
	value string
	at    time.Time
}

// fakeExecutor records every call and can be told to fail specific ops.
type fakeExecutor struct {
	mu    sync.Mutex
	calls []call
	fail  map[string]bool
}

func (f *fakeExecutor) record(op, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{op: op, value: value, at: time.Now()})
	if f.fail[op] {
		return errors.New(op + " failed")
	}
	return nil
}

func (f *fakeExecutor) SendHotkey(ctx context.Context, spec string) error {
	return f.record("hotkey", spec)
}

func (f *fakeExecutor) TypeText(ctx context.Context, text string) error {
	return f.record("text", text)
}

func (f *fakeExecutor) Open(ctx context.Context, target string) error {
	return f.record("open", target)
}

func (f *fakeExecutor) BrowseFile(ctx context.Context) (string, error) {
	f.record("browse", "")
	return "", nil
}

func (f *fakeExecutor) recorded() []call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]call(nil), f.calls...)
}

func TestRunEmptyTree(t *testing.T) {
	f := &fakeExecutor{}
	Run(context.Background(), nil, f)
	Run(context.Background(), Tree{}, f)
	assert.Empty(t, f.recorded())
}

func TestRunPreservesOrderAcrossDelay(t *testing.T) {
	f := &fakeExecutor{}
	tree := Tree{
		{Type: KindHotkey, Value: "Ctrl+A"},
		{Type: KindDelay, Value: "50"},
		{Type: KindText, Value: "B"},
	}

	Run(context.Background(), tree, f)

	calls := f.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, "hotkey", calls[0].op)
	assert.Equal(t, "Ctrl+A", calls[0].value)
	assert.Equal(t, "text", calls[1].op)
	assert.GreaterOrEqual(t, calls[1].at.Sub(calls[0].at), 50*time.Millisecond)
}

func TestRunContinuesPastFailingStep(t *testing.T) {
	f := &fakeExecutor{fail: map[string]bool{"open": true}}
	tree := Tree{
		{Type: KindURL, Value: "bad"},
		{Type: KindText, Value: "X"},
	}

	Run(context.Background(), tree, f)

	calls := f.recorded()
	require.Len(t, calls, 2)
	assert.Equal(t, "open", calls[0].op)
	assert.Equal(t, "text", calls[1].op)
}

func TestRunMalformedDelayIsNoOp(t *testing.T) {
	f := &fakeExecutor{}
	start := time.Now()

	Run(context.Background(), Tree{{Type: KindDelay, Value: "abc"}}, f)
	Run(context.Background(), Tree{{Type: KindDelay, Value: "-200"}}, f)
	Run(context.Background(), Tree{{Type: KindDelay, Value: ""}}, f)

	assert.Less(t, time.Since(start), 100*time.Millisecond)
	assert.Empty(t, f.recorded())
}

func TestRunDispatchesRunAsOpen(t *testing.T) {
	f := &fakeExecutor{}
	Run(context.Background(), Tree{{Type: KindRun, Value: "/usr/bin/true"}}, f)

	calls := f.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "open", calls[0].op)
	assert.Equal(t, "/usr/bin/true", calls[0].value)
}

func TestRunSkipsUnknownCommandType(t *testing.T) {
	f := &fakeExecutor{}
	tree := Tree{
		{Type: "teleport", Value: "moon"},
		{Type: KindText, Value: "still here"},
	}

	Run(context.Background(), tree, f)

	calls := f.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "text", calls[0].op)
}

func TestRunStopsWhenContextCancelled(t *testing.T) {
	f := &fakeExecutor{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	Run(ctx, Tree{{Type: KindText, Value: "never"}}, f)

	assert.Empty(t, f.recorded())
}

func TestParseSettings(t *testing.T) {
	s := ParseSettings([]byte(`{"tree0":[{"type":"text","value":"a"}],"treeHold":[{"type":"delay","value":"10"}]}`))
	require.Len(t, s.Tree0, 1)
	assert.Equal(t, KindText, s.Tree0[0].Type)
	assert.Empty(t, s.Tree1)
	require.Len(t, s.TreeHold, 1)

	assert.Equal(t, Settings{}, ParseSettings(nil))
	assert.Equal(t, Settings{}, ParseSettings([]byte(`null`)))
	assert.Equal(t, Settings{}, ParseSettings([]byte(`{broken`)))
}
