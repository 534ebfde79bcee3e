// Package protocol defines the JSON messages exchanged with the deck host
// over its plugin websocket.
package protocol

import "encoding/json"

// Event names delivered by the host.
const (
	EventKeyDown            = "keyDown"
	EventKeyUp              = "keyUp"
	EventWillAppear         = "willAppear"
	EventWillDisappear      = "willDisappear"
	EventDidReceiveSettings = "didReceiveSettings"
	EventSendToPlugin       = "sendToPlugin"
)

// Command names the plugin sends back to the host.
const (
	CommandSetState                = "setState"
	CommandSendToPropertyInspector = "sendToPropertyInspector"
	CommandGetSettings             = "getSettings"
	CommandLogMessage              = "logMessage"
)

// Event is the generic envelope for host-delivered messages. Context
// identifies the control instance; Payload is decoded per event type.
type Event struct {
	Event   string          `json:"event"`
	Action  string          `json:"action,omitempty"`
	Context string          `json:"context,omitempty"`
	Device  string          `json:"device,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// KeyPayload is the payload of keyDown, keyUp, willAppear and
// didReceiveSettings events. Settings stays raw here; the action package
// owns its schema.
type KeyPayload struct {
	Settings json.RawMessage `json:"settings,omitempty"`
	State    int             `json:"state"`
}

// Command is the envelope for plugin-to-host messages.
type Command struct {
	Event   string      `json:"event"`
	Context string      `json:"context,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Registration is sent once, immediately after the websocket opens. The
// event name and UUID are handed to the plugin process on its command
// line by the host.
type Registration struct {
	Event string `json:"event"`
	UUID  string `json:"uuid"`
}

// SetStatePayload selects the host-rendered toggle state for a control.
type SetStatePayload struct {
	State int `json:"state"`
}

// Inspector event names carried inside sendToPlugin payloads and property
// inspector replies.
const (
	InspectorBrowseFile = "browseFile"
	InspectorFilePicked = "filePicked"
)

// InspectorEvent is the tagged union carried by sendToPlugin payloads.
// Event names the variant; receivers ignore variants they do not know.
// Index and Tree echo which tree row the configuration UI is editing.
type InspectorEvent struct {
	Event string `json:"event"`
	Index int    `json:"index,omitempty"`
	Tree  string `json:"tree,omitempty"`
}

// FilePicked is the reply to a browseFile request. FilePath is empty when
// the user cancelled the dialog.
type FilePicked struct {
	Event   string           `json:"event"`
	Payload FilePickedResult `json:"payload"`
}

// FilePickedResult carries the chosen path back to the tree row that
// asked for it.
type FilePickedResult struct {
	FilePath string `json:"filePath"`
	Index    int    `json:"index"`
	Tree     string `json:"tree"`
}
