// Package action defines the command model for a button's action trees and
// the interpreter that executes them.
package action

import (
	"encoding/json"
	"log"
)

// Command kinds. Value semantics depend on the kind: a key-combo spec for
// hotkey, a URL or path for url/run, literal text for text, and a
// millisecond count for delay.
const (
	KindHotkey = "hotkey"
	KindURL    = "url"
	KindText   = "text"
	KindDelay  = "delay"
	KindRun    = "run"
)

// Command is a single immutable step of an action tree.
type Command struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Tree is an ordered command sequence. A nil or empty tree is a no-op.
type Tree []Command

// Settings holds the three trees configured for one button. Tree0 and
// Tree1 are the short-press actions for toggle state 0 and 1; TreeHold is
// the override action for a sustained press. The deck host owns this
// configuration; the plugin only reads it.
type Settings struct {
	Tree0    Tree `json:"tree0,omitempty"`
	Tree1    Tree `json:"tree1,omitempty"`
	TreeHold Tree `json:"treeHold,omitempty"`
}

// ParseSettings decodes the settings blob carried by host events. Absent
// or malformed settings decode to empty trees rather than failing the
// press cycle.
func ParseSettings(raw json.RawMessage) Settings {
	var s Settings
	if len(raw) == 0 || string(raw) == "null" {
		return s
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		log.Printf("Action: invalid settings payload: %v", err)
	}
	return s
}
