// Package network maintains the websocket session with the deck host.
package network

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"deckswitch/internal/protocol"

	"github.com/gorilla/websocket"
)

// HostClient handles the websocket connection to the deck host. The host
// listens on localhost and expects a registration message carrying the
// event name and UUID it passed on the plugin command line.
type HostClient struct {
	addr          string
	registerEvent string
	pluginUUID    string

	send chan protocol.Command
	done chan struct{}

	// Callbacks, invoked from the read pump.
	OnKeyDown       func(ev protocol.Event)
	OnKeyUp         func(ev protocol.Event)
	OnWillAppear    func(ev protocol.Event)
	OnWillDisappear func(ev protocol.Event)
	OnSettings      func(ev protocol.Event)
	OnSendToPlugin  func(ev protocol.Event)
	OnConnect       func()
	OnDisconnect    func()

	mu          sync.Mutex
	conn        *websocket.Conn
	isConnected bool
}

// NewHostClient creates a client for the host at 127.0.0.1:port.
func NewHostClient(port int, registerEvent, pluginUUID string) *HostClient {
	return &HostClient{
		addr:          fmt.Sprintf("127.0.0.1:%d", port),
		registerEvent: registerEvent,
		pluginUUID:    pluginUUID,
		send:          make(chan protocol.Command, 64),
		done:          make(chan struct{}),
	}
}

// Start begins the client loop (connect & process).
func (c *HostClient) Start() {
	go c.loop()
}

func (c *HostClient) loop() {
	for {
		c.connect()

		// connect returning means we disconnected. Wait a bit and retry.
		select {
		case <-c.done:
			return
		case <-time.After(5 * time.Second):
			log.Println("Host: Attempting reconnection...")
		}
	}
}

func (c *HostClient) connect() {
	u := url.URL{Scheme: "ws", Host: c.addr, Path: "/"}
	log.Printf("Host: Connecting to %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Printf("Host: Connection failed: %v", err)
		return
	}
	defer conn.Close()

	// Register before anything else; the host drops unregistered
	// connections.
	reg := protocol.Registration{Event: c.registerEvent, UUID: c.pluginUUID}
	if err := conn.WriteJSON(reg); err != nil {
		log.Printf("Host: Registration failed: %v", err)
		return
	}

	c.mu.Lock()
	c.conn = conn
	c.isConnected = true
	c.mu.Unlock()

	log.Println("Host: Connected and registered")
	if c.OnConnect != nil {
		c.OnConnect()
	}

	connDone := make(chan struct{})
	go func() {
		defer close(connDone)
		c.writePump(conn)
	}()

	c.readPump(conn)

	c.mu.Lock()
	c.isConnected = false
	c.conn = nil
	c.mu.Unlock()

	if c.OnDisconnect != nil {
		c.OnDisconnect()
	}

	<-connDone
}

func (c *HostClient) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(1 << 20)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Host: Read error: %v", err)
			}
			break
		}

		var ev protocol.Event
		if err := json.Unmarshal(data, &ev); err != nil {
			log.Printf("Host: Invalid message: %v", err)
			continue
		}

		c.handleEvent(ev)
	}
}

func (c *HostClient) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case cmd := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(cmd); err != nil {
				log.Printf("Host: Write error: %v", err)
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *HostClient) handleEvent(ev protocol.Event) {
	switch ev.Event {
	case protocol.EventKeyDown:
		if c.OnKeyDown != nil {
			c.OnKeyDown(ev)
		}
	case protocol.EventKeyUp:
		if c.OnKeyUp != nil {
			c.OnKeyUp(ev)
		}
	case protocol.EventWillAppear:
		if c.OnWillAppear != nil {
			c.OnWillAppear(ev)
		}
	case protocol.EventWillDisappear:
		if c.OnWillDisappear != nil {
			c.OnWillDisappear(ev)
		}
	case protocol.EventDidReceiveSettings:
		if c.OnSettings != nil {
			c.OnSettings(ev)
		}
	case protocol.EventSendToPlugin:
		if c.OnSendToPlugin != nil {
			c.OnSendToPlugin(ev)
		}
	default:
		// Hosts add event types over time; unknown ones are fine to skip.
	}
}

// SetState asks the host to render and persist the given toggle state for
// a control. Commands go out in order, so a later read sees this value.
func (c *HostClient) SetState(contextID string, state int) {
	c.enqueue(protocol.Command{
		Event:   protocol.CommandSetState,
		Context: contextID,
		Payload: protocol.SetStatePayload{State: state},
	})
}

// SendToPropertyInspector forwards a payload to the configuration UI for
// the given control.
func (c *HostClient) SendToPropertyInspector(contextID string, payload interface{}) {
	c.enqueue(protocol.Command{
		Event:   protocol.CommandSendToPropertyInspector,
		Context: contextID,
		Payload: payload,
	})
}

// LogMessage writes a line into the host's own log file.
func (c *HostClient) LogMessage(message string) {
	c.tryEnqueue(protocol.Command{
		Event:   protocol.CommandLogMessage,
		Payload: map[string]string{"message": message},
	})
}

// enqueue waits for queue space rather than dropping. A lost setState
// leaves the host rendering a toggle the classifiers no longer hold, so
// state-bearing commands must reach the write pump or the client must be
// shutting down.
func (c *HostClient) enqueue(cmd protocol.Command) {
	select {
	case c.send <- cmd:
	case <-c.done:
	}
}

// tryEnqueue drops on a full queue; only best-effort traffic goes
// through here.
func (c *HostClient) tryEnqueue(cmd protocol.Command) {
	select {
	case c.send <- cmd:
	default:
		log.Printf("Host: Send queue full, dropping %s", cmd.Event)
	}
}

// IsConnected reports whether the client currently has a live session.
func (c *HostClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected
}

// Close stops the client. Closing the live connection, if any, unblocks
// the read pump so shutdown does not wait on the host hanging up.
func (c *HostClient) Close() {
	close(c.done)

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()
}
