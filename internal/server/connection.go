package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/lox/whot/internal/game"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	sendBuffer = 64
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection is one player's websocket subscription to a room. Committed
// snapshots are pushed as state messages; the client may send actions back.
type Connection struct {
	conn   *websocket.Conn
	send   chan *Message
	svc    *Service
	clock  quartz.Clock
	roomID string
	player string
	logger *log.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
	unsubscribe func()

	// lastVersion is only touched by Start and then the forward goroutine
	lastVersion uint64
}

// NewConnection wraps an upgraded websocket
func NewConnection(conn *websocket.Conn, svc *Service, roomID, player string, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:        conn,
		send:        make(chan *Message, sendBuffer),
		svc:         svc,
		clock:       svc.Clock(),
		roomID:      roomID,
		player:      player,
		logger:      logger.WithPrefix("conn").With("room", roomID, "player", player),
		ctx:         ctx,
		cancel:      cancel,
		unsubscribe: func() {},
	}
}

// Start subscribes to the room, sends the current state and begins pumping
// messages. The subscription is taken before the state is read so no
// committed snapshot can be missed in between.
func (c *Connection) Start() error {
	updates, unsubscribe := c.svc.Hub().Subscribe(c.roomID)
	c.unsubscribe = unsubscribe

	g, err := c.svc.Get(c.ctx, c.roomID)
	if err != nil {
		c.Close()
		return err
	}
	c.sendState(g)

	go c.writePump()
	go c.readPump()
	go c.forward(updates)
	c.logger.Debug("Connected")
	return nil
}

// Done is closed once the connection has shut down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close sends a normal close frame and closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.unsubscribe()
		// Fails harmlessly when the peer has already gone.
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		err = c.conn.Close()
		c.logger.Debug("Disconnected")
	})
	return err
}

// SendMessage queues a message for the client. A client that stops reading
// is disconnected once its buffer fills.
func (c *Connection) SendMessage(msg *Message) error {
	select {
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
	}
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return ErrConnectionClosed
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

func (c *Connection) newMessage(t MessageType, data any) *Message {
	return &Message{Type: t, Data: data, Timestamp: c.clock.Now()}
}

func (c *Connection) sendState(g *game.Game) {
	if g.Version <= c.lastVersion {
		return
	}
	c.lastVersion = g.Version
	_ = c.SendMessage(c.newMessage(MessageTypeState, NewRoomView(g, c.player)))
}

func (c *Connection) sendError(err error) {
	_, code := classify(err)
	_ = c.SendMessage(c.newMessage(MessageTypeError, ErrorData{Code: code, Message: err.Error()}))
}

// forward relays hub snapshots until the subscription ends
func (c *Connection) forward(updates <-chan *game.Game) {
	defer func() { _ = c.Close() }()
	for {
		select {
		case g, ok := <-updates:
			if !ok {
				return
			}
			c.sendState(g)
		case <-c.ctx.Done():
			return
		}
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := c.clock.NewTicker(pingPeriod, "conn", "ping")
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage applies a client action. Successful actions are answered by
// the state push that follows the commit; failures get an error message.
func (c *Connection) handleMessage(msg *ClientMessage) {
	c.logger.Debug("Received message", "type", msg.Type)

	var err error
	switch msg.Type {
	case MessageTypeJoin:
		_, err = c.svc.Join(c.ctx, c.roomID, c.player)
	case MessageTypeLeave:
		_, err = c.svc.Leave(c.ctx, c.roomID, c.player)
	case MessageTypeStart:
		_, err = c.svc.Start(c.ctx, c.roomID, c.player)
	case MessageTypeDraw:
		_, err = c.svc.Draw(c.ctx, c.roomID, c.player)
	case MessageTypePlay:
		var data PlayData
		if data, err = DecodePlayData(msg.Data); err != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidRequest, err)
			break
		}
		card, cardErr := data.Card()
		if cardErr != nil {
			err = fmt.Errorf("%w: %v", ErrInvalidRequest, cardErr)
			break
		}
		_, err = c.svc.Play(c.ctx, c.roomID, c.player, card)
	default:
		err = fmt.Errorf("%w: unknown message type %q", ErrInvalidRequest, msg.Type)
	}
	if err != nil {
		c.sendError(err)
	}
}
