package server

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/lox/whot/whot"
)

// MessageType identifies a websocket message
type MessageType string

const (
	// Server → client
	MessageTypeState MessageType = "state"
	MessageTypeError MessageType = "error"

	// Client → server
	MessageTypeJoin  MessageType = "join"
	MessageTypeLeave MessageType = "leave"
	MessageTypeStart MessageType = "start"
	MessageTypePlay  MessageType = "play"
	MessageTypeDraw  MessageType = "draw"
)

func (t MessageType) String() string { return string(t) }

// Message is sent from the server to a websocket client
type Message struct {
	Type      MessageType `json:"type"`
	Data      any         `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// ClientMessage is received from a websocket client. Data is left as a
// generic map and decoded per message type.
type ClientMessage struct {
	Type MessageType    `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// ErrorData is the payload of error messages and HTTP error responses
type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlayData is the payload of a play message. Rank may arrive as a number or
// a numeric string.
type PlayData struct {
	Shape string `mapstructure:"shape"`
	Rank  int    `mapstructure:"rank"`
}

// Card converts the payload to a card
func (p PlayData) Card() (whot.Card, error) {
	shape, err := whot.ParseShape(p.Shape)
	if err != nil {
		return whot.Card{}, err
	}
	c := whot.NewCard(shape, p.Rank)
	if !c.Valid() {
		return whot.Card{}, fmt.Errorf("invalid card: %s", c)
	}
	return c, nil
}

// DecodePlayData decodes the data map of a play message
func DecodePlayData(data map[string]any) (PlayData, error) {
	var out PlayData
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  stringToIntHookFunc(),
		ErrorUnused: true,
		Result:      &out,
	})
	if err != nil {
		return PlayData{}, err
	}
	if err := decoder.Decode(data); err != nil {
		return PlayData{}, fmt.Errorf("invalid play data: %w", err)
	}
	return out, nil
}

// stringToIntHookFunc converts numeric strings to ints, and whole float64
// values (how encoding/json decodes every number) to ints.
func stringToIntHookFunc() mapstructure.DecodeHookFuncKind {
	return func(from, to reflect.Kind, data any) (any, error) {
		if to != reflect.Int {
			return data, nil
		}
		switch from {
		case reflect.String:
			return strconv.Atoi(data.(string))
		case reflect.Float64:
			f := data.(float64)
			if f != float64(int(f)) {
				return nil, fmt.Errorf("rank %v is not a whole number", f)
			}
			return int(f), nil
		}
		return data, nil
	}
}
