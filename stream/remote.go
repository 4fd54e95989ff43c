package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/algoviz/playback"
)

// ControlMessage is a playback command received on the control topic.
// Value is only read by the "speed" command.
type ControlMessage struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// Remote lets MQTT clients drive the player.
type Remote struct {
	client mqtt.Client
	topic  string
	player *playback.Player
	speed  playback.SpeedControl
	logger *slog.Logger
}

// NewRemote creates a Remote listening on topic.
func NewRemote(client mqtt.Client, topic string, player *playback.Player, speed playback.SpeedControl, logger *slog.Logger) *Remote {
	r := new(Remote)
	r.client = client
	r.topic = topic
	r.player = player
	r.speed = speed
	r.logger = logger
	return r
}

// Dispatch applies one command and reports whether the player changed.
func (r *Remote) Dispatch(m ControlMessage) (bool, error) {
	if m.Type == "speed" {
		return r.player.SetSpeed(r.speed.Speed(m.Value)), nil
	}
	return r.player.Do(m.Type)
}

func (r *Remote) handleClientMessages(client mqtt.Client, msg mqtt.Message) {
	r.logger.Debug("control message", "id", msg.MessageID(), "topic", msg.Topic(), "payload", string(msg.Payload()))

	var m ControlMessage
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		r.logger.Warn("malformed control message", "error", err)
		return
	}
	changed, err := r.Dispatch(m)
	switch {
	case errors.Is(err, playback.ErrUnknownAction):
		r.logger.Warn("unknown control message", "type", m.Type)
	case err != nil:
		r.logger.Warn("control message failed", "type", m.Type, "error", err)
	default:
		r.logger.Debug("control message applied", "type", m.Type, "changed", changed)
	}
}

// Subscribe starts listening for commands. Call it from the client's
// on-connect handler so the subscription survives reconnects.
func (r *Remote) Subscribe() error {
	token := r.client.Subscribe(r.topic, 0, r.handleClientMessages)
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe %s: %w", r.topic, token.Error())
	}
	return nil
}
