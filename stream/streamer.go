package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
)

// Streamer publishes the frames of an Animation over MQTT.
type Streamer struct {
	client    mqtt.Client
	topic     string
	animation *Animation
	logger    *slog.Logger
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(client mqtt.Client, topic string, animation *Animation, logger *slog.Logger) *Streamer {
	s := new(Streamer)
	s.client = client
	s.topic = topic
	s.animation = animation
	s.logger = logger
	return s
}

// SendFrame sends a frame as binary over MQTT.
func (s *Streamer) SendFrame(f *Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	token := s.client.Publish(s.topic, 2, false, b)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", s.topic, err)
	}
	return nil
}

// Run sends a frame on every tick while the animation has one, until ctx
// is done.
func (s *Streamer) Run(ctx context.Context) error {
	publishTimer := time.NewTicker(s.animation.Interval())
	defer publishTimer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-publishTimer.C:
			f := s.animation.CalculateFrame()
			if f == nil {
				continue
			}
			if err := s.SendFrame(f); err != nil {
				s.logger.Warn("frame dropped", "error", err)
			}
		}
	}
}
