package stream

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eclipse/paho.mqtt.golang"

	"github.com/matt-g-everett/algoviz/config"
	"github.com/matt-g-everett/algoviz/playback"
	"github.com/matt-g-everett/algoviz/session"
	"github.com/matt-g-everett/algoviz/util"
)

// Controller connects a session to an MQTT broker: scenes go out on the
// stream topic and commands come in on the control topic.
type Controller struct {
	client    mqtt.Client
	animation *Animation
	streamer  *Streamer
	remote    *Remote
	logger    *slog.Logger

	mu    sync.Mutex
	shown *shownKey
}

type shownKey struct {
	load   uint64
	cursor int
}

// NewController creates an instance of a Controller. It does not connect
// until Run.
func NewController(cfg config.Mqtt, sess *session.Session, speed playback.SpeedControl,
	easing util.Easing, logger *slog.Logger) *Controller {

	c := new(Controller)
	c.logger = logger

	options := mqtt.NewClientOptions().
		AddBroker(cfg.URL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(c.handleOnConnect)
	c.client = mqtt.NewClient(options)

	c.animation = NewAnimation(cfg.FrameRate, util.LutEasing(util.GenerateLut(256, easing)))
	c.streamer = NewStreamer(c.client, cfg.Topics.Stream, c.animation, logger)
	c.remote = NewRemote(c.client, cfg.Topics.Control, sess.Player(), speed, logger)

	c.show(sess.View())
	sess.Subscribe(c.show)

	return c
}

// show restarts the animation when the view moved to another frame. Views
// published for other reasons leave a running transition alone.
func (c *Controller) show(v session.View) {
	key := shownKey{load: v.Status.Load, cursor: v.Status.Cursor}
	c.mu.Lock()
	if c.shown != nil && *c.shown == key {
		c.mu.Unlock()
		return
	}
	c.shown = &key
	c.mu.Unlock()
	c.animation.Show(v.Scene)
}

func (c *Controller) handleOnConnect(client mqtt.Client) {
	c.logger.Info("mqtt connected")
	if err := c.remote.Subscribe(); err != nil {
		c.logger.Error("control subscription failed", "error", err)
	}
}

// Run connects and streams frames until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	defer c.client.Disconnect(250)
	return c.streamer.Run(ctx)
}
