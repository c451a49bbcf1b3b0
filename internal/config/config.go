package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

const (
	ModeTarget     = "target"
	ModeController = "controller"
	ModeRelay      = "relay"

	TransportMQTT = "mqtt"
	TransportWS   = "ws"
)

type Config struct {
	Mode        string           `yaml:"mode"`
	LogLevel    string           `yaml:"log_level"`
	MetricsAddr string           `yaml:"metrics_addr"`
	Broker      BrokerConfig     `yaml:"broker"`
	Session     SessionConfig    `yaml:"session"`
	Screen      Rect             `yaml:"screen"`
	Target      TargetConfig     `yaml:"target"`
	Controller  ControllerConfig `yaml:"controller"`
	Relay       RelayConfig      `yaml:"relay"`
}

type BrokerConfig struct {
	Transport string        `yaml:"transport"`
	Host      string        `yaml:"host"`
	Port      int           `yaml:"port"`
	ClientID  string        `yaml:"client_id"`
	KeepAlive time.Duration `yaml:"keepalive"`
}

type SessionConfig struct {
	ID int `yaml:"id"`
}

// Rect is the shared screen rectangle. The target grabs it; the controller
// expects frames of its size and offsets cursor positions by Left/Top.
type Rect struct {
	Top    int `yaml:"top"`
	Left   int `yaml:"left"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type TargetConfig struct {
	CaptureInterval time.Duration `yaml:"capture_interval"`
	CaptureEvery    int           `yaml:"capture_every"`
}

type ControllerConfig struct {
	MoveDelay    int `yaml:"move_delay"`
	ScrollDelay  int `yaml:"scroll_delay"`
	ScrollAmount int `yaml:"scroll_amount"`
}

type RelayConfig struct {
	Addr string `yaml:"addr"`
}

// Load reads the YAML file at path (if non-empty), applies defaults and
// validates the result.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromArgs parses command line flags, loads the file named by --config and
// lets explicitly set flags and the MODE env var override file values.
func FromArgs(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("mqttdesk", pflag.ContinueOnError)
	path := fs.StringP("config", "c", "", "path to YAML config file")
	mode := fs.StringP("mode", "m", "", "target, controller or relay (default $MODE)")
	sessionID := fs.Int("session", 0, "session id")
	broker := fs.String("broker", "", "broker host")
	port := fs.Int("port", 0, "broker port")
	transport := fs.String("transport", "", "bus transport: mqtt or ws")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	var cfg Config
	if err := cfg.readFile(*path); err != nil {
		return nil, err
	}
	if v := os.Getenv("MODE"); v != "" {
		cfg.Mode = v
	}
	if fs.Changed("mode") {
		cfg.Mode = *mode
	}
	if fs.Changed("session") {
		cfg.Session.ID = *sessionID
	}
	if fs.Changed("broker") {
		cfg.Broker.Host = *broker
	}
	if fs.Changed("port") {
		cfg.Broker.Port = *port
	}
	if fs.Changed("transport") {
		cfg.Broker.Transport = *transport
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) readFile(path string) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	c.Mode = strings.ToLower(c.Mode)
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Broker.Transport == "" {
		c.Broker.Transport = TransportMQTT
	}
	if c.Broker.Host == "" {
		c.Broker.Host = "localhost"
	}
	if c.Broker.Port == 0 {
		if c.Broker.Transport == TransportWS {
			c.Broker.Port = 8080
		} else {
			c.Broker.Port = 1883
		}
	}
	if c.Broker.KeepAlive == 0 {
		c.Broker.KeepAlive = 30 * time.Second
	}
	if c.Session.ID == 0 {
		c.Session.ID = 1
	}
	if c.Target.CaptureInterval == 0 {
		c.Target.CaptureInterval = 100 * time.Millisecond
	}
	if c.Target.CaptureEvery == 0 {
		c.Target.CaptureEvery = 1
	}
	if c.Controller.MoveDelay == 0 {
		c.Controller.MoveDelay = 20
	}
	if c.Controller.ScrollDelay == 0 {
		c.Controller.ScrollDelay = 20
	}
	if c.Controller.ScrollAmount == 0 {
		c.Controller.ScrollAmount = 5
	}
	if c.Relay.Addr == "" {
		c.Relay.Addr = ":8080"
	}
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeTarget, ModeController, ModeRelay:
	case "":
		return errors.New("mode is required (target, controller or relay)")
	default:
		return fmt.Errorf("unknown mode %q (use target, controller or relay)", c.Mode)
	}
	if c.Broker.Transport != TransportMQTT && c.Broker.Transport != TransportWS {
		return fmt.Errorf("unknown broker.transport %q", c.Broker.Transport)
	}
	if c.Broker.Port < 1 || c.Broker.Port > 65535 {
		return fmt.Errorf("invalid broker.port %d: must be between 1 and 65535", c.Broker.Port)
	}
	if c.Session.ID < 1 {
		return fmt.Errorf("session.id must be positive, got %d", c.Session.ID)
	}
	if c.Mode != ModeRelay && (c.Screen.Width <= 0 || c.Screen.Height <= 0) {
		return fmt.Errorf("screen.width and screen.height are required, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.Target.CaptureEvery < 1 {
		return fmt.Errorf("target.capture_every must be at least 1, got %d", c.Target.CaptureEvery)
	}
	return nil
}

// BrokerURL returns the address the bus adapter dials.
func (c *Config) BrokerURL() string {
	if c.Broker.Transport == TransportWS {
		return fmt.Sprintf("ws://%s:%d/ws", c.Broker.Host, c.Broker.Port)
	}
	return fmt.Sprintf("tcp://%s:%d", c.Broker.Host, c.Broker.Port)
}
