package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
mode: controller
broker:
  host: raspberrypi
session:
  id: 3
screen:
  width: 700
  height: 300
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ModeController, cfg.Mode)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, TransportMQTT, cfg.Broker.Transport)
	assert.Equal(t, 1883, cfg.Broker.Port)
	assert.Equal(t, 30*time.Second, cfg.Broker.KeepAlive)
	assert.Equal(t, 3, cfg.Session.ID)
	assert.Equal(t, 20, cfg.Controller.MoveDelay)
	assert.Equal(t, 20, cfg.Controller.ScrollDelay)
	assert.Equal(t, 5, cfg.Controller.ScrollAmount)
	assert.Equal(t, 100*time.Millisecond, cfg.Target.CaptureInterval)
	assert.Equal(t, 1, cfg.Target.CaptureEvery)
	assert.Equal(t, "tcp://raspberrypi:1883", cfg.BrokerURL())
}

func TestLoadParsesDurations(t *testing.T) {
	path := writeConfig(t, `
mode: target
broker:
  transport: ws
  keepalive: 5s
screen: {top: 150, left: 100, width: 700, height: 300}
target:
  capture_interval: 250ms
  capture_every: 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Broker.KeepAlive)
	assert.Equal(t, 250*time.Millisecond, cfg.Target.CaptureInterval)
	assert.Equal(t, 4, cfg.Target.CaptureEvery)
	assert.Equal(t, Rect{Top: 150, Left: 100, Width: 700, Height: 300}, cfg.Screen)
	assert.Equal(t, 8080, cfg.Broker.Port)
	assert.Equal(t, "ws://localhost:8080/ws", cfg.BrokerURL())
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"missing mode":   "screen: {width: 1, height: 1}",
		"unknown mode":   "mode: viewer\nscreen: {width: 1, height: 1}",
		"bad transport":  "mode: target\nbroker: {transport: amqp}\nscreen: {width: 1, height: 1}",
		"bad port":       "mode: target\nbroker: {port: 70000}\nscreen: {width: 1, height: 1}",
		"negative id":    "mode: target\nsession: {id: -2}\nscreen: {width: 1, height: 1}",
		"missing screen": "mode: controller",
		"bad every":      "mode: target\nscreen: {width: 1, height: 1}\ntarget: {capture_every: -1}",
	}
	for name, data := range cases {
		_, err := Load(writeConfig(t, data))
		assert.Error(t, err, name)
	}
}

func TestRelayNeedsNoScreen(t *testing.T) {
	cfg, err := Load(writeConfig(t, "mode: relay\nrelay: {addr: ':9000'}"))
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Relay.Addr)
}

func TestFromArgsOverridesFile(t *testing.T) {
	t.Setenv("MODE", "")
	path := writeConfig(t, `
mode: target
broker: {host: filehost, port: 1884}
session: {id: 2}
screen: {width: 10, height: 10}
`)
	cfg, err := FromArgs([]string{"--config", path, "--mode", "controller", "--session", "9", "--broker", "flaghost", "--log-level", "debug"})
	require.NoError(t, err)
	assert.Equal(t, ModeController, cfg.Mode)
	assert.Equal(t, 9, cfg.Session.ID)
	assert.Equal(t, "flaghost", cfg.Broker.Host)
	assert.Equal(t, 1884, cfg.Broker.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromArgsModeEnv(t *testing.T) {
	t.Setenv("MODE", "Relay")
	cfg, err := FromArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, ModeRelay, cfg.Mode)
}

func TestFromArgsMissingFile(t *testing.T) {
	t.Setenv("MODE", "")
	_, err := FromArgs([]string{"-c", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
