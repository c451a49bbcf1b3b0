package transport

import (
	"context"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type MQTTOptions struct {
	BrokerURL string
	ClientID  string
	KeepAlive time.Duration
}

// MQTT is a Bus backed by an MQTT 3.1.1 broker. Messages are published at
// QoS 0 and never retained.
type MQTT struct {
	client mqtt.Client
	log    zerolog.Logger

	mu   sync.Mutex
	subs map[string]Handler
}

func NewMQTT(opts MQTTOptions, log zerolog.Logger) *MQTT {
	m := &MQTT{log: log, subs: make(map[string]Handler)}
	clientID := opts.ClientID
	if clientID == "" {
		clientID = "mqttdesk-" + uuid.NewString()
	}
	co := mqtt.NewClientOptions().
		AddBroker(opts.BrokerURL).
		SetClientID(clientID).
		SetCleanSession(true).
		SetAutoReconnect(false).
		SetConnectRetry(false).
		SetOnConnectHandler(m.resubscribe).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			m.log.Warn().Err(err).Msg("broker connection lost")
		})
	if opts.KeepAlive > 0 {
		co.SetKeepAlive(opts.KeepAlive)
	}
	m.client = mqtt.NewClient(co)
	return m
}

func (m *MQTT) Connect(ctx context.Context) (byte, error) {
	tok := m.client.Connect()
	select {
	case <-tok.Done():
	case <-ctx.Done():
		return CodeNetworkError, ctx.Err()
	}
	ct, _ := tok.(*mqtt.ConnectToken)
	var code byte
	if ct != nil {
		code = ct.ReturnCode()
	}
	if err := tok.Error(); err != nil {
		if code == CodeAccepted || code == CodeNetworkError {
			return CodeNetworkError, fmt.Errorf("mqtt connect: %w", err)
		}
		return code, nil
	}
	return code, nil
}

// resubscribe runs on every accepted connection.
func (m *MQTT) resubscribe(c mqtt.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for topic, h := range m.subs {
		m.subscribe(c, topic, h)
	}
}

func (m *MQTT) subscribe(c mqtt.Client, topic string, h Handler) {
	tok := c.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		h(msg.Topic(), msg.Payload())
	})
	go func() {
		if tok.Wait() && tok.Error() != nil {
			m.log.Error().Err(tok.Error()).Str("topic", topic).Msg("subscribe failed")
		}
	}()
}

func (m *MQTT) Subscribe(topic string, h Handler) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[topic] = h
	if m.client.IsConnectionOpen() {
		m.subscribe(m.client, topic, h)
	}
	return nil
}

func (m *MQTT) Publish(topic string, payload []byte) error {
	if !m.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	m.client.Publish(topic, 0, false, payload)
	return nil
}

func (m *MQTT) Close() error {
	if m.client.IsConnected() {
		m.client.Disconnect(250)
	}
	return nil
}

var _ Bus = (*MQTT)(nil)
