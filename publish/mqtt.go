package publish

import (
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/normen/x32-osc/config"
)

const (
	defaultConnectTimeout    = 10 * time.Second
	defaultPublishTimeout    = 5 * time.Second
	defaultDisconnectQuiesce = 250
	maxQoS                   = 2
)

var (
	ErrNotConnected     = errors.New("mqtt: client not connected")
	ErrConnectionFailed = errors.New("mqtt: connection failed")
	ErrPublishFailed    = errors.New("mqtt: publish failed")
	ErrInvalidQoS       = errors.New("mqtt: invalid QoS level (must be 0, 1, or 2)")
	ErrInvalidTopic     = errors.New("mqtt: topic cannot be empty")
)

// MQTT publishes every change as a retained message so that new
// subscribers see the current console state at once.
type MQTT struct {
	client      pahomqtt.Client
	qos         byte
	statusTopic string
}

// ConnectMQTT connects to the broker of cfg. The broker marks the bridge
// offline on statusTopic if the connection drops.
func ConnectMQTT(cfg config.Mqtt) (*MQTT, error) {
	if cfg.Qos < 0 || cfg.Qos > maxQoS {
		return nil, ErrInvalidQoS
	}
	statusTopic := StatusTopic(cfg.TopicPrefix)
	opts := buildClientOptions(cfg)
	opts.SetWill(statusTopic, status(false), byte(cfg.Qos), true)
	opts.SetOnConnectHandler(func(_ pahomqtt.Client) {
		log.Info().Str("broker", cfg.Broker).Msg("MQTT connected")
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", cfg.Broker).Msg("MQTT connection lost")
	})

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return nil, errors.Wrapf(ErrConnectionFailed, "timeout after %v", defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return nil, errors.Wrapf(ErrConnectionFailed, "%v", err)
	}
	return &MQTT{client: client, qos: byte(cfg.Qos), statusTopic: statusTopic}, nil
}

func buildClientOptions(cfg config.Mqtt) *pahomqtt.ClientOptions {
	clientID := cfg.ClientId
	if clientID == "" {
		clientID = "x32-osc-" + uuid.NewString()
	}
	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(clientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(defaultConnectTimeout)
	return opts
}

// Send publishes payload retained on topic.
func (m *MQTT) Send(topic string, payload []byte) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if !m.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	token := m.client.Publish(topic, m.qos, true, payload)
	if !token.WaitTimeout(defaultPublishTimeout) {
		return errors.Wrapf(ErrPublishFailed, "timeout after %v", defaultPublishTimeout)
	}
	if err := token.Error(); err != nil {
		return errors.Wrapf(ErrPublishFailed, "%v", err)
	}
	return nil
}

// Close marks the bridge offline and disconnects.
func (m *MQTT) Close() {
	if m.client.IsConnectionOpen() {
		if err := m.Send(m.statusTopic, []byte(status(false))); err != nil {
			log.Warn().Err(err).Msg("MQTT offline status")
		}
	}
	m.client.Disconnect(defaultDisconnectQuiesce)
}
