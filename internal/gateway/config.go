package gateway

import (
	"fmt"

	"github.com/voxlink-io/voxlink/internal/bluelink"
	"github.com/voxlink-io/voxlink/internal/command"
	"github.com/voxlink-io/voxlink/internal/dispatch"
	"github.com/voxlink-io/voxlink/internal/gateway/presets"
	"github.com/voxlink-io/voxlink/internal/gateway/server"
	httpserver "github.com/voxlink-io/voxlink/internal/gateway/server/http"
	mqttserver "github.com/voxlink-io/voxlink/internal/gateway/server/mqtt"
	"github.com/voxlink-io/voxlink/pkg/log"
	pkgmqtt "github.com/voxlink-io/voxlink/pkg/mqtt"
	"github.com/voxlink-io/voxlink/pkg/mqtt/topic"
	"github.com/voxlink-io/voxlink/pkg/options"
)

// Config carries everything needed to assemble a Gateway.
type Config struct {
	HttpOptions     *options.HttpOptions
	MqttOptions     *options.MqttOptions
	BluelinkOptions *options.BluelinkOptions

	// PresetsFile is the YAML file with user-defined climate presets.
	// Empty disables custom presets.
	PresetsFile string

	// Debug enables per-entry resolution diagnostics.
	Debug bool
}

// NewGateway assembles the gateway: Bluelink client, preset store,
// dispatcher, and the ingress servers.
func (cfg *Config) NewGateway() (*Gateway, error) {
	creds, err := bluelink.CredentialsFromEnv()
	if err != nil {
		return nil, err
	}

	client, err := bluelink.New(cfg.BluelinkOptions, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create bluelink client: %w", err)
	}

	store := presets.NewStore(cfg.PresetsFile, log.Std())
	if err := store.Load(); err != nil {
		return nil, err
	}

	orch := command.NewOrchestrator(nil, log.Std())
	dispatcher := dispatch.NewDispatcher(client, orch, store, cfg.Debug, log.Std())

	servers := []server.Server{
		httpserver.NewServer(cfg.HttpOptions, dispatcher),
		store,
	}

	if cfg.MqttOptions.Enabled {
		mqttSrv, err := cfg.newMqttServer(dispatcher)
		if err != nil {
			return nil, err
		}
		servers = append(servers, mqttSrv)
	}

	return &Gateway{
		servers: server.NewManager(servers...),
	}, nil
}

func (cfg *Config) newMqttServer(dispatcher *dispatch.Dispatcher) (*mqttserver.Server, error) {
	clientCfg := cfg.MqttOptions.ToClientConfig()
	if clientCfg.ClientID == "" {
		clientCfg.ClientID = fmt.Sprintf("voxlink-gateway-%s", cfg.BluelinkOptions.VehicleID)
	}

	mqttClient, err := pkgmqtt.NewClient(clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to init mqtt client: %w", err)
	}

	builder := topic.NewBuilder(cfg.MqttOptions.TopicRoot)
	return mqttserver.NewServer(mqttClient, builder, dispatcher), nil
}
