package mqtt

import (
	"context"
	"fmt"
	"time"

	"github.com/voxlink-io/voxlink/internal/pkg/mqtt/paths"
	"github.com/voxlink-io/voxlink/pkg/log"
	pkgmqtt "github.com/voxlink-io/voxlink/pkg/mqtt"
	"github.com/voxlink-io/voxlink/pkg/mqtt/topic"
)

// Resolver is the slice of the dispatcher the MQTT ingress needs.
type Resolver interface {
	Dispatch(ctx context.Context, text string) string
}

// Server implements the MQTT ingress layer: voice frontends publish raw
// utterances per vehicle, the gateway answers on the reply topic.
type Server struct {
	client   pkgmqtt.Client
	topics   *topic.Builder
	resolver Resolver
}

// NewServer creates a new MQTT server (client).
func NewServer(client pkgmqtt.Client, builder *topic.Builder, resolver Resolver) *Server {
	return &Server{
		client:   client,
		topics:   builder,
		resolver: resolver,
	}
}

// Start connects to the broker, subscribes, and blocks until ctx ends.
func (s *Server) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return err
	}

	// Ensure MQTT disconnects when Start exits (LIFO order)
	defer func() {
		log.Info("Disconnecting MQTT client...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.client.Disconnect(shutdownCtx)
	}()

	// Don't start consuming utterances until we are actually connected.
	log.Info("Waiting for MQTT connection...")
	if err := s.client.AwaitConnection(ctx); err != nil {
		return err
	}
	log.Info("MQTT Connected")

	if err := s.initSubscriptions(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func (s *Server) initSubscriptions(ctx context.Context) error {
	const qos = 1

	filter := s.topics.Shared(paths.GroupGateway).BuildWildcard(paths.Utterance)
	if err := s.client.Subscribe(ctx, filter, qos, s.handleUtterance); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", filter, err)
	}
	return nil
}

// handleUtterance resolves one utterance and publishes the reply to the
// vehicle's reply topic. The payload is the raw phrase, UTF-8.
func (s *Server) handleUtterance(ctx context.Context, t string, payload []byte) {
	vehicleID := topic.VehicleID(t)
	if vehicleID == "" {
		log.Warn("Utterance on topic without vehicle level", "topic", t)
		return
	}

	reply := s.resolver.Dispatch(ctx, string(payload))

	replyTopic := s.topics.Build(paths.Reply, vehicleID)
	if err := s.client.Publish(ctx, replyTopic, 1, false, []byte(reply)); err != nil {
		log.Error(err, "Failed to publish reply", "topic", replyTopic)
	}
}
