package gateway

import (
	"context"

	"github.com/voxlink-io/voxlink/internal/gateway/server"
	"github.com/voxlink-io/voxlink/pkg/log"
)

// Gateway runs the ingress servers and the preset watcher until the context
// is cancelled.
type Gateway struct {
	servers *server.Manager
}

// Run blocks until all servers stop.
func (g *Gateway) Run(ctx context.Context) error {
	log.Info("Starting voxlink-gateway")

	err := g.servers.Start(ctx)

	log.Info("Gateway shut down")
	return err
}
