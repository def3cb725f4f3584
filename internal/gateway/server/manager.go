package server

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/voxlink-io/voxlink/pkg/log"
)

// Server defines the common interface for all gateway sub-servers.
type Server interface {
	Start(ctx context.Context) error
}

// Manager manages the lifecycle of all gateway servers.
type Manager struct {
	servers []Server
}

// NewManager creates a manager over the given servers.
func NewManager(servers ...Server) *Manager {
	return &Manager{servers: servers}
}

// Start launches all servers in parallel and waits for termination. The
// first server to fail cancels the rest.
func (m *Manager) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, s := range m.servers {
		srv := s
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	log.Info("All servers starting...")
	return g.Wait()
}
