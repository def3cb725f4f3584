package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/voxlink-io/voxlink/cmd/voxlink-gateway/app/options"
	"github.com/voxlink-io/voxlink/pkg/log"
)

const (
	commandName = "voxlink-gateway"
	commandDesc = `The Voxlink gateway resolves free-text voice phrases into Bluelink
vehicle commands (status, climate, lock/unlock, charging) and answers with a
natural-language confirmation. Utterances arrive over HTTP or MQTT.`
)

// NewCommand builds the root cobra command.
func NewCommand() *cobra.Command {
	opts := options.NewGatewayOptions()

	cmd := &cobra.Command{
		Use:          commandName,
		Short:        "Launch the Voxlink voice command gateway",
		Long:         commandDesc,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	opts.AddFlags(cmd.Flags())
	return cmd
}

func run(opts *options.GatewayOptions) error {
	if err := opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}

	log.Init(opts.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := opts.Config()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	gw, err := cfg.NewGateway()
	if err != nil {
		return fmt.Errorf("failed to create gateway: %w", err)
	}

	return gw.Run(ctx)
}
