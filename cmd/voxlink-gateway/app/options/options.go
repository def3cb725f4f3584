package options

import (
	"errors"

	"github.com/spf13/pflag"

	"github.com/voxlink-io/voxlink/internal/gateway"
	"github.com/voxlink-io/voxlink/pkg/log"
	"github.com/voxlink-io/voxlink/pkg/options"
)

// GatewayOptions composes all flag groups of the voxlink-gateway binary.
type GatewayOptions struct {
	HttpOptions     *options.HttpOptions     `json:"http" mapstructure:"http"`
	MqttOptions     *options.MqttOptions     `json:"mqtt" mapstructure:"mqtt"`
	BluelinkOptions *options.BluelinkOptions `json:"bluelink" mapstructure:"bluelink"`
	Log             *log.Options             `json:"log" mapstructure:"log"`

	// PresetsFile points at the YAML file holding custom climate presets.
	PresetsFile string `json:"presets-file" mapstructure:"presets-file"`

	// Debug enables per-entry resolution diagnostics in the dispatcher.
	Debug bool `json:"debug" mapstructure:"debug"`
}

// NewGatewayOptions creates the options with defaults.
func NewGatewayOptions() *GatewayOptions {
	return &GatewayOptions{
		HttpOptions:     options.NewHttpOptions(),
		MqttOptions:     options.NewMqttOptions(),
		BluelinkOptions: options.NewBluelinkOptions(),
		Log:             log.NewOptions(),
	}
}

// AddFlags registers all flags on the given FlagSet.
func (o *GatewayOptions) AddFlags(fs *pflag.FlagSet) {
	o.HttpOptions.AddFlags(fs)
	o.MqttOptions.AddFlags(fs)
	o.BluelinkOptions.AddFlags(fs)
	o.Log.AddFlags(fs)

	fs.StringVar(&o.PresetsFile, "presets-file", o.PresetsFile, "YAML file with user-defined climate presets (watched for changes).")
	fs.BoolVar(&o.Debug, "debug", o.Debug, "Log per-entry match diagnostics for every utterance.")
}

// Validate collects the problems from every options group.
func (o *GatewayOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.BluelinkOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	return errors.Join(errs...)
}

// Config builds the gateway configuration from the parsed options.
func (o *GatewayOptions) Config() (*gateway.Config, error) {
	return &gateway.Config{
		HttpOptions:     o.HttpOptions,
		MqttOptions:     o.MqttOptions,
		BluelinkOptions: o.BluelinkOptions,
		PresetsFile:     o.PresetsFile,
		Debug:           o.Debug,
	}, nil
}
