package options

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*BluelinkOptions)(nil)

// BluelinkOptions contains configuration for the Bluelink API client.
// Credentials deliberately have no flags; they are read from the environment
// so they never show up in process listings.
type BluelinkOptions struct {
	// BaseURL is the regional Bluelink API endpoint.
	BaseURL string `json:"base-url" mapstructure:"base-url"`

	// VehicleID selects the vehicle on the account.
	VehicleID string `json:"vehicle-id" mapstructure:"vehicle-id"`

	// Timeout bounds individual API calls.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	// RequestsPerMinute throttles outgoing API calls. Bluelink rate-limits
	// aggressively and a throttled account can lock out the mobile app too.
	RequestsPerMinute int `json:"requests-per-minute" mapstructure:"requests-per-minute"`

	// ClimateTempWarm is the cabin target for the warm preset, in the
	// account's configured unit.
	ClimateTempWarm float64 `json:"climate-temp-warm" mapstructure:"climate-temp-warm"`

	// ClimateTempCold is the cabin target for the cool preset.
	ClimateTempCold float64 `json:"climate-temp-cold" mapstructure:"climate-temp-cold"`
}

// NewBluelinkOptions creates a new BluelinkOptions with default values.
func NewBluelinkOptions() *BluelinkOptions {
	return &BluelinkOptions{
		BaseURL:           "https://api.telematics.hyundaiusa.com",
		Timeout:           30 * time.Second,
		RequestsPerMinute: 30,
		ClimateTempWarm:   72,
		ClimateTempCold:   66,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *BluelinkOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if _, err := url.Parse(o.BaseURL); err != nil {
		errors = append(errors, fmt.Errorf("invalid bluelink base url: %w", err))
	}
	if o.VehicleID == "" {
		errors = append(errors, fmt.Errorf("bluelink vehicle id is required"))
	}
	if o.RequestsPerMinute <= 0 {
		errors = append(errors, fmt.Errorf("bluelink requests-per-minute must be positive"))
	}

	return errors
}

// AddFlags adds flags for BluelinkOptions to the specified FlagSet.
func (o *BluelinkOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.BaseURL, "bluelink.base-url", o.BaseURL, "The regional Bluelink API endpoint.")
	fs.StringVar(&o.VehicleID, "bluelink.vehicle-id", o.VehicleID, "The vehicle identifier on the Bluelink account.")
	fs.DurationVar(&o.Timeout, "bluelink.timeout", o.Timeout, "Timeout for individual Bluelink API calls.")
	fs.IntVar(&o.RequestsPerMinute, "bluelink.requests-per-minute", o.RequestsPerMinute, "Upper bound on outgoing Bluelink API calls.")
	fs.Float64Var(&o.ClimateTempWarm, "bluelink.climate-temp-warm", o.ClimateTempWarm, "Cabin temperature for the warm climate preset.")
	fs.Float64Var(&o.ClimateTempCold, "bluelink.climate-temp-cold", o.ClimateTempCold, "Cabin temperature for the cool climate preset.")
}
