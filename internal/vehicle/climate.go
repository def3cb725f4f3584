package vehicle

// ClimateRequest is the payload for a remote climate command. It is built
// per invocation from a fixed preset or a user-defined one and never stored.
type ClimateRequest struct {
	Enable          bool    `json:"enable" yaml:"enable"`
	FrontDefrost    bool    `json:"frontDefrost" yaml:"front-defrost"`
	RearDefrost     bool    `json:"rearDefrost" yaml:"rear-defrost"`
	Steering        bool    `json:"steering" yaml:"steering"`
	Temperature     float64 `json:"temperature" yaml:"temperature"`
	DurationMinutes int     `json:"durationMinutes" yaml:"duration-minutes"`
}

// ClimatePreset is a user-defined named climate configuration. Each preset is
// dynamically registered as a matchable voice command: its name tokens plus
// the literal word "climate" form the trigger-word set.
type ClimatePreset struct {
	Name    string         `yaml:"name"`
	Request ClimateRequest `yaml:",inline"`
}

// Config carries the per-account tuning the handlers need when building
// climate payloads from the fixed warm/cool presets.
type Config struct {
	// ClimateTempWarm is the target cabin temperature for the warm preset.
	ClimateTempWarm float64

	// ClimateTempCold is the target cabin temperature for the cool preset.
	ClimateTempCold float64
}
