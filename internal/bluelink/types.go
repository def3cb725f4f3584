package bluelink

import (
	"time"

	"github.com/voxlink-io/voxlink/internal/vehicle"
)

// Wire payloads for the Bluelink REST surface. They are kept separate from
// internal/vehicle so the dispatch core never sees region-specific encodings.

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	PIN      string `json:"pin,omitempty"`
}

type loginResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresInSeconds int    `json:"expires_in"`
}

type statusResponse struct {
	BatteryLevel           int     `json:"batteryLevel"`
	DoorsLocked            bool    `json:"doorsLocked"`
	ClimateOn              bool    `json:"climateOn"`
	Charging               bool    `json:"charging"`
	PluggedIn              bool    `json:"pluggedIn"`
	ChargePowerKW          float64 `json:"chargePowerKw"`
	RemainingChargeMinutes int     `json:"remainingChargeMinutes"`
	LastCheckedUnix        int64   `json:"lastChecked"`
	Nickname               string  `json:"nickname"`
	Model                  string  `json:"model"`
}

func (r *statusResponse) toStatus() *vehicle.Status {
	return &vehicle.Status{
		BatteryLevel:           r.BatteryLevel,
		Locked:                 r.DoorsLocked,
		ClimateOn:              r.ClimateOn,
		Charging:               r.Charging,
		PluggedIn:              r.PluggedIn,
		ChargePowerKW:          r.ChargePowerKW,
		RemainingChargeMinutes: r.RemainingChargeMinutes,
		LastChecked:            time.Unix(r.LastCheckedUnix, 0),
		Nickname:               r.Nickname,
		Model:                  r.Model,
	}
}

type commandRequest struct {
	TransactionID string `json:"transactionId"`
	Command       string `json:"command"`
	Payload       any    `json:"payload,omitempty"`
}

type commandResponse struct {
	TransactionID string `json:"transactionId"`
	Accepted      bool   `json:"accepted"`
	Message       string `json:"message,omitempty"`
}

type transactionResponse struct {
	TransactionID string `json:"transactionId"`
	// Status: "pending", "succeeded", or "failed".
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

const (
	txStatusPending   = "pending"
	txStatusSucceeded = "succeeded"
	txStatusFailed    = "failed"
)
