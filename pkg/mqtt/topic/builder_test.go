package topic

import "testing"

func TestBuilder(t *testing.T) {
	b := NewBuilder("voxlink/v1")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"concrete", b.Build("utterance", "ioniq5"), "voxlink/v1/utterance/ioniq5"},
		{"wildcard", b.BuildWildcard("utterance"), "voxlink/v1/utterance/+"},
		{"shared", b.Shared("gateway").BuildWildcard("utterance"), "$share/gateway/voxlink/v1/utterance/+"},
		{"reply", b.Build("reply", "kona"), "voxlink/v1/reply/kona"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestVehicleID(t *testing.T) {
	if got := VehicleID("voxlink/v1/utterance/ioniq5"); got != "ioniq5" {
		t.Errorf("VehicleID() = %q, want %q", got, "ioniq5")
	}
	if got := VehicleID("no-levels"); got != "" {
		t.Errorf("VehicleID() = %q, want empty", got)
	}
}
