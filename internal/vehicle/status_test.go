package vehicle

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name   string
		status *Status
		want   string
	}{
		{
			name:   "nickname wins",
			status: &Status{Nickname: "Ioniq", Model: "IONIQ 5"},
			want:   "Ioniq",
		},
		{
			name:   "model fallback",
			status: &Status{Model: "IONIQ 5"},
			want:   "IONIQ 5",
		},
		{
			name:   "generic fallback",
			status: &Status{},
			want:   "your car",
		},
		{
			name:   "nil status",
			status: nil,
			want:   "your car",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
