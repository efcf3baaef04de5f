package flagx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		allowed []string
		want    []string
	}{
		{
			name:    "separate value form",
			args:    []string{"-a", "localhost:5000", "-x", "ignored"},
			allowed: []string{"-a"},
			want:    []string{"-a", "localhost:5000"},
		},
		{
			name:    "equals form",
			args:    []string{"--config=conf.json", "-a=addr"},
			allowed: []string{"--config"},
			want:    []string{"--config=conf.json"},
		},
		{
			name:    "flag without value followed by another flag",
			args:    []string{"-v", "-a", "addr"},
			allowed: []string{"-v"},
			want:    []string{"-v"},
		},
		{
			name:    "nothing allowed",
			args:    []string{"-a", "addr"},
			allowed: nil,
			want:    []string{},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, FilterArgs(tc.args, tc.allowed))
		})
	}
}
