package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEquipmentName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"notebook", "NOTEBOOK"},
		{"  Notebook  ", "NOTEBOOK"},
		{"NOTEBOOK", "NOTEBOOK"},
		{"   ", ""},
		{"", ""},
		{"hp LaserJet 1020", "HP LASERJET 1020"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeEquipmentName(tc.in), "input %q", tc.in)
	}
}
