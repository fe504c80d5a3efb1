package core

import (
	"strings"
	"testing"
)

func TestInputFrameLatchesSwitches(t *testing.T) {
	f := NewInputFrame()
	f.Set(ActionRight)
	f.Set(ActionUp)
	f.Set(ActionPause)

	if !f.Switches.Has(SwitchRight | SwitchUp) {
		t.Errorf("Switches = %v, expected right|up", f.Switches)
	}
	if f.Switches.Has(SwitchLeft) {
		t.Error("Switches should not include left")
	}
	if !f.Has(ActionPause) {
		t.Error("Has(ActionPause) = false, expected true")
	}

	f.Clear()
	if f.Switches.Any() || f.Has(ActionPause) {
		t.Error("Clear() left state behind")
	}
}

func TestSwitchesString(t *testing.T) {
	tests := []struct {
		in       Switches
		expected string
	}{
		{0, "none"},
		{SwitchRight, "right"},
		{SwitchLeft | SwitchDown, "left|down"},
		{SwitchMask, "right|left|up|down"},
	}

	for _, tc := range tests {
		if got := tc.in.String(); got != tc.expected {
			t.Errorf("Switches(%d).String() = %q, expected %q", tc.in, got, tc.expected)
		}
	}
}

func TestActionSwitch(t *testing.T) {
	if ActionLeft.Switch() != SwitchLeft {
		t.Error("ActionLeft should map to SwitchLeft")
	}
	if ActionQuit.Switch() != 0 {
		t.Error("ActionQuit should not map to a switch")
	}
	if ActionRestart.String() != "Restart" {
		t.Errorf("String() = %q, expected Restart", ActionRestart.String())
	}
}

func TestParseSwitches(t *testing.T) {
	tests := []struct {
		names   []string
		want    Switches
		wantErr bool
	}{
		{nil, 0, false},
		{[]string{"right"}, SwitchRight, false},
		{[]string{"Left", " down "}, SwitchLeft | SwitchDown, false},
		{[]string{"up", "up"}, SwitchUp, false},
		{[]string{"sideways"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.names, ","), func(t *testing.T) {
			got, err := ParseSwitches(tt.names)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSwitches() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseSwitches() = %v, expected %v", got, tt.want)
			}
		})
	}
}
