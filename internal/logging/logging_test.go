// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		debug     bool
		wantDebug bool
	}{
		{debug: false, wantDebug: false},
		{debug: true, wantDebug: true},
	}
	for _, tt := range tests {
		log, err := New(tt.debug)
		if err != nil {
			t.Fatalf("New(%v): %v", tt.debug, err)
		}
		if got := log.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
			t.Errorf("New(%v) debug enabled = %v, want %v", tt.debug, got, tt.wantDebug)
		}
		if !log.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("New(%v) info disabled", tt.debug)
		}
	}
}
