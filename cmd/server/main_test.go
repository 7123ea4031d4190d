package main

import (
	"testing"

	"github.com/dgallion1/grokmcp/internal/config"
)

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name      string
		env       string
		args      []string
		transport string
		port      int
	}{
		{"defaults", "", nil, config.TransportStdio, 8888},
		{"flag transport", "", []string{"-t", "SSE", "-p", "9000"}, config.TransportSSE, 9000},
		{"env wins over flag", "streamable-http", []string{"--transport", "sse"}, config.TransportStreamableHTTP, 8888},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MCP_TRANSPORT", tt.env)
			t.Setenv("MCP_PORT", "")
			cmd := rootCmd()
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}
			cfg := config.Load()
			applyFlags(cmd, &cfg)
			if cfg.Transport != tt.transport {
				t.Errorf("transport = %q, want %q", cfg.Transport, tt.transport)
			}
			if cfg.Port != tt.port {
				t.Errorf("port = %d, want %d", cfg.Port, tt.port)
			}
		})
	}
}
