package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		initial     *Config
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-d", "db", "-s", "secret",
			"-t", "1", "-r", "3", "-o", "https://qr.example", "-m", "a@x.io, b@x.io", "-l", "zap",
			"-u", "user", "-p", "password", "-b", "bucket", "-g", "us-west-1", "-e", "http://endpoint", "-q", "512",
		}, expectPanic: false,
			initial: &Config{},
			expected: &Config{
				HTTPAddr:                     "127.0.0.1:9090",
				DatabaseDSN:                  "db",
				SecretKey:                    "secret",
				AccessTokenValidityDuration:  1 * time.Minute,
				RefreshTokenValidityDuration: 3 * time.Minute,
				PublicOrigin:                 "https://qr.example",
				AdminEmails:                  []string{"a@x.io", "b@x.io"},
				LogBackend:                   "zap",
				S3RootUser:                   "user",
				S3RootPassword:               "password",
				S3Bucket:                     "bucket",
				S3Region:                     "us-west-1",
				S3BaseEndpoint:               "http://endpoint",
				QRImageSize:                  512,
			}},
		{name: "unset durations keep sub-minute values", args: []string{"cmd", "-a", ":1"},
			initial:  &Config{AccessTokenValidityDuration: 30 * time.Second},
			expected: &Config{HTTPAddr: ":1", AccessTokenValidityDuration: 30 * time.Second}},
		{name: "bad int", args: []string{"cmd", "-q", "big"}, initial: &Config{}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := tt.initial

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
