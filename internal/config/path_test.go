package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("LEDGERFLOW_TEST_DIR", "/data")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain path untouched", in: "/var/lib/ledgerflow.db", want: "/var/lib/ledgerflow.db"},
		{name: "tilde prefix", in: "~/ledger.db", want: filepath.Join(home, "ledger.db")},
		{name: "bare tilde", in: "~", want: home},
		{name: "env var", in: "$LEDGERFLOW_TEST_DIR/ledger.db", want: "/data/ledger.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestDefaultDatabasePath(t *testing.T) {
	path := DefaultDatabasePath()
	assert.True(t, strings.HasSuffix(path, "ledgerflow.db"))
}
