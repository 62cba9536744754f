package sync

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Logicalyan/dashbord-reporting-module/internal/application/attendancesync/dto"
	"github.com/Logicalyan/dashbord-reporting-module/internal/domain/synclog"
)

func TestRender(t *testing.T) {
	result := &dto.SyncResult{
		SyncLogID: "sync_abc",
		Type:      "manual",
		DateFrom:  "2025-01-01",
		DateTo:    "2025-01-02",
		Stats:     synclog.Stats{Total: 2, Created: 2},
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, "json", result))
		assert.Contains(t, buf.String(), `"sync_log_id": "sync_abc"`)
		assert.Contains(t, buf.String(), `"created": 2`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, render(&buf, "yaml", result))
		assert.Contains(t, buf.String(), "sync_log_id: sync_abc")
		assert.Contains(t, buf.String(), "  created: 2")
	})

	t.Run("unknown format", func(t *testing.T) {
		err := render(&bytes.Buffer{}, "xml", result)
		assert.ErrorContains(t, err, "unsupported output format")
	})
}

func TestNewCommand(t *testing.T) {
	cmd := NewCommand()

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"run", "yesterday", "auto", "status", "employees", "push"}, names)

	run, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)
	for _, flag := range []string{"user", "from", "to"} {
		assert.NotNil(t, run.Flags().Lookup(flag), flag)
	}

	push, _, err := cmd.Find([]string{"push"})
	require.NoError(t, err)
	for _, flag := range []string{"user", "employee", "date"} {
		assert.NotNil(t, push.Flags().Lookup(flag), flag)
	}
}
