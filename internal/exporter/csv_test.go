package exporter

import (
	"context"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	writer := NewWriter(dir, testLogger())

	t.Run("writes headers and records with a BOM", func(t *testing.T) {
		path, err := writer.WriteCSV(context.Background(), "table.csv", WriteOptions{
			Headers:   []string{"period", "rate"},
			Records:   [][]string{{"2017-01", "0.0500"}, {"2017-02", "0.0300"}},
			BOMPrefix: true,
		})
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "table.csv"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF"))
		assert.Contains(t, string(data), "period,rate\n")
		assert.Contains(t, string(data), "2017-02,0.0300\n")
	})

	t.Run("omits the BOM when not requested", func(t *testing.T) {
		path, err := writer.WriteCSV(context.Background(), "plain.csv", WriteOptions{
			Headers: []string{"a"},
			Records: [][]string{{"1"}},
		})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "a\n1\n", string(data))
	})

	t.Run("creates nested directories", func(t *testing.T) {
		path, err := writer.WriteCSV(context.Background(), filepath.Join("2017", "q1.csv"), WriteOptions{
			Headers: []string{"a"},
		})
		require.NoError(t, err)
		assert.FileExists(t, path)
	})
}

func TestWriteFile(t *testing.T) {
	writer := NewWriter(t.TempDir(), testLogger())

	path, err := writer.WriteFile(context.Background(), "summary.md", []byte("# Title\n"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Title\n", string(data))
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "0.0500", formatRate(0.05))
	assert.Equal(t, "", formatRate(math.NaN()))
	assert.Equal(t, "<0.0001", formatPValue(0.00003))
	assert.Equal(t, "0.0000", formatPValue(0))
	assert.Equal(t, "0.0224", formatPValue(0.0224))
	assert.Equal(t, "5.0%", formatPct(0.05))
	assert.Equal(t, "true", formatBool(true))
	assert.Equal(t, "42", formatInt(42))
}
