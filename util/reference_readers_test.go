package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zoo-assistant/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseCSVRecords(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []CSVRecord
	}{
		{
			name:    "plain header",
			content: "venue,ticket_type,price\n入園,普通票,60\n",
			expected: []CSVRecord{
				{"venue": "入園", "ticket_type": "普通票", "price": "60"},
			},
		},
		{
			name:    "byte order mark on header",
			content: "\uFEFFvenue,price\n入園,60\n",
			expected: []CSVRecord{
				{"venue": "入園", "price": "60"},
			},
		},
		{
			name:    "short row pads missing columns",
			content: "venue,open_time,close_time,notes\n動物園,09:00\n",
			expected: []CSVRecord{
				{"venue": "動物園", "open_time": "09:00", "close_time": "", "notes": ""},
			},
		},
		{
			name:     "empty input",
			content:  "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := ParseCSVRecords(strings.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, records)
		})
	}
}

func TestCSVRecord_Get(t *testing.T) {
	rec := CSVRecord{"name": "  鳥園 "}

	assert.Equal(t, "鳥園", rec.Get("name"))
	assert.Equal(t, "", rec.Get("missing"))
}

func TestReadCSVRecords(t *testing.T) {
	path := createTempFile(t, "hours.csv", "venue,open_time\n動物園,09:00\n遊客列車,09:30\n")

	records, err := ReadCSVRecords(path)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "遊客列車", records[1].Get("venue"))
}

func TestReadCSVRecords_MissingFile(t *testing.T) {
	_, err := ReadCSVRecords(filepath.Join(t.TempDir(), "missing.csv"))

	assert.ErrorIs(t, err, models.ErrDataSourceUnavailable)
}

func TestReadTextDocument(t *testing.T) {
	path := createTempFile(t, "info.txt", "\uFEFF=== 交通及停車 ===\n捷運動物園站\n")

	text, err := ReadTextDocument(path)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "=== 交通及停車 ==="))

	_, err = ReadTextDocument(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, models.ErrDataSourceUnavailable)
}
