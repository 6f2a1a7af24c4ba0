package dataset

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticLoaderReturnsFreshCopy(t *testing.T) {
	l := Static("data_loader_simple", 2, 2, 3)
	a, err := l.Load(context.Background())
	require.NoError(t, err)
	a.Values[0] = 10
	b, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 2, 3}, b.Values)
	assert.Equal(t, "data_loader_simple", l.Name())
}

func TestCSVLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "airline.csv")
	require.NoError(t, os.WriteFile(path, []byte("t,passengers\n10,112\n11,118\n12,132\n"), 0o644))

	l := CSVLoader{Path: path, Column: "passengers", IndexColumn: "t"}
	assert.Equal(t, "airline", l.Name())
	s, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, s.Index)
	assert.Equal(t, []float64{112, 118, 132}, s.Values)

	_, err = CSVLoader{Path: path, Column: "missing"}.Load(context.Background())
	assert.Error(t, err)
}

func TestReadCSVNoHeader(t *testing.T) {
	s, err := ReadCSV(strings.NewReader("2\n2\n3\n"), "", "", false)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, s.Index)
	assert.Equal(t, []float64{2, 2, 3}, s.Values)

	_, err = ReadCSV(strings.NewReader("x\n"), "", "", false)
	assert.Error(t, err)
}

func TestForecastingMetadataValidate(t *testing.T) {
	m := ForecastingMetadata{
		ExternalMetadata: ExternalMetadata{
			BaseMetadata: BaseMetadata{Name: "airline", TaskType: TaskForecasting, DownloadFileFormat: FormatCSV},
			URL:          "https://example.com/airline.csv",
			BackupURLs:   []string{"https://mirror.example.com/airline.csv"},
		},
		RecordNumber: 144,
	}
	require.NoError(t, m.Validate())
	assert.Equal(t, []string{"https://example.com/airline.csv", "https://mirror.example.com/airline.csv"}, m.URLs())

	m.TaskType = TaskRegression
	assert.Error(t, m.Validate())
	m.TaskType = "clustering"
	assert.Error(t, m.Validate())
	m.TaskType = TaskForecasting
	m.URL = ""
	assert.Error(t, m.Validate())
}
