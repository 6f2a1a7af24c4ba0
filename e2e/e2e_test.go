package e2e

import (
	"context"
	"encoding/xml"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/fcbench/app"
	"github.com/kilianp07/fcbench/config"
	"github.com/kilianp07/fcbench/core/factory"
	coremetrics "github.com/kilianp07/fcbench/core/metrics"
	"github.com/kilianp07/fcbench/test/util"
)

// junitReport is a minimal representation of a JUnit XML report. The E2E
// suite writes such a report so CI systems can display the results.
type junitReport struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr"`
	Tests    int             `xml:"tests,attr"`
	Failures int             `xml:"failures,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string  `xml:"name,attr"`
	Failure *string `xml:"failure,omitempty"`
	Time    float64 `xml:"time,attr"`
}

func writeJUnit(path string, rep junitReport) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := xml.NewEncoder(f)
	enc.Indent("", "  ")
	return enc.Encode(rep)
}

func Test_E2E_BenchmarkToInflux(t *testing.T) {
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skipf("docker not installed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	url, cleanup, err := util.StartInflux(ctx)
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	defer cleanup()
	t.Logf("InfluxDB started at %s", url)

	cfg := &config.Config{
		Tasks: []config.TaskConfig{{
			Dataset:  factory.ModuleConfig{Type: "static", Conf: map[string]any{"name": "ramp", "values": []any{1.0, 2.0, 3.0, 4.0, 5.0, 6.0}}},
			Splitter: factory.ModuleConfig{Type: "sliding", Conf: map[string]any{"window_length": 3}},
			Scorers:  []string{"MeanAbsoluteError"},
		}},
		Estimators: []config.EstimatorConfig{{Type: "naive"}, {Type: "trend"}},
		Results:    config.ResultsConfig{Backend: config.BackendNone},
		Metrics: coremetrics.Config{Sinks: []factory.ModuleConfig{{Type: "influx", Conf: map[string]any{
			"url": url, "token": util.InfluxToken, "org": util.InfluxOrg, "bucket": util.InfluxBucket,
		}}}},
	}
	cfg.SetDefaults()
	require.NoError(t, cfg.Validate())

	start := time.Now()
	svc, err := app.New(cfg)
	require.NoError(t, err)
	defer svc.Close()
	tbl, err := svc.Run(ctx, "")
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)

	cli := NewInfluxClient(url, util.InfluxOrg, util.InfluxBucket, util.InfluxToken)
	defer cli.Close()
	require.Eventually(t, func() bool {
		n, err := cli.CountPoints(ctx, "benchmark_result", "MeanAbsoluteError_mean")
		return err == nil && n == 2
	}, 10*time.Second, 200*time.Millisecond)
	folds, err := cli.CountPoints(ctx, "benchmark_fold", "fit_ms")
	require.NoError(t, err)
	assert.Equal(t, 6, folds)
	models, err := cli.Tags(ctx, "benchmark_result", "model_id")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"NaiveForecaster-v1", "TrendForecaster-v1"}, models)

	rep := junitReport{Name: "e2e", Tests: 1, Cases: []junitTestCase{{Name: t.Name(), Time: time.Since(start).Seconds()}}}
	if err := writeJUnit(filepath.Join(t.TempDir(), "e2e.xml"), rep); err != nil {
		t.Logf("write junit: %v", err)
	}
}
