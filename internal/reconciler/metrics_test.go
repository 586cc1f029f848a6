package reconciler

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"txtsync/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.InitForCLI(logging.LevelDebug, io.Discard)
	os.Exit(m.Run())
}

func TestRecordCycle(t *testing.T) {
	written := testutil.ToFloat64(destinationCycles.WithLabelValues(cycleWritten))
	unchanged := testutil.ToFloat64(destinationCycles.WithLabelValues(cycleUnchanged))
	writes := testutil.ToFloat64(destinationWrites)

	recordCycle(cycleWritten, time.Millisecond)
	recordCycle(cycleUnchanged, time.Millisecond)
	recordCycle(cycleUnchanged, time.Millisecond)

	assert.Equal(t, written+1, testutil.ToFloat64(destinationCycles.WithLabelValues(cycleWritten)))
	assert.Equal(t, unchanged+2, testutil.ToFloat64(destinationCycles.WithLabelValues(cycleUnchanged)))
	assert.Equal(t, writes+1, testutil.ToFloat64(destinationWrites))
}

func TestRecordReload(t *testing.T) {
	failed := testutil.ToFloat64(configReloads.WithLabelValues(reloadFailed))
	recordReload(reloadFailed)
	assert.Equal(t, failed+1, testutil.ToFloat64(configReloads.WithLabelValues(reloadFailed)))
}

func TestDestinationCycleMetrics(t *testing.T) {
	f := newStubFetcher()
	f.set("https://a.example", "a.example, 1, DIRECT", true)
	path := filepath.Join(t.TempDir(), "ads.txt")

	writes := testutil.ToFloat64(destinationWrites)
	unchanged := testutil.ToFloat64(destinationCycles.WithLabelValues(cycleUnchanged))

	d := startDestination(t, destinationSpec(path, "https://a.example"), f, fakeclock.NewFakeClock(time.Now()))
	require.NoError(t, d.Wait(waitCtx(t)))
	assert.Equal(t, writes+1, testutil.ToFloat64(destinationWrites))

	d.Trigger()
	require.NoError(t, d.Wait(waitCtx(t)))
	assert.Equal(t, writes+1, testutil.ToFloat64(destinationWrites))
	assert.Equal(t, unchanged+1, testutil.ToFloat64(destinationCycles.WithLabelValues(cycleUnchanged)))
}
