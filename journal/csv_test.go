package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVJournal(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	fillsPath := filepath.Join(tmp, "fills.csv")
	pnlPath := filepath.Join(tmp, "pnl.csv")

	j, err := NewCSV(fillsPath, pnlPath)
	require.NoError(t, err)

	ts := time.Date(2025, 5, 19, 13, 0, 0, 0, time.UTC)

	require.NoError(t, j.RecordFill(Fill{
		ID:       "01TESTULID",
		Time:     ts,
		Symbol:   "C-BTC-100000-220525",
		Side:     "SELL",
		Quantity: 0.1,
		Price:    49.995,
	}))
	require.NoError(t, j.RecordPnl(PnlRecord{Label: "2025-05-19", PnL: 9.999}))
	require.NoError(t, j.Close())

	ff, err := os.Open(fillsPath)
	require.NoError(t, err)
	defer ff.Close()

	rows, err := csv.NewReader(ff).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"fill_id", "time", "symbol", "side", "quantity", "price"}, rows[0])
	assert.Equal(t, "01TESTULID", rows[1][0])
	assert.Equal(t, "2025-05-19T13:00:00Z", rows[1][1])
	assert.Equal(t, "SELL", rows[1][3])

	pf, err := os.Open(pnlPath)
	require.NoError(t, err)
	defer pf.Close()

	rows, err = csv.NewReader(pf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"time", "PnL"}, rows[0])
	assert.Equal(t, "2025-05-19", rows[1][0])
	assert.Equal(t, "9.999000", rows[1][1])
}

func TestCSVJournalCreateErrors(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()

	_, err := NewCSV(filepath.Join(tmp, "missing", "fills.csv"), filepath.Join(tmp, "pnl.csv"))
	assert.Error(t, err)

	_, err = NewCSV(filepath.Join(tmp, "fills.csv"), filepath.Join(tmp, "missing", "pnl.csv"))
	assert.Error(t, err)
}
