package jornada

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexflint/go-filemutex"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/buntdb"
)

// at returns a local time in March 2024; the 4th is a Monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.Local)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBuntRepository(t *testing.T) *BuntRepository {
	t.Helper()
	db, err := buntdb.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo, err := NewBuntRepository(db)
	require.NoError(t, err)
	return repo
}

type recordingNotificator struct {
	titles []string
}

func (n *recordingNotificator) Notify(title, message string) error {
	n.titles = append(n.titles, title)
	return nil
}

func newTestClock(t *testing.T, repo Repository) (*Clock, *recordingNotificator) {
	t.Helper()
	fm, err := filemutex.New(filepath.Join(t.TempDir(), "jornada.lock"))
	require.NoError(t, err)
	t.Cleanup(func() { fm.Close() })
	n := &recordingNotificator{}
	return NewClock(repo, discardLogger(), n, fm, DefaultThreshold), n
}

func closedSession(id string, start time.Time, regular, extra float64) WorkSession {
	end := start.Add(time.Duration((regular + extra) * float64(time.Hour)))
	return WorkSession{
		ID:           id,
		Date:         DateOf(start),
		StartAt:      start,
		EndAt:        &end,
		RegularHours: regular,
		ExtraHours:   extra,
		TotalHours:   regular + extra,
	}
}
