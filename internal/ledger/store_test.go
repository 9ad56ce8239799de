package ledger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JustJay7/collections-tracker/internal/model"
)

func TestFileStoreMissingDocument(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "tracking.json"))

	doc, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Cases)
	assert.Nil(t, doc.LastAnalysis)
	assert.Equal(t, AnalysisVersion, doc.AnalysisVersion)
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "nested", "tracking.json"))

	r := newRecord(model.Case{CaseNumber: "333925", PatientName: "Jane Doe"})
	at := testNow.AddDate(0, 0, -5)
	r.add(Activity{CaseNumber: "333925", Direction: model.DirectionReceived, Date: at.Format(time.RFC3339)}, &at)

	require.NoError(t, s.Save(NewDocument(Ledger{"333925": r}, testNow)))

	doc, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, doc.LastAnalysis)
	assert.True(t, testNow.Equal(*doc.LastAnalysis))

	got := doc.Cases["333925"]
	require.NotNil(t, got)
	assert.Equal(t, 1, got.ReceivedCount)
	assert.True(t, at.Equal(*got.LastContact))
	assert.Equal(t, "Jane Doe", got.CaseInfo.PatientName)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStoreIncompatibleVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cases":{},"analysis_version":"4.2"}`), 0o644))

	_, err := NewFileStore(path).Load()
	assert.ErrorIs(t, err, ErrIncompatibleVersion)
}

func TestFileStoreCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cases":`), 0o644))

	_, err := NewFileStore(path).Load()
	assert.Error(t, err)
}

func TestFileStoreTryLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking.json")
	first := NewFileStore(path)
	second := NewFileStore(path)

	unlock, err := first.TryLock()
	require.NoError(t, err)

	_, err = second.TryLock()
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, unlock())

	unlock, err = second.TryLock()
	require.NoError(t, err)
	require.NoError(t, unlock())
}

func TestFileStoreTryLockSameStore(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "tracking.json"))

	unlock, err := s.TryLock()
	require.NoError(t, err)

	_, err = s.TryLock()
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, unlock())
	require.NoError(t, unlock())

	unlock, err = s.TryLock()
	require.NoError(t, err)
	require.NoError(t, unlock())
}
