package audit

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/hostctl/internal/action"
	"codeberg.org/mutker/hostctl/internal/errors"
	"codeberg.org/mutker/hostctl/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) Config {
	t.Helper()

	return Config{
		DBPath:       filepath.Join(t.TempDir(), "audit", "audit.db"),
		BatchSize:    20,
		BatchTimeout: time.Hour,
		Enabled:      true,
	}
}

func TestDisabledJournalIsNoop(t *testing.T) {
	j, err := NewService(DefaultConfig())
	require.NoError(t, err)

	require.NoError(t, j.Record(context.Background(), &Entry{Action: "ping"}))
	j.Observe(context.Background(), action.Request{Name: "ping"}, action.OK(nil), time.Millisecond)
	require.NoError(t, j.Close())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	err := Config{Enabled: true}.Validate()
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, ErrInvalidDBPath))

	assert.Error(t, Config{BatchSize: -1}.Validate())
}

func TestObserveRecordsActions(t *testing.T) {
	j, err := NewService(testConfig(t))
	require.NoError(t, err)
	defer j.Close()

	svc := j.(*service)

	j.Observe(context.Background(),
		action.Request{Name: "kill", Params: map[string]string{"pid": "42"}},
		action.Fail(action.KindNotFound, "No such process"),
		1500*time.Microsecond)
	j.Observe(context.Background(), action.Request{Name: "ping"}, action.OK(action.Payload{"alive": true}), time.Millisecond)

	entries, err := svc.repo.recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "ping", entries[0].Action)
	assert.Equal(t, "ok", entries[0].Kind)
	assert.Equal(t, 200, entries[0].Status)

	assert.Equal(t, "kill", entries[1].Action)
	assert.Equal(t, map[string]string{"pid": "42"}, entries[1].Params)
	assert.Equal(t, "not_found", entries[1].Kind)
	assert.Equal(t, 404, entries[1].Status)
	assert.Equal(t, "No such process", entries[1].Message)
	assert.Equal(t, 1500*time.Microsecond, entries[1].Duration)
}

func TestObserveSurvivesCancelledContext(t *testing.T) {
	j, err := NewService(testConfig(t))
	require.NoError(t, err)
	defer j.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	j.Observe(ctx, action.Request{Name: "shutdown"}, action.OK(nil), time.Millisecond)

	entries, err := j.(*service).repo.recent(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "shutdown", entries[0].Action)
}

func TestRecordRejectsInvalidEntry(t *testing.T) {
	j, err := NewService(testConfig(t))
	require.NoError(t, err)
	defer j.Close()

	err = j.Record(context.Background(), nil)
	assert.True(t, errors.HasCode(err, ErrInvalidEntry))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = j.Record(ctx, &Entry{Action: "ping"})
	assert.True(t, errors.HasCode(err, ErrOperationTimeout))
}

func TestCloseFlushesBuffer(t *testing.T) {
	cfg := testConfig(t)

	repo, err := NewRepository(cfg, logger.Default())
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(&Entry{Timestamp: time.Now(), Action: "status", Kind: "ok", Status: 200}))
	}
	require.NoError(t, repo.Close())
	require.NoError(t, repo.Close())

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM actions").Scan(&n))
	assert.Equal(t, 3, n)
}

func TestUnbatchedRepositoryWritesImmediately(t *testing.T) {
	cfg := testConfig(t)
	cfg.BatchSize = 0

	repo, err := NewRepository(cfg, logger.Default())
	require.NoError(t, err)
	defer repo.Close()

	require.NoError(t, repo.Record(&Entry{Timestamp: time.Now(), Action: "lock", Kind: "ok", Status: 200}))

	r := repo.(*repository)
	r.mu.Lock()
	assert.Empty(t, r.buffer)
	r.mu.Unlock()
}

func TestSchemaMismatchBacksUpAndRecreates(t *testing.T) {
	cfg := testConfig(t)

	repo, err := NewRepository(cfg, logger.Default())
	require.NoError(t, err)
	require.NoError(t, repo.Close())

	db, err := sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	_, err = db.Exec("UPDATE schema_versions SET version = 99")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	repo, err = NewRepository(cfg, logger.Default())
	require.NoError(t, err)
	defer repo.Close()

	backups, err := filepath.Glob(filepath.Join(filepath.Dir(cfg.DBPath), "backups", "audit_v99_*.db"))
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	db, err = sql.Open("sqlite3", cfg.DBPath)
	require.NoError(t, err)
	defer db.Close()

	version, err := GetSchemaVersion(db)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, version)
}
