package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/Dosada05/league-system/events"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/repositories"
	"github.com/stretchr/testify/require"
)

// Драйвер-пустышка: Begin/Commit/Rollback работают, запросы запрещены.
// Через него withTx выдаёт сервисам настоящую *sql.Tx, а данные живут в
// фейковых репозиториях, которым executor не нужен.
type noopDriver struct{}

func (noopDriver) Open(string) (driver.Conn, error) { return &noopConn{}, nil }

type noopConn struct{}

func (*noopConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("queries are not supported")
}
func (*noopConn) Close() error              { return nil }
func (*noopConn) Begin() (driver.Tx, error) { return noopTx{}, nil }

type noopTx struct{}

func (noopTx) Commit() error   { return nil }
func (noopTx) Rollback() error { return nil }

var registerNoopDriver sync.Once

func newServiceDB(t *testing.T) *sql.DB {
	t.Helper()
	registerNoopDriver.Do(func() {
		sql.Register("servicetest", noopDriver{})
	})
	db, err := sql.Open("servicetest", "")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// eventRecorder копит опубликованные события для проверок.
type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) Publish(event events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeLeagueRepo struct {
	repositories.LeagueRepository
	league *models.League
}

func (f *fakeLeagueRepo) GetByID(_ context.Context, id int) (*models.League, error) {
	if f.league == nil || f.league.ID != id {
		return nil, repositories.ErrLeagueNotFound
	}
	return f.league, nil
}
