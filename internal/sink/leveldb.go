package sink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"qgrover/internal/grover"
)

const (
	prefixRun    = "run:"
	prefixLatest = "latest:"
)

var ErrNotFound = errors.New("sink: result not found")

// LevelDB stores every result under its run ID and indexes the most recent
// run per (qubits, target, mode).
type LevelDB struct {
	db  *leveldb.DB
	log *log.Logger
}

// OpenLevelDB opens (or creates) the database directory at path. LevelDB is
// single-writer, so only one process may hold it.
func OpenLevelDB(path string, logger *log.Logger) (*LevelDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb at %s: %w", path, err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &LevelDB{db: db, log: logger.WithPrefix("sink")}, nil
}

func runKey(id string) []byte { return []byte(prefixRun + id) }

func latestKey(qubits, target int, mode grover.Mode) []byte {
	return []byte(fmt.Sprintf("%s%d:%d:%s", prefixLatest, qubits, target, mode))
}

func (l *LevelDB) Write(ctx context.Context, res *grover.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", res.ID, err)
	}

	batch := new(leveldb.Batch)
	batch.Put(runKey(res.ID), data)
	batch.Put(latestKey(res.Qubits, res.Target, res.Mode), []byte(res.ID))
	if err := l.db.Write(batch, nil); err != nil {
		return fmt.Errorf("persist result %s: %w", res.ID, err)
	}
	l.log.Info("persisted result", "id", res.ID, "qubits", res.Qubits, "target", res.Target, "steps", len(res.Steps))
	return nil
}

// Get loads a stored result by run ID.
func (l *LevelDB) Get(id string) (*grover.Result, error) {
	data, err := l.db.Get(runKey(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var res grover.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", id, err)
	}
	return &res, nil
}

// Latest returns the most recent result for the given parameters.
func (l *LevelDB) Latest(qubits, target int, mode grover.Mode) (*grover.Result, error) {
	id, err := l.db.Get(latestKey(qubits, target, mode), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%w: no run for %d qubits target %d", ErrNotFound, qubits, target)
	}
	if err != nil {
		return nil, err
	}
	return l.Get(string(id))
}

// IDs lists every stored run ID in key order.
func (l *LevelDB) IDs() ([]string, error) {
	iter := l.db.NewIterator(util.BytesPrefix([]byte(prefixRun)), nil)
	defer iter.Release()

	var ids []string
	for iter.Next() {
		ids = append(ids, string(iter.Key()[len(prefixRun):]))
	}
	return ids, iter.Error()
}

func (l *LevelDB) Close() error { return l.db.Close() }
