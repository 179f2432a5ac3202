package checkpoint

import "bytes"
import "database/sql"
import "time"

import "github.com/google/uuid"
import "github.com/neurlang/hebbian/net/feedforward"
import "github.com/neurlang/hebbian/trainer"
import "github.com/pkg/errors"

import _ "modernc.org/sqlite"

// ErrNotFound is returned by Latest for a run without checkpoints.
var ErrNotFound = errors.New("no checkpoint")

// SQLite stores the checkpoints of training runs in a sqlite database, one
// row per run and epoch, the weights in the compressed json format of File.
type SQLite struct {
	db  *sql.DB
	run string
}

// OpenSQLite opens (or creates) the database at path. Checkpoints are stored
// under run, or under a new random run id when run is empty.
func OpenSQLite(path, run string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open checkpoint database '%s'", path)
	}
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS checkpoints(
			run TEXT NOT NULL,
			epoch INTEGER NOT NULL,
			created REAL NOT NULL,
			loss REAL,
			accuracy REAL,
			weights BLOB NOT NULL,
			PRIMARY KEY(run, epoch)
		)`)
	if err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "create checkpoint table in '%s'", path)
	}
	if run == "" {
		run = uuid.New().String()
	}
	return &SQLite{db: db, run: run}, nil
}

// Run returns the run id the checkpoints are stored under
func (s *SQLite) Run() string {
	return s.run
}

// Close closes the database
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Checkpoint(net *feedforward.FeedforwardNetwork, epoch int, stats *trainer.Stats) error {
	var buf bytes.Buffer
	if err := net.WriteCompressedWeights(&buf); err != nil {
		return err
	}
	var loss, accuracy sql.NullFloat64
	if stats != nil {
		loss = sql.NullFloat64{Float64: stats.Loss, Valid: true}
		accuracy = sql.NullFloat64{Float64: stats.Accuracy, Valid: true}
	}
	_, err := s.db.Exec("INSERT OR REPLACE INTO checkpoints(run, epoch, created, loss, accuracy, weights) VALUES(?,?,?,?,?,?)",
		s.run, epoch, float64(time.Now().UnixMilli())/1000.0, loss, accuracy, buf.Bytes())
	return errors.Wrapf(err, "store checkpoint of run %s epoch %d", s.run, epoch)
}

// Latest loads the checkpoint of run with the highest epoch into net. It
// returns the epoch and the stats stored with it, nil when it was not evaluated.
func (s *SQLite) Latest(run string, net *feedforward.FeedforwardNetwork) (int, *trainer.Stats, error) {
	var epoch int
	var loss, accuracy sql.NullFloat64
	var weights []byte
	err := s.db.QueryRow("SELECT epoch, loss, accuracy, weights FROM checkpoints WHERE run = ? ORDER BY epoch DESC LIMIT 1", run).
		Scan(&epoch, &loss, &accuracy, &weights)
	if err == sql.ErrNoRows {
		return 0, nil, errors.Wrapf(ErrNotFound, "run %s", run)
	}
	if err != nil {
		return 0, nil, errors.Wrapf(err, "query run %s", run)
	}
	if err := net.ReadCompressedWeights(bytes.NewReader(weights)); err != nil {
		return 0, nil, errors.Wrapf(err, "load run %s epoch %d", run, epoch)
	}
	var stats *trainer.Stats
	if loss.Valid && accuracy.Valid {
		stats = &trainer.Stats{Loss: loss.Float64, Accuracy: accuracy.Float64}
	}
	return epoch, stats, nil
}

// Runs lists the stored run ids, most recently checkpointed first
func (s *SQLite) Runs() ([]string, error) {
	rows, err := s.db.Query("SELECT run FROM checkpoints GROUP BY run ORDER BY MAX(created) DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []string
	for rows.Next() {
		var run string
		if err := rows.Scan(&run); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
