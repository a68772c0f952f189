package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"
)

// timeLayout is how instants are stored in tsdata (UTC, second precision,
// matching the schema's strftime default for inserted_time).
const timeLayout = "2006-01-02T15:04:05Z"

// Repository is the ingestion boundary onto the tsdata store.
//
// Implementations coordinate the full per-request transaction: row
// insert, per-series view synchronisation, commit. Returned errors are
// always taxonomy values (see errors.go).
type Repository interface {
	// InsertOne persists a single point and returns its assigned id.
	InsertOne(ctx context.Context, point NewDataPoint) (int64, error)

	// InsertBatch persists 1-100 points atomically and returns their
	// assigned ids in input order. Zero rows survive any failure.
	InsertBatch(ctx context.Context, points []NewDataPoint) ([]int64, error)

	// DeleteSeries removes all points of one series and returns the row
	// count. Test-data tooling only; not part of the ingestion contract.
	DeleteSeries(ctx context.Context, seriesName string) (int64, error)
}

// SQLiteRepository implements Repository against the SQLite tsdata store.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed ingestion repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// InsertOne persists one point: one transaction, one row insert, one view
// sync, commit. Any failure rolls back both the row and the view change.
func (r *SQLiteRepository) InsertOne(ctx context.Context, point NewDataPoint) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &ConnectionError{Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	id, series, err := insertRow(ctx, tx, point)
	if err != nil {
		return 0, Translate(err)
	}

	if err := syncSeriesView(ctx, tx, series); err != nil {
		return 0, Translate(err)
	}

	if err := tx.Commit(); err != nil {
		return 0, Translate(err)
	}

	return id, nil
}

// InsertBatch persists a batch of points as one atomic unit.
//
// Batch policy runs first, strictly before the transaction opens. All
// rows go in via a single bulk insert, then the view of each distinct
// series present in the batch is synchronised exactly once. All rows
// share fate: any failure leaves zero rows durably visible.
func (r *SQLiteRepository) InsertBatch(ctx context.Context, points []NewDataPoint) ([]int64, error) {
	if err := ValidateBatch(points); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	ids, distinct, err := insertRows(ctx, tx, points)
	if err != nil {
		return nil, Translate(err)
	}

	for _, series := range distinct {
		if err := syncSeriesView(ctx, tx, series); err != nil {
			return nil, Translate(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, Translate(err)
	}

	return ids, nil
}

// DeleteSeries removes all rows for one series. The series view, if any,
// is left in place (views are redefined on the next insert).
func (r *SQLiteRepository) DeleteSeries(ctx context.Context, seriesName string) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM tsdata WHERE series_name = ?", seriesName)
	if err != nil {
		return 0, Translate(err)
	}
	n, _ := result.RowsAffected() //nolint:errcheck // SQLite always supports RowsAffected
	return n, nil
}

// insertRow inserts a single point and returns its id together with the
// ValidatedSeries witness. The witness exists only after the insert
// succeeded, i.e. after the store accepted the series name.
func insertRow(ctx context.Context, tx *sql.Tx, point NewDataPoint) (int64, ValidatedSeries, error) {
	const query = `INSERT INTO tsdata (data_time, series_name, contents)
		VALUES (?, ?, ?) RETURNING id`

	var id int64
	err := tx.QueryRowContext(ctx, query,
		point.DataTime.UTC().Format(timeLayout),
		point.SeriesName,
		string(point.Contents),
	).Scan(&id)
	if err != nil {
		return 0, ValidatedSeries{}, err
	}

	return id, ValidatedSeries{name: point.SeriesName}, nil
}

// insertRows bulk-inserts all points in one statement and returns the
// assigned ids in input order plus the distinct validated series names.
func insertRows(ctx context.Context, tx *sql.Tx, points []NewDataPoint) ([]int64, []ValidatedSeries, error) {
	var query strings.Builder
	query.WriteString("INSERT INTO tsdata (data_time, series_name, contents) VALUES ")

	args := make([]any, 0, len(points)*3)
	for i, point := range points {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString("(?, ?, ?)")
		args = append(args,
			point.DataTime.UTC().Format(timeLayout),
			point.SeriesName,
			string(point.Contents),
		)
	}
	query.WriteString(" RETURNING id")

	rows, err := tx.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0, len(points))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	if len(ids) != len(points) {
		return nil, nil, fmt.Errorf("bulk insert returned %d ids for %d rows", len(ids), len(points))
	}

	// RETURNING does not guarantee emission order, but AUTOINCREMENT ids
	// are assigned in row order, so ascending ids match input order.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	// All rows are in, so every series name in the batch has passed the
	// store's constraint; mint one witness per distinct name.
	seen := make(map[string]bool, len(points))
	var names []string
	for _, point := range points {
		if !seen[point.SeriesName] {
			seen[point.SeriesName] = true
			names = append(names, point.SeriesName)
		}
	}
	sort.Strings(names)

	distinct := make([]ValidatedSeries, 0, len(names))
	for _, name := range names {
		distinct = append(distinct, ValidatedSeries{name: name})
	}

	return ids, distinct, nil
}

// ParseStoredTime parses an instant as stored in tsdata. Exposed for
// tooling and tests that read rows back.
func ParseStoredTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
