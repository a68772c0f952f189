package ingest

import (
	"context"
	"database/sql"
	"fmt"
)

// viewPrefix is prepended to a series name to form its view name.
// Series "abc_123" is exposed as view "tsdata_abc_123".
const viewPrefix = "tsdata_"

// ValidatedSeries is a series name that has passed the store's shape
// constraint, by way of a row carrying it having been inserted in the
// current transaction. It cannot be constructed from raw request input;
// only the insert step produces it. That ordering is what makes it safe
// to build the view definition below by direct textual substitution:
// any name reaching this point matches ^[a-z0-9_]+$.
type ValidatedSeries struct {
	name string
}

// Name returns the series name.
func (s ValidatedSeries) Name() string {
	return s.name
}

// ViewName returns the deterministic view name for this series.
func (s ValidatedSeries) ViewName() string {
	return viewPrefix + s.name
}

// syncSeriesView (re)defines the per-series view inside the given
// transaction. SQLite has no CREATE OR REPLACE VIEW, so the view is
// dropped and recreated; the pair is atomic within the transaction and
// idempotent, leaving exactly one current definition.
//
// A failure here must abort the enclosing transaction: a point is never
// durably ingested if its view could not be (re)established.
func syncSeriesView(ctx context.Context, tx *sql.Tx, series ValidatedSeries) error {
	drop := fmt.Sprintf("DROP VIEW IF EXISTS %s", series.ViewName())
	if _, err := tx.ExecContext(ctx, drop); err != nil {
		return fmt.Errorf("dropping view %s: %w", series.ViewName(), err)
	}

	create := fmt.Sprintf(
		"CREATE VIEW %s AS SELECT * FROM tsdata WHERE series_name = '%s'",
		series.ViewName(), series.Name(),
	)
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("creating view %s: %w", series.ViewName(), err)
	}

	return nil
}
