// SQLite-backed store of per-assembly feature occurrences. The analysis
// pipeline reads the aggregated pair counts and per-feature totals from
// here; nothing downstream of the matrix build is ever persisted.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/taslab/cooctable/pkg/stats"
)

// Feature classes as stored in the occurrences table.
const (
	ClassTA   = "ta"
	ClassDrug = "drug"
)

type CoocDB struct {
	sql *sql.DB
}

func NewCoocDB(db *sql.DB) *CoocDB {
	// Check for db schema version here later
	return &CoocDB{sql: db}
}

// InitSchema creates the occurrence tables if they do not exist. Safe to
// call on an already-populated database.
func (c *CoocDB) InitSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS assemblies (
			asmid TEXT PRIMARY KEY
		);
		CREATE TABLE IF NOT EXISTS occurrences (
			asmid   TEXT NOT NULL REFERENCES assemblies(asmid),
			class   TEXT NOT NULL CHECK (class IN ('ta', 'drug')),
			feature TEXT NOT NULL,
			UNIQUE (asmid, class, feature)
		);
		CREATE INDEX IF NOT EXISTS idx_occ_class ON occurrences(class, feature);
	`
	if _, err := c.sql.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// InsertAssembly registers one assembly with the features found in it.
func (c *CoocDB) InsertAssembly(ctx context.Context, asmid string, tas, drugs []string) error {
	tx, err := c.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("fail to begin tx %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT OR IGNORE INTO assemblies (asmid) VALUES (?)`, asmid); err != nil {
		return fmt.Errorf("insert assembly: %w", err)
	}
	for _, f := range tas {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO occurrences (asmid, class, feature) VALUES (?, ?, ?)`,
			asmid, ClassTA, f); err != nil {
			return fmt.Errorf("insert ta occurrence: %w", err)
		}
	}
	for _, f := range drugs {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO occurrences (asmid, class, feature) VALUES (?, ?, ?)`,
			asmid, ClassDrug, f); err != nil {
			return fmt.Errorf("insert drug occurrence: %w", err)
		}
	}
	return tx.Commit()
}

// PopulationSize returns the total number of assemblies considered.
func (c *CoocDB) PopulationSize(ctx context.Context) (int, error) {
	var count int
	err := c.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM assemblies`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count assemblies: %w", err)
	}
	return count, nil
}

// FeatureTotals returns, per feature of the given class, the number of
// assemblies carrying it.
func (c *CoocDB) FeatureTotals(ctx context.Context, class string) (map[string]int, error) {
	stm, err := c.sql.PrepareContext(ctx, `
		SELECT feature, COUNT(DISTINCT asmid)
		FROM occurrences
		WHERE class = ?
		GROUP BY feature
		ORDER BY feature`)
	if err != nil {
		return nil, err
	}
	defer stm.Close()

	rows, err := stm.QueryContext(ctx, class)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[string]int)
	for rows.Next() {
		var feature string
		var count int
		if err := rows.Scan(&feature, &count); err != nil {
			return nil, fmt.Errorf("scan totals row: %w", err)
		}
		totals[feature] = count
	}
	return totals, rows.Err()
}

// LoadPairs aggregates the occurrence table into the complete pair-count
// grid: one row for every (TA system, drug determinant) combination, with
// joint counts of zero for combinations that never co-occur. Also returns
// the two per-axis total mappings.
func (c *CoocDB) LoadPairs(ctx context.Context) ([]stats.Pair, map[string]int, map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	tot, err := c.PopulationSize(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	taCount, err := c.FeatureTotals(ctx, ClassTA)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ta totals: %w", err)
	}
	drugCount, err := c.FeatureTotals(ctx, ClassDrug)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("drug totals: %w", err)
	}

	const jointQuery = `
		SELECT ta.feature, drug.feature, COUNT(DISTINCT ta.asmid)
		FROM occurrences ta
		JOIN occurrences drug ON ta.asmid = drug.asmid
		WHERE ta.class = 'ta' AND drug.class = 'drug'
		GROUP BY ta.feature, drug.feature`

	rows, err := c.sql.QueryContext(ctx, jointQuery)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("joint query execution failed: %w", err)
	}
	defer rows.Close()

	joint := make(map[string]map[string]int)
	for rows.Next() {
		var ta, drug string
		var count int
		if err := rows.Scan(&ta, &drug, &count); err != nil {
			return nil, nil, nil, fmt.Errorf("scan joint row: %w", err)
		}
		if joint[ta] == nil {
			joint[ta] = make(map[string]int)
		}
		joint[ta][drug] = count
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("joint rows error: %w", err)
	}

	// Expand to the full grid so "never co-occurs" pairs carry an explicit
	// zero instead of being absent.
	pairs := make([]stats.Pair, 0, len(taCount)*len(drugCount))
	for _, ta := range sortedKeys(taCount) {
		for _, drug := range sortedKeys(drugCount) {
			pairs = append(pairs, stats.Pair{
				TA:         ta,
				Drug:       drug,
				JointCount: joint[ta][drug],
				TACount:    taCount[ta],
				DrugCount:  drugCount[drug],
				Population: tot,
			})
		}
	}
	return pairs, taCount, drugCount, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
