// Package sctdb bulk-loads the SNOMED reference tables out of SQLite files
// into the in-memory relation store. The loaders read whole tables in one
// query each: the expansion fixpoint issues far too many lookups for
// per-code round trips to the database to be viable.
//
// The NHS TRUD DMWB distributions ship these tables as Access databases;
// this package expects them converted to SQLite (mdb-export | sqlite3)
// with the original table and column names kept: SCTTC(SuperTypeID,
// SubtypeID), SCTHIST(OLDCUI, NEWCUI), SCT(CUI, TERM).
package sctdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ehealthkit/snoclose/internal/closure"
)

// Open opens a reference database read-only. The file must already exist;
// sql.Open would happily create an empty database and every loader would
// then fail with a confusing "no such table".
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reference database: %w", err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=query_only(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

// LoadSubtype reads the complete transitive-closure relation: one pair per
// (supertype, subtype) row of SCTTC.
func LoadSubtype(ctx context.Context, path string) ([]closure.Pair, error) {
	return loadPairs(ctx, path, `SELECT SuperTypeID, SubtypeID FROM SCTTC`)
}

// LoadHistory reads the complete history relation: one pair per
// (old, new) row of SCTHIST. A retired code may appear on several rows.
func LoadHistory(ctx context.Context, path string) ([]closure.Pair, error) {
	return loadPairs(ctx, path, `SELECT OLDCUI, NEWCUI FROM SCTHIST`)
}

// LoadTerms reads the concept descriptions from SCT, keyed by code. When a
// code carries several descriptions the first row wins.
func LoadTerms(ctx context.Context, path string) (map[string]string, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT CUI, TERM FROM SCT`)
	if err != nil {
		return nil, fmt.Errorf("query terms: %w", err)
	}
	defer rows.Close()

	terms := make(map[string]string)
	for rows.Next() {
		var code, term string
		if err := rows.Scan(&code, &term); err != nil {
			return nil, fmt.Errorf("scan term row: %w", err)
		}
		if _, ok := terms[code]; !ok {
			terms[code] = term
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate terms: %w", err)
	}
	return terms, nil
}

// BuildStore loads all reference tables and assembles the immutable store.
// termsPath may be empty, in which case output rows carry no descriptions.
// Any load failure is fatal to the caller's run: a partially populated
// store would silently truncate closures.
func BuildStore(ctx context.Context, subtypePath, historyPath, termsPath string) (*closure.Store, error) {
	start := time.Now()

	subtype, err := LoadSubtype(ctx, subtypePath)
	if err != nil {
		return nil, fmt.Errorf("load subtype relation: %w", err)
	}

	history, err := LoadHistory(ctx, historyPath)
	if err != nil {
		return nil, fmt.Errorf("load history relation: %w", err)
	}

	var terms map[string]string
	if termsPath != "" {
		terms, err = LoadTerms(ctx, termsPath)
		if err != nil {
			return nil, fmt.Errorf("load terms: %w", err)
		}
	}

	store := closure.NewStore(subtype, history, terms)
	edges, redirects := store.EdgeCounts()
	slog.Info("relation store built",
		"subtype_edges", edges, "redirects", redirects, "terms", len(terms),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return store, nil
}

func loadPairs(ctx context.Context, path, query string) ([]closure.Pair, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query relation: %w", err)
	}
	defer rows.Close()

	var pairs []closure.Pair
	for rows.Next() {
		var p closure.Pair
		if err := rows.Scan(&p.From, &p.To); err != nil {
			return nil, fmt.Errorf("scan relation row: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relation: %w", err)
	}
	return pairs, nil
}
