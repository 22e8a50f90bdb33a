package capture

import (
	"context"
	"database/sql"
	"log"

	"github.com/pkg/errors"
)

// Dialect of the SQL database.
type Dialect int

// All supported dialects.
const (
	SQLite Dialect = iota
	MySQL
)

const (
	sqlRecordCountInfo = 100

	sqliteCreateTableTmpl = `CREATE TABLE IF NOT EXISTS captures (
		"ID"              TEXT NOT NULL PRIMARY KEY,
		"Time"            INTEGER,
		"SampleRate"      INTEGER,
		"Length"          INTEGER,
		"Channel"         TEXT NOT NULL,
		"LevelHigh"       REAL,
		"LevelLow"        REAL,
		"PeakMagnitude"   REAL,
		"MeanMagnitude"   REAL,
		"StdDevMagnitude" REAL
	);`
	mysqlCreateTableTmpl = "CREATE TABLE IF NOT EXISTS captures (" +
		"ID VARCHAR(36) NOT NULL PRIMARY KEY, " +
		"Time BIGINT, " +
		"SampleRate INTEGER, " +
		"Length INTEGER, " +
		"Channel VARCHAR(16) NOT NULL, " +
		"LevelHigh DOUBLE, " +
		"LevelLow DOUBLE, " +
		"PeakMagnitude DOUBLE, " +
		"MeanMagnitude DOUBLE, " +
		"StdDevMagnitude DOUBLE" +
		");"
	sqlInsertRecordTmpl = `INSERT INTO captures (
		ID,
		Time,
		SampleRate,
		Length,
		Channel,
		LevelHigh,
		LevelLow,
		PeakMagnitude,
		MeanMagnitude,
		StdDevMagnitude
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
)

// SQL stores the records in the table "captures" of a SQLite or MySQL database.
type SQL struct {
	DB      *sql.DB
	Dialect Dialect
}

// Counts of the exported records.
type Counts struct {
	Total   int
	Success int
	Error   int
}

func (s *SQL) Write(ctx context.Context, records <-chan Record) error {
	_, err := s.WriteCounted(ctx, records)
	return err
}

// WriteCounted works like Write and returns the export counts.
func (s *SQL) WriteCounted(ctx context.Context, records <-chan Record) (Counts, error) {
	var counts Counts
	if err := s.createTableIfNotExists(ctx); err != nil {
		return counts, errors.Wrap(err, "unable to create table")
	}

	statement, err := s.DB.PrepareContext(ctx, sqlInsertRecordTmpl)
	if err != nil {
		return counts, errors.Wrap(err, "unable to prepare insert")
	}
	defer statement.Close()

	for {
		var r Record
		var ok bool
		select {
		case <-ctx.Done():
			return counts, ctx.Err()
		case r, ok = <-records:
			if !ok {
				log.Printf("[INFO] capture export counts: %+v", counts)
				return counts, nil
			}
		}

		counts.Total++
		_, err := statement.ExecContext(ctx, r.ID, r.Time.UnixMilli(), r.SampleRate, r.Length, r.Channel.String(),
			r.LevelHigh, r.LevelLow, r.PeakMagnitude, r.MeanMagnitude, r.StdDevMagnitude)
		if err != nil {
			counts.Error++
			log.Printf("[WARN] error storing capture in DB: %s", err)
			continue
		}
		counts.Success++
		if counts.Total%sqlRecordCountInfo == 0 {
			log.Printf("[INFO] capture export counts: %+v", counts)
		}
	}
}

func (s *SQL) createTableIfNotExists(ctx context.Context) error {
	tmpl := sqliteCreateTableTmpl
	if s.Dialect == MySQL {
		tmpl = mysqlCreateTableTmpl
	}
	_, err := s.DB.ExecContext(ctx, tmpl)
	return err
}
