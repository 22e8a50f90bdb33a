package capture

import (
	"context"
	"database/sql"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	// Blind import support for sqlite3 used by sql.go.
	_ "github.com/mattn/go-sqlite3"
)

// Exporter writes the records it receives until the channel is closed or the context is done.
type Exporter interface {
	Write(context.Context, <-chan Record) error
}

// Formats lists the supported export formats.
var Formats = []string{"csv", "sqlite", "mysql"}

// Open an exporter for the given format. The target is a file name for csv (stdout if empty) and sqlite,
// and a DSN for mysql.
func Open(format string, target string) (Exporter, io.Closer, error) {
	switch strings.ToLower(format) {
	case "csv":
		if target == "" {
			return &CSV{W: os.Stdout}, nopCloser{}, nil
		}
		f, err := os.Create(target)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "unable to create CSV file %q", target)
		}
		return &CSV{W: f}, f, nil
	case "sqlite", "sqlite3":
		db, err := sql.Open("sqlite3", target)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "unable to open sqlite DB %q", target)
		}
		db.SetMaxOpenConns(1)
		return &SQL{DB: db, Dialect: SQLite}, db, nil
	case "mysql":
		cfg, err := mysql.ParseDSN(target)
		if err != nil {
			return nil, nil, errors.Wrap(err, "invalid MySQL DSN")
		}
		db, err := sql.Open("mysql", cfg.FormatDSN())
		if err != nil {
			return nil, nil, errors.Wrapf(err, "unable to open MySQL DB %q", cfg.Addr)
		}
		db.SetConnMaxLifetime(3 * time.Minute)
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		return &SQL{DB: db, Dialect: MySQL}, db, nil
	default:
		return nil, nil, errors.Errorf("%q is not a supported export format, pick one of: %s", format, strings.Join(Formats, ", "))
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
