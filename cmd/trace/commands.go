package trace

import (
	"database/sql"
	"fmt"
	"os"

	libtrace "github.com/ValentinKolb/hKV/lib/trace"
	"github.com/VictoriaMetrics/metrics"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sugawarayuuta/sonnet"
)

var (
	resolveCmd = &cobra.Command{
		Use:   "resolve [file]",
		Short: "Replay a trace file and print the answer to every query event",
		Long: "Replays all events of a trace file (NDJSON, optionally gzip " +
			"compressed) against fresh history instances and prints one JSON " +
			"line per query event.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := libtrace.Open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			s := libtrace.NewSession(histFactory)
			resolutions, err := libtrace.Resolve(r, s)
			if err != nil {
				return err
			}

			for i := range resolutions {
				line, err := sonnet.Marshal(&resolutions[i])
				if err != nil {
					return err
				}
				fmt.Println(string(line))
			}
			return nil
		},
	}
	statsCmd = &cobra.Command{
		Use:   "stats [file]",
		Short: "Replay a trace file and print per-scope history statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := libtrace.Open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			s := libtrace.NewSession(histFactory)
			if _, err := libtrace.Resolve(r, s); err != nil {
				return err
			}

			infos, err := sonnet.MarshalIndent(s.Infos(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(infos))

			// Optionally dump the event counters in prometheus text format
			if viper.GetBool("counters") {
				fmt.Println()
				metrics.WritePrometheus(os.Stdout, false)
			}
			return nil
		},
	}
	exportCmd = &cobra.Command{
		Use:   "export [file] [sqlite-db]",
		Short: "Replay a trace file and export all version records to a SQLite database",
		Long: "Replays all events of a trace file and writes every surviving " +
			"version record, ordered by start time, into the 'versions' table " +
			"of a SQLite database (created if missing).",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := libtrace.Open(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			s := libtrace.NewSession(histFactory)
			if _, err := libtrace.Resolve(r, s); err != nil {
				return err
			}

			n, err := exportToSQLite(args[1], s)
			if err != nil {
				return err
			}
			fmt.Printf("exported %d version records to %s\n", n, args[1])
			return nil
		},
	}
)

func init() {
	key := "counters"
	statsCmd.Flags().Bool(key, false, "Also print the session event counters")
}

// exportToSQLite writes the time-ordered version records of every scope into
// the given database file and returns the number of inserted rows.
func exportToSQLite(path string, s *libtrace.Session) (int, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS versions (
			scope      TEXT    NOT NULL,
			handle     INTEGER NOT NULL,
			start_time INTEGER NOT NULL,
			value      TEXT    NOT NULL
		);
		CREATE INDEX IF NOT EXISTS versions_scope_handle
			ON versions (scope, handle, start_time);
	`); err != nil {
		return 0, fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		"INSERT INTO versions (scope, handle, start_time, value) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, name := range s.ScopeNames() {
		for _, v := range libtrace.MergeByTime(s.Scope(name)) {
			// SQLite has no unsigned 64 bit integer type, store the handle
			// as its signed bit pattern
			if _, err := stmt.Exec(name, int64(v.Handle), v.StartTime, v.Value); err != nil {
				return 0, fmt.Errorf("failed to insert record: %w", err)
			}
			count++
		}
	}

	return count, tx.Commit()
}
