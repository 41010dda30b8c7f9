package repository

import (
	"strconv"
	"strings"
)

type dialect struct {
	name        string
	idType      string
	jsonType    string
	timeType    string
	positionals bool // $1, $2 instead of ?
}

var (
	sqliteDialect   = dialect{name: DriverSQLite, idType: "TEXT", jsonType: "TEXT", timeType: "TIMESTAMP"}
	postgresDialect = dialect{name: DriverPostgres, idType: "UUID", jsonType: "JSONB", timeType: "TIMESTAMPTZ", positionals: true}
)

func dialectFor(driver string) dialect {
	if driver == DriverPostgres {
		return postgresDialect
	}
	return sqliteDialect
}

// rebind rewrites ? placeholders for drivers that number their parameters.
func (d dialect) rebind(query string) string {
	if !d.positionals {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (d dialect) schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id            ` + d.idType + ` PRIMARY KEY,
			status        TEXT NOT NULL,
			contract_type TEXT NOT NULL DEFAULT '',
			total_files   INTEGER NOT NULL,
			processed     INTEGER NOT NULL DEFAULT 0,
			failed        INTEGER NOT NULL DEFAULT 0,
			result_key    TEXT NOT NULL DEFAULT '',
			error         TEXT NOT NULL DEFAULT '',
			created_at    ` + d.timeType + ` NOT NULL,
			completed_at  ` + d.timeType + `
		)`,
		`CREATE TABLE IF NOT EXISTS task_results (
			task_id       ` + d.idType + ` NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
			seq           INTEGER NOT NULL,
			file_name     TEXT NOT NULL,
			method        TEXT NOT NULL DEFAULT '',
			record        ` + d.jsonType + `,
			processing_ms BIGINT NOT NULL DEFAULT 0,
			error         TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (task_id, seq)
		)`,
	}
}
