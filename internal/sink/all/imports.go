// Package all wires all built-in sink backends into the sink factory.
//
// This package exists purely for side effects: importing it (even as a
// blank import) causes the init functions of each concrete backend to
// run, which register their factories with the sink package. Importing it
// makes the following sink kinds available at runtime:
//
//   - "postgres" (formats/internal/sink/postgres)
//   - "sqlite"   (formats/internal/sink/sqlite)
//   - "mysql"    (formats/internal/sink/mysql)
//   - "mssql"    (formats/internal/sink/mssql)
//
// Binaries that want only a subset of backends can blank-import the
// individual packages instead.
package all

import (
	_ "formats/internal/sink/mssql"
	_ "formats/internal/sink/mysql"
	_ "formats/internal/sink/postgres"
	_ "formats/internal/sink/sqlite"
)
