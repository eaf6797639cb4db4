// Package all wires every built-in format into the format factory.
//
// This package exists purely for side effects: importing it (even as a
// blank import) runs the init functions of each concrete format package,
// which register their constructors with the format package. Importing it
// makes the following format kinds available at runtime:
//
//   - "delimited" (formats/internal/format/delimited)
//   - "text"      (formats/internal/format/text)
//
// Binaries that want only a subset can blank-import individual format
// packages instead.
package all

import (
	_ "formats/internal/format/delimited"
	_ "formats/internal/format/text"
)
