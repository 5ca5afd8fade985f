// Package all wires every built-in export backend into the storage factory.
//
// It exists purely for side effects: a blank import runs each backend's init
// function, which registers its factory with the storage package. Importing
// this package makes the "sqlite" and "postgres" kinds available at runtime.
package all

import (
	_ "salesreport/internal/storage/postgres"
	_ "salesreport/internal/storage/sqlite"
)
