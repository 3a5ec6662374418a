// Package processor contains the run logic of sheetxlate. It loads the
// source table, wires the endpoint client, the validator and the worker
// pool together, and saves and reports the translated table. This package
// serves as the main coordinator between all other components.
package processor
