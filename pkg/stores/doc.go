// Package stores persists search run history.
//
// Each completed search run is recorded as a SearchRun row: which
// scenario and ruleset ran, the open-list discipline used, whether a
// solution was found, and the node statistics. SQLiteStore is the
// only implementation; it owns its schema through embedded migrations.
package stores
