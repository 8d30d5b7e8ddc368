// Package store persists field-check run reports in SQLite.
//
// The schema is managed by golang-migrate from migrations embedded in the
// binary, so a component shipped as a shared library needs no files besides
// the database itself.
package store
