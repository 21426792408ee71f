// Package integration holds container-backed tests that run the full
// publish lifecycle against real Postgres. They skip when docker is
// not available.
package integration
