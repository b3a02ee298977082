// Package component defines the lifecycle contract shared by the sorted-set
// stores and the registry batchctl uses to start and stop them.
//
// A store backend (redis, sqlite) is a Component: it is started before any
// iteration runs, reports its health, and is stopped in reverse order on
// shutdown.
package component
