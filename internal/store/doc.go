// Package store defines interfaces for data persistence operations.
// These interfaces keep the simulation and transfer logic independent of
// the database, and share the transaction helper used by services that
// touch several stores at once.
package store
