// Package domain contains the core entities of the tracker: dose events with
// their route modifiers, lab results, body-weight profiles, users and cloud
// backups. Entities validate themselves; persistence and transport live
// elsewhere.
package domain
