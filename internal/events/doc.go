// Package events provides a small in-process event bus. Services announce
// changes to a user's doses, labs and profile; handlers such as the
// simulation cache invalidator react without the services knowing about them.
package events
