// Package service contains the application use cases. Services coordinate the
// stores defined in internal/store, the kinetic model in internal/domain/pk
// and the change events in internal/events.
//
// Services never depend on a concrete database or transport. Ownership checks,
// transactional boundaries that span stores and cache invalidation all live
// here rather than in the stores or handlers.
package service
