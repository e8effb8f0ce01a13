// Package mocks provides function-field mocks of the service interfaces
// consumed by the HTTP layer.
//
// Each mock exposes one Fn field per method. A nil Fn falls back to the
// mock's default return values, so tests only stub what they exercise:
//
//	doses := &mocks.MockDoseService{
//	    ListFn: func(ctx context.Context, userID uuid.UUID) ([]domain.DoseEvent, error) {
//	        return nil, store.ErrDoseNotFound
//	    },
//	}
package mocks
