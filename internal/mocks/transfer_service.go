package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/hrtrack/hrtrack-api/internal/transfer"
)

// MockTransferService implements service.TransferService for testing
type MockTransferService struct {
	ExportFn         func(ctx context.Context, userID uuid.UUID, passphrase string) ([]byte, error)
	ExportWorkbookFn func(ctx context.Context, userID uuid.UUID, w io.Writer) error
	ImportFn         func(ctx context.Context, userID uuid.UUID, data []byte, passphrase string) (*transfer.ImportResult, error)

	ExportData   []byte
	Result       *transfer.ImportResult
	DefaultError error
}

// Export implements the TransferService.Export method
func (m *MockTransferService) Export(ctx context.Context, userID uuid.UUID, passphrase string) ([]byte, error) {
	if m.ExportFn != nil {
		return m.ExportFn(ctx, userID, passphrase)
	}
	return m.ExportData, m.DefaultError
}

// ExportWorkbook implements the TransferService.ExportWorkbook method
func (m *MockTransferService) ExportWorkbook(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	if m.ExportWorkbookFn != nil {
		return m.ExportWorkbookFn(ctx, userID, w)
	}
	if m.DefaultError != nil {
		return m.DefaultError
	}
	_, err := w.Write(m.ExportData)
	return err
}

// Import implements the TransferService.Import method
func (m *MockTransferService) Import(
	ctx context.Context,
	userID uuid.UUID,
	data []byte,
	passphrase string,
) (*transfer.ImportResult, error) {
	if m.ImportFn != nil {
		return m.ImportFn(ctx, userID, data, passphrase)
	}
	return m.Result, m.DefaultError
}
