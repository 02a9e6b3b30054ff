package ledger

import "fmt"

// NetworkError indicates the ledger node could not be reached or answered
// with a transport-level failure.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("ledger network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// TransferError indicates a transfer submission failed. Reason is a short
// human-readable cause that ends up in the chat reply.
type TransferError struct {
	Reason string
	Err    error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *TransferError) Unwrap() error { return e.Err }
