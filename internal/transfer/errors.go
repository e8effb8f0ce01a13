package transfer

import "errors"

var (
	// ErrMalformedPayload is returned when import data is neither a payload
	// object, an event array, nor an envelope.
	ErrMalformedPayload = errors.New("malformed import payload")

	// ErrPassphraseRequired is returned when an envelope is imported without a passphrase.
	ErrPassphraseRequired = errors.New("passphrase required for encrypted data")

	// ErrDecrypt is returned for a wrong passphrase or a tampered envelope.
	// The two cases are deliberately indistinguishable.
	ErrDecrypt = errors.New("unable to decrypt envelope")

	// ErrEmptyPassphrase is returned when encryption is requested with an empty passphrase.
	ErrEmptyPassphrase = errors.New("passphrase cannot be empty")
)
