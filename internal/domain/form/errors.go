package form

import "errors"

// Sentinel errors surfaced to clients verbatim in the `detail` field of the
// error envelope. The message texts are part of the API contract; form
// clients match on them.
var (
	ErrNotFound = errors.New("Not found.")

	// ErrSignedLocked rejects mutation of a single-signer form after signing.
	ErrSignedLocked = errors.New("This form is signed and locked.")

	// ErrAlreadySigned rejects a second sign on a single-signer form.
	ErrAlreadySigned = errors.New("Already signed.")

	// ErrSignatureRequired rejects a sign request without a drawn signature.
	ErrSignatureRequired = errors.New("signature_data_url is required.")

	// ErrFormLocked rejects sign or mutation of a multi-signer form after it
	// has been locked.
	ErrFormLocked = errors.New("Form is locked.")

	// ErrSignatureDataURL rejects a multi-signer sign request whose evidence
	// is not an inline image.
	ErrSignatureDataURL = errors.New("signature_data_url is required (data:image/...)")

	// ErrCheckinRequired rejects a create or list without a check-in id.
	ErrCheckinRequired = errors.New("checkin is required")

	// ErrCheckinNotFound rejects a create whose check-in does not exist in
	// the caller's clinic.
	ErrCheckinNotFound = errors.New("checkin not found")
)

// errDuplicate is returned by the repository when the unique
// (clinic_id, checkin_id) index rejects a create. The service resolves it by
// returning the existing record.
var errDuplicate = errors.New("record already exists for checkin")
