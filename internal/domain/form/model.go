package form

import (
	"time"

	"github.com/google/uuid"
)

// LockStyle says how a form type becomes read-only.
type LockStyle string

const (
	// SingleSign forms lock the moment their one signer signs.
	SingleSign LockStyle = "single"
	// MultiSign forms collect up to MaxSignatures signature evidences and
	// lock via a separate explicit lock action.
	MultiSign LockStyle = "multi"
)

// MaxSignatures bounds the signature slots on a multi-signer form.
const MaxSignatures = 3

// Definition describes one form type: where it lives, which fields it
// persists, and how it locks. All form behavior is driven from these
// definitions; there is no per-form code.
type Definition struct {
	// Name is the human-readable form title.
	Name string
	// Path is the URL collection segment, e.g. "history-and-physical".
	Path string
	// Table is the postgres table holding the records.
	Table string
	// Sections are the persisted field names. Patch payload keys outside
	// this set are dropped.
	Sections []string
	// Defaults seed the data of a newly created record.
	Defaults  map[string]interface{}
	LockStyle LockStyle
	// Unlockable forms support an explicit unlock that reverts the signed
	// state. Only the pre-op phone call carries this.
	Unlockable bool
}

// HasSection reports whether name is a persisted field of the form.
func (d Definition) HasSection(name string) bool {
	for _, s := range d.Sections {
		if s == name {
			return true
		}
	}
	return false
}

// DefaultData returns a fresh copy of the definition's default field values.
func (d Definition) DefaultData() map[string]interface{} {
	data := make(map[string]interface{}, len(d.Defaults))
	for k, v := range d.Defaults {
		data[k] = copyValue(v)
	}
	return data
}

// CanonicalPayload assembles the hashable content of a record: the persisted
// sections plus the identifiers that pin the record to its visit and clinic.
func (d Definition) CanonicalPayload(rec *Record) map[string]interface{} {
	payload := make(map[string]interface{}, len(d.Sections)+2)
	for _, s := range d.Sections {
		payload[s] = rec.Data[s]
	}
	payload["checkin_id"] = rec.CheckinID.String()
	payload["clinic_id"] = rec.ClinicID
	return payload
}

// Render flattens a record into the wire shape: persisted fields at the top
// level alongside the lifecycle fields the form clients read.
func (d Definition) Render(rec *Record) map[string]interface{} {
	out := make(map[string]interface{}, len(rec.Data)+12)
	for k, v := range rec.Data {
		out[k] = v
	}
	out["id"] = rec.ID
	out["checkin"] = rec.CheckinID
	out["created_at"] = rec.CreatedAt
	out["updated_at"] = rec.UpdatedAt

	switch d.LockStyle {
	case MultiSign:
		sigs := rec.Signatures
		if sigs == nil {
			sigs = []Signature{}
		}
		out["signatures"] = sigs
		out["is_locked"] = rec.IsLocked
		out["locked_by"] = rec.LockedBy
		out["locked_at"] = rec.LockedAt
	default:
		out["is_signed"] = rec.IsSigned
		out["signed_by"] = rec.SignedBy
		out["signed_by_name"] = rec.SignedByName
		out["signed_at"] = rec.SignedAt
		out["signature_data_url"] = rec.SignatureDataURL
		out["content_hash"] = rec.ContentHash
		out["signature_hash"] = rec.SignatureHash
	}
	return out
}

// Record is one form document for one visit. The persisted fields live in
// Data keyed by section name; the lifecycle columns are uniform across all
// form types.
type Record struct {
	ID        uuid.UUID
	ClinicID  string
	CheckinID uuid.UUID
	Data      map[string]interface{}

	IsSigned         bool
	SignedBy         string
	SignedByName     string
	SignedAt         *time.Time
	SignatureDataURL string
	ContentHash      string
	SignatureHash    string

	IsLocked bool
	LockedBy string
	LockedAt *time.Time

	Signatures []Signature

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Locked reports whether the record rejects further field mutation.
func (r *Record) Locked() bool {
	return r.IsSigned || r.IsLocked
}

// Signature is one signature evidence on a multi-signer form.
type Signature struct {
	Slot             int        `json:"slot"`
	SignedBy         string     `json:"signed_by"`
	SignedAt         *time.Time `json:"signed_at"`
	SignerName       string     `json:"signer_name"`
	SignerRole       string     `json:"signer_role"`
	SignatureDataURL string     `json:"signature_data_url"`
	ContentHash      string     `json:"content_hash"`
	SignatureHash    string     `json:"signature_hash"`
}

// SignRequest carries the evidence for a sign action.
type SignRequest struct {
	SignatureDataURL string `json:"signature_data_url"`
	SignerName       string `json:"signer_name"`
	SignerRole       string `json:"signer_role"`
}

// copyValue deep-copies the JSON-shaped value v so default templates and
// record data never alias.
func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(val))
		for k, item := range val {
			m[k] = copyValue(item)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(val))
		for i, item := range val {
			s[i] = copyValue(item)
		}
		return s
	default:
		return val
	}
}
