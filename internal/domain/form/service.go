package form

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/opforms/opforms/internal/platform/auth"
	"github.com/opforms/opforms/internal/platform/db"
	"github.com/opforms/opforms/internal/platform/signature"
)

// CheckinVerifier confirms a check-in exists and belongs to the clinic
// before a form record is hung off it.
type CheckinVerifier interface {
	Exists(ctx context.Context, clinicID string, id uuid.UUID) (bool, error)
}

type Service struct {
	repo     Repository
	checkins CheckinVerifier
}

// NewService builds the form service. checkins may be nil, in which case
// create skips the check-in existence check (tests).
func NewService(repo Repository, checkins CheckinVerifier) *Service {
	return &Service{repo: repo, checkins: checkins}
}

// ResolveOrCreate returns the single record for the given check-in, creating
// it with the definition defaults when none exists. Creation is idempotent:
// the unique (clinic_id, checkin_id) index makes a concurrent duplicate
// create collapse onto the row that won.
func (s *Service) ResolveOrCreate(ctx context.Context, def Definition, checkinID uuid.UUID) (*Record, bool, error) {
	clinicID := db.ClinicFromContext(ctx)
	if checkinID == uuid.Nil {
		return nil, false, ErrCheckinRequired
	}
	if s.checkins != nil {
		ok, err := s.checkins.Exists(ctx, clinicID, checkinID)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			return nil, false, ErrCheckinNotFound
		}
	}

	rec := &Record{
		ClinicID:  clinicID,
		CheckinID: checkinID,
		Data:      def.DefaultData(),
	}
	err := s.repo.Create(ctx, def, rec)
	if err == errDuplicate {
		existing, err := s.repo.GetByCheckin(ctx, def, clinicID, checkinID)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (s *Service) List(ctx context.Context, def Definition, checkinID *uuid.UUID, limit, offset int) ([]*Record, int, error) {
	return s.repo.List(ctx, def, db.ClinicFromContext(ctx), checkinID, limit, offset)
}

func (s *Service) Get(ctx context.Context, def Definition, id uuid.UUID) (*Record, error) {
	return s.repo.GetByID(ctx, def, db.ClinicFromContext(ctx), id)
}

// Patch applies a partial update. Only keys naming a persisted section are
// applied; anything else in the payload is dropped. Section values replace
// wholesale; sections absent from the patch keep their stored value.
func (s *Service) Patch(ctx context.Context, def Definition, id uuid.UUID, patch map[string]interface{}) (*Record, error) {
	rec, err := s.Get(ctx, def, id)
	if err != nil {
		return nil, err
	}
	if rec.Locked() {
		if def.LockStyle == MultiSign {
			return nil, ErrFormLocked
		}
		return nil, ErrSignedLocked
	}

	if rec.Data == nil {
		rec.Data = map[string]interface{}{}
	}
	for k, v := range patch {
		if def.HasSection(k) {
			rec.Data[k] = v
		}
	}
	if err := s.repo.Update(ctx, def, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Sign executes the signing transition. For single-signer forms this is
// terminal: the record is read-only afterwards. For multi-signer forms the
// evidence lands in the next free slot and the record stays open until an
// explicit lock.
func (s *Service) Sign(ctx context.Context, def Definition, id uuid.UUID, req SignRequest) (*Record, error) {
	rec, err := s.Get(ctx, def, id)
	if err != nil {
		return nil, err
	}
	if def.LockStyle == MultiSign {
		return s.addSignature(ctx, def, rec, req)
	}

	if rec.IsSigned {
		return nil, ErrAlreadySigned
	}
	if !signature.ValidDataURL(req.SignatureDataURL) {
		return nil, ErrSignatureRequired
	}

	contentHash, err := signature.ContentHash(def.CanonicalPayload(rec))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rec.IsSigned = true
	rec.SignedBy = auth.UserIDFromContext(ctx)
	rec.SignedByName = req.SignerName
	rec.SignedAt = &now
	rec.SignatureDataURL = req.SignatureDataURL
	rec.ContentHash = contentHash
	rec.SignatureHash = signature.Hash(contentHash, req.SignatureDataURL)

	if err := s.repo.Update(ctx, def, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// addSignature appends one evidence to a multi-signer form. With all three
// slots taken the call is a no-op, matching the paper form's three signature
// lines.
func (s *Service) addSignature(ctx context.Context, def Definition, rec *Record, req SignRequest) (*Record, error) {
	if rec.IsLocked {
		return nil, ErrFormLocked
	}
	if !signature.ValidDataURL(req.SignatureDataURL) {
		return nil, ErrSignatureDataURL
	}

	used := map[int]bool{}
	for _, sig := range rec.Signatures {
		used[sig.Slot] = true
	}
	slot := 0
	for i := 1; i <= MaxSignatures; i++ {
		if !used[i] {
			slot = i
			break
		}
	}
	if slot == 0 {
		return rec, nil
	}

	contentHash, err := signature.ContentHash(def.CanonicalPayload(rec))
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	rec.Signatures = append(rec.Signatures, Signature{
		Slot:             slot,
		SignedBy:         auth.UserIDFromContext(ctx),
		SignedAt:         &now,
		SignerName:       req.SignerName,
		SignerRole:       req.SignerRole,
		SignatureDataURL: req.SignatureDataURL,
		ContentHash:      contentHash,
		SignatureHash:    signature.Hash(contentHash, req.SignatureDataURL),
	})

	if err := s.repo.Update(ctx, def, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Lock makes a multi-signer form read-only. Idempotent.
func (s *Service) Lock(ctx context.Context, def Definition, id uuid.UUID) (*Record, error) {
	rec, err := s.Get(ctx, def, id)
	if err != nil {
		return nil, err
	}
	if rec.IsLocked {
		return rec, nil
	}
	now := time.Now().UTC()
	rec.IsLocked = true
	rec.LockedBy = auth.UserIDFromContext(ctx)
	rec.LockedAt = &now
	if err := s.repo.Update(ctx, def, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Unlock reverts the signed state of an unlockable form, clearing the
// signature evidence. Idempotent.
func (s *Service) Unlock(ctx context.Context, def Definition, id uuid.UUID) (*Record, error) {
	rec, err := s.Get(ctx, def, id)
	if err != nil {
		return nil, err
	}
	if !rec.IsSigned {
		return rec, nil
	}
	rec.IsSigned = false
	rec.SignedBy = ""
	rec.SignedByName = ""
	rec.SignedAt = nil
	rec.SignatureDataURL = ""
	rec.ContentHash = ""
	rec.SignatureHash = ""
	if err := s.repo.Update(ctx, def, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordCounts returns per-form record totals for the clinic, feeding the
// metrics gauges.
func (s *Service) RecordCounts(ctx context.Context) (map[string]int, error) {
	clinicID := db.ClinicFromContext(ctx)
	counts := make(map[string]int, len(Registry))
	for _, def := range Registry {
		n, err := s.repo.Count(ctx, def, clinicID)
		if err != nil {
			return nil, err
		}
		counts[def.Path] = n
	}
	return counts, nil
}
