package formclient

// Schema describes one form type to the controller: its collection path, the
// default field values, which fields are persisted on save, and how it locks.
type Schema struct {
	// Path is the collection segment, e.g. "history-and-physical".
	Path string
	// Defaults seed local state before the server record is merged over it.
	Defaults map[string]interface{}
	// Persisted is the curated save subset: only these keys go into a PATCH
	// payload, so client-only scratch fields never leak into storage.
	Persisted []string
	// MultiSign forms collect signature evidences and lock via an explicit
	// lock action; otherwise sign itself is the terminal transition.
	MultiSign bool
	// Unlockable forms expose an unlock that reverts the signed state.
	Unlockable bool
	// SignRequiredMessage is surfaced when sign is invoked with an empty
	// capture. Empty means the generic message.
	SignRequiredMessage string
	// PrepareSave, when set, adjusts the outgoing save payload for field
	// dependency rules (e.g. clearing a details field when its gating
	// checkbox is off).
	PrepareSave func(payload map[string]interface{})
}

const defaultSignRequiredMessage = "signature_data_url is required."

func (s Schema) signRequiredMessage() string {
	if s.SignRequiredMessage != "" {
		return s.SignRequiredMessage
	}
	return defaultSignRequiredMessage
}

func (s Schema) persists(key string) bool {
	for _, k := range s.Persisted {
		if k == key {
			return true
		}
	}
	return false
}

// lockFlag names the persisted field the controller derives lock state from.
func (s Schema) lockFlag() string {
	if s.MultiSign {
		return "is_locked"
	}
	return "is_signed"
}
