package form

import "testing"

func TestRegistryPathsAndTablesUnique(t *testing.T) {
	paths := map[string]bool{}
	tables := map[string]bool{}
	for _, def := range Registry {
		if paths[def.Path] {
			t.Errorf("duplicate path %s", def.Path)
		}
		if tables[def.Table] {
			t.Errorf("duplicate table %s", def.Table)
		}
		paths[def.Path] = true
		tables[def.Table] = true

		if def.Name == "" || def.Path == "" || def.Table == "" {
			t.Errorf("incomplete definition: %+v", def)
		}
		if len(def.Sections) == 0 {
			t.Errorf("%s has no sections", def.Path)
		}
	}
}

func TestRegistryLockStyles(t *testing.T) {
	for _, def := range Registry {
		switch def.Path {
		case "pacu-additional-nursing-notes":
			if def.LockStyle != MultiSign {
				t.Errorf("%s must be multi-signer", def.Path)
			}
		default:
			if def.LockStyle != SingleSign {
				t.Errorf("%s must be single-signer", def.Path)
			}
		}
		if def.Unlockable && def.Path != "pre-op-phone-call" {
			t.Errorf("%s must not be unlockable", def.Path)
		}
	}
	if def, _ := ByPath("pre-op-phone-call"); !def.Unlockable {
		t.Error("pre-op-phone-call must be unlockable")
	}
}

func TestRegistryDefaultsStayInSections(t *testing.T) {
	for _, def := range Registry {
		for k := range def.Defaults {
			if !def.HasSection(k) {
				t.Errorf("%s: default %q is not a section", def.Path, k)
			}
		}
	}
}

func TestByPath(t *testing.T) {
	def, ok := ByPath("history-and-physical")
	if !ok || def.Table != "history_and_physical" {
		t.Errorf("ByPath(history-and-physical) = %+v, %v", def, ok)
	}
	if _, ok := ByPath("no-such-form"); ok {
		t.Error("unknown path must not resolve")
	}
}

func TestDefaultDataDoesNotAlias(t *testing.T) {
	def, _ := ByPath("history-and-physical")
	a := def.DefaultData()
	b := def.DefaultData()

	a["page1"].(map[string]interface{})["cc"] = "knee pain"
	if _, ok := b["page1"].(map[string]interface{})["cc"]; ok {
		t.Error("default data must be deep-copied per record")
	}
}
