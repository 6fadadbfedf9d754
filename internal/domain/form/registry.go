package form

// Registry lists every chart form the service serves, one definition per
// paper form. Adding a form is a registry entry plus a migration; no handler
// or service code changes.
var Registry = []Definition{
	{
		Name:      "History and Physical",
		Path:      "history-and-physical",
		Table:     "history_and_physical",
		Sections:  []string{"page1"},
		Defaults:  map[string]interface{}{"page1": map[string]interface{}{}},
		LockStyle: SingleSign,
	},
	{
		Name:  "Operating Room Record",
		Path:  "operating-room-record",
		Table: "operating_room_record",
		Sections: []string{
			"room_number", "in_time", "start_time", "end_time", "out_time",
			"page1", "page2",
		},
		Defaults: map[string]interface{}{
			"room_number": "",
			"in_time":     "", "start_time": "", "end_time": "", "out_time": "",
			"page1": map[string]interface{}{},
			"page2": map[string]interface{}{},
		},
		LockStyle: SingleSign,
	},
	{
		Name:  "PACU Record",
		Path:  "pacu-records",
		Table: "pacu_record",
		Sections: []string{
			"surgeon", "anesthesiologist", "procedure", "date", "arrival_time",
			"anesthesia_type", "asa_level",
			"airway", "airway_dc_time", "o2_lpm", "o2_device", "o2_dc_time",
			"nkda", "allergies_text",
			"cardiac", "lungs", "neuro_orientation", "neuro_other",
			"upper_extremities_motor", "upper_extremities_sensory",
			"lower_extremities_motor", "lower_extremities_sensory",
			"iv_dc_time", "iv_site", "iv_without_redness_swelling",
			"vital_signs_stable", "respirations_even_unlabored", "breath_sounds",
			"tolerating_po_fluids",
			"discharged_to", "discharge_via", "discharge_other",
			"discharge_pain_level", "discharge_comments", "discharge_time",
			"aldrete_rows", "patient_assessment_rows", "wound_extremity_rows",
			"medication_rows",
			"intake_notes", "output_notes", "general_notes",
		},
		Defaults: map[string]interface{}{
			"aldrete_rows":            []interface{}{},
			"patient_assessment_rows": []interface{}{},
			"wound_extremity_rows":    []interface{}{},
			"medication_rows":         []interface{}{},
		},
		LockStyle: SingleSign,
	},
	{
		Name:  "PACU Additional Nursing Notes",
		Path:  "pacu-additional-nursing-notes",
		Table: "pacu_additional_nursing_notes",
		Sections: []string{
			"patient_assessment_rows", "wound_extremity_rows",
			"medication_rows", "notes",
		},
		Defaults: map[string]interface{}{
			"patient_assessment_rows": []interface{}{},
			"wound_extremity_rows":    []interface{}{},
			"medication_rows":         []interface{}{},
			"notes":                   "",
		},
		LockStyle: MultiSign,
	},
	{
		Name:      "PACU Progress Notes",
		Path:      "pacu-progress-notes",
		Table:     "pacu_progress_notes",
		Sections:  []string{"entries"},
		Defaults:  map[string]interface{}{"entries": []interface{}{}},
		LockStyle: SingleSign,
	},
	{
		Name:  "PACU Mobility Assessment",
		Path:  "pacu-mobility",
		Table: "pacu_mobility_assessment",
		Sections: []string{
			"level1_result", "level1_time_initials",
			"level2_result", "level2_time_initials",
			"level3_result", "level3_time_initials",
			"notes",
		},
		Defaults: map[string]interface{}{
			"level1_result": "", "level1_time_initials": "",
			"level2_result": "", "level2_time_initials": "",
			"level3_result": "", "level3_time_initials": "",
			"notes": "",
		},
		LockStyle: SingleSign,
	},
	{
		Name:     "Peripheral Nerve Block Procedure Note",
		Path:     "peripheral-nerve-block-procedure-note",
		Table:    "peripheral_nerve_block_procedure_note",
		Sections: []string{"page1", "page2", "comments"},
		Defaults: map[string]interface{}{
			"page1":    map[string]interface{}{},
			"page2":    map[string]interface{}{},
			"comments": "",
		},
		LockStyle: SingleSign,
	},
	{
		Name:     "Anesthesia Orders",
		Path:     "anesthesia-orders",
		Table:    "anesthesia_orders",
		Sections: []string{"nkda", "allergies_text", "preop_orders", "pacu_phase1_orders"},
		Defaults: map[string]interface{}{
			"nkda":               false,
			"allergies_text":     "",
			"preop_orders":       map[string]interface{}{},
			"pacu_phase1_orders": map[string]interface{}{},
		},
		LockStyle: SingleSign,
	},
	{
		Name:  "Anesthesia Record",
		Path:  "anesthesia-record",
		Table: "anesthesia_record",
		Sections: []string{
			"header", "history", "ros", "meds", "pe", "airway", "plan",
			"time_series", "regional_anesthesia", "notes",
		},
		Defaults: map[string]interface{}{
			"header":              map[string]interface{}{},
			"airway":              map[string]interface{}{},
			"time_series":         map[string]interface{}{},
			"regional_anesthesia": map[string]interface{}{},
			"history":             "", "ros": "", "meds": "", "pe": "",
			"plan": "", "notes": "",
		},
		LockStyle: SingleSign,
	},
	{
		Name:  "Consent for Anesthesia Services",
		Path:  "consent-for-anesthesia-services",
		Table: "consent_for_anesthesia_services",
		Sections: []string{
			"nkda", "allergies_text", "consent",
			"patient_signature_data_url", "witness_signature_data_url",
			"guardian_signature_data_url", "anesthesiologist_signature_data_url",
		},
		Defaults: map[string]interface{}{
			"nkda":           false,
			"allergies_text": "",
			"consent":        map[string]interface{}{},
		},
		LockStyle: SingleSign,
	},
	{
		Name:  "Immediate Post-Op Progress Note",
		Path:  "immediate-postop-progress-note",
		Table: "immediate_postop_progress_note",
		Sections: []string{
			"surgeon_assist",
			"pre_procedure_diagnosis", "post_procedure_diagnosis_same",
			"post_procedure_diagnosis_other",
			"anesthesia_general", "anesthesia_spinal", "anesthesia_epidural",
			"anesthesia_mac_local", "anesthesia_regional", "anesthesia_local",
			"anesthesia_iv_sedation",
			"procedure_name", "findings", "disposition", "disposition_other",
			"status_stable", "status_other",
			"drain_or_pack_none", "drain_or_pack_yes", "drain_or_pack_type",
			"complications_none", "complications_other",
			"ebl_negligible", "ebl_mls",
			"specimen_no", "specimen_pathology", "specimen_discarded",
			"operative_note_dictated_required",
			"notes",
		},
		Defaults:  map[string]interface{}{"notes": ""},
		LockStyle: SingleSign,
	},
	{
		Name:      "Exparel Billing Worksheet",
		Path:      "exparel-billing-worksheet",
		Table:     "exparel_billing_worksheet",
		Sections:  []string{"form_data"},
		Defaults:  map[string]interface{}{"form_data": map[string]interface{}{}},
		LockStyle: SingleSign,
	},
	{
		Name:     "Implant Billable Information",
		Path:     "implant-billable-information",
		Table:    "implant_billable_information",
		Sections: []string{"rows", "notes"},
		Defaults: map[string]interface{}{
			"rows":  []interface{}{},
			"notes": "",
		},
		LockStyle: SingleSign,
	},
	{
		Name:  "Safe Surgery Communication Checklist",
		Path:  "safe-surgery-communication-checklist",
		Table: "safe_surgery_communication_checklist",
		Sections: []string{
			"page1",
			"preop_signature_name", "preop_signature_datetime",
			"before_induction_signature_name", "before_induction_signature_datetime",
			"before_incision_signature_name", "before_incision_signature_datetime",
			"before_leaving_room_signature_name", "before_leaving_room_signature_datetime",
		},
		Defaults:  map[string]interface{}{"page1": map[string]interface{}{}},
		LockStyle: SingleSign,
	},
	{
		Name:     "Medication Reconciliation",
		Path:     "medication-reconciliation",
		Table:    "medication_reconciliation",
		Sections: []string{"data", "rn_signature", "surgeon_signature", "completed"},
		Defaults: map[string]interface{}{
			"data":              map[string]interface{}{},
			"rn_signature":      map[string]interface{}{},
			"surgeon_signature": map[string]interface{}{},
			"completed":         false,
		},
		LockStyle: SingleSign,
	},
	{
		Name:     "Preoperative Nurse's Notes",
		Path:     "preoperative-nurses-notes",
		Table:    "preoperative_nurses_notes",
		Sections: []string{"data", "nurse_signature", "patient_signature", "completed"},
		Defaults: map[string]interface{}{
			"data":              map[string]interface{}{},
			"nurse_signature":   map[string]interface{}{},
			"patient_signature": map[string]interface{}{},
			"completed":         false,
		},
		LockStyle: SingleSign,
	},
	{
		Name:     "Fall Risk Assessment (Pre-Op)",
		Path:     "fall-risk-assessment-preop",
		Table:    "fall_risk_assessment_preop",
		Sections: []string{"data", "total_score", "nurse_signature", "completed"},
		Defaults: map[string]interface{}{
			"data":            map[string]interface{}{},
			"total_score":     0,
			"nurse_signature": map[string]interface{}{},
			"completed":       false,
		},
		LockStyle: SingleSign,
	},
	{
		Name:     "Patient Education: DVT / PE",
		Path:     "patient-education-dvt-pe",
		Table:    "patient_education_dvt_pe",
		Sections: []string{"patient_signature", "nurse_signature", "acknowledged_at"},
		Defaults: map[string]interface{}{
			"patient_signature": map[string]interface{}{},
			"nurse_signature":   map[string]interface{}{},
		},
		LockStyle: SingleSign,
	},
	{
		Name:     "Patient Education: Infection Risk",
		Path:     "patient-education-infection-risk",
		Table:    "patient_education_infection_risk",
		Sections: []string{"patient_signature", "nurse_signature", "acknowledged_at"},
		Defaults: map[string]interface{}{
			"patient_signature": map[string]interface{}{},
			"nurse_signature":   map[string]interface{}{},
		},
		LockStyle: SingleSign,
	},
	{
		Name:     "Patient Instructions",
		Path:     "patient-instructions",
		Table:    "patient_instructions",
		Sections: []string{"data", "call_attempts", "completed"},
		Defaults: map[string]interface{}{
			"data":          map[string]interface{}{},
			"call_attempts": []interface{}{},
			"completed":     false,
		},
		LockStyle: SingleSign,
	},
	{
		Name:     "Pre-Op Phone Call",
		Path:     "pre-op-phone-call",
		Table:    "pre_op_phone_call",
		Sections: []string{"data", "call_attempts", "completed"},
		Defaults: map[string]interface{}{
			"data":          map[string]interface{}{},
			"call_attempts": []interface{}{},
			"completed":     false,
		},
		LockStyle:  SingleSign,
		Unlockable: true,
	},
	{
		Name:     "Post-Op Phone Call",
		Path:     "post-op-phone-call",
		Table:    "post_op_phone_call",
		Sections: []string{"data", "call_attempts", "completed"},
		Defaults: map[string]interface{}{
			"data":          map[string]interface{}{},
			"call_attempts": []interface{}{},
			"completed":     false,
		},
		LockStyle: SingleSign,
	},
}

// ByPath looks a definition up by its URL segment.
func ByPath(path string) (Definition, bool) {
	for _, d := range Registry {
		if d.Path == path {
			return d, true
		}
	}
	return Definition{}, false
}
