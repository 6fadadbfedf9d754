// Package schemas ships the per-form descriptors the chart pages bind to a
// formclient.Controller.
package schemas

import "github.com/opforms/opforms/pkg/formclient"

// HistoryAndPhysical is the H&P: one page1 object, single physician signer.
var HistoryAndPhysical = formclient.Schema{
	Path: "history-and-physical",
	Defaults: map[string]interface{}{
		"page1": map[string]interface{}{
			"chief_complaint":         "",
			"history_present_illness": "",
			"past_medical_history":    "",
			"past_surgical_history":   "",
			"medications":             "",
			"allergies":               "",
			"social_history":          "",
			"review_of_systems":       "",
			"physical_exam":           "",
			"assessment_plan":         "",
		},
	},
	Persisted:           []string{"page1"},
	SignRequiredMessage: "Signature is required to sign this H&P.",
}

// PacuAdditionalNursingNotes collects up to three signatures before an
// explicit lock.
var PacuAdditionalNursingNotes = formclient.Schema{
	Path: "pacu-additional-nursing-notes",
	Defaults: map[string]interface{}{
		"patient_assessment_rows": []interface{}{},
		"wound_extremity_rows":    []interface{}{},
		"medication_rows":         []interface{}{},
		"notes":                   "",
	},
	Persisted: []string{"patient_assessment_rows", "wound_extremity_rows", "medication_rows", "notes"},
	MultiSign: true,
}

// PacuRecords is the main PACU flowsheet: assessment scalars plus the four
// row lists (Aldrete, patient assessment, wound/extremity, medications).
var PacuRecords = formclient.Schema{
	Path: "pacu-records",
	Defaults: map[string]interface{}{
		"aldrete_rows":            []interface{}{},
		"patient_assessment_rows": []interface{}{},
		"wound_extremity_rows":    []interface{}{},
		"medication_rows":         []interface{}{},
	},
	Persisted: []string{
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
}

// PacuProgressNotes is the timestamped progress note sheet.
var PacuProgressNotes = formclient.Schema{
	Path:      "pacu-progress-notes",
	Defaults:  map[string]interface{}{"entries": []interface{}{}},
	Persisted: []string{"entries"},
}

// PacuMobility is the three-level ambulation assessment.
var PacuMobility = formclient.Schema{
	Path: "pacu-mobility",
	Defaults: map[string]interface{}{
		"level1_result": "", "level1_time_initials": "",
		"level2_result": "", "level2_time_initials": "",
		"level3_result": "", "level3_time_initials": "",
		"notes": "",
	},
	Persisted: []string{
		"level1_result", "level1_time_initials",
		"level2_result", "level2_time_initials",
		"level3_result", "level3_time_initials",
		"notes",
	},
}

// OperatingRoomRecord carries the room times plus two page objects.
var OperatingRoomRecord = formclient.Schema{
	Path: "operating-room-record",
	Defaults: map[string]interface{}{
		"room_number": "",
		"in_time":     "", "start_time": "", "end_time": "", "out_time": "",
		"page1": map[string]interface{}{},
		"page2": map[string]interface{}{},
	},
	Persisted: []string{"room_number", "in_time", "start_time", "end_time", "out_time", "page1", "page2"},
}

// PeripheralNerveBlockProcedureNote is the two-page block note.
var PeripheralNerveBlockProcedureNote = formclient.Schema{
	Path: "peripheral-nerve-block-procedure-note",
	Defaults: map[string]interface{}{
		"page1":    map[string]interface{}{},
		"page2":    map[string]interface{}{},
		"comments": "",
	},
	Persisted: []string{"page1", "page2", "comments"},
}

// AnesthesiaOrders splits into a pre-op and a PACU phase-1 order set.
var AnesthesiaOrders = formclient.Schema{
	Path: "anesthesia-orders",
	Defaults: map[string]interface{}{
		"nkda":               false,
		"allergies_text":     "",
		"preop_orders":       map[string]interface{}{},
		"pacu_phase1_orders": map[string]interface{}{},
	},
	Persisted: []string{"nkda", "allergies_text", "preop_orders", "pacu_phase1_orders"},
}

// AnesthesiaRecord is the intra-op record: structured header, airway, and
// time-series objects alongside free-text narrative fields.
var AnesthesiaRecord = formclient.Schema{
	Path: "anesthesia-record",
	Defaults: map[string]interface{}{
		"header":              map[string]interface{}{},
		"airway":              map[string]interface{}{},
		"time_series":         map[string]interface{}{},
		"regional_anesthesia": map[string]interface{}{},
		"history":             "", "ros": "", "meds": "", "pe": "",
		"plan": "", "notes": "",
	},
	Persisted: []string{
		"header", "history", "ros", "meds", "pe", "airway", "plan",
		"time_series", "regional_anesthesia", "notes",
	},
}

// ConsentForAnesthesiaServices captures up to four drawn signatures inline
// in the record data; the physician sign step still locks the form.
var ConsentForAnesthesiaServices = formclient.Schema{
	Path: "consent-for-anesthesia-services",
	Defaults: map[string]interface{}{
		"nkda":           false,
		"allergies_text": "",
		"consent":        map[string]interface{}{},
	},
	Persisted: []string{
		"nkda", "allergies_text", "consent",
		"patient_signature_data_url", "witness_signature_data_url",
		"guardian_signature_data_url", "anesthesiologist_signature_data_url",
	},
}

// ImmediatePostopProgressNote is the checkbox-heavy surgeon note.
var ImmediatePostopProgressNote = formclient.Schema{
	Path:     "immediate-postop-progress-note",
	Defaults: map[string]interface{}{"notes": ""},
	Persisted: []string{
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
}

// ExparelBillingWorksheet stores the worksheet as one opaque object.
var ExparelBillingWorksheet = formclient.Schema{
	Path:      "exparel-billing-worksheet",
	Defaults:  map[string]interface{}{"form_data": map[string]interface{}{}},
	Persisted: []string{"form_data"},
}

// ImplantBillableInformation is a row list plus a notes field.
var ImplantBillableInformation = formclient.Schema{
	Path: "implant-billable-information",
	Defaults: map[string]interface{}{
		"rows":  []interface{}{},
		"notes": "",
	},
	Persisted: []string{"rows", "notes"},
}

// SafeSurgeryCommunicationChecklist records a name and datetime per
// timeout phase.
var SafeSurgeryCommunicationChecklist = formclient.Schema{
	Path:     "safe-surgery-communication-checklist",
	Defaults: map[string]interface{}{"page1": map[string]interface{}{}},
	Persisted: []string{
		"page1",
		"preop_signature_name", "preop_signature_datetime",
		"before_induction_signature_name", "before_induction_signature_datetime",
		"before_incision_signature_name", "before_incision_signature_datetime",
		"before_leaving_room_signature_name", "before_leaving_room_signature_datetime",
	},
}

// MedicationReconciliation carries RN and surgeon signature objects in the
// record data.
var MedicationReconciliation = formclient.Schema{
	Path: "medication-reconciliation",
	Defaults: map[string]interface{}{
		"data":              map[string]interface{}{},
		"rn_signature":      map[string]interface{}{},
		"surgeon_signature": map[string]interface{}{},
		"completed":         false,
	},
	Persisted: []string{"data", "rn_signature", "surgeon_signature", "completed"},
}

// PreoperativeNursesNotes pairs a nurse and a patient signature object.
var PreoperativeNursesNotes = formclient.Schema{
	Path: "preoperative-nurses-notes",
	Defaults: map[string]interface{}{
		"data":              map[string]interface{}{},
		"nurse_signature":   map[string]interface{}{},
		"patient_signature": map[string]interface{}{},
		"completed":         false,
	},
	Persisted: []string{"data", "nurse_signature", "patient_signature", "completed"},
}

// FallRiskAssessmentPreop keeps the computed total alongside the answers.
var FallRiskAssessmentPreop = formclient.Schema{
	Path: "fall-risk-assessment-preop",
	Defaults: map[string]interface{}{
		"data":            map[string]interface{}{},
		"total_score":     0,
		"nurse_signature": map[string]interface{}{},
		"completed":       false,
	},
	Persisted: []string{"data", "total_score", "nurse_signature", "completed"},
}

// PatientEducationDvtPe is the DVT/PE handout acknowledgement.
var PatientEducationDvtPe = formclient.Schema{
	Path: "patient-education-dvt-pe",
	Defaults: map[string]interface{}{
		"patient_signature": map[string]interface{}{},
		"nurse_signature":   map[string]interface{}{},
	},
	Persisted: []string{"patient_signature", "nurse_signature", "acknowledged_at"},
}

// PatientEducationInfectionRisk mirrors the DVT/PE acknowledgement.
var PatientEducationInfectionRisk = formclient.Schema{
	Path: "patient-education-infection-risk",
	Defaults: map[string]interface{}{
		"patient_signature": map[string]interface{}{},
		"nurse_signature":   map[string]interface{}{},
	},
	Persisted: []string{"patient_signature", "nurse_signature", "acknowledged_at"},
}

// PatientInstructions: the special PO details only persist while their
// gating checkbox is on; unchecking it clears the details in the payload.
var PatientInstructions = formclient.Schema{
	Path: "patient-instructions",
	Defaults: map[string]interface{}{
		"data": map[string]interface{}{
			"special_po_no_bp_prils_sartans": false,
			"special_po_details":             "",
		},
		"call_attempts": []interface{}{},
		"completed":     false,
	},
	Persisted: []string{"data", "call_attempts", "completed"},
	PrepareSave: func(payload map[string]interface{}) {
		data, ok := payload["data"].(map[string]interface{})
		if !ok {
			return
		}
		if checked, _ := data["special_po_no_bp_prils_sartans"].(bool); !checked {
			next := make(map[string]interface{}, len(data))
			for k, v := range data {
				next[k] = v
			}
			next["special_po_details"] = ""
			payload["data"] = next
		}
	},
}

// PreOpPhoneCall is the one unlockable form.
var PreOpPhoneCall = formclient.Schema{
	Path: "pre-op-phone-call",
	Defaults: map[string]interface{}{
		"data":          map[string]interface{}{},
		"call_attempts": []interface{}{},
		"completed":     false,
	},
	Persisted:  []string{"data", "call_attempts", "completed"},
	Unlockable: true,
}

// PostOpPhoneCall mirrors the pre-op script without the unlock.
var PostOpPhoneCall = formclient.Schema{
	Path: "post-op-phone-call",
	Defaults: map[string]interface{}{
		"data":          map[string]interface{}{},
		"call_attempts": []interface{}{},
		"completed":     false,
	},
	Persisted: []string{"data", "call_attempts", "completed"},
}

// ByPath indexes the shipped descriptors, one per registry form.
var ByPath = map[string]formclient.Schema{
	HistoryAndPhysical.Path:                HistoryAndPhysical,
	OperatingRoomRecord.Path:               OperatingRoomRecord,
	PacuRecords.Path:                       PacuRecords,
	PacuAdditionalNursingNotes.Path:        PacuAdditionalNursingNotes,
	PacuProgressNotes.Path:                 PacuProgressNotes,
	PacuMobility.Path:                      PacuMobility,
	PeripheralNerveBlockProcedureNote.Path: PeripheralNerveBlockProcedureNote,
	AnesthesiaOrders.Path:                  AnesthesiaOrders,
	AnesthesiaRecord.Path:                  AnesthesiaRecord,
	ConsentForAnesthesiaServices.Path:      ConsentForAnesthesiaServices,
	ImmediatePostopProgressNote.Path:       ImmediatePostopProgressNote,
	ExparelBillingWorksheet.Path:           ExparelBillingWorksheet,
	ImplantBillableInformation.Path:        ImplantBillableInformation,
	SafeSurgeryCommunicationChecklist.Path: SafeSurgeryCommunicationChecklist,
	MedicationReconciliation.Path:          MedicationReconciliation,
	PreoperativeNursesNotes.Path:           PreoperativeNursesNotes,
	FallRiskAssessmentPreop.Path:           FallRiskAssessmentPreop,
	PatientEducationDvtPe.Path:             PatientEducationDvtPe,
	PatientEducationInfectionRisk.Path:     PatientEducationInfectionRisk,
	PatientInstructions.Path:               PatientInstructions,
	PreOpPhoneCall.Path:                    PreOpPhoneCall,
	PostOpPhoneCall.Path:                   PostOpPhoneCall,
}
