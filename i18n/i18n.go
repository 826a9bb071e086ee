// Package i18n holds the bilingual user-facing strings the tool handlers
// emit, keyed by (message id, locale). Keeping translations in one table
// decouples wording from handler control flow.
package i18n

import "fmt"

// Locale identifies a supported response language.
type Locale string

const (
	English Locale = "en"
	Hebrew  Locale = "he"
)

// NormalizeLocale maps arbitrary input to a supported locale. Anything
// other than Hebrew falls back to English, the service default.
func NormalizeLocale(s string) Locale {
	if Locale(s) == Hebrew {
		return Hebrew
	}
	return English
}

// Message ids. Entries without a Hebrew variant render in English for both
// locales (the upstream wording for those was English-only).
const (
	MsgMedicationNameRequired    = "medication_name_required"
	MsgMedicationNotFoundInDB    = "medication_not_found_in_db"
	MsgMedicationNotFoundStock   = "medication_not_found_stock"
	MsgMedicationNotFound        = "medication_not_found"
	MsgMedicationNotFoundNamed   = "medication_not_found_named"
	MsgIngredientRequired        = "ingredient_required"
	MsgUserIDRequired            = "user_id_required"
	MsgUserNotFound              = "user_not_found"
	MsgUserNotFoundNamed         = "user_not_found_named"
	MsgUserAndMedicationRequired = "user_and_medication_required"
	MsgMedicationAndUserRequired = "medication_and_user_required"
	MsgRequiresPrescription      = "requires_prescription"
	MsgNoPrescriptionRequired    = "no_prescription_required"
	MsgPrescriptionNotNeeded     = "prescription_not_needed"
	MsgPrescriptionValid         = "prescription_valid"
	MsgPrescriptionMissing       = "prescription_missing"
	MsgQuantityMinimum           = "quantity_minimum"
	MsgInsufficientStock         = "insufficient_stock"
	MsgReservationConfirmed      = "reservation_confirmed"
	MsgMinTwoMedications         = "min_two_medications"
	MsgNotAllMedicationsFound    = "not_all_medications_found"
	MsgNoInteractions            = "no_interactions"
	MsgInteractionsFound         = "interactions_found"
	MsgAllergyWarning            = "allergy_warning"
	MsgNoKnownAllergies          = "no_known_allergies"
)

var messages = map[string]map[Locale]string{
	MsgMedicationNameRequired: {
		English: "Medication name is required",
		Hebrew:  "שם התרופה נדרש",
	},
	MsgMedicationNotFoundInDB: {
		English: "Medication '%s' not found in our database",
		Hebrew:  "התרופה '%s' לא נמצאה במאגר שלנו",
	},
	MsgMedicationNotFoundStock: {
		English: "Medication '%s' not found in database",
	},
	MsgMedicationNotFound: {
		English: "Medication not found",
		Hebrew:  "תרופה לא נמצאה",
	},
	MsgMedicationNotFoundNamed: {
		English: "Medication '%s' not found",
		Hebrew:  "התרופה '%s' לא נמצאה",
	},
	MsgIngredientRequired: {
		English: "Ingredient name is required",
	},
	MsgUserIDRequired: {
		English: "User ID is required",
		Hebrew:  "מזהה משתמש נדרש",
	},
	MsgUserNotFound: {
		English: "User not found",
		Hebrew:  "משתמש לא נמצא",
	},
	MsgUserNotFoundNamed: {
		English: "User '%s' not found",
		Hebrew:  "משתמש '%s' לא נמצא",
	},
	MsgUserAndMedicationRequired: {
		English: "User ID and medication name are required",
		Hebrew:  "מזהה משתמש ושם תרופה נדרשים",
	},
	MsgMedicationAndUserRequired: {
		English: "Medication name and user ID are required",
	},
	MsgRequiresPrescription: {
		English: "Requires prescription",
		Hebrew:  "דורש מרשם רופא",
	},
	MsgNoPrescriptionRequired: {
		English: "Does not require prescription",
		Hebrew:  "לא דורש מרשם רופא",
	},
	MsgPrescriptionNotNeeded: {
		English: "This medication does not require a prescription",
		Hebrew:  "תרופה זו אינה דורשת מרשם",
	},
	MsgPrescriptionValid: {
		English: "Valid prescription found",
		Hebrew:  "מרשם תקף נמצא",
	},
	MsgPrescriptionMissing: {
		English: "Prescription required - please consult your doctor",
		Hebrew:  "נדרש מרשם - אנא פנה לרופא",
	},
	MsgQuantityMinimum: {
		English: "Quantity must be at least 1",
	},
	MsgInsufficientStock: {
		English: "Insufficient stock. Requested: %d, Available: %d",
	},
	MsgReservationConfirmed: {
		English: "Reservation confirmed. Please pick up within 48 hours. Reservation ID: %s",
	},
	MsgMinTwoMedications: {
		English: "At least 2 medications required",
		Hebrew:  "נדרשות לפחות 2 תרופות",
	},
	MsgNotAllMedicationsFound: {
		English: "Could not find all medications in database",
	},
	MsgNoInteractions: {
		English: "No significant interactions detected",
		Hebrew:  "לא נמצאו אינטראקציות משמעותיות",
	},
	MsgInteractionsFound: {
		English: "Found %d potential interaction(s)",
		Hebrew:  "נמצאו %d אינטראקציות אפשריות",
	},
	MsgAllergyWarning: {
		English: "⚠️ ALLERGY WARNING: User is allergic to %s",
		Hebrew:  "⚠️ אזהרת אלרגיה: המשתמש אלרגי ל-%s",
	},
	MsgNoKnownAllergies: {
		English: "No known allergies to this medication",
		Hebrew:  "אין אלרגיות ידועות לתרופה זו",
	},
}

// T renders a message id in the given locale, applying fmt verbs when args
// are present. Missing Hebrew variants fall back to English; an unknown id
// is returned as-is so the gap shows up in output instead of vanishing.
func T(id string, loc Locale, args ...any) string {
	entry, ok := messages[id]
	if !ok {
		return id
	}
	text, ok := entry[loc]
	if !ok {
		text = entry[English]
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}
