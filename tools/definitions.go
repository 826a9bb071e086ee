package tools

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
)

// register declares the nine pharmacy tools. Descriptions are written
// for the model: they say when to call, not what the code does.
func (r *Registry) register() error {
	type entry struct {
		name        string
		description string
		schema      *jsonschema.Schema
		run         func(ctx context.Context, raw json.RawMessage) (any, error)
	}

	entries := []entry{
		{
			name:        "get_medication_info",
			description: "When user asks general information about a medication (what it is, usage, dosage).",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"medication_name": {
						Type:        "string",
						Description: "Name of the medication in Hebrew or English (e.g., 'אקמול', 'Acamol', 'נורופן', 'Nurofen')",
					},
					"language": languageSchema("Preferred language for the response. Use 'he' for Hebrew, 'en' for English. Default is 'en'."),
				},
				Required:             []string{"medication_name"},
				AdditionalProperties: falseSchema(),
			},
			run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args medicationInfoArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, &InvalidArgumentsError{Err: err}
				}
				return r.getMedicationInfo(args), nil
			},
		},
		{
			name:        "check_stock_availability",
			description: "When user asks if a medication is in stock or available.",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"medication_name": {
						Type:        "string",
						Description: "Name of the medication to check (Hebrew or English)",
					},
				},
				Required:             []string{"medication_name"},
				AdditionalProperties: falseSchema(),
			},
			run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args stockArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, &InvalidArgumentsError{Err: err}
				}
				return r.checkStockAvailability(args), nil
			},
		},
		{
			name:        "check_prescription_requirement",
			description: "When user asks if a medication requires a prescription or is over-the-counter.",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"medication_name": {
						Type:        "string",
						Description: "Name of the medication (Hebrew or English)",
					},
					"language": languageSchema("Preferred language for the response"),
				},
				Required:             []string{"medication_name"},
				AdditionalProperties: falseSchema(),
			},
			run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args prescriptionRequirementArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, &InvalidArgumentsError{Err: err}
				}
				return r.checkPrescriptionRequirement(args), nil
			},
		},
		{
			name:        "search_by_active_ingredient",
			description: "When user asks for medications containing a specific active ingredient.",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"ingredient": {
						Type:        "string",
						Description: "The active ingredient to search for (e.g., 'Paracetamol', 'Ibuprofen', 'פרצטמול')",
					},
				},
				Required:             []string{"ingredient"},
				AdditionalProperties: falseSchema(),
			},
			run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args ingredientSearchArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, &InvalidArgumentsError{Err: err}
				}
				return r.searchByActiveIngredient(args), nil
			},
		},
		{
			name:        "get_user_prescriptions",
			description: "When user asks about their prescriptions (e.g. 'my prescriptions', 'המרשמים שלי').",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"user_id": {
						Type:        "string",
						Description: "User ID (e.g., 'user_001')",
					},
					"language": languageSchema("Preferred language for the response"),
				},
				Required:             []string{"user_id"},
				AdditionalProperties: falseSchema(),
			},
			run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args userPrescriptionsArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, &InvalidArgumentsError{Err: err}
				}
				return r.getUserPrescriptions(args), nil
			},
		},
		{
			name:        "verify_prescription_eligibility",
			description: "When user asks if they have a prescription for a specific medication.",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"user_id": {
						Type:        "string",
						Description: "User ID",
					},
					"medication_name": {
						Type:        "string",
						Description: "Name of the medication to verify",
					},
					"language": languageSchema("Preferred language for the response"),
				},
				Required:             []string{"user_id", "medication_name"},
				AdditionalProperties: falseSchema(),
			},
			run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args eligibilityArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, &InvalidArgumentsError{Err: err}
				}
				return r.verifyPrescriptionEligibility(args), nil
			},
		},
		{
			name:        "reserve_medication",
			description: "When user asks to reserve medication for pickup.",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"medication_name": {
						Type:        "string",
						Description: "Name of medication to reserve",
					},
					"quantity": {
						Type:        "integer",
						Description: "Number of units to reserve",
						Minimum:     floatPtr(1),
					},
					"user_id": {
						Type:        "string",
						Description: "User ID making the reservation",
					},
				},
				Required:             []string{"medication_name", "quantity", "user_id"},
				AdditionalProperties: falseSchema(),
			},
			run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args reserveArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, &InvalidArgumentsError{Err: err}
				}
				return r.reserveMedication(ctx, args), nil
			},
		},
		{
			name:        "check_drug_interactions",
			description: "When user asks if medications are safe to take together.",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"medications": {
						Type:        "array",
						Items:       &jsonschema.Schema{Type: "string"},
						Description: "List of medication names to check for interactions (minimum 2)",
						MinItems:    intPtr(2),
					},
					"language": languageSchema("Preferred language for the response"),
				},
				Required:             []string{"medications"},
				AdditionalProperties: falseSchema(),
			},
			run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args interactionsArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, &InvalidArgumentsError{Err: err}
				}
				return r.checkDrugInteractions(args), nil
			},
		},
		{
			name:        "check_user_allergies",
			description: "When user asks if a medication is safe due to allergy.",
			schema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"user_id": {
						Type:        "string",
						Description: "User ID",
					},
					"medication_name": {
						Type:        "string",
						Description: "Medication name to check against user allergies",
					},
					"language": languageSchema("Preferred language for the response"),
				},
				Required:             []string{"user_id", "medication_name"},
				AdditionalProperties: falseSchema(),
			},
			run: func(ctx context.Context, raw json.RawMessage) (any, error) {
				var args allergyArgs
				if err := json.Unmarshal(raw, &args); err != nil {
					return nil, &InvalidArgumentsError{Err: err}
				}
				return r.checkUserAllergies(args), nil
			},
		},
	}

	for _, e := range entries {
		if err := r.add(e.name, e.description, e.schema, e.run); err != nil {
			return err
		}
	}
	return nil
}

// languageSchema is the shared language enum property; only the
// description varies between tools.
func languageSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "string",
		Enum:        []any{"en", "he"},
		Description: description,
	}
}

// falseSchema is the boolean "false" schema, used to reject
// properties the definition does not declare.
func falseSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}

func floatPtr(f float64) *float64 { return &f }

func intPtr(i int) *int { return &i }
