package tools

import (
	"context"
	"strings"
	"testing"
)

func TestGetMedicationInfo(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	t.Run("english", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "get_medication_info", map[string]any{
			"medication_name": "Acamol",
			"language":        "en",
		}))
		if result["success"] != true {
			t.Fatalf("success = %v, want true\n%v", result["success"], result)
		}
		med := result["medication"].(map[string]any)
		if med["name"] != "Acamol" {
			t.Errorf("name = %v, want Acamol", med["name"])
		}
		if med["active_ingredient"] != "Paracetamol" {
			t.Errorf("active_ingredient = %v", med["active_ingredient"])
		}
	})

	t.Run("hebrew", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "get_medication_info", map[string]any{
			"medication_name": "אקמול",
			"language":        "he",
		}))
		if result["success"] != true {
			t.Fatalf("success = %v, want true", result["success"])
		}
		med := result["medication"].(map[string]any)
		if med["name"] != "אקמול" {
			t.Errorf("name = %v, want אקמול", med["name"])
		}
	})

	t.Run("not found carries suggestions", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "get_medication_info", map[string]any{
			"medication_name": "Nurofn",
		}))
		if result["success"] != false {
			t.Fatalf("success = %v, want false", result["success"])
		}
		errText := result["error"].(string)
		if !strings.Contains(errText, "'Nurofn' not found in our database") {
			t.Errorf("error = %q", errText)
		}
		suggestions, ok := result["suggestions"].([]any)
		if !ok || len(suggestions) == 0 {
			t.Fatalf("suggestions missing: %v", result["suggestions"])
		}
		if suggestions[0] != "Nurofen" {
			t.Errorf("suggestions[0] = %v, want Nurofen", suggestions[0])
		}
	})

	t.Run("blank name", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "get_medication_info", map[string]any{
			"medication_name": "   ",
			"language":        "he",
		}))
		if result["error"] != "שם התרופה נדרש" {
			t.Errorf("error = %v", result["error"])
		}
	})
}

func TestCheckStockAvailability(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	tests := []struct {
		name           string
		medication     string
		expectedStock  bool
		expectedStatus string
	}{
		{name: "plenty", medication: "Nurofen", expectedStock: true, expectedStatus: "available"},
		{name: "low stock", medication: "Advil", expectedStock: true, expectedStatus: "low_stock"},
		{name: "out of stock", medication: "Omeprazole-Teva", expectedStock: false, expectedStatus: "out_of_stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := decode(t, r.Execute(ctx, "check_stock_availability", map[string]any{
				"medication_name": tt.medication,
			}))
			if result["success"] != true {
				t.Fatalf("success = %v, want true", result["success"])
			}
			if result["in_stock"] != tt.expectedStock {
				t.Errorf("in_stock = %v, want %v", result["in_stock"], tt.expectedStock)
			}
			if result["status"] != tt.expectedStatus {
				t.Errorf("status = %v, want %v", result["status"], tt.expectedStatus)
			}
		})
	}

	t.Run("not found", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_stock_availability", map[string]any{
			"medication_name": " Tylenol ",
		}))
		if result["error"] != "Medication 'Tylenol' not found in database" {
			t.Errorf("error = %v", result["error"])
		}
	})
}

func TestCheckPrescriptionRequirement(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	t.Run("otc english", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_prescription_requirement", map[string]any{
			"medication_name": "Acamol",
			"language":        "en",
		}))
		if result["requires_prescription"] != false {
			t.Errorf("requires_prescription = %v, want false", result["requires_prescription"])
		}
		if result["message"] != "Does not require prescription" {
			t.Errorf("message = %v", result["message"])
		}
		if result["medication_name"] != "Acamol" {
			t.Errorf("medication_name = %v", result["medication_name"])
		}
	})

	t.Run("rx hebrew", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_prescription_requirement", map[string]any{
			"medication_name": "augmentin",
			"language":        "he",
		}))
		if result["requires_prescription"] != true {
			t.Errorf("requires_prescription = %v, want true", result["requires_prescription"])
		}
		if result["message"] != "דורש מרשם רופא" {
			t.Errorf("message = %v", result["message"])
		}
		if result["medication_name"] != "אוגמנטין" {
			t.Errorf("medication_name = %v, want hebrew display name", result["medication_name"])
		}
	})
}

func TestSearchByActiveIngredient(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	result := decode(t, r.Execute(ctx, "search_by_active_ingredient", map[string]any{
		"ingredient": "Ibuprofen",
	}))
	if result["success"] != true {
		t.Fatalf("success = %v, want true", result["success"])
	}
	if result["count"] != float64(2) {
		t.Errorf("count = %v, want 2", result["count"])
	}
	meds := result["medications"].([]any)
	if len(meds) != 2 {
		t.Fatalf("medications length = %d, want 2", len(meds))
	}
	// Search results are always the English projection.
	first := meds[0].(map[string]any)
	if first["name"] != "Nurofen" {
		t.Errorf("first match = %v, want Nurofen", first["name"])
	}

	empty := decode(t, r.Execute(ctx, "search_by_active_ingredient", map[string]any{
		"ingredient": "codeine",
	}))
	if empty["success"] != true {
		t.Errorf("empty search success = %v, want true", empty["success"])
	}
	if empty["count"] != float64(0) {
		t.Errorf("empty search count = %v, want 0", empty["count"])
	}
	if _, ok := empty["medications"].([]any); !ok {
		t.Errorf("medications should be an empty array, got %v", empty["medications"])
	}
}

func TestGetUserPrescriptions(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	t.Run("english listing", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "get_user_prescriptions", map[string]any{
			"user_id":  "user_001",
			"language": "en",
		}))
		if result["success"] != true {
			t.Fatalf("success = %v, want true", result["success"])
		}
		if result["user_name"] != "Daniel Cohen" {
			t.Errorf("user_name = %v", result["user_name"])
		}
		if result["prescription_count"] != float64(2) {
			t.Errorf("prescription_count = %v, want 2", result["prescription_count"])
		}
		list := result["prescriptions"].([]any)
		firstEntry := list[0].(map[string]any)
		if firstEntry["name"] != "Ventolin" {
			t.Errorf("first prescription = %v, want Ventolin", firstEntry["name"])
		}
	})

	t.Run("hebrew listing", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "get_user_prescriptions", map[string]any{
			"user_id":  "user_001",
			"language": "he",
		}))
		if result["user_name"] != "דניאל כהן" {
			t.Errorf("user_name = %v", result["user_name"])
		}
		list := result["prescriptions"].([]any)
		firstEntry := list[0].(map[string]any)
		if firstEntry["name"] != "ונטולין" {
			t.Errorf("first prescription = %v, want ונטולין", firstEntry["name"])
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "get_user_prescriptions", map[string]any{
			"user_id": "user_999",
		}))
		if result["error"] != "User 'user_999' not found" {
			t.Errorf("error = %v", result["error"])
		}
	})
}

func TestVerifyPrescriptionEligibility(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	t.Run("otc needs no prescription", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "verify_prescription_eligibility", map[string]any{
			"user_id":         "user_001",
			"medication_name": "Acamol",
		}))
		if result["requires_prescription"] != false || result["eligible"] != true {
			t.Errorf("unexpected result: %v", result)
		}
		if _, present := result["medication_name"]; present {
			t.Errorf("medication_name should be omitted for OTC, got %v", result["medication_name"])
		}
		if result["message"] != "This medication does not require a prescription" {
			t.Errorf("message = %v", result["message"])
		}
	})

	t.Run("valid prescription", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "verify_prescription_eligibility", map[string]any{
			"user_id":         "user_001",
			"medication_name": "Augmentin",
		}))
		if result["eligible"] != true {
			t.Errorf("eligible = %v, want true", result["eligible"])
		}
		if result["message"] != "Valid prescription found" {
			t.Errorf("message = %v", result["message"])
		}
		if result["medication_name"] != "Augmentin" {
			t.Errorf("medication_name = %v", result["medication_name"])
		}
	})

	t.Run("no prescription on file", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "verify_prescription_eligibility", map[string]any{
			"user_id":         "user_003",
			"medication_name": "Augmentin",
		}))
		if result["eligible"] != false {
			t.Errorf("eligible = %v, want false", result["eligible"])
		}
		if result["message"] != "Prescription required - please consult your doctor" {
			t.Errorf("message = %v", result["message"])
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "verify_prescription_eligibility", map[string]any{
			"user_id":         "user_404",
			"medication_name": "Augmentin",
			"language":        "he",
		}))
		if result["error"] != "משתמש לא נמצא" {
			t.Errorf("error = %v", result["error"])
		}
	})
}

func TestReserveMedication(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	t.Run("confirmed", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "reserve_medication", map[string]any{
			"medication_name": "Nurofen",
			"quantity":        3,
			"user_id":         "user_002",
		}))
		if result["success"] != true {
			t.Fatalf("success = %v, want true\n%v", result["success"], result)
		}
		code := result["reservation_id"].(string)
		if !strings.HasPrefix(code, "RES-") || len(code) != 9 {
			t.Errorf("reservation_id = %q, want RES-NNNNN", code)
		}
		message := result["message"].(string)
		if !strings.Contains(message, "48 hours") || !strings.Contains(message, code) {
			t.Errorf("message = %q", message)
		}
		if result["quantity"] != float64(3) {
			t.Errorf("quantity = %v, want 3", result["quantity"])
		}
	})

	t.Run("insufficient stock", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "reserve_medication", map[string]any{
			"medication_name": "Advil",
			"quantity":        50,
			"user_id":         "user_001",
		}))
		if result["success"] != false {
			t.Fatalf("success = %v, want false", result["success"])
		}
		if result["error"] != "Insufficient stock. Requested: 50, Available: 8" {
			t.Errorf("error = %v", result["error"])
		}
		if result["available_quantity"] != float64(8) {
			t.Errorf("available_quantity = %v, want 8", result["available_quantity"])
		}
	})

	t.Run("unknown medication", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "reserve_medication", map[string]any{
			"medication_name": "Tylenol",
			"quantity":        1,
			"user_id":         "user_001",
		}))
		if result["error"] != "Medication 'Tylenol' not found" {
			t.Errorf("error = %v", result["error"])
		}
	})
}

func TestCheckDrugInteractions(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	t.Run("nsaid pair english", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_drug_interactions", map[string]any{
			"medications": []any{"Nurofen", "Acamol"},
			"language":    "en",
		}))
		if result["success"] != true {
			t.Fatalf("success = %v, want true", result["success"])
		}
		if result["interaction_count"] != float64(1) {
			t.Fatalf("interaction_count = %v, want 1", result["interaction_count"])
		}
		entry := result["interactions"].([]any)[0].(map[string]any)
		if entry["severity"] != "moderate" {
			t.Errorf("severity = %v", entry["severity"])
		}
		if entry["warning"] != "Combining NSAIDs may increase stomach irritation risk. Take with food." {
			t.Errorf("warning = %v", entry["warning"])
		}
		if result["message"] != "Found 1 potential interaction(s)" {
			t.Errorf("message = %v", result["message"])
		}
	})

	t.Run("hebrew names and warnings", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_drug_interactions", map[string]any{
			"medications": []any{"נורופן", "אקמול"},
			"language":    "he",
		}))
		checked := result["medications_checked"].([]any)
		if checked[0] != "נורופן" {
			t.Errorf("medications_checked[0] = %v", checked[0])
		}
		entry := result["interactions"].([]any)[0].(map[string]any)
		if entry["warning"] != "שילוב משככי כאבים עלול להגביר גירוי קיבה. יש ליטול עם אוכל." {
			t.Errorf("warning = %v", entry["warning"])
		}
		if result["message"] != "נמצאו 1 אינטראקציות אפשריות" {
			t.Errorf("message = %v", result["message"])
		}
	})

	t.Run("anticoagulant pair", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_drug_interactions", map[string]any{
			"medications": []any{"Coumadin", "Aspirin Cardio"},
		}))
		entry := result["interactions"].([]any)[0].(map[string]any)
		if entry["severity"] != "major" {
			t.Errorf("severity = %v, want major", entry["severity"])
		}
	})

	t.Run("no interactions", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_drug_interactions", map[string]any{
			"medications": []any{"Acamol", "Cetrizine"},
		}))
		if result["interaction_count"] != float64(0) {
			t.Errorf("interaction_count = %v, want 0", result["interaction_count"])
		}
		if result["message"] != "No significant interactions detected" {
			t.Errorf("message = %v", result["message"])
		}
		if _, ok := result["interactions"].([]any); !ok {
			t.Errorf("interactions should be an empty array, got %v", result["interactions"])
		}
	})

	t.Run("unresolvable names", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_drug_interactions", map[string]any{
			"medications": []any{"Nurofen", "Tylenol"},
		}))
		if result["error"] != "Could not find all medications in database" {
			t.Errorf("error = %v", result["error"])
		}
	})
}

func TestCheckUserAllergies(t *testing.T) {
	r := newTestRegistry(t)
	ctx := context.Background()

	t.Run("penicillin class match", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_user_allergies", map[string]any{
			"user_id":         "user_001",
			"medication_name": "Augmentin",
		}))
		if result["has_allergy"] != true || result["safe_to_use"] != false {
			t.Fatalf("unexpected result: %v", result)
		}
		allergies := result["allergies"].([]any)
		if len(allergies) != 1 || allergies[0] != "penicillin" {
			t.Errorf("allergies = %v, want [penicillin]", allergies)
		}
		message := result["message"].(string)
		if !strings.Contains(message, "⚠️ ALLERGY WARNING") || !strings.Contains(message, "penicillin") {
			t.Errorf("message = %q", message)
		}
	})

	t.Run("direct ingredient match", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_user_allergies", map[string]any{
			"user_id":         "user_002",
			"medication_name": "Nurofen",
			"language":        "he",
		}))
		if result["has_allergy"] != true {
			t.Fatalf("has_allergy = %v, want true", result["has_allergy"])
		}
		message := result["message"].(string)
		if !strings.Contains(message, "⚠️ אזהרת אלרגיה") {
			t.Errorf("message = %q", message)
		}
	})

	t.Run("no allergies", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_user_allergies", map[string]any{
			"user_id":         "user_003",
			"medication_name": "Augmentin",
		}))
		if result["has_allergy"] != false || result["safe_to_use"] != true {
			t.Fatalf("unexpected result: %v", result)
		}
		if _, present := result["allergies"]; present {
			t.Errorf("allergies should be omitted when empty")
		}
		if result["message"] != "No known allergies to this medication" {
			t.Errorf("message = %v", result["message"])
		}
	})

	t.Run("hebrew lookup still matches english allergy list", func(t *testing.T) {
		result := decode(t, r.Execute(ctx, "check_user_allergies", map[string]any{
			"user_id":         "user_002",
			"medication_name": "אספירין קרדיו",
			"language":        "he",
		}))
		if result["has_allergy"] != true {
			t.Errorf("has_allergy = %v, want true", result["has_allergy"])
		}
		allergies := result["allergies"].([]any)
		if len(allergies) != 1 || allergies[0] != "aspirin" {
			t.Errorf("allergies = %v, want [aspirin]", allergies)
		}
	})
}
