package tools

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"rxchat/config"
	"rxchat/i18n"
	"rxchat/store"
)

type medicationInfoArgs struct {
	MedicationName string `json:"medication_name"`
	Language       string `json:"language"`
}

type stockArgs struct {
	MedicationName string `json:"medication_name"`
}

type prescriptionRequirementArgs struct {
	MedicationName string `json:"medication_name"`
	Language       string `json:"language"`
}

type ingredientSearchArgs struct {
	Ingredient string `json:"ingredient"`
}

type userPrescriptionsArgs struct {
	UserID   string `json:"user_id"`
	Language string `json:"language"`
}

type eligibilityArgs struct {
	UserID         string `json:"user_id"`
	MedicationName string `json:"medication_name"`
	Language       string `json:"language"`
}

type reserveArgs struct {
	MedicationName string `json:"medication_name"`
	Quantity       int    `json:"quantity"`
	UserID         string `json:"user_id"`
}

type interactionsArgs struct {
	Medications []string `json:"medications"`
	Language    string   `json:"language"`
}

type allergyArgs struct {
	UserID         string `json:"user_id"`
	MedicationName string `json:"medication_name"`
	Language       string `json:"language"`
}

// Result shapes. Field order is the order the model sees after
// serialization, so success flags come first.

type medicationInfoResult struct {
	Success    bool                 `json:"success"`
	Medication store.MedicationView `json:"medication"`
}

type stockResult struct {
	Success        bool   `json:"success"`
	MedicationName string `json:"medication_name"`
	InStock        bool   `json:"in_stock"`
	Quantity       int    `json:"quantity"`
	Status         string `json:"status"`
}

type prescriptionRequirementResult struct {
	Success              bool   `json:"success"`
	MedicationName       string `json:"medication_name"`
	RequiresPrescription bool   `json:"requires_prescription"`
	Message              string `json:"message"`
}

type ingredientSearchResult struct {
	Success     bool                   `json:"success"`
	Ingredient  string                 `json:"ingredient"`
	Count       int                    `json:"count"`
	Medications []store.MedicationView `json:"medications"`
}

type prescriptionEntry struct {
	Name             string `json:"name"`
	ActiveIngredient string `json:"active_ingredient"`
	Dosage           string `json:"dosage"`
	ID               string `json:"id"`
}

type userPrescriptionsResult struct {
	Success           bool                `json:"success"`
	UserID            string              `json:"user_id"`
	UserName          string              `json:"user_name"`
	PrescriptionCount int                 `json:"prescription_count"`
	Prescriptions     []prescriptionEntry `json:"prescriptions"`
}

type eligibilityResult struct {
	Success              bool   `json:"success"`
	RequiresPrescription bool   `json:"requires_prescription"`
	Eligible             bool   `json:"eligible"`
	MedicationName       string `json:"medication_name,omitempty"`
	Message              string `json:"message"`
}

type reservationResult struct {
	Success        bool   `json:"success"`
	ReservationID  string `json:"reservation_id"`
	MedicationName string `json:"medication_name"`
	Quantity       int    `json:"quantity"`
	UserID         string `json:"user_id"`
	Message        string `json:"message"`
}

type insufficientStockResult struct {
	Success           bool   `json:"success"`
	Error             string `json:"error"`
	AvailableQuantity int    `json:"available_quantity"`
}

type interactionEntry struct {
	Severity string `json:"severity"`
	Warning  string `json:"warning"`
}

type interactionsResult struct {
	Success            bool               `json:"success"`
	MedicationsChecked []string           `json:"medications_checked"`
	InteractionCount   int                `json:"interaction_count"`
	Interactions       []interactionEntry `json:"interactions"`
	Message            string             `json:"message"`
}

type allergyResult struct {
	Success    bool     `json:"success"`
	HasAllergy bool     `json:"has_allergy"`
	SafeToUse  bool     `json:"safe_to_use"`
	Allergies  []string `json:"allergies,omitempty"`
	Message    string   `json:"message"`
}

func (r *Registry) getMedicationInfo(args medicationInfoArgs) any {
	loc := i18n.NormalizeLocale(args.Language)
	if strings.TrimSpace(args.MedicationName) == "" {
		return fail(i18n.T(i18n.MsgMedicationNameRequired, loc))
	}

	med := r.store.MedicationByName(args.MedicationName)
	if med == nil {
		return notFound(
			i18n.T(i18n.MsgMedicationNotFoundInDB, loc, args.MedicationName),
			r.store.Suggest(strings.TrimSpace(args.MedicationName), 3),
		)
	}

	return medicationInfoResult{Success: true, Medication: med.Localize(loc)}
}

func (r *Registry) checkStockAvailability(args stockArgs) any {
	if strings.TrimSpace(args.MedicationName) == "" {
		return fail(i18n.T(i18n.MsgMedicationNameRequired, i18n.English))
	}

	med := r.store.MedicationByName(args.MedicationName)
	if med == nil {
		name := strings.TrimSpace(args.MedicationName)
		return notFound(
			i18n.T(i18n.MsgMedicationNotFoundStock, i18n.English, name),
			r.store.Suggest(name, 3),
		)
	}

	q := med.StockQuantity
	return stockResult{
		Success:        true,
		MedicationName: med.NameEN,
		InStock:        q > 0,
		Quantity:       q,
		Status:         store.StockStatus(q),
	}
}

func (r *Registry) checkPrescriptionRequirement(args prescriptionRequirementArgs) any {
	loc := i18n.NormalizeLocale(args.Language)
	if strings.TrimSpace(args.MedicationName) == "" {
		return fail(i18n.T(i18n.MsgMedicationNameRequired, loc))
	}

	med := r.store.MedicationByName(args.MedicationName)
	if med == nil {
		name := strings.TrimSpace(args.MedicationName)
		return notFound(
			i18n.T(i18n.MsgMedicationNotFoundStock, i18n.English, name),
			r.store.Suggest(name, 3),
		)
	}

	msgID := i18n.MsgNoPrescriptionRequired
	if med.RequiresPrescription {
		msgID = i18n.MsgRequiresPrescription
	}
	return prescriptionRequirementResult{
		Success:              true,
		MedicationName:       med.DisplayName(loc),
		RequiresPrescription: med.RequiresPrescription,
		Message:              i18n.T(msgID, loc),
	}
}

func (r *Registry) searchByActiveIngredient(args ingredientSearchArgs) any {
	if strings.TrimSpace(args.Ingredient) == "" {
		return fail(i18n.T(i18n.MsgIngredientRequired, i18n.English))
	}

	meds := r.store.ByActiveIngredient(args.Ingredient)
	views := make([]store.MedicationView, 0, len(meds))
	for _, m := range meds {
		views = append(views, m.Localize(i18n.English))
	}

	return ingredientSearchResult{
		Success:     true,
		Ingredient:  args.Ingredient,
		Count:       len(views),
		Medications: views,
	}
}

func (r *Registry) getUserPrescriptions(args userPrescriptionsArgs) any {
	loc := i18n.NormalizeLocale(args.Language)
	if strings.TrimSpace(args.UserID) == "" {
		return fail(i18n.T(i18n.MsgUserIDRequired, loc))
	}

	user := r.store.UserByID(strings.TrimSpace(args.UserID))
	if user == nil {
		return fail(i18n.T(i18n.MsgUserNotFoundNamed, loc, args.UserID))
	}

	meds := r.store.PrescriptionsFor(user)
	entries := make([]prescriptionEntry, 0, len(meds))
	for _, m := range meds {
		v := m.Localize(loc)
		entries = append(entries, prescriptionEntry{
			Name:             v.Name,
			ActiveIngredient: v.ActiveIngredient,
			Dosage:           v.Dosage,
			ID:               m.ID,
		})
	}

	userName := user.NameEN
	if loc == i18n.Hebrew {
		userName = user.Name
	}

	return userPrescriptionsResult{
		Success:           true,
		UserID:            args.UserID,
		UserName:          userName,
		PrescriptionCount: len(entries),
		Prescriptions:     entries,
	}
}

func (r *Registry) verifyPrescriptionEligibility(args eligibilityArgs) any {
	loc := i18n.NormalizeLocale(args.Language)
	if strings.TrimSpace(args.UserID) == "" || strings.TrimSpace(args.MedicationName) == "" {
		return fail(i18n.T(i18n.MsgUserAndMedicationRequired, loc))
	}

	user := r.store.UserByID(strings.TrimSpace(args.UserID))
	if user == nil {
		return fail(i18n.T(i18n.MsgUserNotFound, loc))
	}

	med := r.store.MedicationByName(args.MedicationName)
	if med == nil {
		return notFound(
			i18n.T(i18n.MsgMedicationNotFoundNamed, loc, args.MedicationName),
			r.store.Suggest(strings.TrimSpace(args.MedicationName), 3),
		)
	}

	if !med.RequiresPrescription {
		return eligibilityResult{
			Success:              true,
			RequiresPrescription: false,
			Eligible:             true,
			Message:              i18n.T(i18n.MsgPrescriptionNotNeeded, loc),
		}
	}

	eligible := false
	for _, p := range r.store.PrescriptionsFor(user) {
		if p.ID == med.ID {
			eligible = true
			break
		}
	}

	msgID := i18n.MsgPrescriptionMissing
	if eligible {
		msgID = i18n.MsgPrescriptionValid
	}
	return eligibilityResult{
		Success:              true,
		RequiresPrescription: true,
		Eligible:             eligible,
		MedicationName:       med.DisplayName(loc),
		Message:              i18n.T(msgID, loc),
	}
}

func (r *Registry) reserveMedication(ctx context.Context, args reserveArgs) any {
	if strings.TrimSpace(args.MedicationName) == "" || strings.TrimSpace(args.UserID) == "" {
		return fail(i18n.T(i18n.MsgMedicationAndUserRequired, i18n.English))
	}
	if args.Quantity < 1 {
		return fail(i18n.T(i18n.MsgQuantityMinimum, i18n.English))
	}

	med := r.store.MedicationByName(args.MedicationName)
	if med == nil {
		return notFound(
			i18n.T(i18n.MsgMedicationNotFoundNamed, i18n.English, args.MedicationName),
			r.store.Suggest(strings.TrimSpace(args.MedicationName), 3),
		)
	}

	available := med.StockQuantity
	if available < args.Quantity {
		return insufficientStockResult{
			Success:           false,
			Error:             i18n.T(i18n.MsgInsufficientStock, i18n.English, args.Quantity, available),
			AvailableQuantity: available,
		}
	}

	code := fmt.Sprintf("RES-%d", 10000+rand.IntN(90000))

	// The reservation is an audit row only; stock stays untouched
	// until pickup.
	if r.ledger != nil {
		row := store.Reservation{
			ID:           uuid.NewString(),
			Code:         code,
			UserID:       strings.TrimSpace(args.UserID),
			MedicationID: med.ID,
			Quantity:     args.Quantity,
			CreatedAt:    time.Now().UTC(),
		}
		if err := r.ledger.Record(ctx, row); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("failed to record reservation %s: %v", code, err)
		}
	}

	return reservationResult{
		Success:        true,
		ReservationID:  code,
		MedicationName: med.NameEN,
		Quantity:       args.Quantity,
		UserID:         args.UserID,
		Message:        i18n.T(i18n.MsgReservationConfirmed, i18n.English, code),
	}
}

func (r *Registry) checkDrugInteractions(args interactionsArgs) any {
	loc := i18n.NormalizeLocale(args.Language)
	if len(args.Medications) < 2 {
		return fail(i18n.T(i18n.MsgMinTwoMedications, loc))
	}

	var meds []*store.Medication
	for _, name := range args.Medications {
		if med := r.store.MedicationByName(name); med != nil {
			meds = append(meds, med)
		}
	}
	if len(meds) < 2 {
		return fail(i18n.T(i18n.MsgNotAllMedicationsFound, i18n.English))
	}

	checked := make([]string, 0, len(meds))
	ingredients := make([]string, 0, len(meds))
	for _, m := range meds {
		checked = append(checked, m.DisplayName(loc))
		// Rule matching always runs against the English ingredient,
		// regardless of response language.
		ingredients = append(ingredients, m.ActiveIngredient)
	}

	found := r.store.Interactions(ingredients)
	entries := make([]interactionEntry, 0, len(found))
	for _, x := range found {
		entries = append(entries, interactionEntry{Severity: x.Severity, Warning: x.Warning(loc)})
	}

	msg := i18n.T(i18n.MsgNoInteractions, loc)
	if len(entries) > 0 {
		msg = i18n.T(i18n.MsgInteractionsFound, loc, len(entries))
	}

	return interactionsResult{
		Success:            true,
		MedicationsChecked: checked,
		InteractionCount:   len(entries),
		Interactions:       entries,
		Message:            msg,
	}
}

func (r *Registry) checkUserAllergies(args allergyArgs) any {
	loc := i18n.NormalizeLocale(args.Language)
	if strings.TrimSpace(args.UserID) == "" || strings.TrimSpace(args.MedicationName) == "" {
		return fail(i18n.T(i18n.MsgUserAndMedicationRequired, loc))
	}

	user := r.store.UserByID(strings.TrimSpace(args.UserID))
	if user == nil {
		return fail(i18n.T(i18n.MsgUserNotFound, loc))
	}

	med := r.store.MedicationByName(args.MedicationName)
	if med == nil {
		return notFound(
			i18n.T(i18n.MsgMedicationNotFound, loc),
			r.store.Suggest(strings.TrimSpace(args.MedicationName), 3),
		)
	}

	// Allergy lists are stored in English, so matching runs against
	// the English ingredient and brand name in both locales.
	ingredient := strings.ToLower(med.ActiveIngredient)
	name := strings.ToLower(med.NameEN)

	var matching []string
	for _, a := range user.Allergies {
		al := strings.ToLower(a)
		if strings.Contains(ingredient, al) || strings.Contains(name, al) {
			matching = append(matching, a)
		}
	}

	if len(matching) > 0 {
		return allergyResult{
			Success:    true,
			HasAllergy: true,
			SafeToUse:  false,
			Allergies:  matching,
			Message:    i18n.T(i18n.MsgAllergyWarning, loc, strings.Join(matching, ", ")),
		}
	}

	return allergyResult{
		Success:    true,
		HasAllergy: false,
		SafeToUse:  true,
		Message:    i18n.T(i18n.MsgNoKnownAllergies, loc),
	}
}
