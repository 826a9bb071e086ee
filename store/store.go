// Package store holds the pharmacy catalog: medications, registered
// users and their prescriptions, plus the drug interaction table. The
// catalog ships embedded in the binary so the assistant works without
// any external data source.
package store

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"rxchat/i18n"
)

//go:embed data/medications.json
var medicationsJSON []byte

//go:embed data/users.json
var usersJSON []byte

// Medication is one catalog entry. English fields are canonical and
// always present; Hebrew variants fall back to English when empty.
type Medication struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	NameEN               string  `json:"name_en"`
	ActiveIngredient     string  `json:"active_ingredient"`
	ActiveIngredientHE   string  `json:"active_ingredient_he"`
	Dosage               string  `json:"dosage"`
	DosageHE             string  `json:"dosage_he"`
	Usage                string  `json:"usage"`
	UsageHE              string  `json:"usage_he"`
	RequiresPrescription bool    `json:"requires_prescription"`
	StockQuantity        int     `json:"stock_quantity"`
	Price                float64 `json:"price"`
	Warnings             string  `json:"warnings"`
	WarningsHE           string  `json:"warnings_he"`
}

// MedicationView is the localized shape handed to tools and HTTP
// responses.
type MedicationView struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	ActiveIngredient     string  `json:"active_ingredient"`
	Dosage               string  `json:"dosage"`
	Usage                string  `json:"usage"`
	RequiresPrescription bool    `json:"requires_prescription"`
	StockQuantity        int     `json:"stock_quantity"`
	Price                float64 `json:"price"`
	Warnings             string  `json:"warnings"`
}

// Localize projects the medication into one locale.
func (m *Medication) Localize(loc i18n.Locale) MedicationView {
	v := MedicationView{
		ID:                   m.ID,
		RequiresPrescription: m.RequiresPrescription,
		StockQuantity:        m.StockQuantity,
		Price:                m.Price,
	}
	if loc == i18n.Hebrew {
		v.Name = m.Name
		v.ActiveIngredient = pick(m.ActiveIngredientHE, m.ActiveIngredient)
		v.Dosage = pick(m.DosageHE, m.Dosage)
		v.Usage = pick(m.UsageHE, m.Usage)
		v.Warnings = pick(m.WarningsHE, m.Warnings)
		return v
	}
	v.Name = pick(m.NameEN, m.Name)
	v.ActiveIngredient = m.ActiveIngredient
	v.Dosage = m.Dosage
	v.Usage = m.Usage
	v.Warnings = m.Warnings
	return v
}

// DisplayName returns the customer-facing name for the locale.
func (m *Medication) DisplayName(loc i18n.Locale) string {
	if loc == i18n.Hebrew {
		return m.Name
	}
	return pick(m.NameEN, m.Name)
}

func pick(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// User is a registered pharmacy customer. Prescriptions holds
// medication IDs in the order they were issued.
type User struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	NameEN        string   `json:"name_en"`
	Allergies     []string `json:"allergies"`
	Prescriptions []string `json:"prescriptions"`
}

// Store is the in-memory catalog. It is read-only after New and safe
// for concurrent use.
type Store struct {
	meds  []*Medication
	byID  map[string]*Medication
	users map[string]*User
}

// New decodes the embedded catalog files.
func New() (*Store, error) {
	var medFile struct {
		Medications []*Medication `json:"medications"`
	}
	if err := json.Unmarshal(medicationsJSON, &medFile); err != nil {
		return nil, fmt.Errorf("failed to parse medication catalog: %w", err)
	}

	var userFile struct {
		Users []*User `json:"users"`
	}
	if err := json.Unmarshal(usersJSON, &userFile); err != nil {
		return nil, fmt.Errorf("failed to parse user records: %w", err)
	}

	s := &Store{
		meds:  medFile.Medications,
		byID:  make(map[string]*Medication, len(medFile.Medications)),
		users: make(map[string]*User, len(userFile.Users)),
	}
	for _, m := range s.meds {
		s.byID[m.ID] = m
	}
	for _, u := range userFile.Users {
		s.users[u.ID] = u
	}
	return s, nil
}

// MedicationByName matches case-insensitively against both the Hebrew
// and English names. Returns nil when nothing matches.
func (s *Store) MedicationByName(name string) *Medication {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for _, m := range s.meds {
		if strings.ToLower(m.Name) == needle || strings.ToLower(m.NameEN) == needle {
			return m
		}
	}
	return nil
}

// MedicationByID returns nil for unknown IDs.
func (s *Store) MedicationByID(id string) *Medication {
	return s.byID[id]
}

// ByActiveIngredient does substring matching on either locale's
// ingredient field, so "ibuprofen" finds every brand that contains it.
func (s *Store) ByActiveIngredient(ingredient string) []*Medication {
	needle := strings.ToLower(strings.TrimSpace(ingredient))
	if needle == "" {
		return nil
	}
	var out []*Medication
	for _, m := range s.meds {
		if strings.Contains(strings.ToLower(m.ActiveIngredient), needle) ||
			strings.Contains(strings.ToLower(m.ActiveIngredientHE), needle) {
			out = append(out, m)
		}
	}
	return out
}

// UserByID returns nil for unknown IDs.
func (s *Store) UserByID(id string) *User {
	return s.users[id]
}

// PrescriptionsFor resolves a user's prescription IDs in their stored
// order. IDs that no longer exist in the catalog are skipped.
func (s *Store) PrescriptionsFor(u *User) []*Medication {
	out := make([]*Medication, 0, len(u.Prescriptions))
	for _, id := range u.Prescriptions {
		if m := s.byID[id]; m != nil {
			out = append(out, m)
		}
	}
	return out
}

// Medications returns the full catalog in file order. Callers must not
// modify the returned slice.
func (s *Store) Medications() []*Medication {
	return s.meds
}

func (s *Store) MedicationCount() int {
	return len(s.meds)
}

func (s *Store) UserCount() int {
	return len(s.users)
}

// StockStatus buckets a stock quantity into the labels used in stock
// reports.
func StockStatus(quantity int) string {
	switch {
	case quantity > 10:
		return "available"
	case quantity > 0:
		return "low_stock"
	default:
		return "out_of_stock"
	}
}
