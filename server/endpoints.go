package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"rxchat/i18n"
	"rxchat/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the shared error envelope: {"detail": "..."}.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

type serviceInfo struct {
	Service        string `json:"service"`
	Version        string `json:"version"`
	Status         string `json:"status"`
	DatabaseStatus string `json:"database_status"`
	ToolsCount     int    `json:"tools_count"`
	Model          string `json:"model"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serviceInfo{
		Service:        "rxchat",
		Version:        s.version,
		Status:         "healthy",
		DatabaseStatus: "connected",
		ToolsCount:     s.registry.Count(),
		Model:          s.provider.Model(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store == nil || s.store.MedicationCount() == 0 {
		writeError(w, http.StatusServiceUnavailable, "Service unhealthy")
		return
	}

	// Canary lookup: Acamol ships in the embedded catalog.
	dbStatus := "degraded"
	if s.store.MedicationByName("Acamol") != nil {
		dbStatus = "healthy"
	}

	components := map[string]string{
		"api":      "healthy",
		"database": dbStatus,
		"agent":    "healthy",
	}

	resp := map[string]any{
		"status":            "healthy",
		"components":        components,
		"medications_count": s.store.MedicationCount(),
		"users_count":       s.store.UserCount(),
		"tool_cache_size":   s.registry.CacheSize(),
	}

	if s.ledger != nil {
		if n, err := s.ledger.Count(r.Context()); err == nil {
			components["ledger"] = "healthy"
			resp["reservations_count"] = n
		} else {
			components["ledger"] = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type medicationSummary struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	ActiveIngredient     string `json:"active_ingredient"`
	RequiresPrescription bool   `json:"requires_prescription"`
	InStock              bool   `json:"in_stock"`
}

// handleListMedications answers GET /medications. The optional q
// parameter narrows the catalog with the same fuzzy matcher the tools
// use for did-you-mean suggestions.
func (s *Server) handleListMedications(w http.ResponseWriter, r *http.Request) {
	loc := s.locale(r)

	meds := s.store.Medications()
	if q := r.URL.Query().Get("q"); q != "" {
		names := s.store.Suggest(q, len(meds))
		filtered := make([]*store.Medication, 0, len(names))
		for _, name := range names {
			if m := s.store.MedicationByName(name); m != nil {
				filtered = append(filtered, m)
			}
		}
		meds = filtered
	}

	items := make([]medicationSummary, 0, len(meds))
	for _, m := range meds {
		view := m.Localize(loc)
		items = append(items, medicationSummary{
			ID:                   m.ID,
			Name:                 view.Name,
			ActiveIngredient:     view.ActiveIngredient,
			RequiresPrescription: m.RequiresPrescription,
			InStock:              m.StockQuantity > 0,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"medications": items,
		"count":       len(items),
	})
}

func (s *Server) handleGetMedication(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	med := s.store.MedicationByName(name)
	if med == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Medication '%s' not found", name))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"medication": med.Localize(s.locale(r)),
	})
}

type prescriptionSummary struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	ActiveIngredient string `json:"active_ingredient"`
	Dosage           string `json:"dosage"`
}

func (s *Server) handleUserPrescriptions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")

	user := s.store.UserByID(userID)
	if user == nil {
		writeError(w, http.StatusNotFound, fmt.Sprintf("User '%s' not found", userID))
		return
	}

	loc := s.locale(r)
	meds := s.store.PrescriptionsFor(user)

	items := make([]prescriptionSummary, 0, len(meds))
	for _, m := range meds {
		view := m.Localize(loc)
		items = append(items, prescriptionSummary{
			ID:               m.ID,
			Name:             view.Name,
			ActiveIngredient: view.ActiveIngredient,
			Dosage:           view.Dosage,
		})
	}

	userName := user.NameEN
	if loc == i18n.Hebrew {
		userName = user.Name
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":       userID,
		"user_name":     userName,
		"prescriptions": items,
		"count":         len(items),
	})
}

func (s *Server) handleCheckStock(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	med := s.store.MedicationByName(name)
	if med == nil {
		writeError(w, http.StatusNotFound, i18n.T(i18n.MsgMedicationNotFoundStock, i18n.English, name))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"medication": med.NameEN,
		"in_stock":   med.StockQuantity > 0,
		"quantity":   med.StockQuantity,
		"status":     store.StockStatus(med.StockQuantity),
	})
}

type demoFlow struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	UserID          string   `json:"user_id,omitempty"`
	ExampleMessages []string `json:"example_messages"`
}

var demoFlows = []demoFlow{
	{
		Name:        "Medication Information Flow",
		Description: "Customer asks about a specific medication",
		ExampleMessages: []string{
			"Tell me about Acamol",
			"What are the side effects?",
			"Do I need a prescription?",
		},
	},
	{
		Name:        "Prescription Refill Flow",
		Description: "Customer wants to refill their prescription",
		UserID:      "user_001",
		ExampleMessages: []string{
			"I need to refill my prescription",
			"Check if Augmentin is in stock",
			"Reserve 2 boxes for me",
		},
	},
	{
		Name:        "Stock Check Flow",
		Description: "Customer checks availability",
		ExampleMessages: []string{
			"Do you have Nurofen in stock?",
			"How many boxes are available?",
			"Can I reserve some?",
		},
	},
	{
		Name:        "Medical Advice Redirect",
		Description: "Customer asks for medical advice (should be redirected)",
		ExampleMessages: []string{
			"I have a headache, what should I take?",
			"Which painkiller is better for me?",
		},
	},
	{
		Name:        "Hebrew Conversation",
		Description: "Conversation in Hebrew",
		ExampleMessages: []string{
			"יש לכם אקמול במלאי?",
			"מה המרכיב הפעיל?",
			"צריך מרשם?",
		},
	},
}

// handleDemoFlows lists canned conversation flows for manual testing
// and frontend demos.
func (s *Server) handleDemoFlows(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"flows": demoFlows})
}
