package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/sportsprod/erp/pkg/application/dto"
	"github.com/sportsprod/erp/pkg/application/services"
	"github.com/sportsprod/erp/pkg/domain/entities"
	"github.com/sportsprod/erp/pkg/domain/repositories"
	"github.com/sportsprod/erp/pkg/domain/services/deposit"
	"github.com/sportsprod/erp/pkg/domain/services/marketing"
	"github.com/sportsprod/erp/pkg/domain/services/revenue"
)

type errorResponse struct {
	Error string `json:"error"`
}

type compareRequest struct {
	Names []string `json:"names"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError maps caller mistakes to 400, unknown scenarios to 404 and
// everything else to 500
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case services.IsValidationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, repositories.ErrScenarioNotFound):
		status = http.StatusNotFound
	}

	entry := s.logger.WithError(err).WithField("path", r.URL.Path)
	if status == http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decode reads a JSON body, rejecting unknown fields
func decode(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %w", services.ErrInvalidRequest, err)
	}
	return nil
}

// Health reports liveness
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListScenarios returns every stored scenario
func (s *Server) ListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.service.ListScenarios(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scenarios)
}

// SaveScenario stores a scenario, replacing any with the same name
func (s *Server) SaveScenario(w http.ResponseWriter, r *http.Request) {
	var scenario entities.ScenarioAssumptions
	if err := decode(r, &scenario); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.service.SaveScenario(r.Context(), &scenario); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, scenario)
}

// ScenarioReport builds the full report for the named scenario
func (s *Server) ScenarioReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.BuildScenarioReport(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// CompareScenarios builds reports for the requested scenarios
func (s *Server) CompareScenarios(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(req.Names) == 0 {
		s.writeError(w, r, fmt.Errorf("%w: names are required", services.ErrInvalidRequest))
		return
	}
	comparison, err := s.service.CompareScenarios(r.Context(), req.Names)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

// Cost prices volumes on the cost curve
func (s *Server) Cost(w http.ResponseWriter, r *http.Request) {
	var req dto.CostRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	curve, err := s.service.PriceVolumes(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, curve)
}

// COGS projects the cost of goods breakdown
func (s *Server) COGS(w http.ResponseWriter, r *http.Request) {
	var req dto.COGSRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	years, err := s.service.ProjectCOGS(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, years)
}

// Inventory simulates the reorder policy
func (s *Server) Inventory(w http.ResponseWriter, r *http.Request) {
	var req dto.InventoryRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	projection, err := s.service.ProjectInventory(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

// Marketing analyzes the CAC of the posted records
func (s *Server) Marketing(w http.ResponseWriter, r *http.Request) {
	var req dto.MarketingRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.analyzeMarketing(w, r, req)
}

// StoredMarketing analyzes the CAC of the stored records, optionally
// restricted by repeated period query parameters
func (s *Server) StoredMarketing(w http.ResponseWriter, r *http.Request) {
	if s.marketing == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no marketing data configured"})
		return
	}

	req, err := services.MarketingRequestFrom(s.marketing, r.URL.Query()["period"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if target := r.URL.Query().Get("target"); target != "" {
		var global float64
		if _, err := fmt.Sscanf(target, "%g", &global); err != nil || global <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: target must be a positive number", services.ErrInvalidRequest))
			return
		}
		t := marketing.DefaultTarget()
		t.GlobalTarget = global
		req.Target = &t
	}
	s.analyzeMarketing(w, r, req)
}

func (s *Server) analyzeMarketing(w http.ResponseWriter, r *http.Request, req dto.MarketingRequest) {
	analysis, err := s.service.AnalyzeMarketing(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// Deposit projects the deposit cash flow
func (s *Server) Deposit(w http.ResponseWriter, r *http.Request) {
	var input deposit.Input
	if err := decode(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.service.ProjectDeposit(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// DepositSensitivity sweeps deposit levels
func (s *Server) DepositSensitivity(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositSensitivityRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	analysis, err := s.service.AnalyzeDepositSensitivity(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// Raise scores raise candidates
func (s *Server) Raise(w http.ResponseWriter, r *http.Request) {
	var req dto.RaiseRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	matrix, err := s.service.EvaluateRaise(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, matrix)
}

// Tooling projects tooling amortization
func (s *Server) Tooling(w http.ResponseWriter, r *http.Request) {
	var input revenue.ToolingInput
	if err := decode(r, &input); err != nil {
		s.writeError(w, r, err)
		return
	}
	projection, err := s.service.ProjectTooling(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

// Alerts returns the CAC alerts raised since the server started
func (s *Server) Alerts(w http.ResponseWriter, r *http.Request) {
	if s.alerts == nil {
		writeJSON(w, http.StatusOK, []marketing.Alert{})
		return
	}
	writeJSON(w, http.StatusOK, s.alerts.Alerts())
}
