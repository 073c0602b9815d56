package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/bracket/internal/results"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthStatus is one dependency entry of the readiness report.
type HealthStatus struct {
	Status string `json:"status" enum:"ok,error"`
	Error  string `json:"error,omitempty"`
}

// ResultsDocument describes the stored document for the schema. Legacy
// documents may hold a bare team name instead of a record.
type ResultsDocument map[string]map[string]results.Record

// WriteRequest is the PUT /results body.
type WriteRequest struct {
	EditKey  string `header:"X-Edit-Key" json:"-"`
	Category string `json:"category" required:"true"`
	Slot     string `json:"slot" required:"true"`
	Team     string `json:"team,omitempty" description:"Required unless clear is true."`
	Score    string `json:"score,omitempty"`
	Field    string `json:"field,omitempty"`
	Clear    bool   `json:"clear,omitempty" description:"Remove the slot instead of saving it."`
}

// DeleteRequest is the DELETE /results body.
type DeleteRequest struct {
	EditKey  string `header:"X-Edit-Key" json:"-"`
	Category string `json:"category" required:"true"`
	Slot     string `json:"slot" required:"true"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Bracket API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Tournament bracket results store.")

	// GET /health
	getHealth, _ := r.NewOperationContext(http.MethodGet, "/health")
	getHealth.SetSummary("Liveness probe")
	getHealth.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getHealth)

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Readiness check")
	getHealthz.SetDescription("Returns the status of the backing store and other dependencies.")
	getHealthz.AddRespStructure(map[string]HealthStatus{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]HealthStatus{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /levels
	getLevels, _ := r.NewOperationContext(http.MethodGet, "/levels")
	getLevels.SetSummary("Levels dataset")
	getLevels.SetDescription("Candidate team names per category.")
	getLevels.AddRespStructure(map[string][]string{}, openapi.WithHTTPStatus(http.StatusOK))
	getLevels.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getLevels)

	// GET /results
	getResults, _ := r.NewOperationContext(http.MethodGet, "/results")
	getResults.SetSummary("Get results")
	getResults.SetDescription("Returns the whole results document, {} when nothing was saved.")
	getResults.AddRespStructure(ResultsDocument{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getResults)

	// PUT /results
	putResults, _ := r.NewOperationContext(http.MethodPut, "/results")
	putResults.SetSummary("Save or clear a slot")
	putResults.SetDescription("Saves {team, score, field} at [category][slot], or removes the slot when clear is true. Requires an allowed Origin and the X-Edit-Key header.")
	putResults.AddReqStructure(WriteRequest{})
	putResults.AddRespStructure(SaveResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	putResults.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	putResults.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	putResults.AddRespStructure(OriginRejectedResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	putResults.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusTooManyRequests))
	_ = r.AddOperation(putResults)

	// DELETE /results
	deleteResults, _ := r.NewOperationContext(http.MethodDelete, "/results")
	deleteResults.SetSummary("Remove a slot")
	deleteResults.SetDescription("Removes [category][slot], pruning the category when it becomes empty.")
	deleteResults.AddReqStructure(DeleteRequest{})
	deleteResults.AddRespStructure(RemoveResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	deleteResults.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	deleteResults.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	deleteResults.AddRespStructure(OriginRejectedResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	_ = r.AddOperation(deleteResults)

	// GET /results/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/results/events")
	getEvents.SetSummary("Change feed")
	getEvents.SetDescription("Server-Sent Events stream, one event per saved, cleared or removed slot.")
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
