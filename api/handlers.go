// Copyright 2026 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
// implied. See the License for the specific language governing
// permissions and limitations under the License.

package api

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/blinklabs-io/hashirwa/internal/version"
	"github.com/blinklabs-io/hashirwa/registry"
	"github.com/blinklabs-io/hashirwa/workflow"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(
	w http.ResponseWriter,
	status int,
	v any,
) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck,errchkjson
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON-format error response.
func writeError(
	w http.ResponseWriter,
	status int,
	errStr string,
	message string,
) {
	writeJSON(w, status, ErrorResponse{
		StatusCode: status,
		Error:      errStr,
		Message:    message,
	})
}

// writeDomainError maps core errors onto HTTP status codes.
func (a *API) writeDomainError(w http.ResponseWriter, err error) {
	var validationErr *registry.ValidationError
	var transitionErr *workflow.InvalidTransitionError
	switch {
	case errors.As(err, &validationErr):
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			validationErr.Error(),
		)
	case errors.Is(err, registry.ErrNotFound):
		writeError(
			w,
			http.StatusNotFound,
			"Not Found",
			"no submission with the requested id",
		)
	case errors.As(err, &transitionErr):
		writeError(
			w,
			http.StatusConflict,
			"Conflict",
			transitionErr.Error(),
		)
	default:
		a.logger.Error(
			"internal error",
			"error", err,
		)
		writeError(
			w,
			http.StatusInternalServerError,
			"Internal Server Error",
			"operation failed",
		)
	}
}

// requireAdminKey gates a handler behind the configured admin key using a
// constant-time comparison.
func (a *API) requireAdminKey(
	next http.HandlerFunc,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(AdminKeyHeader)
		// An unset admin key disables the review endpoints entirely
		// rather than leaving them open
		if a.config.AdminKey == "" ||
			subtle.ConstantTimeCompare(
				[]byte(key),
				[]byte(a.config.AdminKey),
			) != 1 {
			writeError(
				w,
				http.StatusUnauthorized,
				"Unauthorized",
				"missing or invalid admin key",
			)
			return
		}
		next(w, r)
	}
}

// pathID extracts and parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// handleRoot handles GET / and returns API metadata.
func (a *API) handleRoot(
	w http.ResponseWriter,
	r *http.Request,
) {
	// "GET /" also matches any otherwise-unrouted path
	if r.URL.Path != "/" {
		writeError(
			w,
			http.StatusNotFound,
			"Not Found",
			"unknown path",
		)
		return
	}
	writeJSON(w, http.StatusOK, RootResponse{
		Name:    "hashirwa",
		Version: version.GetVersionString(),
	})
}

// handleHealth handles GET /health.
func (a *API) handleHealth(
	w http.ResponseWriter,
	_ *http.Request,
) {
	writeJSON(w, http.StatusOK, HealthResponse{
		IsHealthy: true,
	})
}

// handleCreateSubmission handles POST /api/v1/submissions (producer
// onboarding).
func (a *API) handleCreateSubmission(
	w http.ResponseWriter,
	r *http.Request,
) {
	var params registry.SubmissionParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"malformed request body: "+err.Error(),
		)
		return
	}
	item, err := a.store.Create(params)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSubmissionResponse(item))
}

// handleListSubmissions handles GET /api/v1/submissions with an optional
// ?status= filter, in insertion order.
func (a *API) handleListSubmissions(
	w http.ResponseWriter,
	r *http.Request,
) {
	var items []*registry.Submission
	if statusParam := r.URL.Query().Get("status"); statusParam != "" {
		status := registry.Status(statusParam)
		if !status.Valid() {
			writeError(
				w,
				http.StatusBadRequest,
				"Bad Request",
				"unknown status: "+statusParam,
			)
			return
		}
		items = a.store.List(status)
	} else {
		items = a.store.List()
	}
	ret := make([]SubmissionResponse, 0, len(items))
	for _, item := range items {
		ret = append(ret, newSubmissionResponse(item))
	}
	writeJSON(w, http.StatusOK, ret)
}

// handleGetSubmission handles GET /api/v1/submissions/{id}.
func (a *API) handleGetSubmission(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := pathID(r)
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"submission id must be an integer",
		)
		return
	}
	item, err := a.store.Get(id)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionResponse(item))
}

// handleMarket handles GET /api/v1/market: approved submissions only, most
// recent decision first.
func (a *API) handleMarket(
	w http.ResponseWriter,
	_ *http.Request,
) {
	items := a.store.List(registry.StatusApproved)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].DecidedAt.After(*items[j].DecidedAt)
	})
	ret := make([]SubmissionResponse, 0, len(items))
	for _, item := range items {
		ret = append(ret, newSubmissionResponse(item))
	}
	writeJSON(w, http.StatusOK, ret)
}

// handleMetadata handles GET /api/v1/metadata/{id}.json and returns the
// downloadable metadata document.
func (a *API) handleMetadata(
	w http.ResponseWriter,
	r *http.Request,
) {
	doc := r.PathValue("doc")
	idStr, found := strings.CutSuffix(doc, ".json")
	if !found {
		writeError(
			w,
			http.StatusNotFound,
			"Not Found",
			"metadata documents are served as {id}.json",
		)
		return
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"submission id must be an integer",
		)
		return
	}
	item, err := a.store.Get(id)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newMetadataResponse(item))
}

// handleApprove handles POST /api/v1/admin/submissions/{id}/approve.
func (a *API) handleApprove(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := pathID(r)
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"submission id must be an integer",
		)
		return
	}
	item, err := a.engine.Approve(id)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionResponse(item))
}

// handleReject handles POST /api/v1/admin/submissions/{id}/reject.
func (a *API) handleReject(
	w http.ResponseWriter,
	r *http.Request,
) {
	id, err := pathID(r)
	if err != nil {
		writeError(
			w,
			http.StatusBadRequest,
			"Bad Request",
			"submission id must be an integer",
		)
		return
	}
	item, err := a.engine.Reject(id)
	if err != nil {
		a.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSubmissionResponse(item))
}
