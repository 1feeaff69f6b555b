package graphql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/cluso-waternet/pkg/logging"
)

// maxRequestBytes caps the size of a POSTed query document
const maxRequestBytes = 1 << 20

// GraphQLRequest represents a GraphQL HTTP request
type GraphQLRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// GraphQLResponse represents a GraphQL HTTP response
type GraphQLResponse struct {
	Data   any            `json:"data,omitempty"`
	Errors []GraphQLError `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLHandler serves read-only queries over a loaded network
type GraphQLHandler struct {
	schema   graphql.Schema
	maxDepth int
	logger   logging.Logger
}

// NewGraphQLHandler creates a GraphQL HTTP handler. A maxDepth of zero or
// less uses DefaultMaxDepth.
func NewGraphQLHandler(schema graphql.Schema, maxDepth int, logger logging.Logger) *GraphQLHandler {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GraphQLHandler{
		schema:   schema,
		maxDepth: maxDepth,
		logger:   logger,
	}
}

// ServeHTTP handles GET (?query=) and POST (JSON body) requests
func (h *GraphQLHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req GraphQLRequest
	switch r.Method {
	case http.MethodGet:
		req.Query = r.URL.Query().Get("query")
		req.OperationName = r.URL.Query().Get("operationName")
	case http.MethodPost:
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	result := ExecuteWithDepthLimit(r.Context(), h.schema, req.Query, h.maxDepth, req.Variables)

	response := GraphQLResponse{
		Data: result.Data,
	}
	if result.HasErrors() {
		response.Errors = make([]GraphQLError, len(result.Errors))
		for i, err := range result.Errors {
			response.Errors[i] = GraphQLError{
				Message: err.Message,
			}
		}
		h.logger.Debug("query failed",
			logging.String("operation", req.OperationName),
			logging.Int("errors", len(result.Errors)))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Warn("failed to write response", logging.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(GraphQLResponse{
		Errors: []GraphQLError{{Message: message}},
	})
}
