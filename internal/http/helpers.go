package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/cocktails/internal/catalog"
	"github.com/mrlokans/cocktails/internal/favorites"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeNetworkError   = "network_error"
	CodeNotFound       = "not_found"
	CodeStorageCorrupt = "storage_corrupt"
	CodeInvalidRequest = "invalid_request"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// CorruptDetails accompanies a storage_corrupt error.
type CorruptDetails struct {
	CanReset bool `json:"can_reset"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: CodeInvalidRequest})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: CodeNotFound})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// respondNetworkError sends a 502 when the catalog could not be reached or
// answered with something unusable.
func respondNetworkError(c *gin.Context, err error, message string) {
	log.Printf("Catalog error: %v", err)
	c.JSON(http.StatusBadGateway, ErrorResponse{Error: message, Code: CodeNetworkError})
}

// respondStorageCorrupt sends a 409 telling the client the favorites blob is
// unreadable and may be reset.
func respondStorageCorrupt(c *gin.Context, err error) {
	log.Printf("Favorites storage corrupt: %v", err)
	c.JSON(http.StatusConflict, ErrorResponse{
		Error:   "favorites data is corrupt",
		Code:    CodeStorageCorrupt,
		Details: CorruptDetails{CanReset: true},
	})
}

// respondFailure maps a domain error onto the matching response.
func respondFailure(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		respondNotFound(c, "drink")
	case errors.Is(err, catalog.ErrNetwork):
		respondNetworkError(c, err, message)
	case errors.Is(err, favorites.ErrStorageCorrupt):
		respondStorageCorrupt(c, err)
	default:
		respondInternalError(c, err, message)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: data})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, SuccessResponse{Message: message, Data: data})
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}
