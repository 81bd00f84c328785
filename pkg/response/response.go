package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studyabroad-search-api/internal/models"
	appErrors "github.com/noah-isme/studyabroad-search-api/pkg/errors"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data            interface{}            `json:"data,omitempty"`
	Error           *appErrors.Error       `json:"error,omitempty"`
	Pagination      *models.Pagination     `json:"pagination,omitempty"`
	ChildPagination interface{}            `json:"childPagination,omitempty"`
	Meta            map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	noStore(c)
	c.JSON(status, build(data, pagination, meta))
}

// Tree sends a paginated parent collection together with its child cursors.
func Tree(c *gin.Context, status int, data interface{}, pagination *models.Pagination, children interface{}, meta ...map[string]interface{}) {
	noStore(c)
	envelope := build(data, pagination, meta)
	envelope.ChildPagination = children
	c.JSON(status, envelope)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func build(data interface{}, pagination *models.Pagination, meta []map[string]interface{}) Envelope {
	envelope := Envelope{Data: data, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	return envelope
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}
