package constants

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Standard Response Field Keys
const (
	ResponseFieldMessage = "message"
	ResponseFieldDetails = "details"
	ResponseFieldData    = "data"
	ResponseFieldCode    = "code"

	// Paginated list fields
	ResponseFieldDocs        = "docs"
	ResponseFieldPage        = "page"
	ResponseFieldLimit       = "limit"
	ResponseFieldTotalDocs   = "total_docs"
	ResponseFieldTotalPages  = "total_pages"
	ResponseFieldHasNextPage = "has_next_page"
	ResponseFieldHasPrevPage = "has_prev_page"
)

// PaginationParams carries the parsed page window of a list request.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
	Search string
}

// ParsePaginationParams parses page, limit and search, clamping to the allowed range.
func ParsePaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery(QueryParamPage, DefaultPage))
	limit, _ := strconv.Atoi(c.DefaultQuery(QueryParamLimit, DefaultLimit))

	if page < MinPage {
		page = MinPage
	}
	if limit < MinLimit {
		limit = MinLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
		Search: c.DefaultQuery(QueryParamSearch, DefaultSearch),
	}
}

// Response Format Functions
func BuildListResponse(docs any, total int64, params PaginationParams) map[string]any {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = int((total + int64(params.Limit) - 1) / int64(params.Limit))
	}

	return map[string]any{
		ResponseFieldDocs:        docs,
		ResponseFieldPage:        params.Page,
		ResponseFieldLimit:       params.Limit,
		ResponseFieldTotalDocs:   total,
		ResponseFieldTotalPages:  totalPages,
		ResponseFieldHasNextPage: params.Page < totalPages,
		ResponseFieldHasPrevPage: params.Page > 1,
	}
}

func BuildErrorResponse(message string, details any) map[string]any {
	response := map[string]any{
		ResponseFieldMessage: message,
	}

	if details != nil {
		response[ResponseFieldDetails] = details
	}

	return response
}

// BuildCodedErrorResponse adds the machine-readable error code.
func BuildCodedErrorResponse(code, message string, details any) map[string]any {
	response := BuildErrorResponse(message, details)
	response[ResponseFieldCode] = code
	return response
}

func BuildSuccessResponse(message string) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
	}
}

func BuildDataResponse(message string, data any) map[string]any {
	return map[string]any{
		ResponseFieldMessage: message,
		ResponseFieldData:    data,
	}
}
