package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"orgsnap-api/repositories"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}

func SendError(c *gin.Context, status int, err string) {
	c.JSON(status, ErrorResponse{
		Error: err,
		Code:  status,
	})
}

// SendDomainError maps the repository error taxonomy onto HTTP statuses.
func SendDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repositories.ErrInvalidArgument):
		SendError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repositories.ErrForbidden):
		SendError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		SendError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repositories.ErrConflict):
		SendError(c, http.StatusConflict, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, "Internal server error")
	}
}

func SendSuccess(c *gin.Context, message string, data interface{}) {
	response := SuccessResponse{
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(http.StatusOK, response)
}

func SendCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Message: message,
		Data:    data,
	})
}

func SendPaginated(c *gin.Context, data interface{}, page, limit int, total int64) {
	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:       data,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	})
}
