package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codequest-labs/codequest-engine/internal/domain"
)

// LanguageHandler handles language catalog requests.
type LanguageHandler struct{}

// NewLanguageHandler creates a new LanguageHandler.
func NewLanguageHandler() *LanguageHandler {
	return &LanguageHandler{}
}

// List handles GET /api/v1/languages
func (h *LanguageHandler) List(c *gin.Context) {
	languages := []domain.LanguageInfo{
		{
			Name:    domain.LangJavaScript,
			Version: "ES2023",
			Runtime: "Node.js 20",
		},
		{
			Name:    domain.LangPython,
			Version: "3.12",
		},
	}

	c.JSON(http.StatusOK, gin.H{
		"languages": languages,
	})
}
