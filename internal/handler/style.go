package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"shoken-assist/backend/internal/profile"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// MaxProfileTableBytes bounds an uploaded profile table
const MaxProfileTableBytes = 64 << 10

type analyzeRequest struct {
	Samples []string `json:"samples" binding:"max=200,dive,max=2000"`
}

// HandleAnalyzeStyle infers the caller's style profile from samples in the
// body, or from the stored samples when the body has none.
func (h *Handler) HandleAnalyzeStyle(c *gin.Context) {
	if !h.agentAvailable(c) {
		return
	}

	var req analyzeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "サンプルの形式が正しくありません。",
				"code":  "INVALID_REQUEST",
			})
			return
		}
	}
	for i, s := range req.Samples {
		req.Samples[i] = norm.NFC.String(s)
	}

	uc := h.userContext(c)
	defer h.lockUser(uc.UserID)()

	ctx, cancel := context.WithTimeout(c.Request.Context(), GenerateTimeout)
	defer cancel()

	summary, err := h.agent.AnalyzeStyle(ctx, uc, req.Samples)
	if err != nil {
		h.logger.Info("Style analysis failed", zap.String("user", uc.UserID), zap.Error(err))
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HandleGetStyle returns the caller's full style profile
func (h *Handler) HandleGetStyle(c *gin.Context) {
	p, err := h.userContext(c).StyleProfile(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "文体プロファイルがまだありません。先に文体分析を実行してください。",
			"code":  "PROFILE_NOT_FOUND",
		})
		return
	}
	c.JSON(http.StatusOK, p)
}

// HandleExportStyleTable returns the profile as an editable key,value CSV
func (h *Handler) HandleExportStyleTable(c *gin.Context) {
	p, err := h.userContext(c).StyleProfile(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := profile.WriteCSV(&buf, profile.ToTable(p)); err != nil {
		h.writeError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="style_profile.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// HandleImportStyleTable replaces the profile with an edited CSV table
func (h *Handler) HandleImportStyleTable(c *gin.Context) {
	if !h.agentAvailable(c) {
		return
	}

	body := http.MaxBytesReader(c.Writer, c.Request.Body, MaxProfileTableBytes)
	rows, err := profile.ReadCSV(body)
	if err != nil {
		h.writeError(c, err)
		return
	}
	for i := range rows {
		rows[i].Value = norm.NFC.String(rows[i].Value)
	}
	p, err := profile.FromTable(rows)
	if err != nil {
		h.writeError(c, err)
		return
	}

	uc := h.userContext(c)
	defer h.lockUser(uc.UserID)()

	summary, err := h.agent.ImportStyleProfile(c.Request.Context(), uc, p)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// HandleResetStyle deletes the caller's style profile
func (h *Handler) HandleResetStyle(c *gin.Context) {
	uc := h.userContext(c)
	defer h.lockUser(uc.UserID)()

	if err := uc.ResetStyleProfile(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
