package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"shoken-assist/backend/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

// RemarkRequestDTO is the JSON body of POST /api/remarks. Memo may carry
// multi-line text; its lines are appended to MemoLines.
type RemarkRequestDTO struct {
	Memo        string             `json:"memo"`
	MemoLines   []string           `json:"memo_lines"`
	GoalCode    string             `json:"goal_code"`
	CharCount   *int               `json:"char_count,omitempty"`
	GradeLevel  string             `json:"grade_level"`
	Destination *model.Destination `json:"destination,omitempty"`
}

// ToRequest normalizes the DTO into a domain request
func (d RemarkRequestDTO) ToRequest() model.RemarkRequest {
	lines := make([]string, 0, len(d.MemoLines))
	for _, l := range d.MemoLines {
		lines = append(lines, norm.NFC.String(l))
	}
	if d.Memo != "" {
		for _, l := range strings.Split(norm.NFC.String(d.Memo), "\n") {
			if strings.TrimSpace(l) != "" {
				lines = append(lines, l)
			}
		}
	}
	return model.RemarkRequest{
		MemoLines:   lines,
		GoalCode:    model.ParseGoalCode(d.GoalCode),
		CharCount:   d.CharCount,
		GradeLevel:  model.ParseGradeLevel(d.GradeLevel),
		Destination: d.Destination,
	}
}

// HandleGenerateRemark writes one remark from bullet memos
func (h *Handler) HandleGenerateRemark(c *gin.Context) {
	startTime := time.Now()

	if !h.agentAvailable(c) {
		return
	}

	var dto RemarkRequestDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "リクエストの形式が正しくありません。",
			"code":  "INVALID_REQUEST",
		})
		return
	}
	req := dto.ToRequest()

	uc := h.userContext(c)
	defer h.lockUser(uc.UserID)()

	ctx, cancel := context.WithTimeout(c.Request.Context(), GenerateTimeout)
	defer cancel()

	remark, err := h.agent.GenerateRemark(ctx, uc, req)
	if err != nil {
		h.logger.Info("Remark generation failed",
			zap.String("user", uc.UserID),
			zap.Duration("elapsed", time.Since(startTime)),
			zap.Error(err))
		h.writeError(c, err)
		return
	}

	h.logger.Info("Remark generated",
		zap.String("user", uc.UserID),
		zap.String("id", remark.ID),
		zap.Int("warnings", len(remark.Warnings)),
		zap.Duration("elapsed", time.Since(startTime)))
	c.JSON(http.StatusOK, remark)
}
