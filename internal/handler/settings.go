package handler

import (
	"net/http"

	"shoken-assist/backend/internal/agent"
	"shoken-assist/backend/internal/model"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/unicode/norm"
)

type saveAPIKeyRequest struct {
	APIKey string `json:"api_key"`
}

type samplesRequest struct {
	Samples []string `json:"samples" binding:"max=200,dive,max=2000"`
}

// SamplesResponse is the stored sample collection plus collection guidance
type SamplesResponse struct {
	Samples     []string `json:"samples"`
	SampleCount int      `json:"sample_count"`
	Minimum     int      `json:"minimum"`
	Recommended int      `json:"recommended"`
	Heading     string   `json:"heading"`
	Hint        string   `json:"hint,omitempty"`
}

// HandleGetState returns what the client needs on startup
func (h *Handler) HandleGetState(c *gin.Context) {
	if !h.agentAvailable(c) {
		return
	}
	state, err := h.agent.InitState(c.Request.Context(), h.userContext(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// HandleSaveAPIKey stores the caller's Gemini API key
func (h *Handler) HandleSaveAPIKey(c *gin.Context) {
	var req saveAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "リクエストの形式が正しくありません。",
			"code":  "INVALID_REQUEST",
		})
		return
	}

	uc := h.userContext(c)
	defer h.lockUser(uc.UserID)()

	if err := uc.SaveAPIKey(c.Request.Context(), req.APIKey); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// HandleGetSamples returns the stored samples
func (h *Handler) HandleGetSamples(c *gin.Context) {
	samples, err := h.userContext(c).Samples(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSamplesResponse(samples))
}

// HandleSaveSamples replaces the stored samples
func (h *Handler) HandleSaveSamples(c *gin.Context) {
	var req samplesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "サンプルの形式が正しくありません。",
			"code":  "INVALID_REQUEST",
		})
		return
	}
	for i, s := range req.Samples {
		req.Samples[i] = norm.NFC.String(s)
	}

	uc := h.userContext(c)
	defer h.lockUser(uc.UserID)()

	kept, err := uc.SaveSamples(c.Request.Context(), req.Samples)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSamplesResponse(kept))
}

func newSamplesResponse(samples []string) SamplesResponse {
	resp := SamplesResponse{
		Samples:     samples,
		SampleCount: len(samples),
		Minimum:     model.MinStyleSamples,
		Recommended: model.RecommendedStyleSamples,
		Heading:     agent.SampleHeading,
	}
	if len(samples) == 0 {
		resp.Hint = agent.SampleHint
	}
	return resp
}
