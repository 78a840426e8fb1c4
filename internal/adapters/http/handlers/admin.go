package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/campus-qa/internal/adapters/http/dto"
	"github.com/jsamuelsen/campus-qa/internal/domain"
	"github.com/jsamuelsen/campus-qa/internal/platform/logging"
)

// AdminHandler serves the moderation routes. Mount it behind
// middleware.RequireAdmin.
type AdminHandler struct {
	store ContentStore
	words WordStore
}

func NewAdminHandler(store ContentStore, words WordStore) *AdminHandler {
	return &AdminHandler{store: store, words: words}
}

// RegisterRoutes mounts the admin routes on rg, which should already be
// scoped to /admin.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.PUT("/questions/:id/pin", h.Pin)
	rg.PUT("/questions/:id/lock", h.Lock)
	rg.DELETE("/data", h.ClearAll)
	rg.GET("/stats", h.Stats)
	rg.GET("/banned-words", h.ListWords)
	rg.POST("/banned-words", h.AddWord)
	rg.DELETE("/banned-words/:word", h.RemoveWord)
}

// Pin handles PUT /admin/questions/:id/pin.
func (h *AdminHandler) Pin(c *gin.Context) {
	h.setFlag(c, h.store.SetPinned, "pinned")
}

// Lock handles PUT /admin/questions/:id/lock. Locked questions reject new
// replies.
func (h *AdminHandler) Lock(c *gin.Context) {
	h.setFlag(c, h.store.SetLocked, "locked")
}

type flagSetter func(ctx context.Context, id string, value bool) (domain.Question, bool)

func (h *AdminHandler) setFlag(c *gin.Context, set flagSetter, flag string) {
	var req dto.FlagRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	id := c.Param("id")

	q, ok := set(c.Request.Context(), id, *req.Value)
	if !ok {
		dto.HandleError(c, domain.NewNotFoundError(domain.EntityQuestion, id))
		return
	}

	logging.FromContext(c.Request.Context()).InfoContext(c.Request.Context(), "question flag changed",
		slog.String("question_id", id),
		slog.String("flag", flag),
		slog.Bool("value", *req.Value),
	)

	c.JSON(http.StatusOK, dto.QuestionResponse{Question: q, ReplyCount: h.store.ReplyCount(id)})
}

// ClearAll handles DELETE /admin/data.
func (h *AdminHandler) ClearAll(c *gin.Context) {
	h.store.ClearAll(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// Stats handles GET /admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatsResponse{Stats: h.store.Stats(), BannedWords: len(h.words.Words())})
}

// ListWords handles GET /admin/banned-words.
func (h *AdminHandler) ListWords(c *gin.Context) {
	c.JSON(http.StatusOK, dto.BannedWordsResponse{Words: h.words.Words()})
}

// AddWord handles POST /admin/banned-words. Existing content is not
// re-filtered.
func (h *AdminHandler) AddWord(c *gin.Context) {
	var req dto.BannedWordRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	changed := h.words.Add(c.Request.Context(), req.Word)

	status := http.StatusOK
	if changed {
		status = http.StatusCreated
	}

	c.JSON(status, dto.WordChangeResponse{Word: req.Word, Changed: changed})
}

// RemoveWord handles DELETE /admin/banned-words/:word.
func (h *AdminHandler) RemoveWord(c *gin.Context) {
	word := c.Param("word")
	c.JSON(http.StatusOK, dto.WordChangeResponse{Word: word, Changed: h.words.Remove(c.Request.Context(), word)})
}
