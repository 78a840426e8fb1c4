package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/campus-qa/internal/adapters/http/dto"
	"github.com/jsamuelsen/campus-qa/internal/app"
	"github.com/jsamuelsen/campus-qa/internal/domain"
)

// ReplyHandler serves the reply routes.
type ReplyHandler struct {
	store    ContentStore
	maxDepth int
}

// NewReplyHandler creates a handler. A parent below depth maxDepth can be
// answered, so replies reach depth maxDepth and no deeper. Zero or less
// disables the cap.
func NewReplyHandler(store ContentStore, maxDepth int) *ReplyHandler {
	return &ReplyHandler{store: store, maxDepth: maxDepth}
}

// RegisterRoutes mounts the reply routes on rg.
func (h *ReplyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/questions/:id/replies", h.List)
	rg.POST("/questions/:id/replies", h.Create)
	rg.GET("/questions/:id/reply-count", h.Count)
	rg.POST("/replies/:id/upvote", h.Upvote)
}

// List handles GET /questions/:id/replies. Without ?parent= it returns the
// top-level replies, otherwise the direct children of that reply.
func (h *ReplyHandler) List(c *gin.Context) {
	var query dto.ListRepliesQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	questionID := c.Param("id")
	if _, ok := h.store.Question(questionID); !ok {
		dto.HandleError(c, domain.NewNotFoundError(domain.EntityQuestion, questionID))
		return
	}

	replies := h.store.RepliesFor(questionID, query.Parent)

	items := make([]dto.ReplyResponse, len(replies))
	for i, r := range replies {
		items[i] = h.response(r)
	}

	c.JSON(http.StatusOK, items)
}

// Create handles POST /questions/:id/replies.
func (h *ReplyHandler) Create(c *gin.Context) {
	var req dto.CreateReplyRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	if err := h.checkDepth(req.ParentReplyID); err != nil {
		dto.HandleError(c, err)
		return
	}

	r, err := h.store.CreateReply(c.Request.Context(), app.NewReply{
		QuestionID:    c.Param("id"),
		ParentReplyID: req.ParentReplyID,
		Author:        req.Author,
		Content:       req.Content,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, h.response(r))
}

func (h *ReplyHandler) checkDepth(parentID string) error {
	if parentID == "" || h.maxDepth <= 0 {
		return nil
	}

	depth, ok := h.store.ReplyDepth(parentID)
	if ok && depth >= h.maxDepth {
		return domain.NewValidationErrorWithValue("parentReplyId",
			fmt.Sprintf("replies nest at most %d levels", h.maxDepth), parentID)
	}

	return nil
}

// Count handles GET /questions/:id/reply-count.
func (h *ReplyHandler) Count(c *gin.Context) {
	questionID := c.Param("id")
	if _, ok := h.store.Question(questionID); !ok {
		dto.HandleError(c, domain.NewNotFoundError(domain.EntityQuestion, questionID))
		return
	}

	c.JSON(http.StatusOK, dto.ReplyCountResponse{
		QuestionID: questionID,
		Count:      h.store.ReplyCount(questionID),
	})
}

// Upvote handles POST /replies/:id/upvote.
func (h *ReplyHandler) Upvote(c *gin.Context) {
	r, ok := h.store.UpvoteReply(c.Request.Context(), c.Param("id"))
	if !ok {
		dto.HandleError(c, domain.NewNotFoundError(domain.EntityReply, c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, h.response(r))
}

func (h *ReplyHandler) response(r domain.Reply) dto.ReplyResponse {
	depth, _ := h.store.ReplyDepth(r.ID)
	return dto.ReplyResponse{Reply: r, Depth: depth}
}
