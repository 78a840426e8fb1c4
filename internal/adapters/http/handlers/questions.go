package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/campus-qa/internal/adapters/http/dto"
	"github.com/jsamuelsen/campus-qa/internal/domain"
)

// QuestionHandler serves the question routes.
type QuestionHandler struct {
	store    ContentStore
	pageSize int
}

// NewQuestionHandler creates a handler. pageSize is the list page size
// used when a request sets no limit.
func NewQuestionHandler(store ContentStore, pageSize int) *QuestionHandler {
	return &QuestionHandler{store: store, pageSize: pageSize}
}

// RegisterRoutes mounts the question routes on rg.
func (h *QuestionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/questions", h.List)
	rg.POST("/questions", h.Create)
	rg.GET("/questions/:id", h.Get)
	rg.PUT("/questions/:id", h.Update)
	rg.POST("/questions/:id/upvote", h.Upvote)
}

// List handles GET /questions: pinned first, then by sort order, with
// optional tag filter and search, one cursor page at a time.
func (h *QuestionHandler) List(c *gin.Context) {
	var query dto.ListQuestionsQuery
	if err := dto.BindQueryAndValidate(c, &query); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	questions := h.store.ListQuestions(query.Filter())

	page, err := dto.Paginate(questions, &query.PaginationRequest, h.pageSize,
		func(q domain.Question) string { return q.ID })
	if err != nil {
		dto.AbortWithCode(c, dto.ErrorCodeBadRequest, err.Error())
		return
	}

	items := make([]dto.QuestionResponse, len(page.Items))
	for i, q := range page.Items {
		items[i] = h.response(q)
	}

	c.JSON(http.StatusOK, dto.PaginatedResponse[dto.QuestionResponse]{
		Items:      items,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
		Total:      page.Total,
	})
}

// Create handles POST /questions.
func (h *QuestionHandler) Create(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	q := h.store.CreateQuestion(c.Request.Context(), req.Author, req.Content, req.Tags)

	c.JSON(http.StatusCreated, h.response(q))
}

// Get handles GET /questions/:id.
func (h *QuestionHandler) Get(c *gin.Context) {
	q, ok := h.store.Question(c.Param("id"))
	if !ok {
		dto.HandleError(c, domain.NewNotFoundError(domain.EntityQuestion, c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, h.response(q))
}

// Update handles PUT /questions/:id. Omitted fields keep their values.
func (h *QuestionHandler) Update(c *gin.Context) {
	var req dto.UpdateQuestionRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	q, ok := h.store.EditQuestion(c.Request.Context(), c.Param("id"), req.Edit())
	if !ok {
		dto.HandleError(c, domain.NewNotFoundError(domain.EntityQuestion, c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, h.response(q))
}

// Upvote handles POST /questions/:id/upvote. Each call toggles the vote.
func (h *QuestionHandler) Upvote(c *gin.Context) {
	q, ok := h.store.UpvoteQuestion(c.Request.Context(), c.Param("id"))
	if !ok {
		dto.HandleError(c, domain.NewNotFoundError(domain.EntityQuestion, c.Param("id")))
		return
	}

	c.JSON(http.StatusOK, h.response(q))
}

func (h *QuestionHandler) response(q domain.Question) dto.QuestionResponse {
	return dto.QuestionResponse{Question: q, ReplyCount: h.store.ReplyCount(q.ID)}
}
