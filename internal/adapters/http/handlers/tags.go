package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/campus-qa/internal/adapters/http/dto"
)

// TagHandler serves the tag registry.
type TagHandler struct {
	store ContentStore
}

func NewTagHandler(store ContentStore) *TagHandler {
	return &TagHandler{store: store}
}

// RegisterRoutes mounts the tag routes on rg.
func (h *TagHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.List)
	rg.POST("/tags", h.Add)
}

// List handles GET /tags.
func (h *TagHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, dto.TagsResponse{Tags: h.store.Tags()})
}

// Add handles POST /tags. Adding an existing tag succeeds with added=false.
func (h *TagHandler) Add(c *gin.Context) {
	var req dto.TagRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	tag, added := h.store.AddTag(c.Request.Context(), req.Tag)

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}

	c.JSON(status, dto.TagResponse{Tag: tag, Added: added})
}
