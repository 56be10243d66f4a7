package artifacts

import (
	"encoding/json"
	"errors"
	"io"

	"hogwarts-artifacts/internal/api/result"
	"hogwarts-artifacts/internal/apperr"
	"hogwarts-artifacts/internal/domain/paging"
	artifactsvc "hogwarts-artifacts/internal/services/artifacts"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *artifactsvc.Service
}

func NewHandler(svc *artifactsvc.Service) *Handler {
	return &Handler{svc: svc}
}

func pageable(c *gin.Context) (paging.Pageable, error) {
	p, err := paging.Parse(c.Query("page"), c.Query("size"), c.QueryArray("sort"))
	if err != nil {
		return p, apperr.InvalidArgument(apperr.MsgInvalidArguments, err.Error())
	}
	return p, nil
}

func (h *Handler) FindByID(c *gin.Context) {
	a, err := h.svc.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Find One Success", artifactsvc.NewView(*a))
}

func (h *Handler) FindAll(c *gin.Context) {
	p, err := pageable(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := h.svc.FindPage(c.Request.Context(), p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Find All Success", paging.Map(page, artifactsvc.NewView))
}

func (h *Handler) Search(c *gin.Context) {
	p, err := pageable(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	raw := map[string]any{}
	if c.Request.Body != nil {
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			_ = c.Error(apperr.InvalidArgument(apperr.MsgInvalidArguments, err.Error()))
			return
		}
	}
	criteria, err := SearchCriteria(raw)
	if err != nil {
		_ = c.Error(apperr.InvalidArgument(apperr.MsgInvalidArguments, err.Error()))
		return
	}

	page, err := h.svc.FindByCriteria(c.Request.Context(), criteria, p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Search Success", paging.Map(page, artifactsvc.NewView))
}

func (h *Handler) Summarize(c *gin.Context) {
	list, err := h.svc.FindAll(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	summary, err := h.svc.Summarize(c.Request.Context(), artifactsvc.NewViews(list))
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Summarize Success", summary)
}

func (h *Handler) Add(c *gin.Context) {
	var req ArtifactRequest
	if err := result.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	model := req.toModel()
	saved, err := h.svc.Save(c.Request.Context(), &model)
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Add Success", artifactsvc.NewView(*saved))
}

func (h *Handler) Update(c *gin.Context) {
	var req ArtifactRequest
	if err := result.BindJSON(c, &req); err != nil {
		_ = c.Error(err)
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), req.toModel())
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Update Success", artifactsvc.NewView(*updated))
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Delete Success", nil)
}

// UploadImage stores the multipart "file" part and answers with its URL.
func (h *Handler) UploadImage(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(apperr.Validation(map[string]string{"file": "file is required."}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		_ = c.Error(apperr.Internal("open upload", err))
		return
	}
	defer f.Close()

	url, err := h.svc.UploadImage(c.Request.Context(), fh.Filename, f, fh.Size)
	if err != nil {
		_ = c.Error(err)
		return
	}
	result.OK(c, "Upload Image Success", url)
}
