package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-user-warehouse/internal/application"
	"go-user-warehouse/internal/domain/entity"
	"go-user-warehouse/internal/domain/repository"
	"go-user-warehouse/pkg/response"
	"go-user-warehouse/pkg/validation"
)

const dateLayout = "2006-01-02"

type UserHandler struct {
	Svc    *application.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type userRequest struct {
	Name     string `json:"name" binding:"required"`
	DOB      string `json:"dob" binding:"required,datetime=2006-01-02"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Gender   string `json:"gender"`
	Address  string `json:"address"`
}

func (r userRequest) toInput() application.UserInput {
	dob, _ := time.Parse(dateLayout, r.DOB)
	return application.UserInput{
		Name:     r.Name,
		DOB:      dob,
		Email:    r.Email,
		Password: r.Password,
		Phone:    r.Phone,
		Gender:   r.Gender,
		Address:  r.Address,
	}
}

// userView is the wire shape of a record; the password never leaves the API.
type userView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DOB       string    `json:"dob"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Gender    string    `json:"gender"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toView(u *entity.User) userView {
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		DOB:       u.DOB.Format(dateLayout),
		Email:     u.Email,
		Phone:     u.Phone,
		Gender:    u.Gender,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toViews(users []*entity.User) []userView {
	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, toView(u))
	}
	return views
}

func (h *UserHandler) Create(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	u, err := h.Svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			resp := response.Error[any](c, http.StatusConflict, "email already exists", nil)
			c.JSON(resp.Status, resp)
			return
		}
		h.Logger.WithError(err).Error("create user failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to create user", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success(c, http.StatusCreated, toView(u), "user created", nil)
	c.JSON(resp.Status, resp)
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			resp := response.Error[any](c, http.StatusNotFound, "user not found", nil)
			c.JSON(resp.Status, resp)
			return
		}
		h.Logger.WithError(err).Error("get user failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to load user", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success(c, http.StatusOK, toView(u), "user", nil)
	c.JSON(resp.Status, resp)
}

// List serves both the search and the paginated listing: ?q= wins when
// present, otherwise limit/offset apply.
func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if term := c.Query("q"); term != "" {
		users, err := h.Svc.Search(ctx, term)
		if err != nil {
			h.Logger.WithError(err).Error("search failed")
			resp := response.Error[any](c, http.StatusInternalServerError, "search failed", nil)
			c.JSON(resp.Status, resp)
			return
		}
		resp := response.Success(c, http.StatusOK, toViews(users), "search results", map[string]any{"count": len(users)})
		c.JSON(resp.Status, resp)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	users, err := h.Svc.List(ctx, limit, offset)
	if err != nil {
		h.Logger.WithError(err).Error("list users failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to list users", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success(c, http.StatusOK, toViews(users), "users", map[string]any{"count": len(users)})
	c.JSON(resp.Status, resp)
}

func (h *UserHandler) Update(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			resp := response.Error[any](c, http.StatusNotFound, "user not found", nil)
			c.JSON(resp.Status, resp)
		case errors.Is(err, repository.ErrDuplicateEmail):
			resp := response.Error[any](c, http.StatusConflict, "email already exists", nil)
			c.JSON(resp.Status, resp)
		default:
			h.Logger.WithError(err).Error("update user failed")
			resp := response.Error[any](c, http.StatusInternalServerError, "failed to update user", nil)
			c.JSON(resp.Status, resp)
		}
		return
	}
	resp := response.Success(c, http.StatusOK, toView(u), "user updated", nil)
	c.JSON(resp.Status, resp)
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			resp := response.Error[any](c, http.StatusNotFound, "user not found", nil)
			c.JSON(resp.Status, resp)
			return
		}
		h.Logger.WithError(err).Error("delete user failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to delete user", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "user deleted", nil)
	c.JSON(resp.Status, resp)
}

func (h *UserHandler) Count(c *gin.Context) {
	count, err := h.Svc.Count(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("count users failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to count users", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success[any](c, http.StatusOK, map[string]any{"count": count}, "user count", nil)
	c.JSON(resp.Status, resp)
}

func (h *UserHandler) DeleteAll(c *gin.Context) {
	if err := h.Svc.DeleteAll(c.Request.Context()); err != nil {
		h.Logger.WithError(err).Error("delete all users failed")
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to delete users", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success[any](c, http.StatusOK, map[string]any{"deleted": true}, "all users deleted", nil)
	c.JSON(resp.Status, resp)
}

// Import accepts a multipart xlsx upload and bulk-creates the parsed records.
func (h *UserHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "missing file upload", nil)
		c.JSON(resp.Status, resp)
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.Svc.ImportSpreadsheet(c.Request.Context(), file, header.Filename)
	if err != nil {
		h.Logger.WithError(err).Error("spreadsheet import failed")
		resp := response.Error[any](c, http.StatusBadRequest, "could not import spreadsheet", err.Error())
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success(c, http.StatusOK, result, "import completed", nil)
	c.JSON(resp.Status, resp)
}
