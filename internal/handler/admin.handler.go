package handler

import (
	"mime"
	"net/http"
	"strings"

	"contest-entry/internal/auth"
	"contest-entry/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const adminKeyHeader = "admin-key"

type keyBody struct {
	Key string `json:"key" form:"key"`
}

// adminKey finds the caller's credential in the admin-key header, a bearer
// token, the key query parameter or a key field in the body, in that order.
func adminKey(c *gin.Context) string {
	if k := c.GetHeader(adminKeyHeader); k != "" {
		return k
	}
	if bearer, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok && bearer != "" {
		return bearer
	}
	if k := c.Query("key"); k != "" {
		return k
	}
	var body keyBody
	if c.ContentType() == binding.MIMEJSON {
		_ = c.ShouldBindBodyWith(&body, binding.JSON)
		return body.Key
	}
	return c.PostForm("key")
}

// RequireAdmin aborts with 401 unless the caller's key passes a.
func RequireAdmin(a auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Authorize(adminKey(c)) {
			_ = c.Error(domain.ErrUnauthorized)
			c.AbortWithStatusJSON(statusFor(domain.ErrUnauthorized), gin.H{"message": "Unauthorized: Invalid admin key"})
			return
		}
		c.Next()
	}
}

type adminHandler struct {
	records Records
	secret  auth.Authorizer
	tokens  TokenIssuer
	log     *zap.Logger
}

func (h *adminHandler) login(c *gin.Context) {
	var body keyBody
	_ = c.ShouldBind(&body)
	if !h.secret.Authorize(body.Key) {
		c.JSON(statusFor(domain.ErrUnauthorized), gin.H{"success": false, "message": "Invalid admin key"})
		return
	}

	resp := gin.H{"success": true, "message": "Login successful"}
	if h.tokens != nil {
		token, err := h.tokens.Issue()
		if err != nil {
			h.log.Error("issue admin token", zap.Error(err))
		} else {
			resp["token"] = token
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *adminHandler) list(c *gin.Context) {
	subs, err := h.records.List(c.Request.Context())
	if err != nil {
		h.log.Error("list submissions", zap.Error(err))
		c.JSON(statusFor(err), gin.H{"message": "Failed to fetch submissions"})
		return
	}
	if subs == nil {
		subs = []domain.Submission{}
	}
	c.JSON(http.StatusOK, subs)
}

func (h *adminHandler) download(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(statusFor(domain.ErrNotFound), gin.H{"message": "Submission not found"})
		return
	}
	sub, err := h.records.FindById(c.Request.Context(), id)
	if err != nil {
		h.log.Error("find submission", zap.Stringer("id", id), zap.Error(err))
		c.JSON(statusFor(err), gin.H{"message": "Failed to look up submission"})
		return
	}
	if sub == nil || sub.FileLocation == "" {
		c.JSON(statusFor(domain.ErrNotFound), gin.H{"message": "File not found"})
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": sub.FileName}))
	c.Redirect(http.StatusFound, sub.FileLocation)
}
