package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PaulBabatuyi/FileVault-API/internal/database"
	"github.com/PaulBabatuyi/FileVault-API/internal/service"
)

// tokenHeader carries the session token on authenticated endpoints.
const tokenHeader = "X-Token"

func (s *Server) getStatus(c *gin.Context) {
	ctx := c.Request.Context()
	c.JSON(http.StatusOK, gin.H{
		"redis": s.cache.IsAlive(ctx),
		"db":    s.db.IsAlive(ctx),
	})
}

func (s *Server) getStats(c *gin.Context) {
	ctx := c.Request.Context()
	users, err := s.db.CountUsers(ctx)
	if err != nil {
		s.writeError(c, err)
		return
	}
	files, err := s.db.CountFiles(ctx)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "files": files})
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) postUsers(c *gin.Context) {
	var req createUserRequest
	if !s.decodeStrict(c, &req) {
		return
	}

	u, err := s.users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID.Hex(), "email": u.Email})
}

func (s *Server) getConnect(c *gin.Context) {
	email, password, ok := c.Request.BasicAuth()
	if !ok {
		s.writeError(c, service.ErrUnauthenticated)
		return
	}

	token, err := s.auth.Login(c.Request.Context(), email, password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (s *Server) getDisconnect(c *gin.Context) {
	if err := s.auth.Logout(c.Request.Context(), c.GetHeader(tokenHeader)); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) getMe(c *gin.Context) {
	u, err := s.auth.UserFromToken(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": u.ID.Hex(), "email": u.Email})
}

type uploadRequest struct {
	Name     string     `json:"name"`
	Type     string     `json:"type"`
	ParentID flexibleID `json:"parentId"`
	IsPublic bool       `json:"isPublic"`
	Data     string     `json:"data"`
}

func (s *Server) postFiles(c *gin.Context) {
	u, err := s.auth.UserFromToken(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		s.writeError(c, err)
		return
	}

	var req uploadRequest
	if !s.decodeStrict(c, &req) {
		return
	}

	var data []byte
	if req.Data != "" {
		data, err = base64.StdEncoding.DecodeString(req.Data)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
			return
		}
	}

	rec, err := s.files.Upload(c.Request.Context(), u.ID, service.UploadInput{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: string(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     data,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}

	if s.metrics != nil {
		s.metrics.UploadsTotal.Inc()
	}
	c.JSON(http.StatusCreated, fileView(rec))
}

func (s *Server) getFile(c *gin.Context) {
	u, err := s.auth.UserFromToken(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		s.writeError(c, err)
		return
	}

	rec, err := s.files.Stat(c.Request.Context(), u.ID, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fileView(rec))
}

func (s *Server) getFiles(c *gin.Context) {
	u, err := s.auth.UserFromToken(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		s.writeError(c, err)
		return
	}

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "0"), 10, 64)
	parentID := c.DefaultQuery("parentId", database.RootSentinel)

	recs, err := s.files.List(c.Request.Context(), u.ID, parentID, page)
	if err != nil {
		s.writeError(c, err)
		return
	}

	views := make([]gin.H, 0, len(recs))
	for _, rec := range recs {
		views = append(views, fileView(rec))
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) putPublish(c *gin.Context) {
	s.setPublic(c, true)
}

func (s *Server) putUnpublish(c *gin.Context) {
	s.setPublic(c, false)
}

func (s *Server) setPublic(c *gin.Context, public bool) {
	u, err := s.auth.UserFromToken(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		s.writeError(c, err)
		return
	}

	rec, err := s.files.SetPublic(c.Request.Context(), u.ID, c.Param("id"), public)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fileView(rec))
}

func (s *Server) getFileData(c *gin.Context) {
	// Anonymous reads are fine for public records; a bad token is treated
	// the same as no token.
	requester, _ := s.auth.UserFromToken(c.Request.Context(), c.GetHeader(tokenHeader))

	data, rec, err := s.files.Content(c.Request.Context(), requester, c.Param("id"), c.Query("size"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(rec.Name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	c.Data(http.StatusOK, ctype, data)
}

// flexibleID tolerates clients that send the root parent as the number 0
// while real parents are hex strings.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

// decodeStrict rejects malformed bodies and unknown fields before any
// store access. Reports false after writing the error response.
func (s *Server) decodeStrict(c *gin.Context, dst any) bool {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return false
	}
	return true
}

// fileView renders a record for API responses. The root parent is the
// numeric sentinel 0 on the wire.
func fileView(f *database.FileRecord) gin.H {
	var parent any = 0
	if !f.IsRoot() {
		parent = f.ParentID.Hex()
	}
	h := gin.H{
		"id":       f.ID.Hex(),
		"userId":   f.UserID.Hex(),
		"name":     f.Name,
		"type":     f.Type,
		"isPublic": f.IsPublic,
		"parentId": parent,
	}
	if f.LocalPath != "" {
		h["localPath"] = f.LocalPath
	}
	return h
}

// writeError maps service errors onto the API status contract.
func (s *Server) writeError(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Msg})
	case errors.Is(err, service.ErrParentNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent not found"})
	case errors.Is(err, service.ErrParentNotFolder):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parent is not a folder"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already exist"})
	case errors.Is(err, service.ErrFolderContent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A folder doesn't have content"})
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		s.logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
