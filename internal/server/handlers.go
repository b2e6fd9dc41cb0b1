package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/user/vidhost-go/internal/catalog"
	"github.com/user/vidhost-go/internal/model"
)

// multipartMemoryLimit is the in-memory budget for parsing uploads;
// anything larger spills to temp files
const multipartMemoryLimit = 32 << 20

// pathID parses the {id} path segment
func pathID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid video id", model.ErrValidation)
	}
	return uint(id), nil
}

// handleListVideos handles GET /api/videos
func (s *Server) handleListVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := s.catalog.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if videos == nil {
		videos = []*model.Video{}
	}
	writeJSON(w, http.StatusOK, videos)
}

// handleGetVideo handles GET /api/videos/{id}; the fetch counts as a view
func (s *Server) handleGetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	video, err := s.catalog.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	viewsTotal.Inc()
	writeJSON(w, http.StatusOK, video)
}

// handleUpload handles POST /api/videos: multipart field "video" plus
// title and description form fields
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !s.uploadLimiter.Allow() {
		uploadsTotal.WithLabelValues("throttled").Inc()
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Message: "too many uploads, slow down"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		uploadsTotal.WithLabelValues("failure").Inc()
		writeError(w, fmt.Errorf("%w: failed to parse upload form", model.ErrValidation))
		return
	}

	file, header, err := r.FormFile("video")
	if err != nil {
		uploadsTotal.WithLabelValues("failure").Inc()
		writeError(w, fmt.Errorf("%w: please upload a video file", model.ErrValidation))
		return
	}
	defer file.Close()

	user := UserFromContext(r.Context())

	video, err := s.catalog.Upload(r.Context(), catalog.UploadRequest{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Filename:    header.Filename,
		File:        file,
		UserID:      user.ID,
	})
	if err != nil {
		uploadsTotal.WithLabelValues("failure").Inc()
		writeError(w, err)
		return
	}

	uploadsTotal.WithLabelValues("success").Inc()
	s.refreshVideoCount(r.Context())
	writeJSON(w, http.StatusCreated, video)
}

// handleDeleteVideo handles DELETE /api/videos/{id}
func (s *Server) handleDeleteVideo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.catalog.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	s.refreshVideoCount(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "video removed"})
}

// authResponse is a user plus a bearer token
type authResponse struct {
	*model.User
	Token string `json:"token"`
}

// registerRequest is the register/login request body
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister handles POST /api/users
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrValidation))
		return
	}

	user, token, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{User: user, Token: token})
}

// handleLogin handles POST /api/users/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, fmt.Errorf("%w: invalid request body", model.ErrValidation))
		return
	}

	user, token, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{User: user, Token: token})
}

// handleProfile handles GET /api/users/profile
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	profile, err := s.auth.Profile(r.Context(), user.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
