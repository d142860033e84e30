package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"egunkari/internal/httputil"
	"egunkari/internal/model"
	"egunkari/internal/service"
	"egunkari/internal/transport/http/middleware"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{
		postService: postService,
	}
}

// Create handles POST /api/posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Authentication required")
		return
	}

	var req model.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	postID, err := h.postService.Create(r.Context(), claims, &req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrValidation):
			httputil.WriteBadRequest(w, "Title and content are required")
		default:
			log.Printf("[ERROR] Create post handler: user=%s err=%v", claims.UserID, err)
			httputil.WriteInternalError(w, "Failed to create post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, model.CreatePostResponse{
		Message: "Post created",
		PostID:  postID,
	})
}

// List handles GET /api/posts
// Returns every active post, newest first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List(r.Context())
	if err != nil {
		log.Printf("[ERROR] List posts handler: err=%v", err)
		httputil.WriteInternalError(w, "Failed to load posts")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, posts)
}

// GetByID handles GET /api/posts/:id
// Each successful read counts as a view.
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Get post handler: post=%s err=%v", postID, err)
		httputil.WriteInternalError(w, "Failed to load post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Like handles POST /api/posts/:id/like
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Authentication required")
		return
	}

	postID := chi.URLParam(r, "id")

	likes, err := h.postService.Like(r.Context(), claims, postID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			httputil.WriteNotFound(w, "Post not found")
			return
		}
		log.Printf("[ERROR] Like handler: post=%s user=%s err=%v", postID, claims.UserID, err)
		httputil.WriteInternalError(w, "Failed to like post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.LikeResponse{
		Message: "Post liked",
		Likes:   likes,
	})
}

// Delete handles DELETE /api/posts/:id
// Only the author may delete; the row is kept and flagged.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaimsFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorizedWithCode(w, model.CodeTokenInvalid, "Authentication required")
		return
	}

	postID := chi.URLParam(r, "id")

	if err := h.postService.Delete(r.Context(), claims, postID); err != nil {
		switch {
		case errors.Is(err, model.ErrNotFound):
			httputil.WriteNotFound(w, "Post not found")
		case errors.Is(err, model.ErrForbidden):
			httputil.WriteForbidden(w, "You can only delete your own posts")
		default:
			log.Printf("[ERROR] Delete post handler: post=%s user=%s err=%v", postID, claims.UserID, err)
			httputil.WriteInternalError(w, "Failed to delete post")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, model.MessageResponse{Message: "Post deleted"})
}
