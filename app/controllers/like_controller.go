package controllers

import (
	"net/http"

	"community/app/services"

	"github.com/gorilla/mux"
)

// LikeController handles HTTP requests for likes
type LikeController struct {
	likeService *services.LikeService
}

// NewLikeController creates a new LikeController
func NewLikeController(likeService *services.LikeService) *LikeController {
	return &LikeController{likeService: likeService}
}

// Create handles POST /api/posts/{postId}/likes
func (lc *LikeController) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := lc.likeService.LikePost(r.Context(), mux.Vars(r)["postId"], actor); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/posts/{postId}/likes
func (lc *LikeController) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := lc.likeService.UnlikePost(r.Context(), mux.Vars(r)["postId"], actor); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Count handles GET /api/posts/{postId}/likes/count
func (lc *LikeController) Count(w http.ResponseWriter, r *http.Request) {
	count, err := lc.likeService.CountLikes(mux.Vars(r)["postId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
