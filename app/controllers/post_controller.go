package controllers

import (
	"net/http"
	"strconv"

	"community/app/models"
	"community/app/services"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for posts
type PostController struct {
	postService *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{postService: postService}
}

type postContentRequest struct {
	Text   string            `json:"text"`
	Images []models.ImageRef `json:"images"`
}

func (req postContentRequest) toContent() models.PostContent {
	return models.PostContent{Text: req.Text, Images: req.Images}
}

// Create handles POST /api/posts
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req postContentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := pc.postService.CreatePost(r.Context(), actor, req.toContent())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// Show handles GET /api/posts/{id}
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := pc.postService.GetPost(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Index handles GET /api/posts with optional author, page and perPage
// query parameters.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("perPage"))

	var (
		posts []*models.Post
		err   error
	)
	if author := r.URL.Query().Get("author"); author != "" {
		posts, err = pc.postService.ListPostsByAuthor(author, page, perPage)
	} else {
		posts, err = pc.postService.ListPosts(page, perPage)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	writeJSON(w, http.StatusOK, posts)
}

// Edit handles PUT /api/posts/{id}
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req postContentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	post, err := pc.postService.EditPost(r.Context(), mux.Vars(r)["id"], actor, req.toContent())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete handles DELETE /api/posts/{id}
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := actorID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := pc.postService.DeletePost(r.Context(), mux.Vars(r)["id"], actor); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
