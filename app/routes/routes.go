package routes

import (
	"net/http"

	"community/app/controllers"
	"community/app/middleware"

	"github.com/gorilla/mux"
)

// Setup defines the application's routes and returns a router.
func Setup(
	postController *controllers.PostController,
	commentController *controllers.CommentController,
	likeController *controllers.LikeController,
) *mux.Router {
	router := mux.NewRouter()

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()

	// Posts API endpoints
	posts := api.PathPrefix("/posts").Subrouter()
	posts.HandleFunc("", postController.Index).Methods("GET")
	posts.HandleFunc("", postController.Create).Methods("POST")
	posts.HandleFunc("/{id}", postController.Show).Methods("GET")
	posts.HandleFunc("/{id}", postController.Edit).Methods("PUT")
	posts.HandleFunc("/{id}", postController.Delete).Methods("DELETE")

	// Comments API endpoints
	posts.HandleFunc("/{postId}/comments", commentController.Index).Methods("GET")
	posts.HandleFunc("/{postId}/comments", commentController.Create).Methods("POST")
	api.HandleFunc("/comments/{id}", commentController.Edit).Methods("PUT")
	api.HandleFunc("/comments/{id}", commentController.Delete).Methods("DELETE")

	// Likes API endpoints
	posts.HandleFunc("/{postId}/likes", likeController.Create).Methods("POST")
	posts.HandleFunc("/{postId}/likes", likeController.Delete).Methods("DELETE")
	posts.HandleFunc("/{postId}/likes/count", likeController.Count).Methods("GET")

	return router
}
