package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/neetsprint/neetsprint-server/internal/api/http"
	"github.com/neetsprint/neetsprint-server/internal/auth"
	"github.com/neetsprint/neetsprint-server/internal/chat"
	"github.com/neetsprint/neetsprint-server/internal/config"
	"github.com/neetsprint/neetsprint-server/internal/content"
	"github.com/neetsprint/neetsprint-server/internal/db"
	"github.com/neetsprint/neetsprint-server/internal/practice"
	"github.com/neetsprint/neetsprint-server/internal/rbac"
	"github.com/neetsprint/neetsprint-server/internal/storage"
	"github.com/neetsprint/neetsprint-server/internal/study"
	"github.com/neetsprint/neetsprint-server/internal/telemetry"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	contentStore := content.NewSQLStore(dbh)
	studyStore := study.NewSQLStore(dbh)

	// --- Auth ---
	authSvc := auth.NewService(cfg.AuthSecret)

	// --- Practice engine + telemetry side channel ---
	tel := telemetry.New(cfg.TelemetryBaseURL)
	practiceAPI := api.NewPracticeHandlers(practice.NewRegistry(), contentStore, tel)

	// --- Chapter chatbot (optional) ---
	var tutor *chat.Tutor
	if cfg.ChatAPIKey != "" {
		tutor = chat.NewTutor(cfg.ChatAPIKey, cfg.ChatBaseURL, cfg.ChatModel)
	}

	// --- Blob store for chapter illustrations ---
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))
	r.Get("/chat/health", api.ChatHealthHandler(tutor))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Chapter content
		pr.With(rbac.Require("chapter:view")).
			Get("/chapters", api.ListChaptersHandler(contentStore))
		pr.With(rbac.Require("chapter:view")).
			Get("/chapters/{chapterID}", api.GetChapterHandler(contentStore))
		pr.With(rbac.Require("chapter:view")).
			Get("/chapters/{chapterID}/questions", api.GetChapterQuestionsHandler(contentStore))
		pr.With(rbac.Require("chapter:create")).
			Put("/chapters", api.PutChapterHandler(contentStore))
		pr.With(rbac.Require("chapter:delete")).
			Delete("/chapters/{chapterID}", api.DeleteChapterHandler(contentStore))

		// Practice sessions
		pr.Route("/practice-sessions", func(ps chi.Router) {
			ps.Use(rbac.Require("practice:manage-own"))
			ps.Post("/", practiceAPI.Start)
			ps.Get("/{sessionID}", practiceAPI.Get)
			ps.Post("/{sessionID}/select", practiceAPI.Select)
			ps.Post("/{sessionID}/reveal", practiceAPI.Reveal)
			ps.Post("/{sessionID}/submit", practiceAPI.Submit)
			ps.Post("/{sessionID}/reset", practiceAPI.Reset)
			ps.Delete("/{sessionID}", practiceAPI.Drop)
		})

		// Bookmarks & notes
		pr.With(rbac.Require("bookmark:manage-own")).
			Post("/bookmarks", api.ToggleBookmarkHandler(studyStore))
		pr.With(rbac.Require("bookmark:manage-own")).
			Get("/bookmarks", api.ListBookmarksHandler(studyStore))
		pr.With(rbac.Require("note:manage-own")).
			Post("/notes", api.PutNoteHandler(studyStore))
		pr.With(rbac.Require("note:manage-own")).
			Get("/notes", api.ListNotesHandler(studyStore))
		pr.With(rbac.Require("note:manage-own")).
			Delete("/notes/{noteID}", api.DeleteNoteHandler(studyStore))

		// Study-session tracking (telemetry endpoint)
		pr.With(rbac.Require("study:track-own")).
			Post("/study-sessions", api.StartStudySessionHandler(studyStore))
		pr.With(rbac.Require("study:track-own")).
			Post("/study-sessions/{sessionID}/end", api.EndStudySessionHandler(studyStore))
		pr.With(rbac.RequireAny("study:track-own", "study:view-all")).
			Get("/study-sessions", api.ListStudySessionsHandler(studyStore))

		// Chapter chatbot
		pr.With(rbac.Require("chat:ask")).
			Post("/chapters/{chapterID}/chat", api.ChapterChatHandler(tutor, contentStore))

		// Chapter illustration assets
		pr.Route("/assets", func(ar chi.Router) {
			ar.Use(rbac.Require("asset:view"))
			api.MountAssets(ar, bs)
		})

		// Admin
		pr.With(rbac.Require("users:list")).
			Get("/users", api.ListUsersHandler(dbh))
	})

	log.Printf("neetsprint server listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		log.Fatalf("server: %v", err)
	}
}
