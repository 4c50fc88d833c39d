package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/conciliar/balancete/backend/internal/auth"
	"github.com/conciliar/balancete/backend/internal/service"
	"github.com/conciliar/balancete/backend/internal/store"
)

func main() {
	// Optional .env for local development; missing file is fine.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	ctx := context.Background()

	// Determine if we're running locally
	useMemoryStore := os.Getenv("USE_MEMORY_STORE") == "true" || os.Getenv("ENV") == "local"
	skipAuth := os.Getenv("SKIP_AUTH") == "true"

	var storeImpl store.Store
	var firebaseAuth *auth.FirebaseAuth

	if useMemoryStore {
		log.Println("Using in-memory store for local development")
		storeImpl = store.NewMemoryStore()

		// With the memory store there is no Firebase project to talk to, so
		// authentication is always mocked.
		log.Println("Using mock authentication for local development")
		firebaseAuth = nil
	} else {
		projectID := os.Getenv("GOOGLE_CLOUD_PROJECT")
		if projectID == "" {
			log.Fatal("GOOGLE_CLOUD_PROJECT is required when not using the memory store")
		}

		firestoreClient, err := firestore.NewClient(ctx, projectID)
		if err != nil {
			log.Fatalf("Failed to create Firestore client: %v", err)
		}
		defer firestoreClient.Close()

		if skipAuth {
			log.Println("SKIP_AUTH enabled - using mock authentication with Firestore (for seeding/testing only)")
			firebaseAuth = nil
		} else {
			firebaseAuth, err = auth.NewFirebaseAuth(ctx)
			if err != nil {
				log.Fatalf("Failed to initialize Firebase Auth: %v", err)
			}
		}

		storeImpl = store.NewFirestoreStore(firestoreClient)
	}

	balanceteService := service.NewBalanceteService(storeImpl)

	var authMiddleware func(http.Handler) http.Handler
	if firebaseAuth != nil {
		authMiddleware = auth.Middleware(firebaseAuth)
	} else {
		authMiddleware = auth.LocalDevMiddleware()
	}

	router := service.NewRouter(balanceteService, authMiddleware)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{
			"http://localhost:5173", // Local frontend (Vite)
			"http://127.0.0.1:5173",
			"https://conciliar-balancete.web.app",
			"https://conciliar-balancete.firebaseapp.com",
		},
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
		},
		ExposedHeaders: []string{
			"Content-Disposition",
		},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	// h2c lets Cloud Run speak HTTP/2 without TLS termination here.
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}

	log.Printf("Starting server on port %s", port)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
