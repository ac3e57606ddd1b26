package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/Vickydmt/ocrtxt/internal/models"
	"github.com/Vickydmt/ocrtxt/internal/services"
)

var (
	translatorInstance *services.TranslatorFunction
	once               sync.Once
	initErr            error
)

func init() {
	// "HandleTranslateDocument" is the entry point name we'll see in GCP.
	functions.HTTP("HandleTranslateDocument", handleTranslateDocument)
}

// main is required by the Go Functions Framework.
func main() {}

// handleTranslateDocument is the HTTP handler.
func handleTranslateDocument(w http.ResponseWriter, r *http.Request) {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		translatorInstance, initErr = services.NewTranslatorService(context.Background())
	})
	if initErr != nil {
		log.Printf("CRITICAL: Translator initialization failed: %v", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.TranslateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("ERROR: Could not decode request body: %v", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	res, err := translatorInstance.Process(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, "Not Found: no such document", http.StatusNotFound)
		case errors.Is(err, services.ErrForbidden):
			http.Error(w, "Forbidden: document belongs to another user", http.StatusForbidden)
		default:
			// The specific error is already logged inside the Process method.
			http.Error(w, "Internal Server Error: translation failed", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Printf("ERROR: Failed to write response: %v", err)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}
