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
	processorInstance *services.ProcessorFunction
	once              sync.Once
	initErr           error
)

func init() {
	// "HandleProcessDocument" is the entry point name we'll see in GCP.
	functions.HTTP("HandleProcessDocument", handleProcessDocument)
}

// main is required by the Go Functions Framework.
func main() {}

// handleProcessDocument is the HTTP handler.
func handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	// Use sync.Once for robust, one-time initialization of clients.
	once.Do(func() {
		processorInstance, initErr = services.NewProcessor(context.Background())
	})
	if initErr != nil {
		log.Printf("CRITICAL: Processor initialization failed: %v", initErr)
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var req models.ProcessDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("ERROR: Could not decode request body: %v", err)
		http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
		return
	}

	res, err := processorInstance.Process(r.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			http.Error(w, "Bad Request: "+err.Error(), http.StatusBadRequest)
			return
		}
		// The specific error is already logged inside the Process method.
		http.Error(w, "Internal Server Error: processing failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		log.Printf("ERROR: Failed to write response: %v", err)
		http.Error(w, "Internal Server Error: failed to encode response", http.StatusInternalServerError)
	}
}
