package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/aditya6114/aac-board/internal/models"
	"github.com/aditya6114/aac-board/internal/queue"
	"github.com/aditya6114/aac-board/internal/services/rag"
	"github.com/aditya6114/aac-board/internal/speech"
	"github.com/aditya6114/aac-board/internal/store"
	"github.com/aditya6114/aac-board/internal/validation"
)

// chatFallbackReply is appended to the transcript when the assistant
// cannot produce an answer. It is never spoken aloud.
const chatFallbackReply = "I'm sorry, I'm having trouble responding right now. Please try again."

// Responder produces assistant replies, either grounded in an uploaded
// document namespace or as free conversation.
type Responder interface {
	Chat(ctx context.Context, message string) (string, error)
	Answer(ctx context.Context, namespace, question string) (string, error)
}

// Ingestor processes an uploaded document synchronously when no job
// queue is configured.
type Ingestor interface {
	IngestFile(ctx context.Context, path, originalName string) (string, int, error)
}

// ChatHandler serves the assistant transcript, message exchange, and
// document uploads.
type ChatHandler struct {
	store     *store.Store
	responder Responder
	ingestor  Ingestor
	jobQueue  queue.JobQueue // nil means uploads ingest inline
	speaker   speech.Speaker
	uploadDir string
	logger    *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(st *store.Store, responder Responder, ingestor Ingestor, jobQueue queue.JobQueue, speaker speech.Speaker, uploadDir string, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{
		store:     st,
		responder: responder,
		ingestor:  ingestor,
		jobQueue:  jobQueue,
		speaker:   speaker,
		uploadDir: uploadDir,
		logger:    logger,
	}
}

// RegisterRoutes registers chat routes
func (h *ChatHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/chat/history", h.GetHistory).Methods("GET")
	r.HandleFunc("/chat/message", h.PostMessage).Methods("POST")
	r.HandleFunc("/chat/upload", h.Upload).Methods("POST")
}

// ChatMessageRequest accepts both payload shapes existing clients
// send: the board posts {message}, the document chat posts
// {query, namespace}.
type ChatMessageRequest struct {
	Message   string `json:"message"`
	Query     string `json:"query"`
	Namespace string `json:"namespace"`
}

// GetHistory returns the full transcript, oldest first.
func (h *ChatHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	state := h.store.Snapshot()
	messages := state.ChatHistory
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// PostMessage appends the user message, asks the responder, appends
// the reply, and speaks it. Responder failures still append a fallback
// reply so the transcript never drops a turn; the fallback is not
// spoken.
//
// The response body is the raw {response, answer} shape existing
// clients parse, not the standard envelope.
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req ChatMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid JSON format")
		return
	}

	text := validation.SanitizeText(req.Message)
	if text == "" {
		text = validation.SanitizeText(req.Query)
	}
	if text == "" {
		respondJSONError(w, http.StatusBadRequest, "Validation Error", "Message text is required")
		return
	}

	h.store.Dispatch(store.AddChatMessage{Message: models.NewChatMessage(text, true)})

	var reply string
	var err error
	if req.Namespace != "" {
		reply, err = h.responder.Answer(r.Context(), req.Namespace, text)
	} else {
		reply, err = h.responder.Chat(r.Context(), text)
	}
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			h.logger.Warn("chat_reply_failed", zap.Error(err))
		}
		reply = chatFallbackReply
		h.store.Dispatch(store.AddChatMessage{Message: models.NewChatMessage(reply, false)})
		respondRawJSON(w, http.StatusOK, map[string]string{"response": reply, "answer": reply})
		return
	}

	h.store.Dispatch(store.AddChatMessage{Message: models.NewChatMessage(reply, false)})
	h.speaker.Speak(r.Context(), reply)

	respondRawJSON(w, http.StatusOK, map[string]string{"response": reply, "answer": reply})
}

// Upload accepts a multipart document, spools it to disk, and hands it
// to the ingestion queue. Without a queue the document is ingested
// before the response is written.
//
// The response body is the raw {namespace} shape existing clients
// parse.
func (h *ChatHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "A file field is required")
		return
	}
	defer file.Close()

	originalName := filepath.Base(header.Filename)
	namespace := rag.NamespaceForFile(originalName)
	if namespace == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Unusable file name")
		return
	}

	spoolPath, err := h.spool(file)
	if err != nil {
		h.logger.Error("upload_spool_failed", zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to store upload")
		return
	}

	if h.jobQueue != nil {
		job := queue.NewIngestionJob(spoolPath, originalName, namespace)
		if err := h.jobQueue.Enqueue(r.Context(), job); err != nil {
			// Fall through to inline ingestion.
			h.logger.Warn("upload_enqueue_failed", zap.Error(err))
		} else {
			h.logger.Info("upload_enqueued",
				zap.String("namespace", namespace),
				zap.String("job_id", job.ID.String()))
			respondRawJSON(w, http.StatusOK, map[string]string{"namespace": namespace})
			return
		}
	}

	ns, chunks, err := h.ingestor.IngestFile(r.Context(), spoolPath, originalName)
	if removeErr := os.Remove(spoolPath); removeErr != nil {
		h.logger.Warn("spool_cleanup_failed", zap.String("path", spoolPath), zap.Error(removeErr))
	}
	if err != nil {
		h.logger.Error("upload_ingest_failed", zap.String("namespace", namespace), zap.Error(err))
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to process document")
		return
	}

	h.logger.Info("upload_ingested", zap.String("namespace", ns), zap.Int("chunks", chunks))
	respondRawJSON(w, http.StatusOK, map[string]string{"namespace": ns})
}

// spool copies an upload into the spool directory under a random name.
func (h *ChatHandler) spool(file io.Reader) (string, error) {
	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(h.uploadDir, uuid.NewString()+".pdf")
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
