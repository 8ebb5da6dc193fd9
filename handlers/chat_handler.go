package handlers

import (
	"context"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ganesha-backend/models"
	"ganesha-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Responder produces a structured answer for user text. Satisfied by
// service.AgentService.
type Responder interface {
	GetResponse(ctx context.Context, userInput string) models.GaneshaResponse
}

// Transcriber converts an uploaded audio file into text. Satisfied by
// service.TranscriptionService.
type Transcriber interface {
	Transcribe(ctx context.Context, id, inputPath string) (string, error)
	UploadPath(id string) string
	EnsureWorkDirs() error
}

// Synthesizer renders response text to a wav file. Satisfied by
// service.SpeechService.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (string, error)
	OutputPath() string
}

// ChatHandler handles HTTP requests for the voice/text assistant
type ChatHandler struct {
	agent        Responder
	transcriber  Transcriber
	speech       Synthesizer
	storage      storage.Storage
	maxAudioSize int64
}

// NewChatHandler creates a new chat handler
func NewChatHandler(agent Responder, transcriber Transcriber, speech Synthesizer, store storage.Storage) *ChatHandler {
	return &ChatHandler{
		agent:        agent,
		transcriber:  transcriber,
		speech:       speech,
		storage:      store,
		maxAudioSize: 25 * 1024 * 1024, // 25MB
	}
}

// TextMessageRequest is the JSON body for POST /text-message
type TextMessageRequest struct {
	Message string `json:"message"`
}

// Transcribe handles POST /transcribe: audio upload -> transcription ->
// agent response -> speech synthesis
func (h *ChatHandler) Transcribe(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_AUDIO",
				"message": "No audio file uploaded",
			},
		})
		return
	}

	if fileHeader.Size > h.maxAudioSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUDIO_TOO_LARGE",
				"message": "Audio upload exceeds size limit",
			},
		})
		return
	}

	id := uuid.New()

	if err := h.transcriber.EnsureWorkDirs(); err != nil {
		h.serverError(c, "STORAGE_ERROR", err)
		return
	}

	uploadPath := h.transcriber.UploadPath(id.String())
	if err := c.SaveUploadedFile(fileHeader, uploadPath); err != nil {
		h.serverError(c, "UPLOAD_SAVE_FAILED", err)
		return
	}
	uploadArchivePath := h.archive(c.Request.Context(), id, fileHeader.Filename, uploadPath)

	text, err := h.transcriber.Transcribe(c.Request.Context(), id.String(), uploadPath)
	if err != nil {
		// The archived copy of an upload we could not transcribe is junk
		if h.storage != nil && uploadArchivePath != "" {
			h.storage.Delete(c.Request.Context(), uploadArchivePath)
		}
		h.serverError(c, "TRANSCRIPTION_FAILED", err)
		return
	}

	var resp models.GaneshaResponse
	if text == "" {
		resp = models.NewEmptyTranscriptionResponse()
	} else {
		log.Printf("Transcribed the text: %s", text)
		resp = h.agent.GetResponse(c.Request.Context(), text)
	}

	// Speech synthesis is best-effort: a missing voice must not turn an
	// answered question into a failed request.
	audioURL := ""
	if h.speech != nil {
		wavPath, err := h.speech.Synthesize(c.Request.Context(), resp.SpokenText(), resp.Lang)
		if err != nil {
			log.Printf("Warning: speech synthesis failed: %v", err)
		} else {
			audioURL = "/audio/" + filepath.Base(wavPath)
			h.archive(c.Request.Context(), id, "reply.wav", wavPath)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"id":               id.String(),
		"transcription":    text,
		"ganesha_response": resp,
		"audio_url":        audioURL,
	})
}

// TextMessage handles POST /text-message: typed text straight into the
// agent, no audio involved
func (h *ChatHandler) TextMessage(c *gin.Context) {
	var req TextMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_BODY",
				"message": "JSON body must contain a 'message' key",
			},
		})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EMPTY_MESSAGE",
				"message": "Message cannot be empty",
			},
		})
		return
	}

	id := uuid.New()
	resp := h.agent.GetResponse(c.Request.Context(), req.Message)

	c.JSON(http.StatusOK, gin.H{
		"id":               id.String(),
		"transcription":    req.Message,
		"ganesha_response": resp,
	})
}

// ServeAudio handles GET /audio/:filename, serving the synthesized reply
func (h *ChatHandler) ServeAudio(c *gin.Context) {
	if h.speech == nil {
		c.Status(http.StatusNotFound)
		return
	}
	outputPath := h.speech.OutputPath()
	if filepath.Base(c.Param("filename")) != filepath.Base(outputPath) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUDIO_NOT_FOUND",
				"message": "Unknown audio file",
			},
		})
		return
	}
	c.File(outputPath)
}

// ServeArchivedAudio handles GET /archive/*path, streaming an archived
// upload or reply out of long-term storage
func (h *ChatHandler) ServeArchivedAudio(c *gin.Context) {
	if h.storage == nil {
		c.Status(http.StatusNotFound)
		return
	}

	storagePath := strings.TrimPrefix(c.Param("path"), "/")
	reader, err := h.storage.Download(c.Request.Context(), storagePath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ARCHIVE_NOT_FOUND",
				"message": "No archived audio at that path",
			},
		})
		return
	}
	defer reader.Close()

	c.DataFromReader(http.StatusOK, -1, storage.ContentType(storagePath), reader, nil)
}

// archive copies an audio artifact into long-term storage and returns the
// storage path. Failures are logged, never surfaced - archival is not part
// of the request contract.
func (h *ChatHandler) archive(ctx context.Context, id uuid.UUID, name, path string) string {
	if h.storage == nil {
		return ""
	}
	f, err := os.Open(path)
	if err != nil {
		log.Printf("Warning: could not open %s for archival: %v", path, err)
		return ""
	}
	defer f.Close()
	storagePath, err := h.storage.Upload(ctx, id, name, f)
	if err != nil {
		log.Printf("Warning: failed to archive %s: %v", name, err)
		return ""
	}
	return storagePath
}

func (h *ChatHandler) serverError(c *gin.Context, code string, err error) {
	log.Printf("%s: %v", code, err)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": err.Error(),
		},
	})
}
