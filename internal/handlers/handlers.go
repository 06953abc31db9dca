package handlers

import (
	"encoding/json"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Brownie44l1/photo-classifier/internal/classify"
)

// DefaultMaxUploadBytes caps multipart uploads when none is configured.
const DefaultMaxUploadBytes = 10 << 20

// PredictionRequest carries an already encoded [1, N, N, 3] tensor.
type PredictionRequest struct {
	Image []float32 `json:"image"`
}

type Handler struct {
	pipeline       *classify.Pipeline
	logger         *zap.Logger
	maxUploadBytes int64
}

func NewHandler(pipeline *classify.Pipeline, logger *zap.Logger, maxUploadBytes int64) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = DefaultMaxUploadBytes
	}
	return &Handler{
		pipeline:       pipeline,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes registers every endpoint on a new mux, wrapped in CORS and
// request-id middleware.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.Health)
	mux.HandleFunc("/predict", h.Predict)
	mux.HandleFunc("/predict/image", h.PredictFromImage)
	return withRequestID(enableCORS(mux))
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	log := h.requestLogger(r)

	var req PredictionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxUploadBytes)).Decode(&req); err != nil {
		if tooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	result, err := h.pipeline.ClassifyTensor(r.Context(), req.Image)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) PredictFromImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	log := h.requestLogger(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		if tooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "Upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Failed to parse form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image file provided. Use 'image' as the form field name")
		return
	}
	defer file.Close()

	log.Info("received file", zap.String("filename", header.Filename), zap.Int64("size", header.Size))

	img, format, err := image.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid image format. Supported: JPEG, PNG")
		return
	}
	log.Debug("decoded image",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))

	result, err := h.pipeline.Classify(r.Context(), img)
	if err != nil {
		h.fail(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) fail(w http.ResponseWriter, log *zap.Logger, err error) {
	if errors.Is(err, classify.ErrInvalidArgument) {
		log.Warn("rejected request", zap.Error(err))
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	log.Error("prediction error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Prediction failed")
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
