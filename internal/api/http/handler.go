package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"watermark-remover/config"
	app "watermark-remover/internal/application"
	"watermark-remover/internal/domain/entity"
)

type Handler struct {
	removal   *app.RemovalService
	defaults  config.Defaults
	maxUpload int64
}

func NewHandler(removal *app.RemovalService, defaults config.Defaults, maxUpload int64) *Handler {
	return &Handler{
		removal:   removal,
		defaults:  defaults,
		maxUpload: maxUpload,
	}
}

// Routes возвращает маршруты API с CORS.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/remove-watermark", h.RemoveWatermarkHandler)
	mux.HandleFunc("GET /health", h.HealthHandler)
	return corsMiddleware(mux)
}

// RemoveWatermarkHandler обрабатывает POST /api/remove-watermark
func (h *Handler) RemoveWatermarkHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(w, "Image is too large", http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	imageData, err := readFormFile(r, "image")
	if err != nil {
		respondError(w, "No image uploaded", http.StatusBadRequest)
		return
	}

	req, err := h.parseRequest(r)
	if err != nil {
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	out, err := h.removal.Remove(r.Context(), imageData, req)
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", string(req.Strategy)).Msg("remove watermark")
		}
		respondError(w, "Processing failed: "+err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="result.png"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(out); err != nil {
		log.Debug().Err(err).Msg("write response")
	}
}

// HealthHandler проверка здоровья сервиса
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}

// parseRequest собирает запрос из полей формы; незаданные поля берутся из defaults.
func (h *Handler) parseRequest(r *http.Request) (entity.RemovalRequest, error) {
	method := r.FormValue("method")
	if method == "" {
		method = string(entity.StrategyAuto)
	}
	strategy, err := entity.ParseStrategy(method)
	if err != nil {
		return entity.RemovalRequest{}, err
	}
	req := entity.RemovalRequest{Strategy: strategy}

	switch strategy {
	case entity.StrategyAuto:
		var p entity.ThresholdParams
		if p.Threshold, err = formInt(r, "threshold", h.defaults.Threshold); err != nil {
			return req, err
		}
		if p.MinArea, err = formInt(r, "min_area", h.defaults.MinArea); err != nil {
			return req, err
		}
		if p.MaxArea, err = formInt(r, "max_area", h.defaults.MaxArea); err != nil {
			return req, err
		}
		req.Threshold = &p

	case entity.StrategyRegion:
		var reg entity.Region
		if reg.X, err = formInt(r, "x", 0); err != nil {
			return req, err
		}
		if reg.Y, err = formInt(r, "y", 0); err != nil {
			return req, err
		}
		if reg.Width, err = formInt(r, "width", 100); err != nil {
			return req, err
		}
		if reg.Height, err = formInt(r, "height", 50); err != nil {
			return req, err
		}
		req.Region = &reg

	case entity.StrategyColor:
		rng, err := entity.ParseColorRange(
			formString(r, "color_lower", h.defaults.ColorLower),
			formString(r, "color_upper", h.defaults.ColorUpper),
		)
		if err != nil {
			return req, err
		}
		req.Color = &rng

	case entity.StrategyMask:
		mask, err := readFormFile(r, "mask")
		if err != nil {
			return req, entity.InvalidArgument("mask", nil, "mask image is required")
		}
		req.Mask = mask
	}
	return req, nil
}

func formInt(r *http.Request, name string, def int) (int, error) {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, entity.InvalidArgument(name, v, "must be an integer")
	}
	return n, nil
}

func formString(r *http.Request, name, def string) string {
	if v := strings.TrimSpace(r.FormValue(name)); v != "" {
		return v
	}
	return def
}

func readFormFile(r *http.Request, name string) ([]byte, error) {
	file, _, err := r.FormFile(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	return data, nil
}

// statusFor сопоставляет класс ошибки ядра с HTTP-статусом.
func statusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrInvalidArgument),
		errors.Is(err, entity.ErrDecode),
		errors.Is(err, entity.ErrDimensionMismatch):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}

// corsMiddleware добавляет CORS заголовки
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
