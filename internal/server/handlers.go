package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"ragserve/internal/service"
)

const textPreviewRunes = 200

type uploadResponse struct {
	Filename            string `json:"filename"`
	Message             string `json:"message"`
	ChunksAdded         int    `json:"chunks_added"`
	TotalVectorsInStore int    `json:"total_vectors_in_store"`
}

type queryRequest struct {
	QueryText string `json:"query_text"`
	TopK      int    `json:"top_k,omitempty"`
}

type sourceResponse struct {
	DocumentName string  `json:"document_name"`
	ChunkID      int     `json:"chunk_id"`
	TextPreview  string  `json:"text_preview"`
	Score        float64 `json:"score"`
}

type queryResponse struct {
	LLMResponse string           `json:"llm_response"`
	Sources     []sourceResponse `json:"sources"`
}

type resetResponse struct {
	Message             string `json:"message"`
	TotalVectorsInStore int    `json:"total_vectors_in_store"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}
	s.logger.Debug("upload request",
		zap.String("filename", header.Filename),
		zap.Int("bytes", len(content)),
	)

	res, err := s.svc.Upload(header.Filename, content)
	if err != nil {
		if errors.Is(err, service.ErrEmptyDocument) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error("upload failed", zap.String("filename", header.Filename), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, uploadResponse{
		Filename:            header.Filename,
		Message:             "Document processed and added to vector store.",
		ChunksAdded:         res.ChunksAdded,
		TotalVectorsInStore: res.TotalVectors,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QueryText == "" {
		s.respondError(w, http.StatusBadRequest, "query_text is required")
		return
	}
	s.logger.Debug("query request", zap.String("query", req.QueryText), zap.Int("top_k", req.TopK))

	result, err := s.svc.Query(r.Context(), req.QueryText, req.TopK)
	if err != nil {
		s.logger.Error("query failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	sources := make([]sourceResponse, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, sourceResponse{
			DocumentName: src.DocumentName,
			ChunkID:      src.ChunkNumber,
			TextPreview:  preview(src.Text),
			Score:        src.Score,
		})
	}
	s.respondJSON(w, http.StatusOK, queryResponse{
		LLMResponse: result.Answer,
		Sources:     sources,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	total := s.svc.Reset()
	s.logger.Info("vector store reset via API")
	s.respondJSON(w, http.StatusOK, resetResponse{
		Message:             "Vector store has been reset.",
		TotalVectorsInStore: total,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"total_vectors_in_store": s.svc.TotalVectors(),
	})
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= textPreviewRunes {
		return text
	}
	return string(runes[:textPreviewRunes]) + "..."
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
