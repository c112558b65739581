package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/w-h-a/research/generator"
	"github.com/w-h-a/research/internal/service/research"
)

const (
	maxUploadSize     = 32 << 20
	searchResults     = 5
	pastedText        = "Pasted Text"
	defaultNewsTopic  = "Academic Research"
	defaultConfsTopic = "Computer Science"
)

type Handler struct {
	service  *research.Service
	validate *validator.Validate
}

// Router mounts every route under /api.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", h.health).Methods(http.MethodGet)

	api.HandleFunc("/upload", h.upload).Methods(http.MethodPost)
	api.HandleFunc("/papers", h.papers).Methods(http.MethodGet)
	api.HandleFunc("/papers/{filename}", h.paper).Methods(http.MethodGet)
	api.HandleFunc("/search", h.search).Methods(http.MethodPost)
	api.HandleFunc("/summarize", h.summarize).Methods(http.MethodPost)
	api.HandleFunc("/qa", h.answer).Methods(http.MethodPost)
	api.HandleFunc("/qa-stream", h.streamAnswer).Methods(http.MethodPost)
	api.HandleFunc("/analyze-image", h.analyzeImage).Methods(http.MethodPost)
	api.HandleFunc("/insight", h.insight).Methods(http.MethodPost)
	api.HandleFunc("/draft-section", h.draftSection).Methods(http.MethodPost)

	api.HandleFunc("/check-plagiarism", h.checkPlagiarism).Methods(http.MethodPost)
	api.HandleFunc("/compare", h.compare).Methods(http.MethodPost)
	api.HandleFunc("/synthesize-papers", h.synthesize).Methods(http.MethodPost)
	api.HandleFunc("/visualize-paper", h.visualize).Methods(http.MethodPost)
	api.HandleFunc("/knowledge-graph", h.knowledgeGraph).Methods(http.MethodPost)
	api.HandleFunc("/journal-match", h.journalMatch).Methods(http.MethodPost)
	api.HandleFunc("/check-ieee", h.checkIEEE).Methods(http.MethodPost)

	api.HandleFunc("/web-research", h.webResearch).Methods(http.MethodPost)
	api.HandleFunc("/research-trends", h.researchTrends).Methods(http.MethodPost)
	api.HandleFunc("/funding-scout", h.fundingScout).Methods(http.MethodPost)
	api.HandleFunc("/news", h.news).Methods(http.MethodGet)
	api.HandleFunc("/conferences", h.conferences).Methods(http.MethodGet)

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := formFile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file part")
		return
	}
	defer file.Close()

	if len(header) == 0 {
		writeError(w, http.StatusBadRequest, "No selected file")
		return
	}

	doc, err := h.service.Upload(r.Context(), header, file)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message":  "File uploaded successfully",
		"filename": doc.Filename,
		"content":  doc.Content,
	})
}

func (h *Handler) papers(w http.ResponseWriter, r *http.Request) {
	ids, err := h.service.ListPapers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}

	if ids == nil {
		ids = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"papers": ids})
}

func (h *Handler) paper(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["filename"]

	content, err := h.service.ReadPaper(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"filename": id, "content": content})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !h.decode(w, r, &req) {
		return
	}

	results, err := h.service.Search(r.Context(), req.Query, searchResults)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *Handler) summarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	text := req.Content
	if len(req.Filename) > 0 && len(strings.TrimSpace(text)) == 0 {
		content, err := h.service.ReadPaper(r.Context(), req.Filename)
		if err != nil {
			fail(w, r, err)
			return
		}
		text = content
	}

	summary, err := h.service.Summarize(r.Context(), text)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

func (h *Handler) answer(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if !h.decode(w, r, &req) {
		return
	}

	answer, err := h.service.AnswerQuestion(r.Context(), req.Question, req.Context)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (h *Handler) streamAnswer(w http.ResponseWriter, r *http.Request) {
	var req streamRequest
	if !h.decode(w, r, &req) {
		return
	}

	msgs := make([]generator.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		msgs = append(msgs, generator.TextMessage(m.Role, m.Content))
	}

	frags, err := h.service.StreamAnswer(r.Context(), msgs, req.Question)
	if err != nil {
		fail(w, r, err)
		return
	}

	stream(w, r, frags)
}

func (h *Handler) analyzeImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !h.decode(w, r, &req) {
		return
	}

	frags, err := h.service.AnalyzeImage(r.Context(), req.Prompt, req.Image)
	if err != nil {
		fail(w, r, err)
		return
	}

	stream(w, r, frags)
}

func (h *Handler) insight(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !h.decode(w, r, &req) {
		return
	}

	insight, err := h.service.GenerateInsight(r.Context(), req.Topic)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"insight": insight})
}

func (h *Handler) draftSection(w http.ResponseWriter, r *http.Request) {
	var req draftRequest
	if !h.decode(w, r, &req) {
		return
	}

	draft, err := h.service.DraftSection(r.Context(), req.Topic, req.SectionType, req.Context)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"draft": draft})
}

// checkPlagiarism takes either an uploaded file or a JSON body with text.
func (h *Handler) checkPlagiarism(w http.ResponseWriter, r *http.Request) {
	text, filename := "", pastedText

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		file, name, err := formFile(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file part")
			return
		}
		defer file.Close()

		doc, err := h.service.Upload(r.Context(), name, file)
		if err != nil {
			fail(w, r, err)
			return
		}
		text, filename = doc.Content, doc.Filename
	} else {
		var req plagiarismRequest
		if !h.decode(w, r, &req) {
			return
		}
		text = req.Text
	}

	report, err := h.service.CheckPlagiarism(r.Context(), text, filename)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"result": report})
}

func (h *Handler) compare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !h.decode(w, r, &req) {
		return
	}

	comparison, err := h.service.ComparePaperFiles(r.Context(), req.Filenames)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"comparison": comparison})
}

func (h *Handler) synthesize(w http.ResponseWriter, r *http.Request) {
	var req synthesizeRequest
	if !h.decode(w, r, &req) {
		return
	}

	papers := make([]research.Document, 0, len(req.Papers))
	for _, p := range req.Papers {
		papers = append(papers, research.Document{Filename: p.Filename, Content: p.Content})
	}

	rows, err := h.service.SynthesizePapers(r.Context(), papers)
	if err != nil {
		fail(w, r, err)
		return
	}

	if rows == nil {
		rows = []research.ComparisonRow{}
	}

	writeJSON(w, http.StatusOK, rows)
}

func (h *Handler) visualize(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !h.decode(w, r, &req) {
		return
	}

	image, err := h.service.GenerateVisualAbstract(r.Context(), req.Content)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, image)
}

func (h *Handler) knowledgeGraph(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !h.decode(w, r, &req) {
		return
	}

	graph, err := h.service.ExtractKnowledgeGraph(r.Context(), req.Content)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, graph)
}

func (h *Handler) journalMatch(w http.ResponseWriter, r *http.Request) {
	var req abstractRequest
	if !h.decode(w, r, &req) {
		return
	}

	journals, err := h.service.MatchJournals(r.Context(), req.Abstract)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, journals)
}

func (h *Handler) checkIEEE(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !h.decode(w, r, &req) {
		return
	}

	report, err := h.service.CheckIEEE(r.Context(), req.Content)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) webResearch(w http.ResponseWriter, r *http.Request) {
	var req webResearchRequest
	if !h.decode(w, r, &req) {
		return
	}

	answer, err := h.service.WebResearch(r.Context(), req.Query, req.Context)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

func (h *Handler) researchTrends(w http.ResponseWriter, r *http.Request) {
	var req topicRequest
	if !h.decode(w, r, &req) {
		return
	}

	trends, err := h.service.ResearchTrends(r.Context(), req.Topic)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, trends)
}

func (h *Handler) fundingScout(w http.ResponseWriter, r *http.Request) {
	var req keywordsRequest
	if !h.decode(w, r, &req) {
		return
	}

	grants, err := h.service.ScoutFunding(r.Context(), req.Keywords)
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, grants)
}

func (h *Handler) news(w http.ResponseWriter, r *http.Request) {
	articles, err := h.service.LatestNews(r.Context(), queryOr(r, "topic", defaultNewsTopic))
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"articles": articles})
}

func (h *Handler) conferences(w http.ResponseWriter, r *http.Request) {
	confs, err := h.service.Conferences(r.Context(), queryOr(r, "topic", defaultConfsTopic))
	if err != nil {
		fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"conferences": confs})
}

// decode reads and validates a JSON body, answering 400 itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		slog.DebugContext(r.Context(), "invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request", Fields: fieldErrors(err)})
		return false
	}

	return true
}

func formFile(r *http.Request) (io.ReadCloser, string, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, "", err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", err
	}

	return file, header.Filename, nil
}

func queryOr(r *http.Request, key string, def string) string {
	if v := strings.TrimSpace(r.URL.Query().Get(key)); len(v) > 0 {
		return v
	}
	return def
}

func NewHandler(service *research.Service) *Handler {
	if service == nil {
		detail := "research service is required"
		slog.Error(detail)
		panic(detail)
	}

	return &Handler{
		service:  service,
		validate: newValidator(),
	}
}
