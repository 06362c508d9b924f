package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/bobmcallan/copyforge/internal/common"
	"github.com/bobmcallan/copyforge/internal/models"
)

const maxUploadBytes = 64 << 20 // combined size of uploaded PDFs

// handleUploadFiles handles POST /uploadfiles — generate marketing copy from
// uploaded PDF documents. The extracted text of every file plus the caller's
// stated goals drive two generation passes (company profile and brand
// introduction); both results are persisted for the user and returned.
func (s *Server) handleUploadFiles(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user := common.UserFromContext(r.Context())

	if s.app.Generator == nil {
		WriteError(w, http.StatusServiceUnavailable, "text generation is not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid multipart form data")
		return
	}

	roleAndGoals := r.FormValue("role_and_goals")
	if roleAndGoals == "" {
		WriteError(w, http.StatusBadRequest, "role_and_goals is required")
		return
	}

	fileHeaders := r.MultipartForm.File["files"]
	if len(fileHeaders) == 0 {
		WriteError(w, http.StatusBadRequest, "at least one file is required")
		return
	}

	var sb strings.Builder
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to read uploaded file: "+fh.Filename)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			WriteError(w, http.StatusBadRequest, "failed to read uploaded file: "+fh.Filename)
			return
		}

		text, err := s.app.Extractor.ExtractText(data)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", fh.Filename).Msg("PDF extraction failed")
			WriteError(w, http.StatusBadRequest, "failed to extract text from: "+fh.Filename)
			return
		}
		sb.WriteString(text)
	}

	generated, err := s.app.Generator.GenerateMarketingCopy(r.Context(), roleAndGoals, sb.String())
	if err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("Copy generation failed")
		WriteError(w, http.StatusBadGateway, "failed to generate marketing copy")
		return
	}

	if err := s.app.Storage.TextStore().SaveIntros(r.Context(), user.Username, generated.CompanyIntro, generated.BrandIntro); err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("Failed to save generated texts")
		WriteError(w, http.StatusInternalServerError, "failed to save generated texts")
		return
	}

	WriteJSON(w, http.StatusOK, generated)
}

// handleSaveEditedText handles POST /saveeditedtext — persist user-edited
// intros plus any additional files submitted alongside.
func (s *Server) handleSaveEditedText(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user := common.UserFromContext(r.Context())

	if err := parseAnyForm(r); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	companyIntro := r.FormValue("company_intro")
	brandIntro := r.FormValue("brand_intro")
	if companyIntro == "" || brandIntro == "" {
		WriteError(w, http.StatusBadRequest, "company_intro and brand_intro are required")
		return
	}

	if err := s.app.Storage.TextStore().SaveIntros(r.Context(), user.Username, companyIntro, brandIntro); err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("Failed to save edited texts")
		WriteError(w, http.StatusInternalServerError, "failed to save texts")
		return
	}

	if !s.saveAdditionalEntries(w, r, user.Username) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Texts saved successfully"})
}

// handleSaveAdditionalText handles POST /saveadditionaltext — persist
// additional files only.
func (s *Server) handleSaveAdditionalText(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	user := common.UserFromContext(r.Context())

	if err := parseAnyForm(r); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	if !s.saveAdditionalEntries(w, r, user.Username) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Additional text saved successfully"})
}

// saveAdditionalEntries persists every additional_files form value. Each
// value is "purpose|name|content" where content may itself contain pipes.
// Returns false with a response already written on failure.
func (s *Server) saveAdditionalEntries(w http.ResponseWriter, r *http.Request, username string) bool {
	for _, entry := range r.Form["additional_files"] {
		parts := strings.SplitN(entry, "|", 3)
		if len(parts) != 3 {
			WriteError(w, http.StatusBadRequest, "Invalid file information format")
			return false
		}
		if err := s.app.Storage.TextStore().SaveAdditional(r.Context(), username, parts[0], parts[1], parts[2]); err != nil {
			s.logger.Error().Err(err).Str("username", username).Msg("Failed to save additional text")
			WriteError(w, http.StatusInternalServerError, "failed to save additional text")
			return false
		}
	}
	return true
}

// handleGetTexts handles GET /gettexts — return everything stored for the
// user. Purposes with no files are present as empty lists so the client can
// render a stable set of categories.
func (s *Server) handleGetTexts(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	user := common.UserFromContext(r.Context())

	texts, err := s.app.Storage.TextStore().GetTexts(r.Context(), user.Username)
	if err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("Failed to load texts")
		WriteError(w, http.StatusInternalServerError, "failed to load texts")
		return
	}

	additional := make(map[string][]models.AdditionalText, len(texts.AdditionalFiles))
	for purpose, files := range texts.AdditionalFiles {
		additional[purpose+"_files"] = files
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"company_intro":    texts.CompanyIntro,
		"brand_intro":      texts.BrandIntro,
		"additional_files": additional,
	})
}

// parseAnyForm parses either urlencoded or multipart form bodies. The
// frontend submits these endpoints as multipart FormData.
func parseAnyForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return r.ParseMultipartForm(8 << 20)
	}
	return r.ParseForm()
}
