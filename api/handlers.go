package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"modhost/versions"
)

type createProjectRequest struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	Type       string `json:"type"`
	Visibility string `json:"visibility"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, s.log, fmt.Errorf("%w: malformed request body", versions.ErrInvalidInput))
		return
	}

	project, err := s.svc.CreateProject(versions.CreateProjectInput{
		OwnerID:    userID(r),
		Name:       req.Name,
		Slug:       req.Slug,
		Type:       req.Type,
		Visibility: req.Visibility,
	})
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeSuccess(w, "project created", map[string]string{"id": project.ID, "slug": project.Slug})
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.svc.GetProject(chi.URLParam(r, "project"), userID(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeSuccess(w, "", project)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.ListVersions(chi.URLParam(r, "project"), userID(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeSuccess(w, "", list)
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	version, err := s.svc.GetVersion(chi.URLParam(r, "project"), chi.URLParam(r, "version"), userID(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeSuccess(w, "", version)
}

// handleCreateVersion accepts a multipart form: scalar fields for the
// version metadata, a JSON "dependencies" field, one "primary_file"
// and any number of "additional_files".
func (s *Server) handleCreateVersion(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.maxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, s.log, fmt.Errorf("%w: malformed multipart form", versions.ErrInvalidInput))
		return
	}

	in := versions.CreateVersionInput{
		ProjectSlugOrID: chi.URLParam(r, "project"),
		UserID:          userID(r),
		Title:           r.FormValue("title"),
		VersionNumber:   r.FormValue("version_number"),
		Changelog:       r.FormValue("changelog"),
		ReleaseChannel:  strings.ToUpper(r.FormValue("release_channel")),
		Loaders:         splitList(r.FormValue("loaders")),
		GameVersions:    splitList(r.FormValue("game_versions")),
		Featured:        r.FormValue("featured") == "true",
	}

	if raw := r.FormValue("dependencies"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &in.Dependencies); err != nil {
			writeError(w, s.log, fmt.Errorf("%w: malformed dependencies list", versions.ErrInvalidInput))
			return
		}
	}

	form := r.MultipartForm
	if headers := form.File["primary_file"]; len(headers) == 1 {
		upload, err := readUpload(headers[0], true)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		in.Files = append(in.Files, *upload)
	}
	for _, header := range form.File["additional_files"] {
		upload, err := readUpload(header, false)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		in.Files = append(in.Files, *upload)
	}

	result, err := s.svc.CreateVersion(in)
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeSuccess(w, "version created", result)
}

func (s *Server) handleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DeleteVersion(chi.URLParam(r, "project"), chi.URLParam(r, "version"), userID(r))
	if err != nil {
		writeError(w, s.log, err)
		return
	}
	writeSuccess(w, "version deleted", nil)
}

func readUpload(header *multipart.FileHeader, primary bool) (*versions.UploadFile, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", header.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", header.Filename, err)
	}
	return &versions.UploadFile{Name: header.Filename, Content: content, IsPrimary: primary}, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
