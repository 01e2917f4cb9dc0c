package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"github.com/dberzins/accountd/internal/common"
)

// formMemoryLimit bounds how much of a multipart body is held in memory
// before spilling to disk. The per-file size ceiling is enforced separately
// by the blob service.
const formMemoryLimit = 8 << 20

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeSuccess(w, http.StatusOK, "OK", nil)
}

func (s *Server) register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.accounts.Register(r.Context(), req.params())
	if err != nil {
		s.logError(r, "registration failed", err)
		writeError(w, err)
		return
	}

	tokens, err := s.sessions.IssueFor(r.Context(), account)
	if err != nil {
		s.logError(r, "token issuance failed", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "User registered successfully", map[string]any{
		"user":   s.accounts.Sanitize(account),
		"tokens": tokens,
	})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	tokens, err := s.sessions.IssueFor(r.Context(), account)
	if err != nil {
		s.logError(r, "token issuance failed", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Login successful", map[string]any{
		"user":   s.accounts.Sanitize(account),
		"tokens": tokens,
	})
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	account, err := s.sessions.ValidateRefresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeError(w, err)
		return
	}

	tokens, err := s.sessions.IssueFor(r.Context(), account)
	if err != nil {
		s.logError(r, "token issuance failed", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Token refreshed successfully", map[string]any{
		"tokens": tokens,
	})
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	account, ok := accountFrom(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "user not authenticated", codeAuthRequired)
		return
	}

	if err := s.sessions.Logout(r.Context(), account.ID); err != nil {
		s.logError(r, "logout failed", err)
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Logout successful", nil)
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	account, ok := accountFrom(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "user not authenticated", codeAuthRequired)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile retrieved successfully", map[string]any{
		"user": s.accounts.Sanitize(account),
	})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	account, ok := accountFrom(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "user not authenticated", codeAuthRequired)
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, err)
		return
	}

	updated, err := s.accounts.UpdateProfile(r.Context(), account.ID, req.update())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "Profile updated successfully", map[string]any{
		"user": s.accounts.Sanitize(updated),
	})
}

// uploadLogo replaces the account's logo: upload the new blob, point the
// record at it, then dispose of the superseded blob. If the record update
// fails after the upload succeeded, the fresh blob is deleted best-effort so
// it does not orphan silently.
func (s *Server) uploadLogo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	account, ok := accountFrom(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "user not authenticated", codeAuthRequired)
		return
	}

	data, contentType, err := readLogoFile(r)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			writeFailure(w, http.StatusBadRequest, "no file uploaded", codeFileRequired)
			return
		}
		writeError(w, err)
		return
	}

	url, err := s.blobs.Upload(r.Context(), data, contentType, account.ID)
	if err != nil {
		if errors.Is(err, common.ErrorValidation) {
			writeFailure(w, http.StatusBadRequest, err.Error(), codeInvalidFileType)
			return
		}
		writeError(w, err)
		return
	}

	updated, err := s.accounts.UpdateLogo(r.Context(), account.ID, url)
	if err != nil {
		s.blobs.Delete(r.Context(), url)
		s.logError(r, "logo record update failed", err)
		writeError(w, err)
		return
	}

	s.blobs.Delete(r.Context(), account.LogoURL)

	writeSuccess(w, http.StatusOK, "Logo uploaded successfully", map[string]any{
		"user":    s.accounts.Sanitize(updated),
		"logoUrl": url,
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	writeFailure(w, http.StatusNotFound, fmt.Sprintf("Route %s not found", r.URL.Path), codeRouteNotFound)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request body", common.ErrorValidation)
	}
	return nil
}

func readLogoFile(r *http.Request) ([]byte, string, error) {
	if err := r.ParseMultipartForm(formMemoryLimit); err != nil {
		return nil, "", fmt.Errorf("%w: invalid multipart body", common.ErrorValidation)
	}

	file, header, err := r.FormFile("logo")
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("%w: could not read file", common.ErrorValidation)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return data, contentType, nil
}

func (s *Server) logError(r *http.Request, msg string, err error) {
	s.logger.Error(r.Context(), msg, "method", r.Method, "path", r.URL.Path, "error", err.Error())
}
