package bill

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
)

// maxUploadSize bounds multipart bodies carrying a proof
const maxUploadSize = int64(10 << 20)

// defaultModalWidth is used when the browser does not send the modal width
const defaultModalWidth = 800

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// writeJSON encodes v as the response body
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Error encoding response", "error", err)
	}
}

// jsonError writes {"error": message}
func jsonError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// writeHTML writes a rendered page
func writeHTML(w http.ResponseWriter, code int, markup string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	io.WriteString(w, markup)
}

// readProof returns the proof sent in the "file" field, or ok=false when none was picked
func readProof(r *http.Request) (ProofFile, bool, error) {
	f, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return ProofFile{}, false, nil
	}
	if err != nil {
		return ProofFile{}, false, err
	}
	defer f.Close()

	if header.Filename == "" {
		return ProofFile{}, false, nil
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return ProofFile{}, false, err
	}
	return ProofFile{
		Name:        header.Filename,
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}, true, nil
}

// formValues reads the new bill fields by their form names
func formValues(r *http.Request) FormValues {
	return FormValues{
		Type:       r.FormValue("expense-type"),
		Name:       r.FormValue("expense-name"),
		Date:       r.FormValue("datepicker"),
		Amount:     r.FormValue("amount"),
		VAT:        r.FormValue("vat"),
		Pct:        r.FormValue("pct"),
		Commentary: r.FormValue("commentary"),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, RouteBills, http.StatusSeeOther)
}

// handleBills renders the bills page, or the error page when listing fails
func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	bills := NewBills(s.service, newRedirectNavigator(w, r), sessionFromRequest(r))

	data, err := bills.FetchBills(r.Context())
	page, code := Page{Data: data}, http.StatusOK
	if err != nil {
		slog.Error("Error listing bills", "error", err)
		page, code = Page{Error: err.Error()}, http.StatusInternalServerError
	}

	markup, err := Render(page)
	if err != nil {
		slog.Error("Error rendering bills", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, code, markup)
}

func (s *Server) handleNewBillClick(w http.ResponseWriter, r *http.Request) {
	NewBills(s.service, newRedirectNavigator(w, r), sessionFromRequest(r)).OnClickNewBill()
}

// handleProofModal returns the modal body for a clicked proof icon
func (s *Server) handleProofModal(w http.ResponseWriter, r *http.Request) {
	width, err := strconv.Atoi(r.URL.Query().Get("width"))
	if err != nil || width <= 0 {
		width = defaultModalWidth
	}

	bills := NewBills(s.service, newRedirectNavigator(w, r), sessionFromRequest(r))
	body, ok := bills.OnClickIconEye(r.URL.Query().Get("url"), width)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeHTML(w, http.StatusOK, string(body))
}

func (s *Server) handleNewBillForm(w http.ResponseWriter, r *http.Request) {
	markup, err := RenderNewBill(NewBillPage{})
	if err != nil {
		slog.Error("Error rendering new bill form", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusOK, markup)
}

// handleSubmitNewBill uploads the picked proof, if any, then submits the bill
func (s *Server) handleSubmitNewBill(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		slog.Error("Error parsing new bill form", "error", err)
		http.Error(w, "Error parsing form", http.StatusBadRequest)
		return
	}

	nav := newRedirectNavigator(w, r)
	session := sessionFromRequest(r)
	newBill := NewNewBill(s.service, nav, session)
	if key := r.FormValue("bill-key"); key != "" {
		// Only the user's own pending upload can be completed
		draft, err := s.service.OwnedDraft(r.Context(), key, session.Email)
		if err != nil {
			slog.Warn("Ignoring bill key", "bill_id", key, "email", session.Email, "error", err)
		} else {
			newBill.Restore(Draft{
				BillID:   draft.ID,
				FileURL:  draft.FileURL,
				FileName: draft.FileName,
			})
		}
	}
	form := formValues(r)

	// A proof already uploaded by the browser is not sent again
	if newBill.Draft().BillID == "" {
		proof, ok, err := readProof(r)
		if err != nil {
			slog.Error("Error reading proof", "error", err)
			http.Error(w, "Error reading file", http.StatusBadRequest)
			return
		}
		if ok {
			if err := newBill.OnFileChange(r.Context(), proof); err != nil {
				var invalid *InvalidFileError
				if !errors.As(err, &invalid) {
					slog.Error("Error handling proof", "error", err)
				}
				s.renderNewBillAlert(w, NewBillPage{Alert: err.Error(), Form: form, Draft: newBill.Draft()})
				return
			}
		}
	}

	// Failures are logged by the controller; the user is sent to the list either way
	newBill.OnSubmit(r.Context(), form)
	if !nav.navigated() {
		http.Redirect(w, r, RouteBills, http.StatusSeeOther)
	}
}

func (s *Server) renderNewBillAlert(w http.ResponseWriter, page NewBillPage) {
	markup, err := RenderNewBill(page)
	if err != nil {
		slog.Error("Error rendering new bill form", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, http.StatusUnprocessableEntity, markup)
}

// handleListBills returns the session user's submitted bills
func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.service.List(r.Context(), sessionFromRequest(r).Email)
	if err != nil {
		slog.Error("Error listing bills", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bills)
}

// handleUploadProof stores a proof and answers with its key and URL
func (s *Server) handleUploadProof(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Error parsing multipart form", "error", err)
		errorMsg := "Error parsing form"
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			errorMsg = "File is too large. Maximum size is 10MB."
		}
		jsonError(w, errorMsg, http.StatusBadRequest)
		return
	}

	proof, ok, err := readProof(r)
	if err != nil || !ok {
		if err != nil {
			slog.Error("Error getting file from form", "error", err)
		}
		jsonError(w, "No file was selected. Please choose a file to upload.", http.StatusBadRequest)
		return
	}

	email := r.FormValue("email")
	if email == "" {
		email = sessionFromRequest(r).Email
	}

	created, err := s.service.Create(r.Context(), Upload{
		Email:       email,
		FileName:    proof.Name,
		Data:        proof.Data,
		ContentType: proof.ContentType,
	})
	if err != nil {
		var invalid *InvalidFileError
		if errors.As(err, &invalid) {
			proofUploads.WithLabelValues("rejected").Inc()
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		slog.Error("Error storing proof", "filename", proof.Name, "error", err)
		proofUploads.WithLabelValues("failed").Inc()
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	proofUploads.WithLabelValues("stored").Inc()
	writeJSON(w, http.StatusCreated, created)
}

// handleGetBill returns a single bill
func (s *Server) handleGetBill(w http.ResponseWriter, r *http.Request) {
	bill, err := s.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		jsonError(w, "Bill not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// handleUpdateBill creates or replaces a bill from a JSON body
func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	var bill Bill
	if err := json.NewDecoder(r.Body).Decode(&bill); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if bill.Email == "" {
		bill.Email = sessionFromRequest(r).Email
	}

	updated, err := s.service.Update(r.Context(), r.PathValue("id"), bill)
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		slog.Error("Error updating bill", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleSetStatus accepts or refuses a bill
func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status       string `json:"status"`
		CommentAdmin string `json:"commentAdmin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	bill, err := s.service.SetStatus(r.Context(), r.PathValue("id"), req.Status, req.CommentAdmin)
	switch {
	case errors.Is(err, ErrInvalidStatus):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	case errors.Is(err, ErrBillNotFound):
		jsonError(w, "Bill not found", http.StatusNotFound)
		return
	case err != nil:
		slog.Error("Error setting bill status", "error", err)
		jsonError(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// handleDeleteBill deletes a bill and its proof
func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, ErrBillNotFound) {
			jsonError(w, "Bill not found", http.StatusNotFound)
			return
		}
		slog.Error("Error deleting bill", "error", err)
		jsonError(w, "Error deleting bill", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleScanProof suggests expense fields for a proof
func (s *Server) handleScanProof(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, "Error parsing form", http.StatusBadRequest)
		return
	}
	proof, ok, err := readProof(r)
	if err != nil || !ok {
		jsonError(w, "No file was selected. Please choose a file to upload.", http.StatusBadRequest)
		return
	}

	expense, err := s.service.ScanProof(r.Context(), proof.Name, proof.Data, proof.ContentType)
	if err != nil {
		var invalid *InvalidFileError
		switch {
		case errors.Is(err, ErrScannerDisabled):
			jsonError(w, err.Error(), http.StatusNotImplemented)
		case errors.As(err, &invalid):
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			jsonError(w, err.Error(), http.StatusBadGateway)
		}
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

// handleGetProof serves the proof file of a bill
func (s *Server) handleGetProof(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.service.Proof(r.Context(), r.PathValue("id"))
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Write(data)
}

// handleStaticCSS serves the CSS file
func (s *Server) handleStaticCSS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write(appCSS)
}

// handleStaticJS serves the JavaScript file
func (s *Server) handleStaticJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Write(appJS)
}
