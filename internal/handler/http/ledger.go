package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/punch-ledger-go/internal/domain/ledger"
	"github.com/cmlabs-hris/punch-ledger-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type LedgerHandler interface {
	Analyze(w http.ResponseWriter, r *http.Request)
	Import(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
	ListShifts(w http.ResponseWriter, r *http.Request)
}

type ledgerHandlerImpl struct {
	ledgerService ledger.LedgerService
}

func NewLedgerHandler(ledgerService ledger.LedgerService) LedgerHandler {
	return &ledgerHandlerImpl{
		ledgerService: ledgerService,
	}
}

// Analyze implements LedgerHandler.
func (h *ledgerHandlerImpl) Analyze(w http.ResponseWriter, r *http.Request) {
	var req ledger.AnalyzeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.ledgerService.Analyze(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Import implements LedgerHandler.
func (h *ledgerHandlerImpl) Import(w http.ResponseWriter, r *http.Request) {
	var req ledger.ImportRequest

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	req.ShiftID = optionalFormValue(r, "shift_id")
	req.StartDate = optionalFormValue(r, "start_date")
	req.EndDate = optionalFormValue(r, "end_date")

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if err == http.ErrMissingFile {
			response.BadRequest(w, "Punch log file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	req.File = file
	req.FileHeader = fileHeader

	result, err := h.ledgerService.Import(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Punch log imported", result)
}

// Export implements LedgerHandler.
func (h *ledgerHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	var req ledger.AnalyzeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Render fully before any header is written.
	var buf bytes.Buffer
	if err := h.ledgerService.Export(r.Context(), req, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, "attendance-ledger.xlsx", xlsxContentType, buf.Bytes())
}

// ListShifts implements LedgerHandler.
func (h *ledgerHandlerImpl) ListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.ledgerService.ListShifts(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, shifts)
}

func optionalFormValue(r *http.Request, key string) *string {
	v := r.FormValue(key)
	if v == "" {
		return nil
	}
	return &v
}
