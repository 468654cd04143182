package http

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"

	"seti/workshop/internal/model"
	"seti/workshop/internal/repository"
)

// quoteColors maps the dashboard radio values to the stored hex codes.
var quoteColors = map[string]string{
	"Yellow": "#FFFF00",
	"Blue":   "#0000FF",
	"Green":  "#008000",
	"Red":    "#FF0000",
	"Purple": "#800080",
}

func quoteColorHex(color *string) *string {
	if color == nil {
		return nil
	}
	hex, ok := quoteColors[*color]
	if !ok {
		return nil
	}
	return &hex
}

type quoteSummary struct {
	ID       int64   `json:"id"`
	Quote    string  `json:"quote"`
	Author   *string `json:"author"`
	Category string  `json:"category"`
	Color    *string `json:"color"`
	Featured bool    `json:"featured"`
}

func summarizeQuote(quote model.Quote) quoteSummary {
	return quoteSummary{
		ID:       quote.ID,
		Quote:    quote.Quote,
		Author:   quote.Author,
		Category: quote.Category,
		Color:    quote.Color,
		Featured: quote.Featured,
	}
}

type createQuoteRequest struct {
	Quote    string  `json:"quote"`
	Author   *string `json:"author"`
	Category string  `json:"category"`
	Color    *string `json:"color"`
	Featured bool    `json:"featured"`
}

func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var req createQuoteRequest
	if err := decodeJSON(r, &req); err != nil || req.Quote == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	id, err := s.store.CreateQuote(r.Context(), repository.NewQuote{
		Quote:    req.Quote,
		Author:   req.Author,
		Category: req.Category,
		Color:    quoteColorHex(req.Color),
		Featured: req.Featured,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":  "Quote added successfully",
		"quote_id": id,
	})
}

func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.store.ListQuotes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	entries := make([]quoteSummary, 0, len(quotes))
	for _, quote := range quotes {
		entries = append(entries, summarizeQuote(quote))
	}
	writeJSON(w, http.StatusOK, map[string]any{"quotes": entries})
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	quoteID, err := pathID(r, "quoteID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_quote_id")
		return
	}
	quote, err := s.store.GetQuote(r.Context(), quoteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "quote_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	writeJSON(w, http.StatusOK, summarizeQuote(quote))
}

type updateQuoteRequest struct {
	Quote    *string `json:"quote"`
	Author   *string `json:"author"`
	Category *string `json:"category"`
	Color    *string `json:"color"`
	Featured *bool   `json:"featured"`
}

func (s *Server) handleUpdateQuote(w http.ResponseWriter, r *http.Request) {
	quoteID, err := pathID(r, "quoteID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_quote_id")
		return
	}
	var req updateQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	update := repository.QuoteUpdate{
		Quote:    req.Quote,
		Author:   req.Author,
		Category: req.Category,
		Featured: req.Featured,
	}
	if req.Color != nil {
		update.Color = quoteColorHex(req.Color)
		if update.Color == nil {
			writeError(w, http.StatusBadRequest, "invalid_color")
			return
		}
	}

	quote, err := s.store.UpdateQuote(r.Context(), quoteID, update)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNoFields):
			writeError(w, http.StatusBadRequest, "no_fields")
		case errors.Is(err, pgx.ErrNoRows):
			writeError(w, http.StatusNotFound, "quote_not_found")
		default:
			writeError(w, http.StatusInternalServerError, "server_error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Quote updated successfully",
		"quote":   summarizeQuote(quote),
	})
}

func (s *Server) handleDeleteQuote(w http.ResponseWriter, r *http.Request) {
	quoteID, err := pathID(r, "quoteID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_quote_id")
		return
	}
	deleted, err := s.store.DeleteQuote(r.Context(), quoteID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "quote_not_found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Quote deleted successfully"})
}
