package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/moviezone/moviezone/internal/catalog"
	"github.com/moviezone/moviezone/internal/events"
	"github.com/moviezone/moviezone/pkg/playlink"
)

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	filter := catalog.Filter{
		Category: queryString(r, "category"),
		Query:    queryString(r, "q"),
		Language: queryString(r, "language"),
		Limit:    queryInt(r, "limit", 50),
		Offset:   queryInt(r, "offset", 0),
	}

	if typeStr := queryString(r, "type"); typeStr != nil {
		t := catalog.EntryType(*typeStr)
		if t != catalog.EntryTypeMovie && t != catalog.EntryTypeSeries {
			writeError(w, http.StatusBadRequest, "INVALID_TYPE", "type must be 'movie' or 'series'")
			return
		}
		filter.Type = &t
	}
	if sortStr := queryString(r, "sort"); sortStr != nil {
		filter.Sort = *sortStr
	}

	items, total, err := s.deps.Catalog.ListEntries(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	resp := listEntriesResponse{
		Items:  make([]entryResponse, len(items)),
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for i, e := range items {
		resp.Items[i] = entryToResponse(e)
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	e, err := s.deps.Catalog.GetEntry(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	// Detail views count as a view. Best effort, never blocks the read.
	if err := s.deps.Catalog.IncrementViews(id); err != nil {
		s.log.Warn("view counter increment failed", "entry_id", id, "error", err)
	} else {
		e.Views++
	}

	writeJSON(w, http.StatusOK, entryToResponse(e))
}

func entryToResponse(e *catalog.Entry) entryResponse {
	resp := entryResponse{
		ID:          e.ID,
		Type:        string(e.Type),
		Title:       e.Title,
		Description: e.Description,
		Poster:      e.Poster,
		Backdrop:    e.Backdrop,
		Language:    e.Language,
		Categories:  e.Categories,
		Views:       e.Views,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
	if resp.Categories == nil {
		resp.Categories = []string{}
	}

	for _, l := range e.Links {
		playable := playlink.Resolve(l.URL)
		lr := linkResponse{
			ID:          l.ID,
			Quality:     l.Quality,
			URL:         playable.URL,
			DownloadURL: l.DownloadURL,
			Relay:       playable.Relay,
		}
		if playable.Relay {
			lr.WatchURL = fmt.Sprintf("/watch/%d", e.ID)
		}
		resp.Links = append(resp.Links, lr)
	}

	for _, season := range catalog.GroupBySeason(e.Episodes) {
		sr := seasonResponse{Season: season.Number}
		for _, ep := range season.Episodes {
			sr.Episodes = append(sr.Episodes, episodeResponse{
				ID:      ep.ID,
				Season:  ep.Season,
				Episode: ep.Episode,
				Title:   ep.Title,
				URL:     ep.URL,
			})
		}
		resp.Seasons = append(resp.Seasons, sr)
	}

	return resp
}

func linksFromRequest(entryID int64, reqs []linkRequest) []*catalog.Link {
	links := make([]*catalog.Link, len(reqs))
	for i, lr := range reqs {
		links[i] = &catalog.Link{
			EntryID:     entryID,
			Position:    i,
			Quality:     lr.Quality,
			URL:         lr.URL,
			DownloadURL: lr.DownloadURL,
		}
	}
	return links
}

func episodesFromRequest(entryID int64, reqs []episodeRequest) []*catalog.Episode {
	episodes := make([]*catalog.Episode, len(reqs))
	for i, er := range reqs {
		episodes[i] = &catalog.Episode{
			EntryID: entryID,
			Season:  er.Season,
			Episode: er.Episode,
			Title:   er.Title,
			URL:     er.URL,
		}
	}
	return episodes
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	entryType := catalog.EntryType(req.Type)
	if entryType != catalog.EntryTypeMovie && entryType != catalog.EntryTypeSeries {
		writeError(w, http.StatusBadRequest, "INVALID_TYPE", "type must be 'movie' or 'series'")
		return
	}
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "INVALID_TITLE", "title is required")
		return
	}

	e := &catalog.Entry{
		Type:        entryType,
		Title:       req.Title,
		Description: req.Description,
		Poster:      req.Poster,
		Backdrop:    req.Backdrop,
		Language:    req.Language,
		Categories:  req.Categories,
		Links:       linksFromRequest(0, req.Links),
		Episodes:    episodesFromRequest(0, req.Episodes),
	}

	if err := s.deps.Catalog.AddEntry(e); err != nil {
		if errors.Is(err, catalog.ErrDuplicate) {
			writeError(w, http.StatusConflict, "DUPLICATE", "Entry already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	s.appendEvent(r, events.EntryCreated, e.ID, e.Title)
	writeJSON(w, http.StatusCreated, entryToResponse(e))
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	var req updateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	e, err := s.deps.Catalog.GetEntry(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "Entry not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	if req.Title != nil {
		e.Title = *req.Title
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Poster != nil {
		e.Poster = *req.Poster
	}
	if req.Backdrop != nil {
		e.Backdrop = *req.Backdrop
	}
	if req.Language != nil {
		e.Language = *req.Language
	}
	if req.Categories != nil {
		e.Categories = *req.Categories
	}

	if err := s.deps.Catalog.UpdateEntry(e); err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	if req.Links != nil {
		e.Links = linksFromRequest(id, *req.Links)
		if err := s.deps.Catalog.ReplaceLinks(id, e.Links); err != nil {
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
	}
	if req.Episodes != nil {
		e.Episodes = episodesFromRequest(id, *req.Episodes)
		if err := s.deps.Catalog.ReplaceEpisodes(id, e.Episodes); err != nil {
			writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
			return
		}
	}

	s.appendEvent(r, events.EntryUpdated, id, e.Title)
	writeJSON(w, http.StatusOK, entryToResponse(e))
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}

	if err := s.deps.Catalog.DeleteEntry(id); err != nil {
		writeError(w, http.StatusInternalServerError, "DB_ERROR", err.Error())
		return
	}

	s.appendEvent(r, events.EntryDeleted, id, "")
	w.WriteHeader(http.StatusNoContent)
}

// appendEvent records an audit event when the event log is configured.
func (s *Server) appendEvent(r *http.Request, eventType string, entityID int64, detail string) {
	if s.deps.EventLog == nil {
		return
	}
	if _, err := s.deps.EventLog.Append(eventType, entityID, detail); err != nil {
		s.log.Warn("event append failed", "type", eventType, "entity_id", entityID, "error", err)
	}
}
