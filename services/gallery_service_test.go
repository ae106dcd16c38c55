package services

import (
	"errors"
	"net/http"
	"testing"

	"tournament-platform/models"
	"tournament-platform/utils"
)

func newGalleryEnv(t *testing.T) *testEnv {
	e := newTestEnv(t)
	svc := NewGalleryService(e.db, e.assets, nopLogger)
	e.app.Post("/gallery", svc.UploadPhoto)
	e.app.Get("/gallery", svc.GetGallery)
	e.app.Delete("/gallery/:id", svc.DeletePhoto)
	return e
}

func TestGalleryUpload(t *testing.T) {
	e := newGalleryEnv(t)
	tour := e.seedTournament("Summer Cup")

	body, ct := multipartBody(t, map[string]any{"caption": "Tip-off", "tournament_id": tour.ID}, nil, pngPart("photo", "tip.png", 300))
	resp := e.do(http.MethodPost, "/gallery", body, ct)
	resp.expect(t, http.StatusCreated)

	var item models.GalleryItem
	resp.decode(t, &item)
	if item.TournamentID == nil || *item.TournamentID != tour.ID || item.PhotoURL == "" {
		t.Errorf("unexpected item %+v", item)
	}

	body, ct = multipartBody(t, nil, nil, pngPart("photo", "loose.png", 300))
	e.do(http.MethodPost, "/gallery", body, ct).expect(t, http.StatusCreated)

	resp = e.do(http.MethodGet, "/gallery?tournament_id="+tour.ID, nil, "")
	resp.expect(t, http.StatusOK)
	var page utils.Page[models.GalleryItem]
	resp.decode(t, &page)
	if page.Total != 1 || page.Items[0].Caption != "Tip-off" {
		t.Errorf("unexpected filtered page %+v", page)
	}

	resp = e.do(http.MethodGet, "/gallery", nil, "")
	resp.expect(t, http.StatusOK)
	resp.decode(t, &page)
	if page.Total != 2 {
		t.Errorf("expected 2 items, got %d", page.Total)
	}
}

func TestGalleryUpload_Rejections(t *testing.T) {
	e := newGalleryEnv(t)

	body, ct := multipartBody(t, map[string]any{"caption": "no photo"}, nil)
	e.do(http.MethodPost, "/gallery", body, ct).expect(t, http.StatusBadRequest)

	body, ct = multipartBody(t, map[string]any{"tournament_id": "nope"}, nil, pngPart("photo", "a.png", 10))
	e.do(http.MethodPost, "/gallery", body, ct).expect(t, http.StatusNotFound)

	e.store.UploadErr = errors.New("offline")
	body, ct = multipartBody(t, nil, nil, pngPart("photo", "a.png", 10))
	resp := e.do(http.MethodPost, "/gallery", body, ct)
	resp.expect(t, http.StatusInternalServerError)
	if resp.Message != "Failed to store image" {
		t.Errorf("unexpected message %q", resp.Message)
	}

	if e.count(&models.GalleryItem{}, "") != 0 {
		t.Error("no gallery item should be stored")
	}
}

func TestGalleryDelete(t *testing.T) {
	e := newGalleryEnv(t)

	body, ct := multipartBody(t, nil, nil, pngPart("photo", "a.png", 10))
	resp := e.do(http.MethodPost, "/gallery", body, ct)
	resp.expect(t, http.StatusCreated)
	var item models.GalleryItem
	resp.decode(t, &item)

	e.do(http.MethodDelete, "/gallery/"+item.ID, nil, "").expect(t, http.StatusOK)
	if e.store.Len() != 0 {
		t.Error("photo should be removed from the store")
	}
	e.do(http.MethodDelete, "/gallery/"+item.ID, nil, "").expect(t, http.StatusNotFound)
}
