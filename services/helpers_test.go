package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"tournament-platform/assets"
	"tournament-platform/config"
	"tournament-platform/db"
	"tournament-platform/models"
	"tournament-platform/repository"
	"tournament-platform/storage/mocks"
)

const testCDN = "https://cdn.example.com/acct"

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	store   *mocks.MemoryStore
	assets  *assets.Manager
	orphans *repository.OrphanStore
	app     *fiber.App
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := db.OpenMemory(uuid.NewString())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store := mocks.NewMemoryStore(testCDN)
	orphans := repository.NewOrphanStore(conn)
	am := assets.NewManager(store, assets.Options{
		Protected: []string{config.DefaultPlayerPhotoURL, config.DefaultTeamLogoURL},
		Orphans:   orphans,
	})

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "user-1")
		return c.Next()
	})

	return &testEnv{t: t, db: conn, store: store, assets: am, orphans: orphans, app: app}
}

type part struct {
	field       string
	filename    string
	contentType string
	content     []byte
}

func pngPart(field, filename string, size int) part {
	return part{field: field, filename: filename, contentType: "image/png", content: bytes.Repeat([]byte{0x89}, size)}
}

// multipartBody builds a form with a JSON "data" field, extra text fields and
// file parts.
func multipartBody(t *testing.T, data any, fields map[string]string, parts ...part) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal data: %v", err)
		}
		if err := w.WriteField("data", string(raw)); err != nil {
			t.Fatalf("write data: %v", err)
		}
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, p.filename))
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := pw.Write(p.content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func jsonBody(t *testing.T, v any) (io.Reader, string) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(raw), fiber.MIMEApplicationJSON
}

type response struct {
	Status  int
	Success bool
	Message string
	Data    json.RawMessage
}

func (e *testEnv) do(method, path string, body io.Reader, contentType string) response {
	e.t.Helper()
	return e.send(method, path, body, contentType, nil)
}

// doAs sends the request with the gateway user headers for roles.
func (e *testEnv) doAs(roles, method, path string, body io.Reader, contentType string) response {
	e.t.Helper()
	return e.send(method, path, body, contentType, map[string]string{
		"X-User-ID":    "user-1",
		"X-User-Roles": roles,
	})
}

func (e *testEnv) send(method, path string, body io.Reader, contentType string, headers map[string]string) response {
	e.t.Helper()

	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.app.Test(req, -1)
	if err != nil {
		e.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	raw, _ := io.ReadAll(resp.Body)
	if err := json.Unmarshal(raw, &envelope); err != nil {
		e.t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
	}
	return response{Status: resp.StatusCode, Success: envelope.Success, Message: envelope.Message, Data: envelope.Data}
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	if err := json.Unmarshal(r.Data, v); err != nil {
		t.Fatalf("decode data %s: %v", r.Data, err)
	}
}

func (r response) expect(t *testing.T, status int) {
	t.Helper()
	if r.Status != status {
		t.Fatalf("expected status %d, got %d (message %q)", status, r.Status, r.Message)
	}
}

// seedPlayer inserts a player with statistics directly.
func (e *testEnv) seedPlayer(first, mobile string) models.Player {
	e.t.Helper()
	p := models.Player{FirstName: first, Mobile: mobile, PhotoURL: config.DefaultPlayerPhotoURL}
	if err := e.db.Create(&p).Error; err != nil {
		e.t.Fatalf("seed player: %v", err)
	}
	if err := e.db.Create(&models.PlayerStatistics{PlayerID: p.ID}).Error; err != nil {
		e.t.Fatalf("seed stats: %v", err)
	}
	return p
}

func (e *testEnv) seedTeam(name string, players ...models.Player) models.Team {
	e.t.Helper()
	team := models.Team{Name: name, LogoURL: config.DefaultTeamLogoURL}
	if err := e.db.Create(&team).Error; err != nil {
		e.t.Fatalf("seed team: %v", err)
	}
	for _, p := range players {
		if err := e.db.Create(&models.TeamPlayer{TeamID: team.ID, PlayerID: p.ID}).Error; err != nil {
			e.t.Fatalf("seed roster: %v", err)
		}
	}
	return team
}

func (e *testEnv) seedTournament(name string, teams ...models.Team) models.Tournament {
	e.t.Helper()
	tour := models.Tournament{
		Name:      name,
		Slug:      strings.ToLower(strings.ReplaceAll(name, " ", "-")) + "-" + uuid.NewString()[:8],
		Status:    models.TournamentUpcoming,
		StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC),
	}
	if err := e.db.Create(&tour).Error; err != nil {
		e.t.Fatalf("seed tournament: %v", err)
	}
	for _, team := range teams {
		if err := e.db.Create(&models.TournamentRegistration{TournamentID: tour.ID, TeamID: team.ID}).Error; err != nil {
			e.t.Fatalf("seed registration: %v", err)
		}
	}
	return tour
}

func (e *testEnv) count(model any, where string, args ...any) int64 {
	e.t.Helper()
	var n int64
	q := e.db.Model(model)
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		e.t.Fatalf("count: %v", err)
	}
	return n
}

func (e *testEnv) pendingOrphans() []models.OrphanedAsset {
	e.t.Helper()
	rows, err := e.orphans.Pending(context.Background(), 100)
	if err != nil {
		e.t.Fatalf("pending orphans: %v", err)
	}
	return rows
}

var nopLogger = zerolog.Nop()
