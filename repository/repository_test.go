package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tournament-platform/assets"
	"tournament-platform/db"
	"tournament-platform/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.OpenMemory(uuid.NewString())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return conn
}

func seedTeams(t *testing.T, repo *Repository[models.Team], names ...string) []models.Team {
	t.Helper()
	teams := make([]models.Team, 0, len(names))
	for _, n := range names {
		team := models.Team{Name: n, City: "Pune", LogoURL: "https://cdn.example.com/acct/team_images/" + n + ".png"}
		if err := repo.Create(context.Background(), &team); err != nil {
			t.Fatalf("create %s: %v", n, err)
		}
		teams = append(teams, team)
	}
	return teams
}

func TestRepository_CreateAndFind(t *testing.T) {
	repo := New[models.Team](openTestDB(t))
	ctx := context.Background()
	teams := seedTeams(t, repo, "Hawks")

	if teams[0].ID == "" {
		t.Fatal("expected an id to be assigned")
	}

	got, err := repo.FindByField(ctx, "name", "Hawks")
	if err != nil {
		t.Fatalf("find by name: %v", err)
	}
	if got.ID != teams[0].ID {
		t.Errorf("expected id %s, got %s", teams[0].ID, got.ID)
	}

	if _, err := repo.FindByID(ctx, uuid.NewString()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	exists, err := repo.Exists(ctx, "name", "Hawks")
	if err != nil || !exists {
		t.Errorf("expected Hawks to exist, got %v, %v", exists, err)
	}
	exists, err = repo.Exists(ctx, "name", "Bulls")
	if err != nil || exists {
		t.Errorf("expected Bulls not to exist, got %v, %v", exists, err)
	}
}

func TestRepository_UniqueViolation(t *testing.T) {
	repo := New[models.Team](openTestDB(t))
	seedTeams(t, repo, "Hawks")

	err := repo.Create(context.Background(), &models.Team{Name: "Hawks"})
	if err == nil {
		t.Fatal("expected unique violation")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("expected IsUniqueViolation for %v", err)
	}
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	repo := New[models.Team](openTestDB(t))
	ctx := context.Background()
	team := seedTeams(t, repo, "Hawks")[0]

	if err := repo.Update(ctx, team.ID, map[string]any{"city": "Mumbai", "logo_name": "1_logo.png"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := repo.FindByID(ctx, team.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.City != "Mumbai" || got.LogoName != "1_logo.png" {
		t.Errorf("update not applied: %+v", got)
	}

	if err := repo.Update(ctx, uuid.NewString(), map[string]any{"city": "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}

	if err := repo.Delete(ctx, team.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, team.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRepository_List(t *testing.T) {
	repo := New[models.Team](openTestDB(t))
	ctx := context.Background()
	seedTeams(t, repo, "Alpha Hawks", "Bravo", "Charlie Hawks", "Delta")

	rows, total, err := repo.List(ctx, ListQuery{
		Search:        "hawks",
		SearchColumns: []string{"name"},
		OrderBy:       []string{"name ASC"},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected 2 matches, got total=%d rows=%d", total, len(rows))
	}
	if rows[0].Name != "Alpha Hawks" || rows[1].Name != "Charlie Hawks" {
		t.Errorf("unexpected order: %s, %s", rows[0].Name, rows[1].Name)
	}

	rows, total, err = repo.List(ctx, ListQuery{OrderBy: []string{"name ASC"}, Offset: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if total != 4 {
		t.Errorf("expected total 4, got %d", total)
	}
	if len(rows) != 2 || rows[0].Name != "Bravo" {
		t.Errorf("unexpected page: %+v", rows)
	}

	rows, _, err = repo.List(ctx, ListQuery{Filters: map[string]any{"name": "Delta"}})
	if err != nil {
		t.Fatalf("list filter: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Delta" {
		t.Errorf("unexpected filter result: %+v", rows)
	}
}

func TestRepository_Transaction(t *testing.T) {
	repo := New[models.Team](openTestDB(t))
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx *gorm.DB) error {
		if err := repo.WithTx(tx).Create(ctx, &models.Team{Name: "Ghost"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if exists, _ := repo.Exists(ctx, "name", "Ghost"); exists {
		t.Error("transaction was not rolled back")
	}
}

func TestOrphanStore_SameNameInTwoFolders(t *testing.T) {
	conn := openTestDB(t)
	store := NewOrphanStore(conn)
	ctx := context.Background()

	for _, folder := range []string{assets.FolderTeams, assets.FolderPlayers} {
		a := assets.Asset{URL: "https://cdn.example.com/acct/" + folder + "/1_image.png", Name: "1_image.png", Folder: folder}
		if err := store.RecordOrphan(ctx, a, errors.New("denied")); err != nil {
			t.Fatalf("record %s: %v", folder, err)
		}
	}

	pending, err := store.Pending(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected one orphan per folder, got %d", len(pending))
	}
}

func TestOrphanStore(t *testing.T) {
	conn := openTestDB(t)
	store := NewOrphanStore(conn)
	ctx := context.Background()

	a := assets.Asset{URL: "https://cdn.example.com/acct/team_images/1_old.png", Name: "1_old.png", Folder: assets.FolderTeams}
	if err := store.RecordOrphan(ctx, a, errors.New("denied")); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := store.RecordOrphan(ctx, a, errors.New("timeout")); err != nil {
		t.Fatalf("record again: %v", err)
	}

	pending, err := store.Pending(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected one orphan, got %d", len(pending))
	}
	if pending[0].LastError != "timeout" {
		t.Errorf("expected latest error, got %q", pending[0].LastError)
	}

	if err := store.MarkFailed(ctx, pending[0].ID, errors.New("still denied")); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	pending, _ = store.Pending(ctx, 10)
	if pending[0].Attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", pending[0].Attempts)
	}

	if err := store.Resolve(ctx, pending[0].ID); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	pending, _ = store.Pending(ctx, 10)
	if len(pending) != 0 {
		t.Errorf("expected no orphans, got %d", len(pending))
	}
}
