package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/Dosada05/tournament-draw/models"
	"github.com/Dosada05/tournament-draw/storage"
)

// fakeUploader копит загруженные ключи и умеет падать на Create по запросу.
type fakeUploader struct {
	uploaded []string
	deleted  []string
	baseURL  string
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (*storage.UploadResult, error) {
	u.uploaded = append(u.uploaded, key)
	return &storage.UploadResult{Key: key}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	if u.baseURL == "" {
		return ""
	}
	return u.baseURL + "/" + key
}

func TestRegisterStoresSlipAndParsesOptionalFields(t *testing.T) {
	playerRepo := newFakePlayerRepository()
	uploader := &fakeUploader{baseURL: "https://cdn.example.com"}
	svc := NewPlayerService(playerRepo, uploader, discardLogger())

	player, err := svc.Register(context.Background(), RegisterPlayerInput{
		FirstName:   "Anna",
		LastName:    "Lee",
		Affiliation: "Falcon Club",
		SeedRank:    "3",
		Category:    "ws",
	}, strings.NewReader("slip-bytes"), "image/png")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if player.ID == 0 {
		t.Error("registered player must get an id")
	}
	if player.IsPaid {
		t.Error("registration must not mark the player as paid")
	}
	if player.Affiliation == nil || *player.Affiliation != "Falcon Club" {
		t.Errorf("affiliation lost: %v", player.Affiliation)
	}
	if player.SeedRank == nil || *player.SeedRank != 3 {
		t.Errorf("seed rank lost: %v", player.SeedRank)
	}
	if len(uploader.uploaded) != 1 || !strings.HasSuffix(uploader.uploaded[0], ".png") {
		t.Errorf("slip not uploaded with .png extension: %v", uploader.uploaded)
	}
	if player.SlipURL == nil || !strings.HasPrefix(*player.SlipURL, "https://cdn.example.com/slips/") {
		t.Errorf("slip URL not populated: %v", player.SlipURL)
	}
}

func TestRegisterTreatsDashAsAbsent(t *testing.T) {
	svc := NewPlayerService(newFakePlayerRepository(), &fakeUploader{}, discardLogger())

	player, err := svc.Register(context.Background(), RegisterPlayerInput{
		FirstName:   "Boris",
		LastName:    "Kim",
		Affiliation: "-",
		SeedRank:    "-",
		Category:    "ms",
	}, strings.NewReader("slip"), "application/pdf")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if player.Affiliation != nil {
		t.Errorf("dash affiliation must stay empty, got %q", *player.Affiliation)
	}
	if player.SeedRank != nil {
		t.Errorf("dash seed rank must stay empty, got %d", *player.SeedRank)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewPlayerService(newFakePlayerRepository(), &fakeUploader{}, discardLogger())

	_, err := svc.Register(context.Background(), RegisterPlayerInput{LastName: "Kim", Category: "ms"}, strings.NewReader("x"), "image/png")
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("missing firstname: expected ErrValidationFailed, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterPlayerInput{FirstName: "A", LastName: "B", Category: "ms"}, nil, "image/png")
	if !errors.Is(err, ErrSlipRequired) {
		t.Errorf("missing slip: expected ErrSlipRequired, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterPlayerInput{FirstName: "A", LastName: "B", Category: "ms"}, strings.NewReader("x"), "text/html")
	if !errors.Is(err, ErrUnsupportedSlipContent) {
		t.Errorf("bad content type: expected ErrUnsupportedSlipContent, got %v", err)
	}

	_, err = svc.Register(context.Background(), RegisterPlayerInput{FirstName: "A", LastName: "B", Category: "ms", SeedRank: "zero"}, strings.NewReader("x"), "image/png")
	if !errors.Is(err, ErrValidationFailed) {
		t.Errorf("bad seed rank: expected ErrValidationFailed, got %v", err)
	}
}

func TestSearchPaymentsEmptyQuery(t *testing.T) {
	svc := NewPlayerService(newFakePlayerRepository(), &fakeUploader{}, discardLogger())

	results, err := svc.SearchPayments(context.Background(), "")
	if err != nil {
		t.Fatalf("SearchPayments returned error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("empty query must yield no results, got %d", len(results))
	}
}

func TestApproveMarksPlayerPaid(t *testing.T) {
	playerRepo := newFakePlayerRepository(
		&models.Player{ID: 1, FirstName: "Anna", LastName: "Lee", Category: "ws"},
	)
	svc := NewPlayerService(playerRepo, &fakeUploader{}, discardLogger())

	player, err := svc.Approve(context.Background(), 1)
	if err != nil {
		t.Fatalf("Approve returned error: %v", err)
	}
	if !player.IsPaid {
		t.Error("approved player must be paid")
	}

	if _, err := svc.Approve(context.Background(), 42); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestListGroupedKeysByCategoryAndGroup(t *testing.T) {
	groupA, groupB := "A", "B"
	playerRepo := newFakePlayerRepository(
		&models.Player{ID: 1, FirstName: "Anna", LastName: "Lee", Category: "ms", GroupName: &groupA, IsPaid: true},
		&models.Player{ID: 2, FirstName: "Boris", LastName: "Kim", Category: "ms", GroupName: &groupA, IsPaid: true},
		&models.Player{ID: 3, FirstName: "Clara", LastName: "Osa", Category: "ms", GroupName: &groupB, IsPaid: true},
		&models.Player{ID: 4, FirstName: "Dana", LastName: "Pak", Category: "ws", GroupName: &groupA, IsPaid: true},
		&models.Player{ID: 5, FirstName: "Egor", LastName: "Ten", Category: "ws", IsPaid: true},
	)
	svc := NewPlayerService(playerRepo, &fakeUploader{}, discardLogger())

	grouped, err := svc.ListGrouped(context.Background())
	if err != nil {
		t.Fatalf("ListGrouped returned error: %v", err)
	}
	if len(grouped) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(grouped))
	}
	if got := len(grouped["ms"]["A"]); got != 2 {
		t.Errorf("ms/A: expected 2 players, got %d", got)
	}
	if got := len(grouped["ms"]["B"]); got != 1 {
		t.Errorf("ms/B: expected 1 player, got %d", got)
	}
	if got := len(grouped["ws"]["A"]); got != 1 {
		t.Errorf("ws/A: expected 1 player, got %d", got)
	}
	// Игрок без группы в выдачу не попадает.
	if _, ok := grouped["ws"][""]; ok {
		t.Error("ungrouped player must not appear in the listing")
	}
	if grouped["ms"]["A"][0].ID != 1 || grouped["ms"]["A"][1].ID != 2 {
		t.Errorf("ms/A must keep repository order, got %v", grouped["ms"]["A"])
	}
}

func TestAssignGroups(t *testing.T) {
	playerRepo := newFakePlayerRepository(
		&models.Player{ID: 1, FirstName: "Anna", LastName: "Lee", Category: "ws", IsPaid: true},
		&models.Player{ID: 2, FirstName: "Boris", LastName: "Kim", Category: "ws", IsPaid: false},
	)
	svc := NewPlayerService(playerRepo, &fakeUploader{}, discardLogger())

	if err := svc.AssignGroups(context.Background(), nil); !errors.Is(err, ErrGroupAssignmentsRequired) {
		t.Errorf("empty assignments: expected ErrGroupAssignmentsRequired, got %v", err)
	}

	err := svc.AssignGroups(context.Background(), []GroupAssignment{{PlayerID: 2, GroupName: "A"}})
	if !errors.Is(err, ErrGroupAssignmentPlayerPaid) {
		t.Errorf("unpaid player: expected ErrGroupAssignmentPlayerPaid, got %v", err)
	}

	err = svc.AssignGroups(context.Background(), []GroupAssignment{{PlayerID: 1, GroupName: "A"}})
	if err != nil {
		t.Fatalf("AssignGroups returned error: %v", err)
	}
	stored, _ := playerRepo.GetByID(context.Background(), 1)
	if stored.GroupName == nil || *stored.GroupName != "A" {
		t.Errorf("group not persisted: %v", stored.GroupName)
	}
}
