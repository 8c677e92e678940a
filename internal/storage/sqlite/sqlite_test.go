package sqlite

import (
	"context"
	"testing"

	"github.com/mmynk/billscan/internal/models"
	"github.com/mmynk/billscan/internal/storage"
)

func fptr(v float64) *float64 { return &v }

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(InMemory)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func createTestUser(t *testing.T, store *SQLiteStore) *models.User {
	t.Helper()
	user := models.NewUser("test@example.com", "Tester", "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func TestUserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	byEmail, err := store.GetUserByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if byEmail.ID != user.ID || byEmail.DisplayName != "Tester" {
		t.Errorf("GetUserByEmail = %+v, want ID=%s", byEmail, user.ID)
	}

	byID, err := store.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if byID.Email != user.Email {
		t.Errorf("GetUserByID email = %s, want %s", byID.Email, user.Email)
	}

	if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); err != storage.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	session := &models.Session{
		UserID:  user.ID,
		RawText: "2 IDLI 60.00",
		Receipt: &models.ReceiptData{
			Items: []models.LineItem{
				{ID: "item-0", Name: "IDLI", Quantity: 2, UnitPrice: 30, TotalPrice: 60, Include: true, Owners: []string{}},
			},
			Charges: []models.ChargeLine{
				{ID: "CGST-0", Type: models.ChargeCGST, Label: "CGST", Amount: 1.5},
			},
			Subtotal: fptr(60),
			Total:    fptr(61.5),
			Meta:     models.ReceiptMeta{Merchant: "IDLI H0U0E", Date: "15-08-2025"},
		},
		People: []models.Person{
			{Name: "Asha", VPA: "asha@upi"},
			{Name: "Ravi"},
		},
	}

	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.ID == "" {
		t.Fatal("expected session ID to be generated")
	}
	if session.People[0].ID == "" {
		t.Fatal("expected person IDs to be generated")
	}

	got, err := store.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.UserID != user.ID || got.RawText != session.RawText {
		t.Errorf("session = %+v, want user=%s", got, user.ID)
	}
	if len(got.Receipt.Items) != 1 || got.Receipt.Items[0].Name != "IDLI" {
		t.Errorf("items = %+v, want IDLI", got.Receipt.Items)
	}
	if len(got.Receipt.Charges) != 1 || got.Receipt.Charges[0].Type != models.ChargeCGST {
		t.Errorf("charges = %+v, want CGST", got.Receipt.Charges)
	}
	if got.Receipt.Subtotal == nil || *got.Receipt.Subtotal != 60 {
		t.Errorf("subtotal = %v, want 60", got.Receipt.Subtotal)
	}
	if got.Receipt.Total == nil || *got.Receipt.Total != 61.5 {
		t.Errorf("total = %v, want 61.5", got.Receipt.Total)
	}
	if len(got.People) != 2 || got.People[0].Name != "Asha" || got.People[0].VPA != "asha@upi" {
		t.Errorf("people = %+v, want Asha first", got.People)
	}

	if _, err := store.GetSession(ctx, "missing"); err != storage.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSessionWithUnknownTotals(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	session := &models.Session{
		UserID:  user.ID,
		Receipt: &models.ReceiptData{},
	}
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	got, err := store.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got.Receipt.Subtotal != nil || got.Receipt.Total != nil {
		t.Errorf("expected nil subtotal/total, got %v/%v", got.Receipt.Subtotal, got.Receipt.Total)
	}
}

func TestSetItemOwners(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	session := &models.Session{
		UserID: user.ID,
		Receipt: &models.ReceiptData{
			Items: []models.LineItem{
				{ID: "item-0", Name: "D00AI", Quantity: 1, TotalPrice: 120, Include: true, Owners: []string{}},
			},
		},
		People: []models.Person{{Name: "Asha"}, {Name: "Ravi"}},
	}
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	asha, ravi := session.People[0].ID, session.People[1].ID

	if err := store.SetItemOwners(ctx, session.ID, "item-0", []string{asha, ravi}, true); err != nil {
		t.Fatalf("SetItemOwners failed: %v", err)
	}

	got, err := store.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(got.Receipt.Items[0].Owners) != 2 {
		t.Fatalf("owners = %v, want 2", got.Receipt.Items[0].Owners)
	}

	// Replacing the owner set and excluding the item.
	if err := store.SetItemOwners(ctx, session.ID, "item-0", []string{ravi}, false); err != nil {
		t.Fatalf("SetItemOwners failed: %v", err)
	}
	got, err = store.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	item := got.Receipt.Items[0]
	if len(item.Owners) != 1 || item.Owners[0] != ravi {
		t.Errorf("owners = %v, want [%s]", item.Owners, ravi)
	}
	if item.Include {
		t.Error("expected item to be excluded")
	}

	if err := store.SetItemOwners(ctx, session.ID, "missing", nil, true); err != storage.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRemovePersonClearsOwnership(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	session := &models.Session{
		UserID: user.ID,
		Receipt: &models.ReceiptData{
			Items: []models.LineItem{
				{ID: "item-0", Name: "VADA", Quantity: 1, TotalPrice: 25, Include: true, Owners: []string{}},
			},
		},
		People: []models.Person{{Name: "Asha"}, {Name: "Ravi"}},
	}
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	asha, ravi := session.People[0].ID, session.People[1].ID
	if err := store.SetItemOwners(ctx, session.ID, "item-0", []string{asha, ravi}, true); err != nil {
		t.Fatalf("SetItemOwners failed: %v", err)
	}

	if err := store.RemovePerson(ctx, session.ID, asha); err != nil {
		t.Fatalf("RemovePerson failed: %v", err)
	}

	got, err := store.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(got.People) != 1 || got.People[0].ID != ravi {
		t.Errorf("people = %+v, want only Ravi", got.People)
	}
	if owners := got.Receipt.Items[0].Owners; len(owners) != 1 || owners[0] != ravi {
		t.Errorf("owners = %v, want only Ravi", owners)
	}
}

func TestSaveReceiptReplacesRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	user := createTestUser(t, store)

	session := &models.Session{
		UserID: user.ID,
		Receipt: &models.ReceiptData{
			Items: []models.LineItem{
				{ID: "item-0", Name: "0LD", Quantity: 1, TotalPrice: 10, Include: true, Owners: []string{}},
			},
		},
	}
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	replacement := &models.ReceiptData{
		Items: []models.LineItem{
			{ID: "item-0", Name: "NEW", Quantity: 2, UnitPrice: 15, TotalPrice: 30, Include: true, Owners: []string{}},
			{ID: "item-1", Name: "NEWER", Quantity: 1, UnitPrice: 5, TotalPrice: 5, Include: true, Owners: []string{}},
		},
		Total: fptr(35),
		Meta:  models.ReceiptMeta{Merchant: "NEW PLACE"},
	}
	if err := store.SaveReceipt(ctx, session.ID, replacement); err != nil {
		t.Fatalf("SaveReceipt failed: %v", err)
	}

	got, err := store.GetSession(ctx, session.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if len(got.Receipt.Items) != 2 || got.Receipt.Items[0].Name != "NEW" {
		t.Errorf("items = %+v, want replaced items", got.Receipt.Items)
	}
	if got.Receipt.Meta.Merchant != "NEW PLACE" {
		t.Errorf("merchant = %s, want NEW PLACE", got.Receipt.Meta.Merchant)
	}

	if err := store.SaveReceipt(ctx, "missing", replacement); err != storage.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
