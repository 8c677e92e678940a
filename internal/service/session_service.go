package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/billscan/internal/metrics"
	"github.com/mmynk/billscan/internal/models"
	"github.com/mmynk/billscan/internal/ocr"
	"github.com/mmynk/billscan/internal/parser"
	"github.com/mmynk/billscan/internal/splitter"
	"github.com/mmynk/billscan/internal/storage"
	"github.com/mmynk/billscan/internal/upi"
)

// PaymentLink is a collect request for one participant's share.
type PaymentLink struct {
	PersonID string  `json:"person_id"`
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Link     string  `json:"link"`
}

// SessionService owns the bill-splitting workflow: it parses receipt
// text into sessions, serializes all session mutation through the
// store, and runs the allocation engine on immutable snapshots.
type SessionService struct {
	store     storage.Store
	extractor ocr.TextExtractor
}

// NewSessionService creates a session service backed by the given store
// and OCR extractor.
func NewSessionService(store storage.Store, extractor ocr.TextExtractor) *SessionService {
	return &SessionService{store: store, extractor: extractor}
}

// ParseText parses raw receipt text without creating a session.
func (s *SessionService) ParseText(rawText string) (*models.ReceiptData, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyText
	}
	metrics.ReceiptsParsed.WithLabelValues("text").Inc()
	return parser.Parse(rawText), nil
}

// ExtractAndParse runs OCR on an uploaded receipt image and parses
// the extracted text.
func (s *SessionService) ExtractAndParse(fileHeader *multipart.FileHeader) (string, *models.ReceiptData, error) {
	start := time.Now()
	rawText, err := s.extractor.ExtractText(fileHeader)
	if err != nil {
		slog.Error("OCR extraction failed", "filename", fileHeader.Filename, "error", err)
		return "", nil, fmt.Errorf("failed to read receipt image: %w", err)
	}
	metrics.OCRDuration.Observe(time.Since(start).Seconds())

	if strings.TrimSpace(rawText) == "" {
		return "", nil, ErrEmptyText
	}
	metrics.ReceiptsParsed.WithLabelValues("image").Inc()
	return rawText, parser.Parse(rawText), nil
}

// CreateSession parses raw receipt text and persists a new session
// for the user.
func (s *SessionService) CreateSession(ctx context.Context, userID, rawText string) (*models.Session, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyText
	}

	session := &models.Session{
		UserID:  userID,
		RawText: rawText,
		Receipt: parser.Parse(rawText),
		People:  []models.Person{},
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		slog.Error("Failed to create session", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.ReceiptsParsed.WithLabelValues("text").Inc()
	slog.Info("Session created", "session_id", session.ID, "user_id", userID,
		"items", len(session.Receipt.Items), "charges", len(session.Receipt.Charges))
	return session, nil
}

// GetSession retrieves a session owned by the user.
func (s *SessionService) GetSession(ctx context.Context, userID, sessionID string) (*models.Session, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrForbidden
	}
	return session, nil
}

// AddPerson adds a participant to the session.
func (s *SessionService) AddPerson(ctx context.Context, userID, sessionID, name, vpa string) (*models.Person, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("person name is required")
	}
	if _, err := s.GetSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	person := &models.Person{
		ID:   uuid.New().String(),
		Name: strings.TrimSpace(name),
		VPA:  strings.TrimSpace(vpa),
	}
	if err := s.store.AddPerson(ctx, sessionID, person); err != nil {
		slog.Error("Failed to add person", "session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to add person: %w", err)
	}

	slog.Info("Person added", "session_id", sessionID, "person_id", person.ID)
	return person, nil
}

// RemovePerson removes a participant and clears their item ownership.
func (s *SessionService) RemovePerson(ctx context.Context, userID, sessionID, personID string) error {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if session.Person(personID) == nil {
		return ErrNotParticipant
	}

	if err := s.store.RemovePerson(ctx, sessionID, personID); err != nil {
		slog.Error("Failed to remove person", "session_id", sessionID, "person_id", personID, "error", err)
		return fmt.Errorf("failed to remove person: %w", err)
	}

	slog.Info("Person removed", "session_id", sessionID, "person_id", personID)
	return nil
}

// SetItemOwners replaces one item's owner set and inclusion flag.
// Every owner must be a participant of the session.
func (s *SessionService) SetItemOwners(ctx context.Context, userID, sessionID, itemID string, owners []string, include bool) (*models.Session, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Receipt.Item(itemID) == nil {
		return nil, ErrItemNotFound
	}
	for _, owner := range owners {
		if session.Person(owner) == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotParticipant, owner)
		}
	}

	if err := s.store.SetItemOwners(ctx, sessionID, itemID, owners, include); err != nil {
		slog.Error("Failed to set item owners", "session_id", sessionID, "item_id", itemID, "error", err)
		return nil, fmt.Errorf("failed to set item owners: %w", err)
	}

	return s.store.GetSession(ctx, sessionID)
}

// ComputeSplit runs the allocation engine over the session's receipt.
// When participantIDs is empty, all session people participate.
func (s *SessionService) ComputeSplit(ctx context.Context, userID, sessionID string, participantIDs []string) (*models.AllocationResult, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	if len(participantIDs) == 0 {
		participantIDs = session.PersonIDs()
	} else {
		for _, id := range participantIDs {
			if session.Person(id) == nil {
				return nil, fmt.Errorf("%w: %s", ErrNotParticipant, id)
			}
		}
	}
	if len(participantIDs) == 0 {
		return nil, ErrNoParticipants
	}

	result := splitter.ComputeAllocations(session.Receipt, participantIDs)
	metrics.SplitsComputed.Inc()
	slog.Info("Split computed", "session_id", sessionID,
		"participants", len(participantIDs), "total", result.RoundedFinal.Sum())
	return result, nil
}

// BuildPaymentLink builds a UPI collect link for one participant's
// rounded share, payable to that person's VPA.
func (s *SessionService) BuildPaymentLink(ctx context.Context, userID, sessionID, personID string) (*PaymentLink, error) {
	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	person := session.Person(personID)
	if person == nil {
		return nil, ErrNotParticipant
	}
	if person.VPA == "" {
		return nil, ErrMissingVPA
	}

	result := splitter.ComputeAllocations(session.Receipt, session.PersonIDs())
	amount := result.RoundedFinal[personID]
	if amount <= 0 {
		return nil, fmt.Errorf("nothing owed by %s", person.Name)
	}

	note := strings.TrimSpace(fmt.Sprintf("Split - %s %s",
		merchantOr(session.Receipt, "Bill"), session.Receipt.Meta.Date))
	link, err := upi.BuildDeepLink(upi.LinkParams{
		VPA:    person.VPA,
		Name:   person.Name,
		Amount: amount,
		Note:   note,
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentLinks.WithLabelValues("link").Inc()
	return &PaymentLink{
		PersonID: personID,
		Name:     person.Name,
		Amount:   amount,
		Link:     link,
	}, nil
}

func merchantOr(receipt *models.ReceiptData, fallback string) string {
	if receipt.Meta.Merchant != "" {
		return receipt.Meta.Merchant
	}
	return fallback
}
