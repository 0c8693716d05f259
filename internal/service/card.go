package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Erespul/flashcards.github.io/internal/models"
	"github.com/Erespul/flashcards.github.io/internal/table"
)

// CardService implements flashcard use-cases over the flashcards table.
// Every operation is a full linear scan; at this scale that is the
// contract, not a shortcut.
type CardService struct {
	store Store
}

// NewCardService constructs a CardService over the given flashcards table.
func NewCardService(store Store) *CardService {
	return &CardService{store: store}
}

// NewCard carries the caller-supplied fields for Create. Name,
// Collection and the image fields default to "".
type NewCard struct {
	Name          string
	Question      string
	Answer        string
	Collection    string
	ImageQuestion string
	ImageAnswer   string
}

// CardUpdate carries the fields for Update. Name, Question, Answer and
// Collection always overwrite the stored values. The image fields only
// overwrite when non-nil: an explicit empty string clears a stored
// image, nil preserves it.
type CardUpdate struct {
	Name          string
	Question      string
	Answer        string
	Collection    string
	ImageQuestion *string
	ImageAnswer   *string
}

// NextID returns max(existing ids)+1, or 1 for an empty or absent
// table. Rows whose id does not parse as an integer are skipped.
func (s *CardService) NextID(ctx context.Context) (int, error) {
	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("read flashcards: %w", err)
	}
	maxID := 0
	for _, row := range rows {
		id, err := strconv.Atoi(row.Get("id"))
		if err != nil {
			continue
		}
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

// ListForUser returns the user's flashcards in stable file order. The
// owner match is case-insensitive.
func (s *CardService) ListForUser(ctx context.Context, email string) ([]models.Flashcard, error) {
	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read flashcards: %w", err)
	}
	var cards []models.Flashcard
	for _, row := range rows {
		if strings.EqualFold(row.Get("user_email"), email) {
			cards = append(cards, cardFromRow(row))
		}
	}
	return cards, nil
}

// Collections returns the distinct non-empty collection labels across
// the user's flashcards, sorted ascending.
func (s *CardService) Collections(ctx context.Context, email string) ([]string, error) {
	cards, err := s.ListForUser(ctx, email)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	for _, card := range cards {
		if card.Collection != "" {
			seen[card.Collection] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Create validates the card, assigns the next id and appends it with
// the current timestamp. It returns the new id.
func (s *CardService) Create(ctx context.Context, email string, card NewCard) (int, error) {
	if card.Question == "" || card.Answer == "" {
		return 0, ErrCardIncomplete
	}

	id, err := s.NextID(ctx)
	if err != nil {
		return 0, err
	}

	err = s.store.Append(ctx, table.Row{
		"id":             strconv.Itoa(id),
		"user_email":     email,
		"name":           card.Name,
		"question":       card.Question,
		"answer":         card.Answer,
		"image_question": card.ImageQuestion,
		"image_answer":   card.ImageAnswer,
		"collection":     card.Collection,
		"created_at":     now().Format(timeLayout),
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites the row matching id and owner, then rewrites the
// whole table. It returns ErrNotFound when no row matched.
func (s *CardService) Update(ctx context.Context, id int, email string, upd CardUpdate) error {
	if upd.Question == "" || upd.Answer == "" {
		return ErrCardIncomplete
	}

	matched, err := s.rewriteWith(ctx, func(row table.Row) (table.Row, bool) {
		if !ownedBy(row, id, email) {
			return row, false
		}
		row["name"] = upd.Name
		row["question"] = upd.Question
		row["answer"] = upd.Answer
		row["collection"] = upd.Collection
		if upd.ImageQuestion != nil {
			row["image_question"] = *upd.ImageQuestion
		}
		if upd.ImageAnswer != nil {
			row["image_answer"] = *upd.ImageAnswer
		}
		return row, true
	})
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// Delete removes the row matching id and owner. It returns ErrNotFound
// when no row matched.
func (s *CardService) Delete(ctx context.Context, id int, email string) error {
	matched, err := s.rewriteWith(ctx, func(row table.Row) (table.Row, bool) {
		if ownedBy(row, id, email) {
			return nil, true
		}
		return row, false
	})
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// DeleteCollection removes every flashcard whose collection matches
// name exactly (case-sensitive) and whose owner matches email
// (case-insensitive). It returns ErrNotFound when no row was removed.
func (s *CardService) DeleteCollection(ctx context.Context, name, email string) error {
	matched, err := s.rewriteWith(ctx, func(row table.Row) (table.Row, bool) {
		if row.Get("collection") == name && strings.EqualFold(row.Get("user_email"), email) {
			return nil, true
		}
		return row, false
	})
	if err != nil {
		return err
	}
	if !matched {
		return ErrNotFound
	}
	return nil
}

// GetByID returns the first row matching id and owner, or ErrNotFound.
func (s *CardService) GetByID(ctx context.Context, id int, email string) (models.Flashcard, error) {
	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return models.Flashcard{}, fmt.Errorf("read flashcards: %w", err)
	}
	for _, row := range rows {
		if ownedBy(row, id, email) {
			return cardFromRow(row), nil
		}
	}
	return models.Flashcard{}, ErrNotFound
}

// rewriteWith runs fn over every row and rewrites the table with what
// fn returns. fn keeps a row by returning it (possibly modified) and
// drops it by returning nil; its second result marks the row as
// matched. rewriteWith reports whether any row matched. Rows fn does
// not touch pass through unmodified, including rows with unparseable
// ids.
func (s *CardService) rewriteWith(ctx context.Context, fn func(table.Row) (table.Row, bool)) (bool, error) {
	rows, err := s.store.ReadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("read flashcards: %w", err)
	}

	kept := make([]table.Row, 0, len(rows))
	matched := false
	for _, row := range rows {
		out, hit := fn(row)
		if hit {
			matched = true
		}
		if out != nil {
			kept = append(kept, out)
		}
	}

	if err := s.store.Rewrite(ctx, kept); err != nil {
		return false, fmt.Errorf("rewrite flashcards: %w", err)
	}
	return matched, nil
}

// ownedBy reports whether row matches both the card id and the owner
// email (case-insensitive). Ownership always requires both.
func ownedBy(row table.Row, id int, email string) bool {
	return row.Get("id") == strconv.Itoa(id) && strings.EqualFold(row.Get("user_email"), email)
}

func cardFromRow(row table.Row) models.Flashcard {
	// An unparseable id maps to 0; the row itself is still surfaced.
	id, _ := strconv.Atoi(row.Get("id"))
	return models.Flashcard{
		ID:            id,
		UserEmail:     row.Get("user_email"),
		Name:          row.Get("name"),
		Question:      row.Get("question"),
		Answer:        row.Get("answer"),
		ImageQuestion: row.Get("image_question"),
		ImageAnswer:   row.Get("image_answer"),
		Collection:    row.Get("collection"),
		CreatedAt:     row.Get("created_at"),
	}
}
