package domain

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	// RecentWindow is how far back a publish date still counts as recent.
	RecentWindow = 24 * time.Hour

	MaxQuestionTextLen = 200
	MaxChoiceTextLen   = 200
)

type Question struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"question_text"`
	PubDate   time.Time `json:"pub_date"`
	Choices   []Choice  `json:"choices"`
	CreatedAt time.Time `json:"created_at"`
}

type Choice struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"choice_text"`
	Votes      int       `json:"votes"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsPublished reports whether pubDate is at or before now.
func IsPublished(pubDate, now time.Time) bool {
	return !pubDate.After(now)
}

// WasPublishedRecently reports whether pubDate falls inside [now-RecentWindow, now].
func WasPublishedRecently(pubDate, now time.Time) bool {
	return IsPublished(pubDate, now) && !pubDate.Before(now.Add(-RecentWindow))
}

func (q *Question) IsPublished(now time.Time) bool {
	return IsPublished(q.PubDate, now)
}

func (q *Question) WasPublishedRecently(now time.Time) bool {
	return WasPublishedRecently(q.PubDate, now)
}

// IsListable reports whether q belongs in the index listing at now.
// Questions without choices are left out even when published.
func (q *Question) IsListable(now time.Time) bool {
	return q.IsPublished(now) && len(q.Choices) > 0
}

// SortLatestFirst orders questions by publish date, newest first. Equal
// dates keep creation order, which UUIDv7 ids encode.
func SortLatestFirst(questions []*Question) {
	sort.SliceStable(questions, func(i, j int) bool {
		a, b := questions[i], questions[j]
		if !a.PubDate.Equal(b.PubDate) {
			return a.PubDate.After(b.PubDate)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})
}
