package memory

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reelfeed/reelfeed/internal/engine/feed"
)

var seedTitles = []string{
	"Heat", "Arrival", "Paddington 2", "The Thing", "In the Mood for Love",
	"Mad Max: Fury Road", "Spirited Away", "Zodiac", "Portrait of a Lady on Fire",
	"The Third Man", "Oldboy", "Moonlight",
}

// SeedOwners are the authors of seeded reviews.
var SeedOwners = []string{"alice", "bob", "carol"}

// Seed adds n demo reviews spread across SeedOwners, an hour apart, with
// the newest at the head of the feed.
func (s *Store) Seed(n int) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < n; i++ {
		title := seedTitles[i%len(seedTitles)]
		if round := i / len(seedTitles); round > 0 {
			title = fmt.Sprintf("%s (rewatch %d)", title, round)
		}
		post := feed.Post{
			ID:        uuid.NewString(),
			Title:     title,
			Content:   fmt.Sprintf("Notes on %s.", title),
			Owner:     SeedOwners[i%len(SeedOwners)],
			Rank:      i % (feed.MaxRank + 1),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		s.posts = append([]feed.Post{post}, s.posts...)
	}
}
