package store

import (
	"time"

	"github.com/sakif/devshare/internal/model"
)

// Fixed identities for the demonstration records. Stable IDs keep the seed
// accounts' posts and likes pointing at each other across reseeds of a fresh
// database.
const (
	seedUserAlexID  = "u1"
	seedUserSarahID = "u2"
)

// seedUsers returns the demonstration accounts a fresh database starts with.
// Neither has a stored credential; they sign in with the fixed seed-account
// password (see service.SeedAccountPassword).
func seedUsers() []model.User {
	return []model.User{
		{
			ID:        seedUserAlexID,
			Username:  "alex_dev",
			Email:     "alex@example.com",
			Bio:       "Frontend enthusiast & UI designer",
			AvatarURL: "https://picsum.photos/150/150?random=1",
			CreatedAt: now(),
		},
		{
			ID:        seedUserSarahID,
			Username:  "sarah_codes",
			Email:     "sarah@example.com",
			Bio:       "Fullstack wizard building scalable systems",
			AvatarURL: "https://picsum.photos/150/150?random=2",
			CreatedAt: now(),
		},
	}
}

const seedSnippetCode = `import { useState, useEffect } from 'react';

export function useDebounce<T>(value: T, delay: number): T {
  const [debouncedValue, setDebouncedValue] = useState(value);

  useEffect(() => {
    const handler = setTimeout(() => {
      setDebouncedValue(value);
    }, delay);

    return () => {
      clearTimeout(handler);
    };
  }, [value, delay]);

  return debouncedValue;
}`

// seedPosts returns the demonstration feed: one code snippet (with a
// comment) and one project showcase, dated a day and two days back so the
// feed has a sensible order out of the box.
func seedPosts() []model.Post {
	return []model.Post{
		{
			ID:     "p1",
			UserID: seedUserAlexID,
			Author: model.Author{
				Username:  "alex_dev",
				AvatarURL: "https://picsum.photos/150/150?random=1",
			},
			Type:        model.PostTypeSnippet,
			Title:       "React `useDebounce` Hook",
			Description: "A handy custom hook to delay function execution. Great for search inputs!",
			Language:    "typescript",
			Code:        seedSnippetCode,
			Tags:        []string{"react", "hooks", "frontend"},
			Likes:       []string{seedUserSarahID},
			Comments: []model.Comment{
				{
					ID:        "c1",
					PostID:    "p1",
					UserID:    seedUserSarahID,
					Username:  "sarah_codes",
					Content:   "I use a variation of this in almost every project. Nice and clean!",
					CreatedAt: now().Add(-1 * time.Hour),
				},
			},
			CreatedAt: now().Add(-24 * time.Hour),
		},
		{
			ID:     "p2",
			UserID: seedUserSarahID,
			Author: model.Author{
				Username:  "sarah_codes",
				AvatarURL: "https://picsum.photos/150/150?random=2",
			},
			Type:        model.PostTypeProject,
			Title:       "TaskFlow - Kanban Board",
			Description: "Just shipped v1.0 of my new open source project. It is a lightweight Kanban board built with Svelte and Rust.",
			ProjectURL:  "https://github.com/example/taskflow",
			Tags:        []string{"showcase", "opensource", "rust"},
			Likes:       []string{seedUserAlexID},
			Comments:    []model.Comment{},
			CreatedAt:   now().Add(-48 * time.Hour),
		},
	}
}
