package model

import "time"

// PostType distinguishes the two kinds of posts.
// The type determines which optional payload fields are meaningful:
// a snippet carries Code+Language, a project carries ProjectURL.
// The store does not police this — it is a caller contract, enforced by
// service.PostService for callers that go through it.
type PostType string

const (
	PostTypeSnippet PostType = "snippet"
	PostTypeProject PostType = "project"
)

// Author is the denormalized author snapshot embedded in every post.
//
// It is copied from the User record at creation (and refreshed on edit), NOT
// live-joined on read. A later profile edit leaves existing posts showing the
// username/avatar the author had when they posted. That staleness is the
// documented contract, not a bug — see DESIGN.md.
type Author struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// Comment is owned and embedded by its Post. Comments have no independent
// lifecycle: deleting a post discards its comments, and individual comments
// are never edited or deleted. Username is a denormalized snapshot, like
// Post.Author.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post represents a published snippet or project showcase.
//
// Likes holds liker user IDs and acts as a set: ToggleLike removes every
// occurrence of a user ID or appends it once. Comments preserve insertion
// order and are never re-sorted.
//
// Code/Language are only meaningful when Type is snippet, ProjectURL when
// Type is project (see PostType).
type Post struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Author      Author    `json:"author"`
	Type        PostType  `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code,omitempty"`
	Language    string    `json:"language,omitempty"`
	ProjectURL  string    `json:"projectUrl,omitempty"`
	Tags        []string  `json:"tags"`
	Likes       []string  `json:"likes"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LikedBy reports whether userID is present in the post's like list.
func (p *Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
