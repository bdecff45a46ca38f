package forum

import "time"

// Reply is one threaded answer embedded in its post.
type Reply struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Post is one community forum entry. Replies live inside the post payload;
// the whole post is rewritten on every reply or like, mirroring the portal's
// whole-collection write model. Posts are never deleted.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Language  string    `json:"language"`
	Tags      []string  `json:"tags"`
	Likes     int       `json:"likes"`
	Replies   []Reply   `json:"replies"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
