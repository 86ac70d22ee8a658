package models

// Role is the permission tier of a Telegram user.
type Role string

const (
	// RoleGuest is any user outside the admin registry.
	RoleGuest Role = "guest"
	// RoleAdmin is a delegated admin granted by the root admin.
	RoleAdmin Role = "admin"
	// RoleRootAdmin is the single fixed highest-privilege identity.
	RoleRootAdmin Role = "root_admin"
)

// User is a registered bot user, created implicitly on first interaction.
type User struct {
	ID int64 `db:"user_id"`
}

// Subject is a study course owning zero or more lectures.
type Subject struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Lecture is an uploaded document attached to a subject. FileID is the
// opaque Telegram content handle.
type Lecture struct {
	ID        int64  `db:"id"`
	SubjectID int64  `db:"subject_id"`
	Title     string `db:"title"`
	FileID    string `db:"file_id"`
}

// Link is an entry of the curated important-links list. Position is the
// total order key; ties are broken by id, so (Position, ID) is always a
// well-defined order.
type Link struct {
	ID       int64  `db:"id"`
	Title    string `db:"title"`
	URL      string `db:"url"`
	Position int    `db:"position"`
}
