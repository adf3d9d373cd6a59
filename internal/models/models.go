package models

import "time"

// User represents an account
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"`
	ProfilePicture string    `json:"profile_picture"`
	CoverPicture   string    `json:"cover_picture"`
	Name           string    `json:"name"`
	Bio            string    `json:"bio"`
	Age            *int      `json:"age,omitempty"`
	Website        string    `json:"website"`
	Followers      []string  `json:"followers"`
	Following      []string  `json:"following"`
	Posts          []string  `json:"posts"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Pin represents an image post
type Pin struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Link        string    `json:"link"`
	Comments    []string  `json:"comments"`
	Likes       []string  `json:"likes"`
	UserID      string    `json:"user_id"`
	BoardID     *string   `json:"board_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Board is a named group of pins owned by one user
type Board struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserID      string    `json:"user_id"`
	Pins        []string  `json:"pins"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Comment is a text reply on a pin
type Comment struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	UserID    string    `json:"user_id"`
	PinID     string    `json:"pin_id"`
	Author    *Author   `json:"author,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Author is the public part of a user joined onto comments and messages
type Author struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture"`
}

// Like records that a user liked a pin
type Like struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PinID     string    `json:"pin_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Follow records a directed follower -> following edge
type Follow struct {
	ID          string    `json:"id"`
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Save is the per-user collection of saved pins
type Save struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Pins      []string  `json:"pins"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a direct message between two users
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text"`
	Sender     *Author   `json:"sender,omitempty"`
	Receiver   *Author   `json:"receiver,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// PinPage is one page of a pin listing
type PinPage struct {
	Items       []*Pin `json:"items"`
	Total       int    `json:"total"`
	TotalPages  int    `json:"total_pages"`
	CurrentPage int    `json:"current_page"`
}

// UserProfile is the public view of a user with their posts and saved pins
type UserProfile struct {
	User      *User  `json:"user"`
	Posts     []*Pin `json:"posts"`
	SavedPins []*Pin `json:"saved_pins"`
}

// UserWithPins is a user listed together with the pins they own
type UserWithPins struct {
	User *User  `json:"user"`
	Pins []*Pin `json:"pins"`
}

// PinDetail is a pin with its comments resolved
type PinDetail struct {
	Pin      *Pin       `json:"pin"`
	Comments []*Comment `json:"comments"`
}

// CurrentUser is the signed-in user's own view
type CurrentUser struct {
	User   *User        `json:"user"`
	Pins   []*PinDetail `json:"pins"`
	Boards []*Board     `json:"boards"`
}

// SavedPins is a save record with the saved pins resolved
type SavedPins struct {
	Save *Save  `json:"save"`
	Pins []*Pin `json:"pins"`
}
