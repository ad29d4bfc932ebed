package storyapi

import "time"

// Story mirrors a story record as returned by the service.
type Story struct {
	StoryID   string    `json:"storyId"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// User mirrors the user payload, including the full favorite and owned story
// records.
type User struct {
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
	Favorites []Story   `json:"favorites"`
	Stories   []Story   `json:"stories"`
}

// NewStory is the client-submitted part of a story.
type NewStory struct {
	Author string `json:"author" validate:"required,max=200"`
	Title  string `json:"title" validate:"required,max=300"`
	URL    string `json:"url" validate:"required,http_url"`
}

// Credentials are the login/signup fields.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

// AuthResponse mirrors /login and /signup.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserResponse mirrors /users/{username} and the favorites endpoints.
type UserResponse struct {
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

// StoryListResponse mirrors GET /stories.
type StoryListResponse struct {
	Stories []Story `json:"stories"`
}

// StoryResponse mirrors POST and DELETE /stories.
type StoryResponse struct {
	Message string `json:"message,omitempty"`
	Story   Story  `json:"story"`
}

// ErrorResponse mirrors the service error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the inner error payload.
type ErrorBody struct {
	Status  int    `json:"status"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type authRequest struct {
	User Credentials `json:"user"`
}

type tokenRequest struct {
	Token string `json:"token"`
}

type createStoryRequest struct {
	Token string   `json:"token"`
	Story NewStory `json:"story"`
}
