package models

// EventPayload is the subset of an upstream event the wallet core reads. Identities are
// opaque values assigned by the event source.
type EventPayload struct {
	Sender       Account       `json:"sender"`
	Comment      Comment       `json:"comment"`
	Issue        Issue         `json:"issue"`
	Repository   Repository    `json:"repository"`
	Organization *Organization `json:"organization,omitempty"`
}

type Account struct {
	Id    int64  `json:"id" validate:"required,gt=0"`
	Login string `json:"login,omitempty"`
}

type Comment struct {
	Id   int64  `json:"id" validate:"required,gt=0"`
	Body string `json:"body,omitempty"`
}

type Issue struct {
	Id     int64 `json:"id" validate:"required,gt=0"`
	Number int64 `json:"number,omitempty"`
}

type Repository struct {
	Id    int64   `json:"id" validate:"required,gt=0"`
	Name  string  `json:"name,omitempty"`
	Owner Account `json:"owner"`
}

type Organization struct {
	Id    int64  `json:"id" validate:"required,gt=0"`
	Login string `json:"login,omitempty"`
}
