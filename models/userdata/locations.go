package userdata

import "github.com/uptrace/bun"

// Location is a snapshot of where an association event happened. Every field is an
// identity from the event source and is stored as-is.
type Location struct {
	bun.BaseModel `bun:"table:locations,alias:location"`

	Id             int64 `bun:",pk,autoincrement" json:"id"`
	UserId         int64 `json:"user_id"`
	CommentId      int64 `json:"comment_id"`
	IssueId        int64 `json:"issue_id"`
	RepositoryId   int64 `json:"repository_id"`
	OrganizationId int64 `json:"organization_id"`
}
