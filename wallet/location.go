package wallet

import (
	"github.com/automate/wallet-linker/models"
	"github.com/automate/wallet-linker/models/userdata"
	"github.com/rs/zerolog"
)

// LocationMetadata records who triggered an association event and where it happened.
type LocationMetadata struct {
	UserId         int64 `json:"user_id"`
	CommentId      int64 `json:"comment_id"`
	IssueId        int64 `json:"issue_id"`
	RepositoryId   int64 `json:"repository_id"`
	OrganizationId int64 `json:"organization_id"`
}

// BuildLocationMetadata derives the location of an event. Repositories outside an
// organization report their owner as the organization.
func BuildLocationMetadata(payload models.EventPayload) LocationMetadata {
	orgId := payload.Repository.Owner.Id
	if payload.Organization != nil {
		orgId = payload.Organization.Id
	}

	return LocationMetadata{
		UserId:         payload.Sender.Id,
		CommentId:      payload.Comment.Id,
		IssueId:        payload.Issue.Id,
		RepositoryId:   payload.Repository.Id,
		OrganizationId: orgId,
	}
}

func (m LocationMetadata) Location() userdata.Location {
	return userdata.Location{
		UserId:         m.UserId,
		CommentId:      m.CommentId,
		IssueId:        m.IssueId,
		RepositoryId:   m.RepositoryId,
		OrganizationId: m.OrganizationId,
	}
}

func (m LocationMetadata) MarshalZerologObject(e *zerolog.Event) {
	e.Int64("user_id", m.UserId).
		Int64("comment_id", m.CommentId).
		Int64("issue_id", m.IssueId).
		Int64("repository_id", m.RepositoryId).
		Int64("organization_id", m.OrganizationId)
}
