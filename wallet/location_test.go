package wallet

import (
	"testing"

	"github.com/automate/wallet-linker/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildLocationMetadata(t *testing.T) {
	payload := models.EventPayload{
		Sender:       models.Account{Id: 42},
		Comment:      models.Comment{Id: 100},
		Issue:        models.Issue{Id: 200},
		Repository:   models.Repository{Id: 300, Owner: models.Account{Id: 7}},
		Organization: &models.Organization{Id: 400},
	}

	assert.Equal(t, LocationMetadata{
		UserId:         42,
		CommentId:      100,
		IssueId:        200,
		RepositoryId:   300,
		OrganizationId: 400,
	}, BuildLocationMetadata(payload))

	payload.Organization = nil
	assert.Equal(t, int64(7), BuildLocationMetadata(payload).OrganizationId)
}
