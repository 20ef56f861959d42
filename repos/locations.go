package repos

import (
	"context"

	"github.com/automate/wallet-linker/models/userdata"
	"github.com/uptrace/bun"
)

type LocationRepo struct {
	db bun.IDB
}

func NewLocationRepo(db *bun.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (c *LocationRepo) InsertLocation(ctx context.Context, location userdata.Location) (*userdata.Location, error) {
	location.Id = 0

	_, err := c.db.NewInsert().Model(&location).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}

	return &location, nil
}

func (c *LocationRepo) GetLocation(ctx context.Context, id int64) (*userdata.Location, error) {
	location := new(userdata.Location)

	err := c.db.NewSelect().Model(location).Where("id = ?", id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	return location, nil
}

// UpdateLocation overwrites the five identity columns of the row with the given id.
func (c *LocationRepo) UpdateLocation(ctx context.Context, id int64, location userdata.Location) error {
	location.Id = id

	res, err := c.db.NewUpdate().
		Model(&location).
		Column("user_id", "comment_id", "issue_id", "repository_id", "organization_id").
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}

	return expectOneRow(res)
}
