package repos

import (
	"context"

	"github.com/automate/wallet-linker/models/userdata"
	"github.com/uptrace/bun"
)

type WalletRepo struct {
	db bun.IDB
}

func NewWalletRepo(db *bun.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

// FindWalletByAddress returns nil without an error on a miss. An empty address never
// matches and skips the round trip.
func (c *WalletRepo) FindWalletByAddress(ctx context.Context, address string) (*userdata.Wallet, error) {
	if address == "" {
		return nil, nil
	}

	wallet := new(userdata.Wallet)
	err := c.db.NewSelect().Model(wallet).Where("address = ?", address).Limit(1).Scan(ctx)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	return wallet, nil
}

// FindWalletByID behaves like FindWalletByAddress for a numeric id; a nil id never matches.
func (c *WalletRepo) FindWalletByID(ctx context.Context, id *int64) (*userdata.Wallet, error) {
	if id == nil {
		return nil, nil
	}

	wallet := new(userdata.Wallet)
	err := c.db.NewSelect().Model(wallet).Where("id = ?", *id).Limit(1).Scan(ctx)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	return wallet, nil
}

func (c *WalletRepo) InsertWallet(ctx context.Context, address string, locationId *int64) (*userdata.Wallet, error) {
	wallet := &userdata.Wallet{
		Address:    &address,
		LocationId: locationId,
	}

	_, err := c.db.NewInsert().Model(wallet).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}

	return wallet, nil
}

func (c *WalletRepo) CountWallets(ctx context.Context) (int, error) {
	return c.db.NewSelect().Model((*userdata.Wallet)(nil)).Count(ctx)
}
