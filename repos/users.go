package repos

import (
	"context"
	"database/sql"

	"github.com/automate/wallet-linker/models/userdata"
	"github.com/uptrace/bun"
)

type UserRepo struct {
	db bun.IDB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

// FindUser returns nil without an error when no row exists for id.
func (c *UserRepo) FindUser(ctx context.Context, id int64) (*userdata.User, error) {
	user := new(userdata.User)

	err := c.db.NewSelect().Model(user).Where(`"user"."id" = ?`, id).Limit(1).Scan(ctx)
	if err != nil {
		if IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// FindUserWithWallet loads the user joined with its wallet. A missing user row is reported
// as sql.ErrNoRows.
func (c *UserRepo) FindUserWithWallet(ctx context.Context, id int64) (*userdata.User, error) {
	user := new(userdata.User)

	err := c.db.NewSelect().Model(user).Relation("Wallet").Where(`"user"."id" = ?`, id).Scan(ctx)
	if err != nil {
		return nil, err
	}

	// the left join leaves an empty struct behind when wallet_id is null
	if user.Wallet != nil && (user.WalletId == nil || user.Wallet.Id == 0) {
		user.Wallet = nil
	}

	return user, nil
}

func (c *UserRepo) AddUser(ctx context.Context, user userdata.User) (*userdata.User, error) {
	_, err := c.db.NewInsert().Model(&user).Returning("*").Exec(ctx)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// LinkWalletToUser points the user at walletId in a single row update.
func (c *UserRepo) LinkWalletToUser(ctx context.Context, walletId, userId int64) error {
	res, err := c.db.NewUpdate().Model((*userdata.User)(nil)).Set("wallet_id = ?", walletId).Where("id = ?", userId).Exec(ctx)
	if err != nil {
		return err
	}

	return expectOneRow(res)
}

// ClearWallet drops the user's wallet pointer. The wallet row itself is left in place.
func (c *UserRepo) ClearWallet(ctx context.Context, userId int64) error {
	res, err := c.db.NewUpdate().Model((*userdata.User)(nil)).Set("wallet_id = NULL").Where("id = ?", userId).Exec(ctx)
	if err != nil {
		return err
	}

	return expectOneRow(res)
}

// ReleaseWallet clears the wallet pointer of every user holding walletId except keepUserId
// and returns how many users lost it.
func (c *UserRepo) ReleaseWallet(ctx context.Context, walletId, keepUserId int64) (int64, error) {
	res, err := c.db.NewUpdate().Model((*userdata.User)(nil)).Set("wallet_id = NULL").Where("wallet_id = ?", walletId).Where("id <> ?", keepUserId).Exec(ctx)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
