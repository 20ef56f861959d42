package userdata

import "github.com/uptrace/bun"

// User is keyed by the identity assigned by the upstream event source, so Id is never
// generated locally.
type User struct {
	bun.BaseModel `bun:"table:users,alias:user"`

	Id         int64   `bun:",pk" json:"id"`
	LocationId *int64  `json:"location_id"`
	WalletId   *int64  `json:"wallet_id"`
	Wallet     *Wallet `bun:"rel:belongs-to,join:wallet_id=id" json:"wallet"`
}

// HasWallet reports whether the user currently points at a wallet row.
func (u *User) HasWallet() bool {
	return u.WalletId != nil
}
