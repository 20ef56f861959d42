package userdata

import "github.com/uptrace/bun"

type Wallet struct {
	bun.BaseModel `bun:"table:wallets,alias:wallet"`

	Id         int64   `bun:",pk,autoincrement" json:"id"`
	Address    *string `bun:",unique" json:"address"`
	LocationId *int64  `json:"location_id"`
}
