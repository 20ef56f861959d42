package wallet

import "github.com/automate/wallet-linker/models/userdata"

// ValidateAddress returns the address of the wallet joined to user. The three ways a
// wallet can be unusable are reported separately, all as ErrMissingWallet.
func ValidateAddress(user *userdata.User) (string, error) {
	if user == nil || user.Wallet == nil {
		return "", newError(ErrMissingWallet, "The user does not have a wallet", nil)
	}
	if user.Wallet.Address == nil {
		return "", newError(ErrMissingWallet, "The wallet address is null", nil)
	}
	if *user.Wallet.Address == "" {
		return "", newError(ErrMissingWallet, "The wallet address is undefined", nil)
	}

	return *user.Wallet.Address, nil
}
