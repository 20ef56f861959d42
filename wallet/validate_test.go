package wallet

import (
	"errors"
	"testing"

	"github.com/automate/wallet-linker/models/userdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestValidateAddress(t *testing.T) {
	cases := []struct {
		name    string
		user    *userdata.User
		want    string
		message string
	}{
		{"no user", nil, "", "The user does not have a wallet"},
		{"no wallet", &userdata.User{Id: 1}, "", "The user does not have a wallet"},
		{"null address", &userdata.User{Id: 1, Wallet: &userdata.Wallet{Id: 2}}, "", "The wallet address is null"},
		{"empty address", &userdata.User{Id: 1, Wallet: &userdata.Wallet{Id: 2, Address: strp("")}}, "", "The wallet address is undefined"},
		{"valid", &userdata.User{Id: 1, Wallet: &userdata.Wallet{Id: 2, Address: strp("0xABC")}}, "0xABC", ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ValidateAddress(c.user)
			if c.message == "" {
				require.NoError(t, err)
				assert.Equal(t, c.want, got)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingWallet))
			assert.Equal(t, c.message, Message(err))
			assert.Empty(t, got)
		})
	}
}

func TestErrorUnwrapsKindAndCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := newError(ErrStorage, "Could not update the wallet.", cause)

	assert.True(t, errors.Is(err, ErrStorage))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Could not update the wallet.: connection reset", err.Error())
	assert.Equal(t, "Could not update the wallet.", Message(err))
	assert.Equal(t, "plain", Message(errors.New("plain")))
}
