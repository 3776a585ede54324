package domain

import "strings"

// DefaultAddress is the placeholder stored for users who never set a shipping address.
const DefaultAddress = "ADDRESS_NOT_SET"

// Account is the slice of a user account checkout needs: the wallet and
// whether a shipping address is configured.
type Account struct {
	OwnerID string
	Wallet  Money
	Address string

	Version int64
}

func (a Account) HasNonDefaultAddress() bool {
	address := strings.TrimSpace(a.Address)
	return address != "" && address != DefaultAddress
}

// Debit returns the account with amount taken from the wallet.
func (a Account) Debit(amount Money) (Account, error) {
	insufficient, err := a.Wallet.LessThan(amount)
	if err != nil {
		return Account{}, err
	}
	if insufficient {
		return Account{}, ErrInsufficientFunds
	}

	wallet, err := a.Wallet.Sub(amount)
	if err != nil {
		return Account{}, err
	}

	a.Wallet = wallet
	return a, nil
}

// Checkout is the outcome of a completed checkout.
type Checkout struct {
	OwnerID string
	Total   Money
	Balance Money
}
