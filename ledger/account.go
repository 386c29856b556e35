package ledger

import (
	"fmt"

	"go-transfer-route/domain"
)

// Account a balance held at one institution in one currency.
// Balances may go negative: an account records what flowed through it,
// it does not enforce funds.
type Account struct {
	// Ordinal 1-based position within the owning institution
	Ordinal int

	// Label "<institution>:<currency>"
	Label string

	Currency domain.Currency

	institution Institution
	balance     float64
}

func newAccount(owner Institution, ordinal int, currency domain.Currency, initialBalance float64) *Account {
	return &Account{
		Ordinal:     ordinal,
		Label:       fmt.Sprintf("%v:%v", owner.Name(), currency),
		Currency:    currency,
		institution: owner,
		balance:     initialBalance,
	}
}

// Institution the institution holding the account
func (a *Account) Institution() Institution {
	return a.institution
}

func (a *Account) Balance() float64 {
	return a.balance
}

func (a *Account) Deposit(amount float64) {
	a.balance += amount
}

func (a *Account) Withdraw(amount float64) {
	a.balance -= amount
}

func (a *Account) String() string {
	return a.Label
}
