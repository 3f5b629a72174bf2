package shop

import (
	"fmt"
	"sync"

	"github.com/madkins23/go-type/reg"
)

// PaymentMethod is implemented by the various ways an order can be paid.
// Orders store payments wrapped so the concrete type survives serialization.
type PaymentMethod interface {
	fmt.Stringer
	Kind() string
}

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterPaymentMethods adds the payment types to the type registry.
// Safe to call more than once, only the first call registers.
func RegisterPaymentMethods() error {
	registerOnce.Do(func() {
		registerErr = registerPaymentMethods()
	})
	return registerErr
}

func registerPaymentMethods() error {
	if err := reg.AddAlias("shop", CardPayment{}); err != nil {
		return fmt.Errorf("add shop alias: %w", err)
	}
	for _, example := range []interface{}{CardPayment{}, BankTransfer{}, StoreCredit{}} {
		if err := reg.Register(example); err != nil {
			return fmt.Errorf("register %T: %w", example, err)
		}
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////

var _ PaymentMethod = &CardPayment{}

// CardPayment is a credit or debit card charge.
type CardPayment struct {
	Brand string `bson:"brand"`
	Last4 string `bson:"last4"`
}

func (c *CardPayment) Kind() string {
	return "card"
}

func (c *CardPayment) String() string {
	return fmt.Sprintf("%s card ending %s", c.Brand, c.Last4)
}

var _ PaymentMethod = &BankTransfer{}

// BankTransfer is a direct debit from a bank account.
type BankTransfer struct {
	Bank      string `bson:"bank"`
	Reference string `bson:"reference"`
}

func (b *BankTransfer) Kind() string {
	return "bank"
}

func (b *BankTransfer) String() string {
	return fmt.Sprintf("transfer via %s ref %s", b.Bank, b.Reference)
}

var _ PaymentMethod = &StoreCredit{}

// StoreCredit spends credit attached to the customer account.
type StoreCredit struct {
	Cents int64 `bson:"cents"`
}

func (s *StoreCredit) Kind() string {
	return "credit"
}

func (s *StoreCredit) String() string {
	return fmt.Sprintf("store credit of %d cents", s.Cents)
}
