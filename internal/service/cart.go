package service

import (
	"fmt"

	"github.com/siddronomomos/farmacia/internal/apierror"
	"github.com/siddronomomos/farmacia/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartState is the sale workflow position. Transitions:
//
//	Empty → Building → Priced → Confirmed → Persisted
//
// with Aborted reachable from any non-terminal state. Persisted and Aborted
// are terminal.
type CartState int

const (
	CartEmpty CartState = iota
	CartBuilding
	CartPriced
	CartConfirmed
	CartPersisted
	CartAborted
)

func (s CartState) String() string {
	switch s {
	case CartEmpty:
		return "empty"
	case CartBuilding:
		return "building"
	case CartPriced:
		return "priced"
	case CartConfirmed:
		return "confirmed"
	case CartPersisted:
		return "persisted"
	case CartAborted:
		return "aborted"
	}
	return "unknown"
}

// CartLine is one article in the cart. A plain value object — the workflow
// instance owns the slice exclusively, any UI is a renderer over it.
type CartLine struct {
	ArticleID   uuid.UUID
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart accumulates sale lines against live stock and keeps running totals.
// It never touches the store: stock snapshots are handed in by the caller on
// every AddLine so the ceiling check always runs against a fresh read.
type Cart struct {
	state      CartState
	taxRate    decimal.Decimal
	customer   *model.Customer
	supplierID uuid.UUID
	lines      []CartLine
	tier       *model.DiscountTier

	subtotal decimal.Decimal
	discount decimal.Decimal
	tax      decimal.Decimal
	total    decimal.Decimal
	tender   decimal.Decimal
	change   decimal.Decimal
}

// NewCart returns an empty cart pricing with the given tax rate.
func NewCart(taxRate decimal.Decimal) *Cart {
	return &Cart{state: CartEmpty, taxRate: taxRate}
}

func (c *Cart) State() CartState         { return c.state }
func (c *Cart) Customer() *model.Customer { return c.customer }
func (c *Cart) Lines() []CartLine        { return c.lines }
func (c *Cart) Tier() *model.DiscountTier { return c.tier }
func (c *Cart) Subtotal() decimal.Decimal { return c.subtotal }
func (c *Cart) Discount() decimal.Decimal { return c.discount }
func (c *Cart) Tax() decimal.Decimal      { return c.tax }
func (c *Cart) Total() decimal.Decimal    { return c.total }
func (c *Cart) Change() decimal.Decimal   { return c.change }
func (c *Cart) Tender() decimal.Decimal   { return c.tender }

// AttachCustomer moves Empty → Building. Every sale must be attributable, so
// no line may be added before this.
func (c *Cart) AttachCustomer(customer *model.Customer, supplierID uuid.UUID) error {
	if c.state != CartEmpty {
		return fmt.Errorf("%w: customer already attached (%s)", apierror.ErrInvalidState, c.state)
	}
	if customer == nil {
		return fmt.Errorf("%w: nil customer", apierror.ErrInvalidState)
	}
	c.customer = customer
	c.supplierID = supplierID
	c.state = CartBuilding
	return nil
}

// AddLine appends qty units of an article, merging with an existing line for
// the same article. currentStock must come from a fresh ledger read; the
// combined quantity is checked against it.
func (c *Cart) AddLine(article *model.Article, currentStock, qty int) error {
	if c.state != CartBuilding && c.state != CartPriced {
		return fmt.Errorf("%w: cannot add lines while %s", apierror.ErrInvalidState, c.state)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: quantity must be positive", apierror.ErrInvalidState)
	}

	combined := qty
	idx := -1
	for i, l := range c.lines {
		if l.ArticleID == article.ID {
			combined += l.Quantity
			idx = i
			break
		}
	}
	if combined > currentStock {
		return fmt.Errorf("%w: requested %d, available %d", apierror.ErrInsufficientStock, combined, currentStock)
	}

	if idx >= 0 {
		c.lines[idx].Quantity = combined
	} else {
		c.lines = append(c.lines, CartLine{
			ArticleID:   article.ID,
			Description: article.Description,
			Quantity:    qty,
			UnitPrice:   article.SalePrice,
		})
	}
	c.reprice()
	return nil
}

// RemoveLine drops the line at index. Always legal while building.
func (c *Cart) RemoveLine(index int) error {
	if c.state != CartBuilding && c.state != CartPriced {
		return fmt.Errorf("%w: cannot remove lines while %s", apierror.ErrInvalidState, c.state)
	}
	if index < 0 || index >= len(c.lines) {
		return fmt.Errorf("%w: line %d", apierror.ErrNotFound, index)
	}
	c.lines = append(c.lines[:index], c.lines[index+1:]...)
	c.reprice()
	return nil
}

// SelectTier applies (or clears, with nil) a discount tier. The caller is
// responsible for eligibility — the cart only does arithmetic.
func (c *Cart) SelectTier(tier *model.DiscountTier) error {
	if c.state != CartBuilding && c.state != CartPriced {
		return fmt.Errorf("%w: cannot select discount while %s", apierror.ErrInvalidState, c.state)
	}
	c.tier = tier
	c.reprice()
	return nil
}

// reprice recomputes all totals after every cart mutation. Tax applies to the
// post-discount base, not the raw subtotal.
func (c *Cart) reprice() {
	c.subtotal = decimal.Zero
	for _, l := range c.lines {
		c.subtotal = c.subtotal.Add(l.Subtotal())
	}

	c.discount = decimal.Zero
	if c.tier != nil {
		c.discount = c.subtotal.Mul(c.tier.Percentage).Div(decimal.NewFromInt(100)).Round(2)
	}
	base := c.subtotal.Sub(c.discount)
	c.tax = base.Mul(c.taxRate).Round(2)
	c.total = base.Add(c.tax)

	if len(c.lines) > 0 {
		c.state = CartPriced
	} else if c.state == CartPriced {
		c.state = CartBuilding
	}
}

// ConfirmTender validates the cash amount and moves Priced → Confirmed.
func (c *Cart) ConfirmTender(tender decimal.Decimal) error {
	if c.state != CartPriced {
		return fmt.Errorf("%w: cannot tender while %s", apierror.ErrInvalidState, c.state)
	}
	if tender.LessThan(c.total) {
		return fmt.Errorf("%w: total %s, tendered %s", apierror.ErrInsufficientPayment, c.total, tender)
	}
	c.tender = tender
	c.change = tender.Sub(c.total)
	c.state = CartConfirmed
	return nil
}

// PointsEarned is floor(subtotal × 10): 1 point per 10 cents, accrued on the
// pre-discount subtotal.
func (c *Cart) PointsEarned() int {
	return int(c.subtotal.Mul(decimal.NewFromInt(10)).IntPart())
}

// Abort discards the cart from any non-terminal state. No store mutation has
// happened, so there is nothing to unwind.
func (c *Cart) Abort() error {
	if c.state == CartPersisted || c.state == CartAborted {
		return fmt.Errorf("%w: cart already %s", apierror.ErrInvalidState, c.state)
	}
	c.state = CartAborted
	c.lines = nil
	return nil
}

// markPersisted is called by the sale service once the transaction commits.
func (c *Cart) markPersisted() { c.state = CartPersisted }
