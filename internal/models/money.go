package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// amount renders money with two fraction digits, e.g. "20.00"
type amount decimal.Decimal

func (a amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + decimal.Decimal(a).StringFixed(2) + `"`), nil
}

// MarshalJSON encodes order with money in rupees and paise
func (o Order) MarshalJSON() ([]byte, error) {
	type plain Order
	return json.Marshal(struct {
		plain
		TotalPrice             amount `json:"total_price"`
		CommissionAmount       amount `json:"commission_amount"`
		VendorSettlementAmount amount `json:"vendor_settlement_amount"`
	}{plain(o), amount(o.TotalPrice), amount(o.CommissionAmount), amount(o.VendorSettlementAmount)})
}

func (i OrderItem) MarshalJSON() ([]byte, error) {
	type plain OrderItem
	return json.Marshal(struct {
		plain
		PriceAtPurchase amount `json:"price_at_purchase"`
	}{plain(i), amount(i.PriceAtPurchase)})
}

func (s Settlement) MarshalJSON() ([]byte, error) {
	type plain Settlement
	return json.Marshal(struct {
		plain
		OrderAmount      amount `json:"order_amount"`
		CommissionAmount amount `json:"commission_amount"`
		SettlementAmount amount `json:"settlement_amount"`
	}{plain(s), amount(s.OrderAmount), amount(s.CommissionAmount), amount(s.SettlementAmount)})
}

func (s SettlementSummary) MarshalJSON() ([]byte, error) {
	type plain SettlementSummary
	return json.Marshal(struct {
		plain
		TotalSettled    amount `json:"total_settled"`
		TotalCommission amount `json:"total_commission"`
		TotalOrders     amount `json:"total_order_value"`
	}{plain(s), amount(s.TotalSettled), amount(s.TotalCommission), amount(s.TotalOrders)})
}

func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price amount `json:"price"`
	}{plain(p), amount(p.Price)})
}

func (c CartItem) MarshalJSON() ([]byte, error) {
	type plain CartItem
	return json.Marshal(struct {
		plain
		Price amount `json:"price"`
	}{plain(c), amount(c.Price)})
}
