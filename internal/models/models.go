// Package models provides domain models for the brokerage app.
package models

import (
	"math"
	"time"
)

// Exchange represents a stock exchange.
type Exchange string

const (
	NSE Exchange = "NSE"
	BSE Exchange = "BSE"
	NFO Exchange = "NFO" // F&O
	CDS Exchange = "CDS" // Currency
	MCX Exchange = "MCX" // Commodity
)

// OrderSide represents the side of an order or position.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// ProductType represents the margin/settlement category of a position.
type ProductType string

const (
	ProductMIS  ProductType = "MIS"  // Intraday
	ProductCNC  ProductType = "CNC"  // Delivery
	ProductNRML ProductType = "NRML" // F&O Normal
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusExecuted  OrderStatus = "EXECUTED"
	OrderStatusRejected  OrderStatus = "REJECTED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// MarketStatus represents the current market session state.
type MarketStatus string

const (
	MarketOpen             MarketStatus = "OPEN"
	MarketPreOpen          MarketStatus = "PRE_OPEN"
	MarketClosed           MarketStatus = "CLOSED"
	MarketMISSquareOffWarn MarketStatus = "MIS_SQUAREOFF_WARNING"
)

// Stock represents a watchlist instrument with its latest quote.
// Prices are mutated in place on every refresh tick; entries are never
// destroyed, only replaced.
type Stock struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	Change        float64  `json:"change"`
	ChangePercent float64  `json:"change_percent"`
	Exchange      Exchange `json:"exchange"`
	IsUp          bool     `json:"is_up"`
}

// Index represents a market index value.
type Index struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	IsUp          bool    `json:"is_up"`
}

// Holding represents a delivery holding in the portfolio.
type Holding struct {
	Symbol           string  `json:"symbol"`
	Quantity         int     `json:"quantity"`
	AvgPrice         float64 `json:"avg_price"`
	LTP              float64 `json:"ltp"`
	PnL              float64 `json:"pnl"`
	PnLPercent       float64 `json:"pnl_percent"`
	DayChange        float64 `json:"day_change"`
	DayChangePercent float64 `json:"day_change_percent"`
	Invested         float64 `json:"invested"`
	Current          float64 `json:"current"`
	ClosePrice       float64 `json:"close_price,omitempty"` // previous close, 0 when unknown
}

// Position represents an open trading position.
type Position struct {
	Symbol     string      `json:"symbol"`
	Product    ProductType `json:"product"`
	Quantity   int         `json:"quantity"`
	AvgPrice   float64     `json:"avg_price"`
	LTP        float64     `json:"ltp"`
	PnL        float64     `json:"pnl"`
	Side       OrderSide   `json:"side"`
	ClosePrice float64     `json:"close_price,omitempty"`
}

// Order represents an order-ticket entry. Orders are a UI placeholder:
// nothing is routed anywhere, they only live in memory.
type Order struct {
	ID       string      `json:"id"`
	Symbol   string      `json:"symbol"`
	Exchange Exchange    `json:"exchange"`
	Side     OrderSide   `json:"side"`
	Product  ProductType `json:"product"`
	Status   OrderStatus `json:"status"`
	Price    float64     `json:"price"`
	Quantity int         `json:"quantity"`
	Time     time.Time   `json:"time"`
	Message  string      `json:"message,omitempty"`
}

// Round2 rounds a value to two decimal places, the precision used for all
// prices and P&L figures.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ApplyLTP recalculates the holding's derived fields from a new last traded
// price. prevClose is the best-known previous close; when zero the new price
// is used as its own baseline so day change stays at zero instead of
// producing division artifacts.
func (h *Holding) ApplyLTP(ltp, prevClose float64) {
	current := float64(h.Quantity) * ltp
	pnl := current - h.Invested

	pnlPercent := 0.0
	if h.Invested > 0 {
		pnlPercent = pnl / h.Invested * 100
	}

	if prevClose == 0 {
		prevClose = ltp
	}
	dayChange := ltp - prevClose
	dayChangePercent := 0.0
	if prevClose > 0 {
		dayChangePercent = dayChange / prevClose * 100
	}

	h.LTP = ltp
	h.Current = Round2(current)
	h.PnL = Round2(pnl)
	h.PnLPercent = Round2(pnlPercent)
	h.DayChange = Round2(dayChange)
	h.DayChangePercent = Round2(dayChangePercent)
}

// PrevClose returns the holding's best-known previous close, falling back to
// ltp minus day change when no explicit close price is recorded.
func (h *Holding) PrevClose() float64 {
	if h.ClosePrice != 0 {
		return h.ClosePrice
	}
	return h.LTP - h.DayChange
}

// ApplyLTP recalculates the position's P&L from a new last traded price.
func (p *Position) ApplyLTP(ltp float64) {
	p.LTP = ltp
	p.PnL = Round2((ltp - p.AvgPrice) * float64(p.Quantity))
}
