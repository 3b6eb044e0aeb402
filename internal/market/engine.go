package market

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	apperrors "tradeview/internal/errors"
	"tradeview/internal/logging"
	"tradeview/internal/market/hours"
	"tradeview/internal/models"
	"tradeview/internal/quotes"
	"tradeview/internal/stream"
)

// RefreshReason records what triggered a fetch cycle.
type RefreshReason string

const (
	RefreshInit     RefreshReason = "init"
	RefreshInterval RefreshReason = "interval"
	RefreshManual   RefreshReason = "manual"
)

// IndexSource is a quote source that additionally serves index values.
type IndexSource interface {
	quotes.Source
	IndexQuotes(ctx context.Context) ([]models.Index, error)
}

// EngineConfig tunes the refresh loop cadence.
type EngineConfig struct {
	RefreshInterval time.Duration // fetch cycle cadence
	SimInterval     time.Duration // simulation tick cadence
	StatusInterval  time.Duration // market-hours re-evaluation cadence
	FetchCooldown   time.Duration // minimum spacing between fetch cycles
}

// DefaultEngineConfig returns the stock cadence.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		RefreshInterval: 8 * time.Second,
		SimInterval:     time.Second,
		StatusInterval:  30 * time.Second,
		FetchCooldown:   5 * time.Second,
	}
}

// Engine owns all market state: watchlist stocks, index values, holdings and
// positions. Screens read snapshots and request mutations; nothing outside
// the engine writes the state. A fetch cycle merges quotes from the broker
// source (preferred) and the public source, falling back to the random-walk
// simulator while the market is open and no live data is available.
type Engine struct {
	cfg    EngineConfig
	broker quotes.Source
	public IndexSource
	sim    *Simulator
	hub    *stream.Hub
	logger zerolog.Logger

	mu        sync.RWMutex
	stocks    []models.Stock
	indices   []models.Index
	holdings  []models.Holding
	positions []models.Position
	orders    []models.Order

	// Fallback baselines, captured once at construction: initial price minus
	// initial change. Simulated change is always relative to these.
	stockBases map[string]float64
	indexBases []float64

	live        bool
	loading     bool
	marketOpen  bool
	lastUpdated time.Time

	fetching atomic.Bool   // one fetch cycle at a time
	limiter  *rate.Limiter // minimum spacing between cycles

	nowFn  func() time.Time
	openFn func(time.Time) bool
}

// NewEngine creates an engine seeded with the demo account data.
func NewEngine(cfg EngineConfig, broker quotes.Source, public IndexSource, sim *Simulator, hub *stream.Hub, logger zerolog.Logger) *Engine {
	e := &Engine{
		cfg:       cfg,
		broker:    broker,
		public:    public,
		sim:       sim,
		hub:       hub,
		logger:    logger.With().Str("component", "market").Logger(),
		stocks:    models.SeedWatchlist(),
		indices:   models.SeedIndices(),
		holdings:  models.SeedHoldings(),
		positions: models.SeedPositions(),
		loading:   true,
		limiter:   rate.NewLimiter(rate.Every(cfg.FetchCooldown), 1),
		nowFn:     time.Now,
		openFn:    hours.IsOpenAt,
	}

	e.stockBases = make(map[string]float64, len(e.stocks))
	for _, s := range e.stocks {
		e.stockBases[s.Symbol] = s.Price - s.Change
	}
	e.indexBases = make([]float64, len(e.indices))
	for i, idx := range e.indices {
		e.indexBases[i] = idx.Price - idx.Change
	}
	e.marketOpen = e.openFn(e.nowFn())

	return e
}

// Run drives the periodic refresh, the simulation tick and the market-hours
// re-evaluation until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.Refresh(ctx, RefreshInit)

	refresh := time.NewTicker(e.cfg.RefreshInterval)
	sim := time.NewTicker(e.cfg.SimInterval)
	status := time.NewTicker(e.cfg.StatusInterval)
	defer refresh.Stop()
	defer sim.Stop()
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-refresh.C:
			e.Refresh(ctx, RefreshInterval)
		case <-sim.C:
			e.SimulateTick()
		case <-status.C:
			open := e.openFn(e.nowFn())
			e.mu.Lock()
			e.marketOpen = open
			e.mu.Unlock()
		}
	}
}

// Refresh runs one fetch cycle. A cycle already in flight, or one requested
// within the cooldown window of the previous cycle, is dropped. Returns true
// if a cycle actually ran.
func (e *Engine) Refresh(ctx context.Context, reason RefreshReason) bool {
	if !e.fetching.CompareAndSwap(false, true) {
		e.logger.Debug().Str("reason", string(reason)).Msg("fetch already in flight, dropping request")
		return false
	}
	defer e.fetching.Store(false)

	if !e.limiter.Allow() {
		e.logger.Debug().Str("reason", string(reason)).Msg("too soon since last fetch, dropping request")
		return false
	}

	start := e.nowFn()
	symbols := e.allSymbols()

	var (
		wg           sync.WaitGroup
		brokerQuotes map[string]quotes.Quote
		publicQuotes map[string]quotes.Quote
		indexQuotes  []models.Index
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		brokerQuotes, err = e.broker.Quotes(ctx, symbols)
		logging.LogQuoteFetch(e.logger, e.broker.Name(), len(symbols), len(brokerQuotes), err)
		if err != nil {
			brokerQuotes = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		publicQuotes, err = e.public.Quotes(ctx, symbols)
		logging.LogQuoteFetch(e.logger, e.public.Name(), len(symbols), len(publicQuotes), err)
		if err != nil {
			publicQuotes = nil
		}
	}()
	go func() {
		defer wg.Done()
		var err error
		indexQuotes, err = e.public.IndexQuotes(ctx)
		if err != nil {
			e.logger.Debug().Err(err).Msg("index quote fetch failed")
			indexQuotes = nil
		}
	}()
	wg.Wait()

	merged := quotes.Merge(brokerQuotes, publicQuotes)
	live := len(merged) > 0

	e.mu.Lock()
	if live {
		e.applyQuotesLocked(merged)
		e.live = true
		e.lastUpdated = e.nowFn()
	} else {
		// Keep last-known values; the simulator takes over while open.
		e.live = false
	}
	if len(indexQuotes) > 0 {
		e.indices = indexQuotes
	}
	e.loading = false
	e.mu.Unlock()

	logging.LogRefresh(e.logger, string(reason), live, len(merged), e.nowFn().Sub(start))
	e.publish(stream.UpdateRefresh, live)
	return true
}

// applyQuotesLocked overwrites price fields for symbols present in the
// merged quote map; everything else is left untouched. Holdings and
// positions are recomputed per the P&L formulas.
func (e *Engine) applyQuotesLocked(merged map[string]quotes.Quote) {
	for i := range e.stocks {
		q, ok := merged[e.stocks[i].Symbol]
		if !ok {
			continue
		}
		e.stocks[i].Price = q.Price
		e.stocks[i].Change = q.Change
		e.stocks[i].ChangePercent = q.ChangePercent
		e.stocks[i].IsUp = q.IsUp
	}

	for i := range e.holdings {
		h := &e.holdings[i]
		q, ok := merged[h.Symbol]
		if !ok {
			continue
		}
		prevClose := q.PreviousClose
		if prevClose == 0 {
			prevClose = h.PrevClose()
		}
		h.ApplyLTP(q.Price, prevClose)
		if q.PreviousClose != 0 {
			h.ClosePrice = q.PreviousClose
		}
	}

	for i := range e.positions {
		q, ok := merged[e.positions[i].Symbol]
		if !ok {
			continue
		}
		e.positions[i].ApplyLTP(q.Price)
	}
}

// SimulateTick perturbs every stock and index price via the random walk,
// then recomputes holdings and positions off the just-simulated prices.
// It is a no-op while live data is flowing or the market is closed.
func (e *Engine) SimulateTick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.live || !e.marketOpen {
		return
	}

	for i := range e.indices {
		idx := &e.indices[i]
		newPrice := e.sim.NextPrice(idx.Price, e.sim.IndexVolatility())
		base := e.indexBases[i]
		if base == 0 {
			base = newPrice
		}
		change := newPrice - base
		changePercent := 0.0
		if base > 0 {
			changePercent = change / base * 100
		}
		idx.Price = newPrice
		idx.Change = models.Round2(change)
		idx.ChangePercent = models.Round2(changePercent)
		idx.IsUp = change >= 0
	}

	prices := make(map[string]float64, len(e.stocks))
	for i := range e.stocks {
		s := &e.stocks[i]
		newPrice := e.sim.NextPrice(s.Price, e.sim.VolatilityFor(s.Symbol))
		base, ok := e.stockBases[s.Symbol]
		if !ok || base == 0 {
			base = s.Price - s.Change
		}
		if base == 0 {
			base = newPrice
		}
		change := newPrice - base
		changePercent := 0.0
		if base > 0 {
			changePercent = change / base * 100
		}
		s.Price = newPrice
		s.Change = models.Round2(change)
		s.ChangePercent = models.Round2(changePercent)
		s.IsUp = change >= 0
		prices[s.Symbol] = newPrice
	}

	for i := range e.holdings {
		h := &e.holdings[i]
		ltp, ok := prices[h.Symbol]
		if !ok {
			ltp = e.sim.NextPrice(h.LTP, e.sim.VolatilityFor(h.Symbol))
		}
		h.ApplyLTP(ltp, h.PrevClose())
	}

	for i := range e.positions {
		p := &e.positions[i]
		ltp, ok := prices[p.Symbol]
		if !ok {
			ltp = e.sim.NextPrice(p.LTP, e.sim.VolatilityFor(p.Symbol))
		}
		p.ApplyLTP(ltp)
	}

	e.publish(stream.UpdateSimulation, false)
}

// allSymbols returns the union of symbols across stocks, holdings and
// positions, uppercased.
func (e *Engine) allSymbols() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	add := func(sym string) {
		sym = strings.ToUpper(sym)
		if _, dup := seen[sym]; dup {
			return
		}
		seen[sym] = struct{}{}
		out = append(out, sym)
	}
	for _, s := range e.stocks {
		add(s.Symbol)
	}
	for _, h := range e.holdings {
		add(h.Symbol)
	}
	for _, p := range e.positions {
		add(p.Symbol)
	}
	return out
}

func (e *Engine) publish(kind stream.UpdateKind, live bool) {
	if e.hub == nil {
		return
	}
	e.hub.Publish(stream.Update{Kind: kind, Live: live, At: e.nowFn()})
}

// Stocks returns a copy of the watchlist.
func (e *Engine) Stocks() []models.Stock {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Stock, len(e.stocks))
	copy(out, e.stocks)
	return out
}

// Indices returns a copy of the index values.
func (e *Engine) Indices() []models.Index {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Index, len(e.indices))
	copy(out, e.indices)
	return out
}

// Holdings returns a copy of the holdings.
func (e *Engine) Holdings() []models.Holding {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Holding, len(e.holdings))
	copy(out, e.holdings)
	return out
}

// Positions returns a copy of the positions.
func (e *Engine) Positions() []models.Position {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Position, len(e.positions))
	copy(out, e.positions)
	return out
}

// Orders returns a copy of the placed (demo) orders.
func (e *Engine) Orders() []models.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.Order, len(e.orders))
	copy(out, e.orders)
	return out
}

// IsLive reports whether the last fetch cycle produced live data.
func (e *Engine) IsLive() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.live
}

// IsLoading reports whether the initial fetch has completed yet.
func (e *Engine) IsLoading() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loading
}

// IsMarketOpen reports the engine's cached market-hours state.
func (e *Engine) IsMarketOpen() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.marketOpen
}

// LastUpdated returns the time of the last successful live update.
func (e *Engine) LastUpdated() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastUpdated
}

// AddStock appends a stock to the watchlist and registers its simulation
// baseline.
func (e *Engine) AddStock(stock models.Stock) error {
	stock.Symbol = strings.ToUpper(strings.TrimSpace(stock.Symbol))
	if stock.Symbol == "" {
		return apperrors.NewValidationError("symbol", stock.Symbol, "symbol cannot be empty")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range e.stocks {
		if s.Symbol == stock.Symbol {
			return apperrors.NewValidationError("symbol", stock.Symbol, "already on the watchlist")
		}
	}
	e.stocks = append(e.stocks, stock)
	e.stockBases[stock.Symbol] = stock.Price - stock.Change
	e.publishLocked(stream.UpdateMutation)
	return nil
}

// RemoveStock deletes a stock from the watchlist.
func (e *Engine) RemoveStock(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, s := range e.stocks {
		if s.Symbol == symbol {
			e.stocks = append(e.stocks[:i], e.stocks[i+1:]...)
			delete(e.stockBases, symbol)
			e.publishLocked(stream.UpdateMutation)
			return nil
		}
	}
	return apperrors.ErrSymbolNotFound
}

// AddHolding appends a holding. A missing previous close defaults to the
// average price so day change starts from a sane baseline.
func (e *Engine) AddHolding(h models.Holding) error {
	h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
	if h.Symbol == "" {
		return apperrors.NewValidationError("symbol", h.Symbol, "symbol cannot be empty")
	}
	if h.ClosePrice == 0 {
		h.ClosePrice = h.AvgPrice
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, existing := range e.holdings {
		if existing.Symbol == h.Symbol {
			return apperrors.NewValidationError("symbol", h.Symbol, "holding already exists")
		}
	}
	e.holdings = append(e.holdings, h)
	e.publishLocked(stream.UpdateMutation)
	return nil
}

// UpdateHolding edits a holding's quantity and average price, recomputing
// invested value and P&L at the current LTP.
func (e *Engine) UpdateHolding(symbol string, quantity int, avgPrice float64) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.holdings {
		h := &e.holdings[i]
		if h.Symbol != symbol {
			continue
		}
		h.Quantity = quantity
		h.AvgPrice = avgPrice
		h.Invested = models.Round2(float64(quantity) * avgPrice)
		h.ApplyLTP(h.LTP, h.PrevClose())
		e.publishLocked(stream.UpdateMutation)
		return nil
	}
	return apperrors.ErrHoldingNotFound
}

// DeleteHolding removes a holding.
func (e *Engine) DeleteHolding(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, h := range e.holdings {
		if h.Symbol == symbol {
			e.holdings = append(e.holdings[:i], e.holdings[i+1:]...)
			e.publishLocked(stream.UpdateMutation)
			return nil
		}
	}
	return apperrors.ErrHoldingNotFound
}

// AddPosition appends a position, defaulting the previous close to the
// average price.
func (e *Engine) AddPosition(p models.Position) error {
	p.Symbol = strings.ToUpper(strings.TrimSpace(p.Symbol))
	if p.Symbol == "" {
		return apperrors.NewValidationError("symbol", p.Symbol, "symbol cannot be empty")
	}
	if p.ClosePrice == 0 {
		p.ClosePrice = p.AvgPrice
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.positions = append(e.positions, p)
	e.publishLocked(stream.UpdateMutation)
	return nil
}

// UpdatePosition edits a position's quantity and average price.
func (e *Engine) UpdatePosition(symbol string, quantity int, avgPrice float64) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.positions {
		p := &e.positions[i]
		if p.Symbol != symbol {
			continue
		}
		p.Quantity = quantity
		p.AvgPrice = avgPrice
		p.ApplyLTP(p.LTP)
		e.publishLocked(stream.UpdateMutation)
		return nil
	}
	return apperrors.ErrPositionNotFound
}

// DeletePosition removes a position.
func (e *Engine) DeletePosition(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	e.mu.Lock()
	defer e.mu.Unlock()
	for i, p := range e.positions {
		if p.Symbol == symbol {
			e.positions = append(e.positions[:i], e.positions[i+1:]...)
			e.publishLocked(stream.UpdateMutation)
			return nil
		}
	}
	return apperrors.ErrPositionNotFound
}

// PlaceOrder records a demo order. Nothing is routed anywhere; the order
// ticket exists so the flow can be exercised end to end.
func (e *Engine) PlaceOrder(order models.Order) {
	order.Symbol = strings.ToUpper(strings.TrimSpace(order.Symbol))
	order.Time = e.nowFn()
	order.Status = models.OrderStatusOpen
	if order.Message == "" {
		order.Message = "demo order, not routed"
	}

	e.mu.Lock()
	e.orders = append(e.orders, order)
	e.mu.Unlock()
	e.publish(stream.UpdateMutation, false)
}

// publishLocked publishes a mutation update; callers hold e.mu.
func (e *Engine) publishLocked(kind stream.UpdateKind) {
	if e.hub == nil {
		return
	}
	e.hub.Publish(stream.Update{Kind: kind, Live: e.live, At: e.nowFn()})
}
