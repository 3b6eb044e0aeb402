package models

// Seed data mirroring the demo account the app boots with. Prices are a
// snapshot; the market engine immediately starts moving them.

// SeedIndices returns the initial index values.
func SeedIndices() []Index {
	return []Index{
		{Name: "NIFTY 50", Price: 24677.80, Change: -90.10, ChangePercent: -0.36, IsUp: false},
		{Name: "SENSEX", Price: 81709.12, Change: -236.18, ChangePercent: -0.29, IsUp: false},
	}
}

// SeedWatchlist returns the initial watchlist.
func SeedWatchlist() []Stock {
	return []Stock{
		{Symbol: "RELIANCE", Name: "Reliance Industries", Price: 1272.45, Change: -8.30, ChangePercent: -0.65, Exchange: NSE, IsUp: false},
		{Symbol: "HDFCBANK", Name: "HDFC Bank", Price: 1847.20, Change: 12.55, ChangePercent: 0.68, Exchange: NSE, IsUp: true},
		{Symbol: "TCS", Name: "Tata Consultancy Services", Price: 4198.75, Change: -42.10, ChangePercent: -0.99, Exchange: NSE, IsUp: false},
		{Symbol: "INFY", Name: "Infosys", Price: 1932.85, Change: 18.40, ChangePercent: 0.96, Exchange: NSE, IsUp: true},
		{Symbol: "ICICIBANK", Name: "ICICI Bank", Price: 1348.60, Change: 9.25, ChangePercent: 0.69, Exchange: NSE, IsUp: true},
		{Symbol: "SBIN", Name: "State Bank of India", Price: 844.15, Change: -5.70, ChangePercent: -0.67, Exchange: NSE, IsUp: false},
		{Symbol: "BHARTIARTL", Name: "Bharti Airtel", Price: 1598.30, Change: 22.45, ChangePercent: 1.42, Exchange: NSE, IsUp: true},
		{Symbol: "ITC", Name: "ITC Ltd", Price: 492.80, Change: 4.15, ChangePercent: 0.85, Exchange: NSE, IsUp: true},
		{Symbol: "ADANIENT", Name: "Adani Enterprises", Price: 2415.50, Change: -28.90, ChangePercent: -1.18, Exchange: NSE, IsUp: false},
		{Symbol: "TATAMOTORS", Name: "Tata Motors", Price: 752.35, Change: 6.80, ChangePercent: 0.91, Exchange: NSE, IsUp: true},
		{Symbol: "LT", Name: "Larsen & Toubro", Price: 3685.40, Change: 35.20, ChangePercent: 0.96, Exchange: NSE, IsUp: true},
		{Symbol: "AXISBANK", Name: "Axis Bank", Price: 1124.30, Change: -7.85, ChangePercent: -0.69, Exchange: NSE, IsUp: false},
	}
}

// SeedHoldings returns the initial demo holdings.
func SeedHoldings() []Holding {
	return []Holding{
		{Symbol: "RELIANCE", Quantity: 30, AvgPrice: 1126.67, LTP: 1272.45, PnL: 4373.40, PnLPercent: 12.94, DayChange: -8.30, DayChangePercent: -0.65, Invested: 33800.10, Current: 38173.50, ClosePrice: 1280.75},
		{Symbol: "HDFCBANK", Quantity: 40, AvgPrice: 1635.00, LTP: 1847.20, PnL: 8488.00, PnLPercent: 12.98, DayChange: 12.55, DayChangePercent: 0.68, Invested: 65400.00, Current: 73888.00, ClosePrice: 1834.65},
		{Symbol: "ITC", Quantity: 150, AvgPrice: 436.00, LTP: 492.80, PnL: 8520.00, PnLPercent: 13.03, DayChange: 4.15, DayChangePercent: 0.85, Invested: 65400.00, Current: 73920.00, ClosePrice: 488.65},
		{Symbol: "TCS", Quantity: 10, AvgPrice: 3715.00, LTP: 4198.75, PnL: 4837.50, PnLPercent: 13.02, DayChange: -42.10, DayChangePercent: -0.99, Invested: 37150.00, Current: 41987.50, ClosePrice: 4240.85},
		{Symbol: "INFY", Quantity: 20, AvgPrice: 1710.00, LTP: 1932.85, PnL: 4457.00, PnLPercent: 13.03, DayChange: 18.40, DayChangePercent: 0.96, Invested: 34200.00, Current: 38657.00, ClosePrice: 1914.45},
		{Symbol: "SBIN", Quantity: 7, AvgPrice: 750.00, LTP: 844.15, PnL: 659.05, PnLPercent: 12.55, DayChange: -5.70, DayChangePercent: -0.67, Invested: 5250.00, Current: 5909.05, ClosePrice: 849.85},
		{Symbol: "BHARTIARTL", Quantity: 1, AvgPrice: 299.90, LTP: 1598.30, PnL: 1298.40, PnLPercent: 433.01, DayChange: 22.45, DayChangePercent: 1.42, Invested: 299.90, Current: 1598.30, ClosePrice: 1575.85},
	}
}

// SeedPositions returns the initial positions (the demo account starts flat).
func SeedPositions() []Position {
	return nil
}
