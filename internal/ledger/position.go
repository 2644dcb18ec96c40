package ledger

// Position is a per-ticker holding with average-cost accounting. It is
// mutated only by Account trade execution; when quantity reaches zero
// the position is removed from the account.
type Position struct {
	Symbol    string
	Quantity  int
	AvgPrice  float64
	TotalCost float64
}

// addShares applies a BUY using the weighted-average-cost rule.
func (p *Position) addShares(quantity int, price float64) {
	newTotalCost := p.TotalCost + float64(quantity)*price
	newQuantity := p.Quantity + quantity
	if newQuantity > 0 {
		p.AvgPrice = newTotalCost / float64(newQuantity)
	}
	p.Quantity = newQuantity
	p.TotalCost = newTotalCost
}

// removeShares applies a SELL. The average price does not change on a
// sell; total cost is recomputed from the remaining quantity.
func (p *Position) removeShares(quantity int) {
	p.Quantity -= quantity
	if p.Quantity <= 0 {
		p.Quantity = 0
		p.AvgPrice = 0
		p.TotalCost = 0
		return
	}
	p.TotalCost = float64(p.Quantity) * p.AvgPrice
}

// CurrentValue returns the market value of the position at a price.
func (p Position) CurrentValue(currentPrice float64) float64 {
	return float64(p.Quantity) * currentPrice
}

// PnL returns the unrealized profit or loss at a price.
func (p Position) PnL(currentPrice float64) float64 {
	return p.CurrentValue(currentPrice) - p.TotalCost
}

// PnLPercent returns the unrealized profit or loss as a percentage of cost.
func (p Position) PnLPercent(currentPrice float64) float64 {
	if p.TotalCost == 0 {
		return 0
	}
	return p.PnL(currentPrice) / p.TotalCost * 100
}
