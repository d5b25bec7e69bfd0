package esplora

import "context"

// Mempool returns the mempool backlog statistics.
func (c *Client) Mempool(ctx context.Context) (*Mempool, error) {
	var mempool Mempool
	if err := c.getJSON(ctx, endpoint("mempool"), &mempool); err != nil {
		return nil, err
	}
	return &mempool, nil
}

// MempoolTxIDs returns the IDs of all transactions in the mempool.
func (c *Client) MempoolTxIDs(ctx context.Context) ([]string, error) {
	var txids []string
	if err := c.getJSON(ctx, endpoint("mempool", "txids"), &txids); err != nil {
		return nil, err
	}
	return txids, nil
}

// MempoolRecent returns the last 10 transactions to enter the mempool.
func (c *Client) MempoolRecent(ctx context.Context) ([]RecentTx, error) {
	var recent []RecentTx
	if err := c.getJSON(ctx, endpoint("mempool", "recent"), &recent); err != nil {
		return nil, err
	}
	return recent, nil
}

// FeeEstimates returns fee rate estimates keyed by confirmation target.
func (c *Client) FeeEstimates(ctx context.Context) (FeeEstimates, error) {
	var estimates FeeEstimates
	if err := c.getJSON(ctx, endpoint("fee-estimates"), &estimates); err != nil {
		return nil, err
	}
	return estimates, nil
}
