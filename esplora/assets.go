package esplora

import (
	"context"
	"fmt"
	"strconv"
)

// Asset returns information about a Liquid asset.
func (c *Client) Asset(ctx context.Context, assetID string) (*AssetInfo, error) {
	var info AssetInfo
	if err := c.getJSON(ctx, endpoint("asset", assetID), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AssetTxs returns issuance, burn and peg transactions of an asset.
func (c *Client) AssetTxs(ctx context.Context, assetID string) ([]Transaction, error) {
	return c.transactions(ctx, endpoint("asset", assetID, "txs"))
}

// AssetChainTxs returns 25 confirmed asset transactions. An empty lastSeenTxID returns the first page.
func (c *Client) AssetChainTxs(ctx context.Context, assetID, lastSeenTxID string) ([]Transaction, error) {
	if lastSeenTxID == "" {
		return c.transactions(ctx, endpoint("asset", assetID, "txs", "chain"))
	}
	return c.transactions(ctx, endpoint("asset", assetID, "txs", "chain", lastSeenTxID))
}

// AssetMempoolTxs returns unconfirmed asset transactions.
func (c *Client) AssetMempoolTxs(ctx context.Context, assetID string) ([]Transaction, error) {
	return c.transactions(ctx, endpoint("asset", assetID, "txs", "mempool"))
}

// AssetSupply returns the current circulating supply in base units.
func (c *Client) AssetSupply(ctx context.Context, assetID string) (uint64, error) {
	text, err := c.getText(ctx, endpoint("asset", assetID, "supply"))
	if err != nil {
		return 0, err
	}
	supply, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("esplora: parse supply %q: %w", text, err)
	}
	return supply, nil
}

// AssetSupplyDecimal returns the circulating supply adjusted by the asset's precision.
func (c *Client) AssetSupplyDecimal(ctx context.Context, assetID string) (float64, error) {
	text, err := c.getText(ctx, endpoint("asset", assetID, "supply", "decimal"))
	if err != nil {
		return 0, err
	}
	supply, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("esplora: parse decimal supply %q: %w", text, err)
	}
	return supply, nil
}
