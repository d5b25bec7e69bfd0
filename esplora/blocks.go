package esplora

import (
	"context"
	"fmt"
	"strconv"
)

// Block returns the block with the given hash.
func (c *Client) Block(ctx context.Context, hash string) (*Block, error) {
	var block Block
	if err := c.getJSON(ctx, endpoint("block", hash), &block); err != nil {
		return nil, err
	}
	return &block, nil
}

// BlockHeader returns the hex-encoded block header.
func (c *Client) BlockHeader(ctx context.Context, hash string) (string, error) {
	return c.getText(ctx, endpoint("block", hash, "header"))
}

// BlockStatus returns the best-chain status of a block.
func (c *Client) BlockStatus(ctx context.Context, hash string) (*BlockStatus, error) {
	var status BlockStatus
	if err := c.getJSON(ctx, endpoint("block", hash, "status"), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// BlockTxIDs returns all transaction IDs in a block.
func (c *Client) BlockTxIDs(ctx context.Context, hash string) ([]string, error) {
	var txids []string
	if err := c.getJSON(ctx, endpoint("block", hash, "txids"), &txids); err != nil {
		return nil, err
	}
	return txids, nil
}

// BlockTxIDAt returns the ID of the transaction at index within a block.
func (c *Client) BlockTxIDAt(ctx context.Context, hash string, index uint64) (string, error) {
	return c.getText(ctx, endpoint("block", hash, "txid", strconv.FormatUint(index, 10)))
}

// RawBlock returns the block in binary serialization.
func (c *Client) RawBlock(ctx context.Context, hash string) ([]byte, error) {
	return c.getRaw(ctx, endpoint("block", hash, "raw"))
}

// BlockHashAtHeight returns the hash of the best-chain block at height.
func (c *Client) BlockHashAtHeight(ctx context.Context, height uint64) (string, error) {
	return c.getText(ctx, endpoint("block-height", strconv.FormatUint(height, 10)))
}

// Blocks returns the ten newest blocks.
func (c *Client) Blocks(ctx context.Context) ([]Block, error) {
	return c.blocks(ctx, endpoint("blocks"))
}

// BlocksFrom returns ten blocks going backwards from startHeight.
func (c *Client) BlocksFrom(ctx context.Context, startHeight uint64) ([]Block, error) {
	return c.blocks(ctx, endpoint("blocks", strconv.FormatUint(startHeight, 10)))
}

func (c *Client) blocks(ctx context.Context, path string) ([]Block, error) {
	var blocks []Block
	if err := c.getJSON(ctx, path, &blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

// TipHash returns the hash of the last block.
func (c *Client) TipHash(ctx context.Context) (string, error) {
	return c.getText(ctx, endpoint("blocks", "tip", "hash"))
}

// TipHeight returns the height of the last block.
func (c *Client) TipHeight(ctx context.Context) (uint64, error) {
	text, err := c.getText(ctx, endpoint("blocks", "tip", "height"))
	if err != nil {
		return 0, err
	}
	height, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("esplora: parse tip height %q: %w", text, err)
	}
	return height, nil
}

// BlockTxs returns the first page of 25 transactions in a block.
func (c *Client) BlockTxs(ctx context.Context, hash string) ([]Transaction, error) {
	return c.transactions(ctx, endpoint("block", hash, "txs"))
}

// BlockTxsFrom returns 25 transactions in a block starting at startIndex, which must be a multiple of 25.
func (c *Client) BlockTxsFrom(ctx context.Context, hash string, startIndex uint64) ([]Transaction, error) {
	return c.transactions(ctx, endpoint("block", hash, "txs", strconv.FormatUint(startIndex, 10)))
}
