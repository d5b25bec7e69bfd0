package esplora

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

// Transaction returns the transaction with the given ID.
func (c *Client) Transaction(ctx context.Context, txid string) (*Transaction, error) {
	var tx Transaction
	if err := c.getJSON(ctx, endpoint("tx", txid), &tx); err != nil {
		return nil, err
	}
	return &tx, nil
}

// TxStatus returns the confirmation status of a transaction.
func (c *Client) TxStatus(ctx context.Context, txid string) (*TxStatus, error) {
	var status TxStatus
	if err := c.getJSON(ctx, endpoint("tx", txid, "status"), &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// TxHex returns the hex-encoded transaction.
func (c *Client) TxHex(ctx context.Context, txid string) (string, error) {
	return c.getText(ctx, endpoint("tx", txid, "hex"))
}

// RawTx returns the transaction in binary serialization.
func (c *Client) RawTx(ctx context.Context, txid string) ([]byte, error) {
	return c.getRaw(ctx, endpoint("tx", txid, "raw"))
}

// TxMerkleBlockProof returns the merkle inclusion proof in bitcoind merkleblock format.
func (c *Client) TxMerkleBlockProof(ctx context.Context, txid string) (string, error) {
	return c.getText(ctx, endpoint("tx", txid, "merkleblock-proof"))
}

// Outspend returns the spending status of a single output.
func (c *Client) Outspend(ctx context.Context, txid string, vout uint32) (*Outspend, error) {
	var out Outspend
	if err := c.getJSON(ctx, endpoint("tx", txid, "outspend", strconv.FormatUint(uint64(vout), 10)), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Outspends returns the spending status of every output of a transaction.
func (c *Client) Outspends(ctx context.Context, txid string) ([]Outspend, error) {
	var outs []Outspend
	if err := c.getJSON(ctx, endpoint("tx", txid, "outspends"), &outs); err != nil {
		return nil, err
	}
	return outs, nil
}

// Broadcast submits a hex-encoded raw transaction and returns its txid.
// Broadcasts are never retried.
func (c *Client) Broadcast(ctx context.Context, txHex string) (string, error) {
	txHex = strings.TrimSpace(txHex)
	if txHex == "" {
		return "", errors.New("esplora: empty transaction")
	}
	return c.postText(ctx, endpoint("tx"), txHex)
}

func (c *Client) transactions(ctx context.Context, path string) ([]Transaction, error) {
	var txs []Transaction
	if err := c.getJSON(ctx, path, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
