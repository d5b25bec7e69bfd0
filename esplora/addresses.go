package esplora

import "context"

// Address returns chain and mempool statistics for an address.
func (c *Client) Address(ctx context.Context, address string) (*AddressInfo, error) {
	return c.addressInfo(ctx, endpoint("address", address))
}

// ScriptHash returns chain and mempool statistics for a script hash.
func (c *Client) ScriptHash(ctx context.Context, hash string) (*AddressInfo, error) {
	return c.addressInfo(ctx, endpoint("scripthash", hash))
}

func (c *Client) addressInfo(ctx context.Context, path string) (*AddressInfo, error) {
	var info AddressInfo
	if err := c.getJSON(ctx, path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// AddressTxs returns up to 50 mempool transactions plus the first 25 confirmed ones.
func (c *Client) AddressTxs(ctx context.Context, address string) ([]Transaction, error) {
	return c.transactions(ctx, endpoint("address", address, "txs"))
}

// AddressChainTxs returns 25 confirmed transactions, newest first. Pass the last txid of the
// previous page as lastSeenTxID to continue, or an empty string for the first page.
func (c *Client) AddressChainTxs(ctx context.Context, address, lastSeenTxID string) ([]Transaction, error) {
	if lastSeenTxID == "" {
		return c.transactions(ctx, endpoint("address", address, "txs", "chain"))
	}
	return c.transactions(ctx, endpoint("address", address, "txs", "chain", lastSeenTxID))
}

// AddressMempoolTxs returns unconfirmed transactions for an address, up to 50.
func (c *Client) AddressMempoolTxs(ctx context.Context, address string) ([]Transaction, error) {
	return c.transactions(ctx, endpoint("address", address, "txs", "mempool"))
}

// AddressUTXOs returns the unspent outputs of an address.
func (c *Client) AddressUTXOs(ctx context.Context, address string) ([]Utxo, error) {
	var utxos []Utxo
	if err := c.getJSON(ctx, endpoint("address", address, "utxo"), &utxos); err != nil {
		return nil, err
	}
	return utxos, nil
}

// SearchAddresses returns up to 10 addresses starting with prefix.
func (c *Client) SearchAddresses(ctx context.Context, prefix string) ([]string, error) {
	var addresses []string
	if err := c.getJSON(ctx, endpoint("address-prefix", prefix), &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}
