package esplora

// Block is a block summary as returned by block/:hash and blocks[/:start_height].
type Block struct {
	ID                string   `json:"id"`
	Height            uint64   `json:"height"`
	Version           uint32   `json:"version"`
	Timestamp         uint64   `json:"timestamp"`
	TxCount           uint64   `json:"tx_count"`
	Size              uint64   `json:"size"`
	Weight            uint64   `json:"weight"`
	MerkleRoot        string   `json:"merkle_root"`
	PreviousBlockHash *string  `json:"previousblockhash,omitempty"`
	MedianTime        *uint64  `json:"mediantime,omitempty"`
	Nonce             uint32   `json:"nonce"`
	Bits              uint32   `json:"bits"`
	Difficulty        *float64 `json:"difficulty,omitempty"`
}

// BlockStatus reports whether a block is part of the best chain.
type BlockStatus struct {
	InBestChain bool    `json:"in_best_chain"`
	Height      *uint64 `json:"height,omitempty"`
	NextBest    *string `json:"next_best,omitempty"`
}

// TxStatus is the confirmation status of a transaction.
type TxStatus struct {
	Confirmed   bool    `json:"confirmed"`
	BlockHeight *uint64 `json:"block_height,omitempty"`
	BlockHash   *string `json:"block_hash,omitempty"`
	BlockTime   *uint64 `json:"block_time,omitempty"`
}

// Prevout is the output spent by an input.
type Prevout struct {
	ScriptPubKey        string  `json:"scriptpubkey"`
	ScriptPubKeyASM     string  `json:"scriptpubkey_asm"`
	ScriptPubKeyType    string  `json:"scriptpubkey_type"`
	ScriptPubKeyAddress *string `json:"scriptpubkey_address,omitempty"`
	Value               uint64  `json:"value"`
}

// Vin is a transaction input.
type Vin struct {
	TxID         string   `json:"txid"`
	Vout         uint32   `json:"vout"`
	Prevout      *Prevout `json:"prevout,omitempty"`
	ScriptSig    string   `json:"scriptsig"`
	ScriptSigASM string   `json:"scriptsig_asm"`
	Witness      []string `json:"witness,omitempty"`
	IsCoinbase   bool     `json:"is_coinbase"`
	Sequence     uint32   `json:"sequence"`
}

// Vout is a transaction output. Value is omitted by Liquid for confidential outputs.
type Vout struct {
	ScriptPubKey        string  `json:"scriptpubkey"`
	ScriptPubKeyASM     string  `json:"scriptpubkey_asm"`
	ScriptPubKeyType    string  `json:"scriptpubkey_type"`
	ScriptPubKeyAddress *string `json:"scriptpubkey_address,omitempty"`
	Value               uint64  `json:"value"`
}

// Transaction is a transaction with its inputs, outputs and confirmation status.
type Transaction struct {
	TxID     string   `json:"txid"`
	Version  uint32   `json:"version"`
	Locktime uint32   `json:"locktime"`
	Vin      []Vin    `json:"vin"`
	Vout     []Vout   `json:"vout"`
	Size     uint64   `json:"size"`
	Weight   uint64   `json:"weight"`
	Fee      uint64   `json:"fee"`
	Status   TxStatus `json:"status"`
}

// Outspend describes whether a transaction output has been spent and by which input.
type Outspend struct {
	Spent  bool      `json:"spent"`
	TxID   *string   `json:"txid,omitempty"`
	Vin    *uint32   `json:"vin,omitempty"`
	Status *TxStatus `json:"status,omitempty"`
}

// Stats aggregates funding and spending activity. Sums are absent on Liquid.
type Stats struct {
	TxCount        uint64  `json:"tx_count"`
	FundedTxoCount uint64  `json:"funded_txo_count"`
	FundedTxoSum   *uint64 `json:"funded_txo_sum,omitempty"`
	SpentTxoCount  uint64  `json:"spent_txo_count"`
	SpentTxoSum    *uint64 `json:"spent_txo_sum,omitempty"`
}

// AddressInfo carries confirmed and mempool statistics for an address or script hash.
type AddressInfo struct {
	Address      string `json:"address,omitempty"`
	ScriptHash   string `json:"scripthash,omitempty"`
	ChainStats   Stats  `json:"chain_stats"`
	MempoolStats Stats  `json:"mempool_stats"`
}

// Utxo is an unspent output. Asset is set on Liquid for unblinded outputs.
type Utxo struct {
	TxID   string   `json:"txid"`
	Vout   uint32   `json:"vout"`
	Status TxStatus `json:"status"`
	Value  uint64   `json:"value"`
	Asset  *string  `json:"asset,omitempty"`
}

// FeeHistogramBucket is a (feerate, vsize) pair.
type FeeHistogramBucket [2]float64

// FeeRate is the bucket's fee rate in sat/vB.
func (b FeeHistogramBucket) FeeRate() float64 { return b[0] }

// VSize is the virtual size of the transactions in the bucket.
func (b FeeHistogramBucket) VSize() float64 { return b[1] }

// Mempool is the mempool backlog summary.
type Mempool struct {
	Count        uint64               `json:"count"`
	VSize        uint64               `json:"vsize"`
	TotalFee     uint64               `json:"total_fee"`
	FeeHistogram []FeeHistogramBucket `json:"fee_histogram"`
}

// RecentTx is an entry of mempool/recent.
type RecentTx struct {
	TxID  string `json:"txid"`
	Fee   uint64 `json:"fee"`
	VSize uint64 `json:"vsize"`
	Value uint64 `json:"value"`
}

// FeeEstimates maps a confirmation target in blocks to a fee rate in sat/vB.
type FeeEstimates map[string]float64

// AssetStats holds chain or mempool statistics for a Liquid asset. The native asset fills the
// peg and burn fields, issued assets fill the issuance fields.
type AssetStats struct {
	TxCount                uint64  `json:"tx_count"`
	PegInCount             *uint64 `json:"peg_in_count,omitempty"`
	PegInAmount            *uint64 `json:"peg_in_amount,omitempty"`
	PegOutCount            *uint64 `json:"peg_out_count,omitempty"`
	PegOutAmount           *uint64 `json:"peg_out_amount,omitempty"`
	BurnCount              *uint64 `json:"burn_count,omitempty"`
	BurnedAmount           *uint64 `json:"burned_amount,omitempty"`
	IssuanceCount          *uint64 `json:"issuance_count,omitempty"`
	IssuedAmount           *uint64 `json:"issued_amount,omitempty"`
	HasBlindedIssuances    *bool   `json:"has_blinded_issuances,omitempty"`
	ReissuanceTokens       *uint64 `json:"reissuance_tokens,omitempty"`
	BurnedReissuanceTokens *uint64 `json:"burned_reissuance_tokens,omitempty"`
}

// AssetIssuanceTxin references the input that issued an asset.
type AssetIssuanceTxin struct {
	TxID string `json:"txid"`
	Vin  uint32 `json:"vin"`
}

// AssetIssuancePrevout references the output spent by the issuance input.
type AssetIssuancePrevout struct {
	TxID string `json:"txid"`
	Vout uint32 `json:"vout"`
}

// AssetEntity is the issuer entity from the asset registry.
type AssetEntity struct {
	Domain string `json:"domain"`
}

// AssetInfo describes a Liquid asset. Ticker, Name, Precision and Entity come from the asset registry.
type AssetInfo struct {
	AssetID         string                `json:"asset_id"`
	IssuanceTxin    *AssetIssuanceTxin    `json:"issuance_txin,omitempty"`
	IssuancePrevout *AssetIssuancePrevout `json:"issuance_prevout,omitempty"`
	ReissuanceToken *string               `json:"reissuance_token,omitempty"`
	ContractHash    *string               `json:"contract_hash,omitempty"`
	Status          *TxStatus             `json:"status,omitempty"`
	ChainStats      AssetStats            `json:"chain_stats"`
	MempoolStats    AssetStats            `json:"mempool_stats"`
	Ticker          *string               `json:"ticker,omitempty"`
	Name            *string               `json:"name,omitempty"`
	Precision       *uint8                `json:"precision,omitempty"`
	Entity          *AssetEntity          `json:"entity,omitempty"`
}
