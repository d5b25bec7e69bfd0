package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AmmannChristian/go-esplora/esplora"
)

func newBlockCmd(a *app) *cobra.Command {
	var (
		withStatus bool
		withTxs    bool
	)

	cmd := &cobra.Command{
		Use:   "block <hash|height>",
		Short: "Show a block by hash or height",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			hash := args[0]
			if height, err := strconv.ParseUint(hash, 10, 64); err == nil {
				hash, err = a.client.BlockHashAtHeight(ctx, height)
				if err != nil {
					return err
				}
			}

			block, err := a.client.Block(ctx, hash)
			if err != nil {
				return err
			}

			out := struct {
				*esplora.Block
				Status *esplora.BlockStatus  `json:"status,omitempty"`
				Txs    []esplora.Transaction `json:"txs,omitempty"`
			}{Block: block}

			if withStatus {
				if out.Status, err = a.client.BlockStatus(ctx, hash); err != nil {
					return err
				}
			}
			if withTxs {
				if out.Txs, err = a.client.BlockTxs(ctx, hash); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&withStatus, "status", false, "Include best-chain status")
	cmd.Flags().BoolVar(&withTxs, "txs", false, "Include the first page of transactions")
	return cmd
}

func newTipCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tip",
		Short: "Show the hash and height of the chain tip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			height, err := a.client.TipHeight(ctx)
			if err != nil {
				return err
			}
			hash, err := a.client.TipHash(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				Height uint64 `json:"height"`
				Hash   string `json:"hash"`
			}{height, hash})
		},
	}
}

func newTxCmd(a *app) *cobra.Command {
	var (
		asHex         bool
		withOutspends bool
	)

	cmd := &cobra.Command{
		Use:   "tx <txid>",
		Short: "Show a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			txid := args[0]

			if asHex {
				hex, err := a.client.TxHex(ctx, txid)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), hex)
				return err
			}

			tx, err := a.client.Transaction(ctx, txid)
			if err != nil {
				return err
			}

			out := struct {
				*esplora.Transaction
				Outspends []esplora.Outspend `json:"outspends,omitempty"`
			}{Transaction: tx}

			if withOutspends {
				if out.Outspends, err = a.client.Outspends(ctx, txid); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&asHex, "hex", false, "Print the raw transaction as hex")
	cmd.Flags().BoolVar(&withOutspends, "outspends", false, "Include the spending status of every output")
	return cmd
}

func newBroadcastCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "broadcast <hex|->",
		Short: "Broadcast a raw transaction; '-' reads it from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txHex := args[0]
			if txHex == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read transaction: %w", err)
				}
				txHex = string(data)
			}

			txid, err := a.client.Broadcast(cmd.Context(), strings.TrimSpace(txHex))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), struct {
				TxID string `json:"txid"`
			}{txid})
		},
	}
}

func newAddressCmd(a *app) *cobra.Command {
	var withTxs bool

	cmd := &cobra.Command{
		Use:   "address <address>",
		Short: "Show address statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			info, err := a.client.Address(ctx, args[0])
			if err != nil {
				return err
			}

			out := struct {
				*esplora.AddressInfo
				Txs []esplora.Transaction `json:"txs,omitempty"`
			}{AddressInfo: info}

			if withTxs {
				if out.Txs, err = a.client.AddressTxs(ctx, args[0]); err != nil {
					return err
				}
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&withTxs, "txs", false, "Include recent transactions")
	return cmd
}

func newUtxoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "utxo <address>",
		Short: "List unspent outputs of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			utxos, err := a.client.AddressUTXOs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), utxos)
		},
	}
}

func newMempoolCmd(a *app) *cobra.Command {
	var (
		recent bool
		txids  bool
	)

	cmd := &cobra.Command{
		Use:   "mempool",
		Short: "Show mempool statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			switch {
			case recent && txids:
				return errors.New("--recent and --txids are mutually exclusive")
			case recent:
				txs, err := a.client.MempoolRecent(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), txs)
			case txids:
				ids, err := a.client.MempoolTxIDs(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), ids)
			default:
				mempool, err := a.client.Mempool(ctx)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), mempool)
			}
		},
	}

	cmd.Flags().BoolVar(&recent, "recent", false, "List the last transactions to enter the mempool")
	cmd.Flags().BoolVar(&txids, "txids", false, "List all mempool transaction IDs")
	return cmd
}

func newFeesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fees",
		Short: "Show fee estimates by confirmation target",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			estimates, err := a.client.FeeEstimates(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), estimates)
		},
	}
}

func newAssetCmd(a *app) *cobra.Command {
	var withSupply bool

	cmd := &cobra.Command{
		Use:   "asset <asset-id>",
		Short: "Show a Liquid asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			info, err := a.client.Asset(ctx, args[0])
			if err != nil {
				return err
			}

			out := struct {
				*esplora.AssetInfo
				Supply *float64 `json:"supply_decimal,omitempty"`
			}{AssetInfo: info}

			if withSupply {
				supply, err := a.client.AssetSupplyDecimal(ctx, args[0])
				if err != nil {
					return err
				}
				out.Supply = &supply
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().BoolVar(&withSupply, "supply", false, "Include the circulating supply")
	return cmd
}

// newTokenCmd checks that a token can be obtained. The token itself is never printed.
func newTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Check that an access token can be obtained",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := struct {
				Authenticated bool   `json:"authenticated"`
				TokenIssued   bool   `json:"token_issued"`
				Error         string `json:"error,omitempty"`
			}{Authenticated: a.client.Authenticated()}

			ok, err := a.client.CheckToken(cmd.Context())
			out.TokenIssued = ok
			if err != nil {
				out.Error = err.Error()
			}
			if printErr := printJSON(cmd.OutOrStdout(), out); printErr != nil {
				return printErr
			}
			return err
		},
	}
}
