// Package market implements the commands that maintain the market product list.
package market

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Kris2339/MEO-PayDay/cmd/root"
	"github.com/Kris2339/MEO-PayDay/internal/common"
	"github.com/Kris2339/MEO-PayDay/internal/container"
	imarket "github.com/Kris2339/MEO-PayDay/internal/market"
	"github.com/Kris2339/MEO-PayDay/internal/spreadsheet"

	"github.com/spf13/cobra"
)

var (
	addFile    string
	addCSV     string
	exportPath string
)

// Cmd represents the market command
var Cmd = &cobra.Command{
	Use:   "market",
	Short: "Manage the market product name list",
	Long: `Manage the market product name list used to recognise market orders.

Seller product names (판매처상품명) found in this list are classified as 마켓.
Every change is saved to the configured store and read back immediately.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the market product names with their index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd, true, func(ctx context.Context, m *imarket.Manager, out io.Writer) error {
			printList(out, m.Items())
			return nil
		})
	},
}

var addCmd = &cobra.Command{
	Use:   "add [names...]",
	Short: "Add market product names",
	Long: `Add market product names from arguments, a text file with one name per line,
or a CSV file with a "마켓 상품명" column. Blank lines and names already in the list are ignored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd, true, func(ctx context.Context, m *imarket.Manager, out io.Writer) error {
			names, err := collectNames(args, root.GetContainer())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return fmt.Errorf("no market product names given")
			}
			added, err := m.Add(ctx, names...)
			fmt.Fprintf(out, "Added %d of %d names (%d total)\n", len(added), len(names), m.Len())
			return err
		})
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <index>",
	Short: "Remove the market product name at index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %w", args[0], err)
		}
		return withManager(cmd, true, func(ctx context.Context, m *imarket.Manager, out io.Writer) error {
			name, err := m.Remove(ctx, index)
			if name != "" {
				fmt.Fprintf(out, "Removed %s\n", name)
			}
			return err
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every market product name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd, true, func(ctx context.Context, m *imarket.Manager, out io.Writer) error {
			if err := m.Clear(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out, "Cleared market product list")
			return nil
		})
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reload the list from the store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd, false, func(ctx context.Context, m *imarket.Manager, out io.Writer) error {
			if err := m.Refresh(ctx); err != nil {
				return err
			}
			fmt.Fprintf(out, "Loaded %d market product names\n", m.Len())
			return nil
		})
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the list to a workbook",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withManager(cmd, true, func(ctx context.Context, m *imarket.Manager, out io.Writer) error {
			if err := spreadsheet.WriteMarketListFile(exportPath, m.Items()); err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported %d names to %s\n", m.Len(), exportPath)
			return nil
		})
	},
}

func init() {
	addCmd.Flags().StringVar(&addFile, "file", "", "Text file with one market product name per line")
	addCmd.Flags().StringVar(&addCSV, "csv", "", "CSV file with a \"마켓 상품명\" column")
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "market_products.xlsx", "Export workbook path")

	Cmd.AddCommand(listCmd, addCmd, removeCmd, clearCmd, refreshCmd, exportCmd)
}

// withManager runs fn against the session manager, loading the list first
// when load is set.
func withManager(cmd *cobra.Command, load bool, fn func(ctx context.Context, m *imarket.Manager, out io.Writer) error) error {
	c := root.GetContainer()
	if c == nil {
		return fmt.Errorf("application is not initialized")
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	m := c.GetMarketManager()
	if load {
		if err := m.Load(ctx); err != nil {
			return err
		}
	}
	return fn(ctx, m, cmd.OutOrStdout())
}

func collectNames(args []string, c *container.Container) ([]string, error) {
	names := append([]string(nil), args...)
	if addFile != "" {
		data, err := os.ReadFile(addFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", addFile, err)
		}
		names = append(names, imarket.SplitLines(string(data))...)
	}
	if addCSV != "" {
		rows, err := common.ReadCSVFile[common.MarketProductRow](addCSV, c.GetLogger())
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			names = append(names, row.Name)
		}
	}
	return names, nil
}

func printList(out io.Writer, items []string) {
	if len(items) == 0 {
		fmt.Fprintln(out, "(empty)")
		return
	}
	width := len(strconv.Itoa(len(items) - 1))
	for i, name := range items {
		fmt.Fprintf(out, "[%*d] %s\n", width, i, strings.TrimSpace(name))
	}
}
