package cmd

import (
	"encoding/json"

	"lending/core"
	"lending/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "manage lending banks",
}

var bankInitCmd = &cobra.Command{
	Use:   "init",
	Short: "init a bank for a mint",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		s := provideStores()
		defer s.close()

		clk := provideClock()
		accounts := provideAccountService(s, provideOracleService(clk), clk)
		banks := provideBankService(s, accounts, provideWalletService(), clk)

		flags := cmd.Flags()
		params := core.BankParams{}
		params.Mint, _ = flags.GetString("mint")
		params.Symbol, _ = flags.GetString("symbol")
		params.FeedID, _ = flags.GetString("feed")
		params.Index, _ = flags.GetUint64("index")

		for name, v := range map[string]*decimal.Decimal{
			"threshold":  &params.LiquidationThreshold,
			"bonus":      &params.LiquidationBonus,
			"rate":       &params.InterestRate,
			"reserve":    &params.ReserveFactor,
			"multiplier": &params.Multiplier,
			"jump":       &params.JumpMultiplier,
			"kink":       &params.Kink,
		} {
			str, _ := flags.GetString(name)
			*v = number.Decimal(str)
		}

		bank, err := banks.InitBank(ctx, &params)
		if err != nil {
			cmd.PrintErrln("init bank failed:", err)
			return
		}

		printJSON(cmd, bank)
	},
}

var bankListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "list banks",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		s := provideStores()
		defer s.close()

		banks, err := s.banks.All(ctx)
		if err != nil {
			cmd.PrintErrln("list banks failed:", err)
			return
		}

		printJSON(cmd, banks)
	},
}

func printJSON(cmd *cobra.Command, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		cmd.PrintErrln(err)
		return
	}

	cmd.Println(string(data))
}

func init() {
	rootCmd.AddCommand(bankCmd)
	bankCmd.AddCommand(bankInitCmd, bankListCmd)

	flags := bankInitCmd.Flags()
	flags.String("mint", "", "token mint")
	flags.String("symbol", "", "token symbol")
	flags.String("feed", "", "oracle feed id")
	flags.Uint64("index", 0, "bank index")
	flags.String("threshold", "0", "liquidation threshold")
	flags.String("bonus", "0", "liquidation bonus")
	flags.String("rate", "0", "base interest rate per year")
	flags.String("reserve", "0", "reserve factor")
	flags.String("multiplier", "0", "utilization multiplier per year")
	flags.String("jump", "0", "jump multiplier per year")
	flags.String("kink", "0", "utilization kink")
}
