package cmd

import (
	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "manage lending users",
}

var userInitCmd = &cobra.Command{
	Use:   "init",
	Short: "register a user and its collateral bank",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		s := provideStores()
		defer s.close()

		userID, _ := cmd.Flags().GetString("user")
		collateral, _ := cmd.Flags().GetString("collateral")

		user, err := provideUserService(s).InitUser(ctx, userID, collateral)
		if err != nil {
			cmd.PrintErrln("init user failed:", err)
			return
		}

		printJSON(cmd, user)
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userInitCmd)

	userInitCmd.Flags().String("user", "", "user id")
	userInitCmd.Flags().String("collateral", "", "designated collateral mint, empty for every deposit")
}
