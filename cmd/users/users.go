package users

import "github.com/spf13/cobra"

// UsersCmd is the parent command for user management operations
var UsersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage user accounts",
	Long:  `Commands for managing user accounts directly from the server, typically to bootstrap an admin.`,
}

func init() {
	createCmd.Flags().StringVar(&usernameFlag, "username", "", "Username of the account")
	createCmd.Flags().StringVar(&passwordFlag, "password", "", "Password for the account (use --stdin to avoid shell history)")
	createCmd.Flags().StringVar(&roleFlag, "role", "USER", "Role of the account: USER or ADMIN")
	createCmd.Flags().BoolVar(&stdinFlag, "stdin", false, "Read password from stdin instead of --password flag")

	UsersCmd.AddCommand(createCmd)
}
