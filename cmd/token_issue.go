package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/buidl-renaissance/renaissance-create-app-block/generator"
	"github.com/buidl-renaissance/renaissance-create-app-block/tokens"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var tokenIssueScopes string
var tokenIssueTTL time.Duration

var tokenIssueCommand = cobra.Command{
	Use:   "issue",
	Short: "issues an access token for a service account [app_block_id]",
	Long: `this command can be used to issue a new access token for a given app block,
	the service account api key is read from the terminal`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 1 || args[0] == "" {
			return errors.New("token issue (app_block_id) - requires an app block id")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		appBlockID, err := uuid.Parse(args[0])
		if err != nil {
			fmt.Printf("Invalid app block id: %s\r\n", err)
			os.Exit(1)
			return
		}
		dataStore := mustResolveUsableDataStore()
		dispatcher := bootstrapDispatcher(dataStore.Auditor())
		gen := generator.New()
		accountService := resolveServiceAccountService(dataStore, dispatcher, gen)
		installService := resolveInstallationService(dataStore, dispatcher)

		apiKey := []byte{}
		for len(apiKey) == 0 {
			fmt.Println("api key?")
			apiKey, err = term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				fmt.Printf("Unable to read api key: %s", err)
				os.Exit(1)
				return
			}
		}

		account, err := accountService.Validate(cmd.Context(), string(apiKey))
		if err != nil {
			fmt.Printf("Unable to validate api key: %s\r\n", err)
			os.Exit(1)
			return
		}

		issuer := tokens.NewIssuer(
			TopLevelLogger.Named("token_issuer"),
			dataStore,
			installService,
			dispatcher,
			func() string { return string(gen.CreateAccessToken()) },
			LoadedConfig.Token.DefaultExpiry,
			LoadedConfig.Token.MaxExpiry,
		)
		token, err := issuer.Issue(cmd.Context(),
			tokens.GrantServiceAccount,
			account.ID(),
			appBlockID,
			strings.Fields(tokenIssueScopes),
			tokenIssueTTL)
		if err != nil {
			fmt.Printf("Could not create new token: %s\r\n", err)
			return
		}
		fmt.Printf("Created new access token: %s\r\n", token.Token())
		fmt.Printf("Scopes %v, expires in %d seconds\r\n", token.Scopes(), token.ExpiresIn())
	},
}

func init() {
	tokenIssueCommand.Flags().
		StringVarP(&tokenIssueScopes, "scope", "o", "", "requested scopes separated by spaces, empty takes everything granted")
	tokenIssueCommand.Flags().
		DurationVarP(&tokenIssueTTL, "ttl", "t", 0, "requested token lifetime, zero takes the configured default")
}
