package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gemma-chat/internal/api"
	"gemma-chat/internal/chatui"
	"gemma-chat/internal/config"
	"gemma-chat/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "gemma-chat [chat-id]",
	Short: "Terminal client for the Gemma chat server",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		route := ""
		if len(args) == 1 {
			route = normalizeRoute(args[0])
		}
		return runSession(cmd.Context(), route)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login [id-token]",
	Short: "Exchange an identity token for a session",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idToken := ""
		if len(args) == 1 {
			idToken = args[0]
		} else {
			fmt.Print("Identity token: ")
			reader := bufio.NewReader(os.Stdin)
			line, err := reader.ReadString('\n')
			if err != nil {
				return errors.Wrap(err, "reading token")
			}
			idToken = strings.TrimSpace(line)
		}
		if idToken == "" {
			return errors.New("an identity token is required")
		}

		client, err := newClient()
		if err != nil {
			return err
		}
		identity, err := client.Login(cmd.Context(), idToken)
		if err != nil {
			if errors.Is(err, api.ErrUnauthenticated) {
				return errors.New("the server rejected the token")
			}
			return errors.New("could not reach the server")
		}
		fmt.Printf("Logged in as %s\n", identity.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the current session",
	Args:  cobra.ExactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		if err := client.Logout(cmd.Context()); err != nil && !errors.Is(err, api.ErrUnauthenticated) {
			return errors.New("could not reach the server")
		}
		fmt.Println("Logged out")
		return nil
	},
}

func newClient() (*api.Client, error) {
	cfg, err := config.LoadClientConfig()
	if err != nil {
		return nil, err
	}
	creds, err := api.DefaultCredentialStore()
	if err != nil {
		return nil, err
	}
	return api.NewClient(cfg.ServerURL, creds, newLogger())
}

// newLogger escribe a un archivo solo si se pide; la TUI es dueña de la
// terminal y cualquier salida a stderr la rompería.
func newLogger() *zap.Logger {
	path := os.Getenv("GEMMA_CHAT_LOG")
	if path == "" {
		return zap.NewNop()
	}
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func runSession(ctx context.Context, route string) error {
	client, err := newClient()
	if err != nil {
		return err
	}
	if !client.HasCredential() {
		return errors.New("no stored session, run `gemma-chat login` first")
	}
	location, err := chatui.DefaultFileLocation()
	if err != nil {
		return err
	}

	err = tui.Run(ctx, client, location, newLogger(), route)
	switch {
	case errors.Is(err, api.ErrUnauthenticated), errors.Is(err, chatui.ErrNoCredential):
		return errors.New("session expired, run `gemma-chat login` again")
	case errors.Is(err, api.ErrNoResult):
		return errors.New("could not reach the server")
	}
	return err
}

// normalizeRoute acepta tanto un id de chat como una ruta /c/<id>.
func normalizeRoute(arg string) string {
	if _, ok := chatui.ParseRoute(arg); ok {
		return arg
	}
	return chatui.ChatRoute(arg)
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: loading .env: %v", err)
	}

	rootCmd.AddCommand(loginCmd, logoutCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
