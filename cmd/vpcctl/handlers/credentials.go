package handlers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/imamik/vpcctl/internal/config"
)

// Factory function variables for credentials - can be replaced in tests.
var (
	// isInteractive reports whether the user can be prompted.
	isInteractive = isInteractiveTTY

	// promptCredentials asks the user for an access key pair.
	promptCredentials = promptCredentialsForm
)

// CheckCredentials handles the check-credentials command.
//
// It loads the credentials file from the state directory, prompting for the
// key pair and saving it when the file does not exist yet.
func CheckCredentials(ctx context.Context, opts *GlobalOptions) error {
	path := config.CredentialsPath(opts.stateDir())
	existed := config.CredentialsExist(path)

	creds, err := ensureCredentials(ctx, opts.stateDir())
	if err != nil {
		return err
	}

	if existed {
		fmt.Fprintf(stdout, "Credentials for %s found in %s\n", maskKey(creds.AccessKeyID), path)
	} else {
		fmt.Fprintf(stdout, "Credentials for %s saved to %s\n", maskKey(creds.AccessKeyID), path)
	}
	return nil
}

// ensureCredentials loads the credentials file, creating it interactively
// when missing.
func ensureCredentials(ctx context.Context, stateDir string) (config.Credentials, error) {
	path := config.CredentialsPath(stateDir)
	creds, err := config.LoadCredentials(path)
	if err == nil {
		return creds, nil
	}
	if !errors.Is(err, config.ErrNoCredentials) {
		return config.Credentials{}, err
	}

	if !isInteractive() {
		return config.Credentials{}, fmt.Errorf("no credentials at %s and stdin is not a terminal; run check-credentials interactively or create the file", path)
	}

	creds, err = promptCredentials(ctx)
	if err != nil {
		return config.Credentials{}, fmt.Errorf("credential prompt failed: %w", err)
	}
	if err := config.SaveCredentials(path, creds); err != nil {
		return config.Credentials{}, err
	}
	return creds, nil
}

func promptCredentialsForm(ctx context.Context) (config.Credentials, error) {
	var creds config.Credentials
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Access Key ID").
				Value(&creds.AccessKeyID).
				Validate(required("access key id")),
			huh.NewInput().
				Title("Secret Access Key").
				EchoMode(huh.EchoModePassword).
				Value(&creds.SecretAccessKey).
				Validate(required("secret access key")),
		).Title("AWS Credentials"),
	).RunWithContext(ctx)
	if err != nil {
		return config.Credentials{}, err
	}

	creds.AccessKeyID = strings.TrimSpace(creds.AccessKeyID)
	creds.SecretAccessKey = strings.TrimSpace(creds.SecretAccessKey)
	return creds, creds.Validate()
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}

func isInteractiveTTY() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// maskKey keeps the first four characters of a key id.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:4] + strings.Repeat("*", len(key)-4)
}
