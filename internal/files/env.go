package files

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// VaultEnv names the environment variable that points ttsum at a vault.
	VaultEnv = "TTSUM_VAULT"
)

// ResolveVaultPath determines which directory of notes ttsum reads,
// defaulting to the working directory. The location can be overridden by
// exporting TTSUM_VAULT.
func ResolveVaultPath() (string, error) {
	if override, ok := os.LookupEnv(VaultEnv); ok {
		override = strings.TrimSpace(override)
		if override != "" {
			return ExpandHome(override)
		}
	}

	return os.Getwd()
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(input string) (string, error) {
	if strings.HasPrefix(input, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		input = filepath.Join(home, strings.TrimPrefix(input, "~"))
	}
	return input, nil
}
