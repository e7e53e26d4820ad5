package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/rs/zerolog/log"
)

// ExtensionPrefix prefixes the binaries run for unknown subcommands.
const ExtensionPrefix = "docimp-"

// RunExtension attempts to find and execute an external docimp-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
//
// Global flags are passed to the extension as DOCIMP_* environment variables.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		log.Debug().Err(err).Str("extension", name).Msg("extension not found")
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), extensionEnv()...)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

func extensionEnv() []string {
	return []string{
		EnvZone + "=" + *zoneName,
		EnvLogLevel + "=" + *logLevel,
		EnvLogPretty + "=" + strconv.FormatBool(*logPretty),
		EnvWorkers + "=" + strconv.Itoa(*workers),
		EnvTimeout + "=" + timeout.String(),
	}
}
