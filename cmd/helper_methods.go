package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	kerrors "github.com/ripenv/ripenv/internal/errors"
	"github.com/ripenv/ripenv/internal/ui"
	"github.com/ripenv/ripenv/internal/utils"

	"github.com/awnumar/memguard"
	"github.com/briandowns/spinner"
)

// passwordInput is read by --password-stdin. Tests replace it.
var passwordInput io.Reader = os.Stdin

// startSpinner creates and starts a spinner with the given message when not in verbose or debug mode.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do not need trailing newlines. The cleanup function
// calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(message string) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Print final message to stdout (for tests to capture).
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// readPassword reads a password from the first line of stdin or from the terminal.
// With confirm set, an interactive password is asked for twice.
//
// Returns ErrEmptyPassword, ErrPasswordMismatch or ErrTTYRequired.
func readPassword(fromStdin, confirm bool) ([]byte, error) {
	if fromStdin {
		Logger.Debugf("Reading password from stdin")
		password, err := utils.ReadLine(passwordInput)
		if err != nil {
			return nil, err
		}
		if len(password) == 0 {
			return nil, kerrors.ErrEmptyPassword
		}
		return password, nil
	}

	password, err := utils.ReadPassphrase("Password: ")
	if err != nil {
		return nil, err
	}
	if len(password) == 0 {
		return nil, kerrors.ErrEmptyPassword
	}
	if !confirm {
		return password, nil
	}

	confirmation, err := utils.ReadPassphrase("Confirm password: ")
	if err != nil {
		memguard.WipeBytes(password)
		return nil, err
	}
	defer memguard.WipeBytes(confirmation)
	if !bytes.Equal(password, confirmation) {
		memguard.WipeBytes(password)
		return nil, kerrors.ErrPasswordMismatch
	}
	return password, nil
}
