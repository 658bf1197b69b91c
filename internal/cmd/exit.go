package cmd

import (
	"os"

	"go.uber.org/zap"
)

// ExitWithCode logs the failure and terminates with the given exit code.
// Used for unrecoverable CLI failures where returning an error would only
// produce a less specific exit status.
func ExitWithCode(logger *zap.Logger, code int, msg string, err error) {
	if err != nil {
		logger.Error(msg, zap.Error(err))
	} else {
		logger.Error(msg)
	}
	_ = logger.Sync()
	os.Exit(code)
}
