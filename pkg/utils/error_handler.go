package utils

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrorHandler logs err against message and returns the wrapped error, or nil
// when err is nil so it can wrap return statements directly.
func ErrorHandler(err error, message string) error {
	if err == nil {
		return nil
	}
	Logger.WithFields(logrus.Fields{
		"error": err.Error(),
	}).Error(message)
	return fmt.Errorf("%s: %w", message, err)
}
