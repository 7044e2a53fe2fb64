package backup_test

import "fmt"

func errorf(sentinel error, reason string) error {
	return fmt.Errorf("%w: %s", sentinel, reason)
}
