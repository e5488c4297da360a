// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"errors"
	"syscall"
)

// isFatalFsnotifyError reports resource exhaustion, after which the watcher
// cannot recover: the inotify watch limit (ENOSPC) or file descriptor limits
// (EMFILE, ENFILE).
func isFatalFsnotifyError(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
