//go:build !unix

package fsutil

import "errors"

func freeBytes(string) (uint64, error) {
	return 0, errors.ErrUnsupported
}
