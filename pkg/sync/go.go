package sync

import "github.com/kvsearch/qexec/pkg/safe"

// Go same to safe.GO.
func Go(fn func(), errfns ...func(error)) {
	safe.Go(fn, errfns...)
}
