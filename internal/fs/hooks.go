package fs

import (
	"os"

	"golang.org/x/exp/mmap"
)

// Hooks used for testing (overridable)
var (
	openMapped = mmap.Open
	writeFile  = os.WriteFile
	stat       = os.Stat
	readDir    = os.ReadDir
	remove     = os.Remove
	rename     = os.Rename
	createTemp = os.CreateTemp
	mkdirAll   = os.MkdirAll
)
