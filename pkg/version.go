package pkg

import "fmt"

var (
	// These variables are here only to show current version. They are set in makefile during build process
	TimeleakVersion         = "devel"
	GitRevision             = "devel"
	TimeleakVersionRevision = fmt.Sprintf("%s-%s", TimeleakVersion, GitRevision)
)
