package static

import _ "embed"

// Welcome is the plain-text body served at the root path.
//
//go:embed welcome.txt
var Welcome string
