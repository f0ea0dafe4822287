package mdsimple

import "github.com/nerdneilsfield/docpipe/internal/document"

func init() {
	document.RegisterReader(Name, New)
}
