package html

import "github.com/nerdneilsfield/docpipe/internal/document"

func init() {
	document.RegisterWriter(Name, New)
}
