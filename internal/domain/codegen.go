package domain

import "context"

// CodeGenerator produces an opaque scannable code for a seed string. The
// result may be a data-URI image or the URL of an uploaded asset; it is
// potentially slow and networked.
type CodeGenerator interface {
	Generate(ctx context.Context, seed string) (string, error)
}
