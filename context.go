package jerify

import (
	"context"
)

type bodyKey struct{}

// parsedBody keeps a JSON null distinguishable from a missing value.
type parsedBody struct {
	doc any
}

func withBody(ctx context.Context, doc any) context.Context {
	return context.WithValue(ctx, bodyKey{}, parsedBody{doc: doc})
}

// Body returns the request document parsed by the guard. Numbers are
// json.Number values. ok is false outside a guarded handler.
func Body(ctx context.Context) (doc any, ok bool) {
	pb, ok := ctx.Value(bodyKey{}).(parsedBody)
	return pb.doc, ok
}
