package gqlx

import "context"

// Secure runs guard before fn. When the guard fails fn is not called and the
// guard's error is returned as is.
func Secure(guard Guard, fn ResolverFunc) ResolverFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		ctx, err := guard(ctx)
		if err != nil {
			return nil, err
		}
		return fn(ctx, args)
	}
}
