package http

import "context"

func contextWithTraderID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, traderIDKey, id)
}

func traderIDFromContext(ctx context.Context) int64 {
	id, _ := ctx.Value(traderIDKey).(int64)
	return id
}
