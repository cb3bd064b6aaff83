package main

import (
	"os"
	"os/signal"
	"syscall"
)

type ServeCmd struct {
}

func (c *ServeCmd) Run(ctx *appContext) error {
	sctx, stop := signal.NotifyContext(ctx.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return ctx.ws.Serve(sctx)
}
