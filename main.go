package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fjacquet/bill-merge/cmd/classify"
	"fjacquet/bill-merge/cmd/merge"
	"fjacquet/bill-merge/cmd/root"
	"fjacquet/bill-merge/cmd/rules"
	"fjacquet/bill-merge/cmd/summary"
)

func init() {
	root.Cmd.AddCommand(merge.Cmd)
	root.Cmd.AddCommand(classify.Cmd)
	root.Cmd.AddCommand(rules.Cmd)
	root.Cmd.AddCommand(summary.Cmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
