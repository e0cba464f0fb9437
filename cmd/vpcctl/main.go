// Package main is the entry point for the vpcctl CLI.
//
// vpcctl provisions an isolated AWS network (VPC, internet gateway, route
// table, subnets) with one bastion host per subnet from a YAML description,
// converges it idempotently on every run, and tears it down in dependency
// order.
//
// Commands: make-vpc, delete-vpc, check-credentials, status, graph.
//
// For detailed usage information, run:
//
//	vpcctl --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/vpcctl/cmd/vpcctl/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
