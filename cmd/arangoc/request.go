package main

import (
	"fmt"
	"io"

	"github.com/indigo-web/arango/guard"
	"github.com/indigo-web/arango/http"
	"github.com/indigo-web/arango/http/method"
	"github.com/spf13/cobra"
)

func (a *app) newRequestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "request METHOD PATH [BODY]",
		Short: "Send a single request and print the response",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := method.Parse(args[0])
			if m == method.Unknown {
				return fmt.Errorf("unsupported method %q", args[0])
			}

			request := http.NewRequest(m, args[1])
			if len(args) == 3 {
				request.String(args[2])
			}

			var defaultGuard guard.Guard
			if a.failFast() {
				defaultGuard = guard.Success()
			}

			c, err := a.dial(cmd, defaultGuard)
			if err != nil {
				return err
			}
			defer c.Close()

			response, err := c.Do(request)
			if err != nil {
				return err
			}

			printResponse(cmd.OutOrStdout(), response)
			return nil
		},
	}
}

func printResponse(out io.Writer, response *http.Response) {
	fmt.Fprintf(out, "%s %d %s\n", response.Protocol, response.Code, response.Status)
	for key, value := range response.Headers.Pairs() {
		fmt.Fprintf(out, "%s: %s\n", key, value)
	}

	fmt.Fprintln(out)
	if len(response.Body) > 0 {
		fmt.Fprintln(out, response.String())
	}
}
